package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zaidansari/attarmart-backend/api/controllers"
	"github.com/zaidansari/attarmart-backend/api/middleware"
	"github.com/zaidansari/attarmart-backend/internal/auth"
	"github.com/zaidansari/attarmart-backend/internal/cart"
	"github.com/zaidansari/attarmart-backend/internal/catalog"
	"github.com/zaidansari/attarmart-backend/internal/recommendations"
	"github.com/zaidansari/attarmart-backend/internal/wishlist"
	"github.com/zaidansari/attarmart-backend/pkg/auth/session"
	"github.com/zaidansari/attarmart-backend/pkg/config"
	"github.com/zaidansari/attarmart-backend/pkg/db"
	"github.com/zaidansari/attarmart-backend/pkg/logger"
	"github.com/zaidansari/attarmart-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	Sessions session.AccessSessionChecker
	Registry prometheus.Gatherer

	Auth            auth.Service
	Catalog         catalog.Service
	Cart            cart.Service
	Recommendations recommendations.Service
	Wishlist        wishlist.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).
			Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.With(
			middleware.AuthRateLimit(loginPolicy, deps.Redis, logg),
			middleware.Identity(cfg.JWT, deps.Sessions, logg),
		).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).
			Post("/logout", controllers.AuthLogout(deps.Auth, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(deps.Catalog, logg))
		r.Get("/{productId}", controllers.ProductDetail(deps.Catalog, logg))
		r.Get("/{productId}/related", controllers.RelatedProducts(deps.Recommendations, logg))
		r.Get("/{productId}/frequently-bought-together", controllers.FrequentlyBoughtTogether(deps.Recommendations, logg))
	})

	r.Route("/api/v1/recommendations", func(r chi.Router) {
		r.Get("/trending", controllers.TrendingProducts(deps.Recommendations, logg))
		r.Get("/new-arrivals", controllers.NewArrivals(deps.Recommendations, logg))
		r.With(middleware.Identity(cfg.JWT, deps.Sessions, logg)).
			Get("/personalized", controllers.PersonalizedRecommendations(deps.Recommendations, logg))
	})

	r.Route("/api/v1/recently-viewed", func(r chi.Router) {
		r.Use(middleware.Identity(cfg.JWT, deps.Sessions, logg))
		r.Get("/", controllers.RecentlyViewedList(deps.Recommendations, logg))
		r.Post("/", controllers.RecentlyViewedAdd(deps.Recommendations, logg))
		r.Delete("/", controllers.RecentlyViewedClear(deps.Recommendations, logg))
		r.Delete("/{productId}", controllers.RecentlyViewedRemove(deps.Recommendations, logg))
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.Identity(cfg.JWT, deps.Sessions, logg))
		r.Get("/", controllers.CartFetch(deps.Cart, logg))
		r.Delete("/", controllers.CartClear(deps.Cart, logg))
		r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
		r.Patch("/items/{itemId}", controllers.CartUpdateQuantity(deps.Cart, logg))
		r.Delete("/items/{itemId}", controllers.CartRemoveItem(deps.Cart, logg))
		r.Post("/merge", controllers.CartMerge(deps.Cart, logg))
	})

	r.Route("/api/v1/wishlist", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Get("/", controllers.WishlistList(deps.Wishlist, logg))
		r.Post("/", controllers.WishlistAdd(deps.Wishlist, logg))
		r.Delete("/{productId}", controllers.WishlistRemove(deps.Wishlist, logg))
	})

	return r
}
