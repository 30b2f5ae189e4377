package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zaidansari/attarmart-backend/api/routes"
	"github.com/zaidansari/attarmart-backend/internal/auth"
	"github.com/zaidansari/attarmart-backend/internal/cart"
	"github.com/zaidansari/attarmart-backend/internal/catalog"
	"github.com/zaidansari/attarmart-backend/internal/notifications"
	"github.com/zaidansari/attarmart-backend/internal/recommendations"
	"github.com/zaidansari/attarmart-backend/internal/users"
	"github.com/zaidansari/attarmart-backend/internal/wishlist"
	"github.com/zaidansari/attarmart-backend/pkg/auth/session"
	"github.com/zaidansari/attarmart-backend/pkg/config"
	"github.com/zaidansari/attarmart-backend/pkg/db"
	"github.com/zaidansari/attarmart-backend/pkg/logger"
	"github.com/zaidansari/attarmart-backend/pkg/metrics"
	"github.com/zaidansari/attarmart-backend/pkg/migrate"
	"github.com/zaidansari/attarmart-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	storefrontMetrics := metrics.NewStorefrontMetrics(registry)

	emitter := notifications.NewEmitter()
	emitter.Subscribe(func(event notifications.Event) {
		ctx := logg.WithFields(context.Background(), map[string]any{
			"kind":  event.Kind,
			"title": event.Title,
		})
		logg.Info(ctx, event.Message)
	})

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cart.ServiceParams{
		Repo:     cart.NewRepository(dbClient.DB()),
		KV:       redisClient,
		Products: catalogService,
		Logger:   logg,
		Metrics:  storefrontMetrics,
		Emitter:  emitter,
		Config:   cfg.Cart,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	history := recommendations.NewHistory(redisClient, cfg.Recommendations.HistoryCap, cfg.Recommendations.HistoryTTL, nil)
	history.Subscribe(func(identity string) {
		ctx := logg.WithField(context.Background(), "viewer", identity)
		logg.Info(ctx, "recently viewed history updated")
	})

	scorer := recommendations.NewScorer(time.Now().UnixNano(), cfg.Recommendations.MaxJitter)
	recommendationService, err := recommendations.NewService(recommendations.ServiceParams{
		Catalog: catalogService,
		Scorer:  scorer,
		History: history,
		Logger:  logg,
		Metrics: storefrontMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create recommendations service", err)
		os.Exit(1)
	}

	wishlistService, err := wishlist.NewService(wishlist.NewRepository(dbClient.DB()), catalogService)
	if err != nil {
		logg.Error(context.Background(), "failed to create wishlist service", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		Users:    users.NewRepository(dbClient.DB()),
		Sessions: sessionManager,
		Carts:    cartService,
		JWT:      cfg.JWT,
		Password: cfg.Password,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			DB:              dbClient,
			Redis:           redisClient,
			Sessions:        sessionManager,
			Registry:        registry,
			Auth:            authService,
			Catalog:         catalogService,
			Cart:            cartService,
			Recommendations: recommendationService,
			Wishlist:        wishlistService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
