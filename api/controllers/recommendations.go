package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/zaidansari/attarmart-backend/api/responses"
	"github.com/zaidansari/attarmart-backend/api/validators"
	recsvc "github.com/zaidansari/attarmart-backend/internal/recommendations"
	pkgerrors "github.com/zaidansari/attarmart-backend/pkg/errors"
	"github.com/zaidansari/attarmart-backend/pkg/logger"
)

const maxRecommendationItems = 50

type recentlyViewedRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
}

// RelatedProducts lists products similar to the referenced one.
func RelatedProducts(svc recsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, limit, err := recommendationQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Related(r.Context(), productID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// FrequentlyBoughtTogether lists likely companion products.
func FrequentlyBoughtTogether(svc recsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, limit, err := recommendationQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.FrequentlyBoughtTogether(r.Context(), productID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// PersonalizedRecommendations ranks the catalog against the shopper's
// recently viewed products.
func PersonalizedRecommendations(svc recsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := viewerIdentity(r)
		if identity == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "guest token or authentication required"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", recsvc.DefaultMaxItems, 1, maxRecommendationItems)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Personalized(r.Context(), identity, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// TrendingProducts lists the current top-rated rotation.
func TrendingProducts(svc recsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", recsvc.DefaultMaxItems, 1, maxRecommendationItems)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.Trending(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// NewArrivals lists the newest products first.
func NewArrivals(svc recsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", recsvc.DefaultMaxItems, 1, maxRecommendationItems)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.NewArrivals(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// RecentlyViewedList returns the shopper's view history, newest first.
func RecentlyViewedList(svc recsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := viewerIdentity(r)
		if identity == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "guest token or authentication required"))
			return
		}

		entries, err := svc.RecentlyViewed(r.Context(), identity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

// RecentlyViewedAdd records a product view.
func RecentlyViewedAdd(svc recsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := viewerIdentity(r)
		if identity == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "guest token or authentication required"))
			return
		}

		var payload recentlyViewedRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.AddRecentlyViewed(r.Context(), identity, payload.ProductID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"status": "recorded"})
	}
}

// RecentlyViewedRemove drops one product from the history.
func RecentlyViewedRemove(svc recsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := viewerIdentity(r)
		if identity == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "guest token or authentication required"))
			return
		}

		productID, err := pathUUID(chi.URLParam(r, "productId"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.RemoveRecentlyViewed(r.Context(), identity, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

// RecentlyViewedClear deletes the shopper's entire view history.
func RecentlyViewedClear(svc recsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := viewerIdentity(r)
		if identity == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "guest token or authentication required"))
			return
		}

		if err := svc.ClearRecentlyViewed(r.Context(), identity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

func recommendationQuery(r *http.Request) (uuid.UUID, int, error) {
	productID, err := pathUUID(chi.URLParam(r, "productId"), "product id")
	if err != nil {
		return uuid.Nil, 0, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", recsvc.DefaultMaxItems, 1, maxRecommendationItems)
	if err != nil {
		return uuid.Nil, 0, err
	}
	return productID, limit, nil
}
