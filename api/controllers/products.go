package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/zaidansari/attarmart-backend/api/responses"
	"github.com/zaidansari/attarmart-backend/api/validators"
	"github.com/zaidansari/attarmart-backend/internal/catalog"
	pkgerrors "github.com/zaidansari/attarmart-backend/pkg/errors"
	"github.com/zaidansari/attarmart-backend/pkg/logger"
	"github.com/zaidansari/attarmart-backend/pkg/pagination"
)

// ProductList returns one cursor page of active catalog listings.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.ListProducts(r.Context(), catalog.ListParams{
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			Limit:    limit,
			Cursor:   strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// ProductDetail returns one active product.
func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := pathUUID(chi.URLParam(r, "productId"), "product id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, catalog.NewProductSummary(*product))
	}
}
