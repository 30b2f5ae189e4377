package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/zaidansari/attarmart-backend/api/responses"
	"github.com/zaidansari/attarmart-backend/api/validators"
	cartsvc "github.com/zaidansari/attarmart-backend/internal/cart"
	pkgerrors "github.com/zaidansari/attarmart-backend/pkg/errors"
	"github.com/zaidansari/attarmart-backend/pkg/logger"
)

type cartAddRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	VariantID string    `json:"variant_id" validate:"omitempty,max=64"`
	Quantity  int       `json:"quantity" validate:"omitempty,min=1,max=99"`
}

type cartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"max=99"`
}

// CartFetch returns the shopper's current cart.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		identity, err := shopperIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.Get(r.Context(), identity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

// CartAddItem adds a product to the cart, merging into an existing line for
// the same product and variant.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		identity, err := shopperIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartAddRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if payload.Quantity == 0 {
			payload.Quantity = 1
		}

		snapshot, err := svc.AddItem(r.Context(), identity, cartsvc.AddParams{
			ProductID: payload.ProductID,
			VariantID: strings.TrimSpace(payload.VariantID),
			Quantity:  payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

// CartUpdateQuantity sets a line's quantity; zero removes the line.
func CartUpdateQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		identity, err := shopperIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID := strings.TrimSpace(chi.URLParam(r, "itemId"))
		if itemID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id is required"))
			return
		}

		var payload cartQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.UpdateQuantity(r.Context(), identity, itemID, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

// CartRemoveItem drops one line from the cart.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		identity, err := shopperIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		itemID := strings.TrimSpace(chi.URLParam(r, "itemId"))
		if itemID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "item id is required"))
			return
		}

		snapshot, err := svc.RemoveItem(r.Context(), identity, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

// CartClear empties every cart the shopper can reach.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		identity, err := shopperIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.Clear(r.Context(), identity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

// CartMerge folds the guest cart named by the X-Guest-Token header into the
// signed-in account. Exposed for retries after a failed login-time merge.
func CartMerge(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		identity, err := shopperIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !identity.Authenticated() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		snapshot, err := svc.MergeGuestCart(r.Context(), *identity.UserID, identity.GuestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}
