package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/zaidansari/attarmart-backend/api/middleware"
	"github.com/zaidansari/attarmart-backend/internal/cart"
	pkgerrors "github.com/zaidansari/attarmart-backend/pkg/errors"
)

// shopperIdentity builds the cart identity from the request context.
func shopperIdentity(r *http.Request) (cart.Identity, error) {
	identity := cart.Identity{GuestID: middleware.GuestIDFromContext(r.Context())}
	if raw := middleware.UserIDFromContext(r.Context()); raw != "" {
		userID, err := uuid.Parse(raw)
		if err != nil {
			return cart.Identity{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
		}
		identity.UserID = &userID
	}
	return identity, nil
}

// authedUserID returns the signed-in user's id or an unauthorized error.
func authedUserID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return userID, nil
}

// viewerIdentity is the key recommendations personalize on: the user id for
// signed-in shoppers, the guest token otherwise.
func viewerIdentity(r *http.Request) string {
	if userID := middleware.UserIDFromContext(r.Context()); userID != "" {
		return userID
	}
	return middleware.GuestIDFromContext(r.Context())
}

// pathUUID parses a chi URL parameter as a UUID.
func pathUUID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field)
	}
	return id, nil
}
