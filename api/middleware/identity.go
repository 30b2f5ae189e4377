package middleware

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/zaidansari/attarmart-backend/api/responses"
	pkgAuth "github.com/zaidansari/attarmart-backend/pkg/auth"
	"github.com/zaidansari/attarmart-backend/pkg/auth/session"
	"github.com/zaidansari/attarmart-backend/pkg/config"
	pkgerrors "github.com/zaidansari/attarmart-backend/pkg/errors"
	"github.com/zaidansari/attarmart-backend/pkg/logger"
)

const guestTokenHeader = "X-Guest-Token"

// guestTokenPattern bounds the client-generated token so it is safe to use
// inside a Redis key.
var guestTokenPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

// Auth validates a bearer token and seeds the request context with the
// claims. Requests without valid credentials are rejected.
func Auth(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			ctx, err := authenticate(r.Context(), cfg, verifier, logg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			ctx = withGuestToken(ctx, r, logg)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Identity resolves the shopper for dual-mode endpoints. A bearer token, when
// present, must be valid; otherwise the request may proceed as a guest via
// the X-Guest-Token header. Requests carrying neither still pass through so
// services can answer with their own unauthorized error.
func Identity(cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if token := bearerToken(r); token != "" {
				authed, err := authenticate(ctx, cfg, verifier, logg, token)
				if err != nil {
					responses.WriteError(ctx, logg, w, err)
					return
				}
				ctx = authed
			}

			ctx = withGuestToken(ctx, r, logg)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}

func authenticate(ctx context.Context, cfg config.JWTConfig, verifier session.AccessSessionChecker, logg *logger.Logger, token string) (context.Context, error) {
	claims, err := pkgAuth.ParseAccessToken(cfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}

	if verifier != nil {
		ok, err := verifier.HasSession(ctx, claims.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session")
		}
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable")
		}
	}

	ctx = WithUserID(ctx, claims.UserID.String())
	ctx = WithSessionID(ctx, claims.ID)
	if logg != nil {
		ctx = logg.WithUserID(ctx, claims.UserID.String())
	}
	return ctx, nil
}

// withGuestToken copies a well-formed guest token from the header into the
// context. Malformed tokens are ignored rather than rejected; the shopper
// simply proceeds without a guest cart.
func withGuestToken(ctx context.Context, r *http.Request, logg *logger.Logger) context.Context {
	guestID := strings.TrimSpace(r.Header.Get(guestTokenHeader))
	if guestID == "" {
		return ctx
	}
	if !guestTokenPattern.MatchString(guestID) {
		if logg != nil {
			logg.Warn(ctx, "ignoring malformed guest token header")
		}
		return ctx
	}
	ctx = WithGuestID(ctx, guestID)
	if logg != nil {
		ctx = logg.WithGuestID(ctx, guestID)
	}
	return ctx
}
