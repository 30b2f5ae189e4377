package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zaidansari/attarmart-backend/internal/cart"
	"github.com/zaidansari/attarmart-backend/internal/users"
	pkgauth "github.com/zaidansari/attarmart-backend/pkg/auth"
	"github.com/zaidansari/attarmart-backend/pkg/auth/session"
	"github.com/zaidansari/attarmart-backend/pkg/config"
	"github.com/zaidansari/attarmart-backend/pkg/db/models"
	pkgerrors "github.com/zaidansari/attarmart-backend/pkg/errors"
	"github.com/zaidansari/attarmart-backend/pkg/logger"
	"github.com/zaidansari/attarmart-backend/pkg/security"
)

// RegisterParams carries a signup request.
type RegisterParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// LoginParams carries a login request. GuestID, when present, is the guest
// token the shopper browsed with before signing in; its cart merges into the
// account as part of the login.
type LoginParams struct {
	Email    string
	Password string
	GuestID  string
}

// Profile is the account shape returned to clients.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

// LoginResult bundles the session token with the post-merge cart state.
// CartMerged is false when the guest cart could not be merged; the login
// itself still succeeds and the guest cart stays intact for a retry.
type LoginResult struct {
	Token      string        `json:"token"`
	User       Profile       `json:"user"`
	Cart       cart.Snapshot `json:"cart"`
	CartMerged bool          `json:"cart_merged"`
}

// cartMerger is the slice of the cart service the login flow needs.
type cartMerger interface {
	MergeGuestCart(ctx context.Context, userID uuid.UUID, guestID string) (cart.Snapshot, error)
	Get(ctx context.Context, identity cart.Identity) (cart.Snapshot, error)
}

// sessionManager is the slice of the session layer the auth flow needs.
type sessionManager interface {
	Create(ctx context.Context, sessionID string) error
	Revoke(ctx context.Context, sessionID string) error
}

// Service implements account signup, login, and logout.
type Service interface {
	Register(ctx context.Context, params RegisterParams) (Profile, error)
	Login(ctx context.Context, params LoginParams) (LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
}

// ServiceParams lists the dependencies for NewService.
type ServiceParams struct {
	Users    *users.Repository
	Sessions sessionManager
	Carts    cartMerger
	JWT      config.JWTConfig
	Password config.PasswordConfig
	Logger   *logger.Logger
	Now      func() time.Time
}

type service struct {
	users    *users.Repository
	sessions sessionManager
	carts    cartMerger
	jwt      config.JWTConfig
	password config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the auth service.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "user repository required")
	}
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "session manager required")
	}
	if params.Carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart service required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		users:    params.Users,
		sessions: params.Sessions,
		carts:    params.Carts,
		jwt:      params.JWT,
		password: params.Password,
		logg:     params.Logger,
		now:      params.Now,
	}, nil
}

// Register creates a new customer account.
func (s *service) Register(ctx context.Context, params RegisterParams) (Profile, error) {
	email := users.NormalizeEmail(params.Email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return Profile{}, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Profile{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	}

	hash, err := security.HashPassword(params.Password, s.password)
	if err != nil {
		return Profile{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return Profile{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return profileOf(user), nil
}

// Login verifies credentials, opens a session, and folds any guest cart into
// the account. A merge failure downgrades to CartMerged=false rather than
// failing the login.
func (s *service) Login(ctx context.Context, params LoginParams) (LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return LoginResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !user.IsActive {
		return LoginResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	match, err := security.VerifyPassword(params.Password, user.PasswordHash)
	if err != nil {
		return LoginResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !match {
		return LoginResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	sessionID := session.NewSessionID()
	token, err := pkgauth.MintAccessToken(s.jwt, s.now(), pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		JTI:    sessionID,
	})
	if err != nil {
		return LoginResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}
	if err := s.sessions.Create(ctx, sessionID); err != nil {
		return LoginResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create session")
	}

	result := LoginResult{Token: token, User: profileOf(user)}

	snapshot, mergeErr := s.carts.MergeGuestCart(ctx, user.ID, params.GuestID)
	if mergeErr != nil {
		s.logg.Error(s.logg.WithUserID(ctx, user.ID.String()), "guest cart merge failed on login", mergeErr)
		if current, loadErr := s.carts.Get(ctx, cart.Identity{UserID: &user.ID}); loadErr == nil {
			result.Cart = current
		}
		return result, nil
	}

	result.Cart = snapshot
	result.CartMerged = true
	return result, nil
}

// Logout revokes the session so the token stops validating immediately.
func (s *service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	return nil
}

func profileOf(user *models.User) Profile {
	return Profile{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}
