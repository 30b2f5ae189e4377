package auth

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/zaidansari/attarmart-backend/internal/cart"
	"github.com/zaidansari/attarmart-backend/internal/users"
	"github.com/zaidansari/attarmart-backend/pkg/config"
	"github.com/zaidansari/attarmart-backend/pkg/db/models"
	pkgerrors "github.com/zaidansari/attarmart-backend/pkg/errors"
	"github.com/zaidansari/attarmart-backend/pkg/logger"
)

type fakeSessions struct {
	created []string
	revoked []string
}

func (f *fakeSessions) Create(ctx context.Context, sessionID string) error {
	f.created = append(f.created, sessionID)
	return nil
}

func (f *fakeSessions) Revoke(ctx context.Context, sessionID string) error {
	f.revoked = append(f.revoked, sessionID)
	return nil
}

type fakeCarts struct {
	mergeErr     error
	mergedGuest  string
	mergeResult  cart.Snapshot
	accountCarts map[uuid.UUID]cart.Snapshot
}

func (f *fakeCarts) MergeGuestCart(ctx context.Context, userID uuid.UUID, guestID string) (cart.Snapshot, error) {
	if f.mergeErr != nil {
		return cart.Snapshot{}, f.mergeErr
	}
	f.mergedGuest = guestID
	return f.mergeResult, nil
}

func (f *fakeCarts) Get(ctx context.Context, identity cart.Identity) (cart.Snapshot, error) {
	if identity.UserID != nil {
		if snap, ok := f.accountCarts[*identity.UserID]; ok {
			return snap, nil
		}
	}
	return cart.Snapshot{}, nil
}

func testPasswordConfig() config.PasswordConfig {
	// Minimal parameters keep the hashing fast in tests.
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "attarmart-test",
		ExpirationMinutes: 60,
		SessionTTLMinutes: 60,
	}
}

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func testAuthService(t *testing.T, sessions *fakeSessions, carts *fakeCarts) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		Users:    users.NewRepository(setupAuthTestDB(t)),
		Sessions: sessions,
		Carts:    carts,
		JWT:      testJWTConfig(),
		Password: testPasswordConfig(),
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	require.NoError(t, err)
	return svc
}

func register(t *testing.T, svc Service, email, password string) Profile {
	t.Helper()

	profile, err := svc.Register(context.Background(), RegisterParams{
		Email:     email,
		Password:  password,
		FirstName: "Zaid",
		LastName:  "Ansari",
	})
	require.NoError(t, err)
	return profile
}

func TestRegisterNormalizesEmailAndRejectsDuplicates(t *testing.T) {
	t.Parallel()

	svc := testAuthService(t, &fakeSessions{}, &fakeCarts{})
	profile := register(t, svc, "  Zaid@Example.COM ", "s3cret-pass")
	require.Equal(t, "zaid@example.com", profile.Email)

	_, err := svc.Register(context.Background(), RegisterParams{
		Email:    "zaid@example.com",
		Password: "another-pass",
	})
	require.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()

	svc := testAuthService(t, &fakeSessions{}, &fakeCarts{})
	register(t, svc, "zaid@example.com", "s3cret-pass")

	_, err := svc.Login(context.Background(), LoginParams{Email: "zaid@example.com", Password: "wrong"})
	require.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLoginUnknownEmail(t *testing.T) {
	t.Parallel()

	svc := testAuthService(t, &fakeSessions{}, &fakeCarts{})
	_, err := svc.Login(context.Background(), LoginParams{Email: "nobody@example.com", Password: "s3cret-pass"})
	require.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLoginMergesGuestCart(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{}
	carts := &fakeCarts{mergeResult: cart.Snapshot{ItemCount: 3}}
	svc := testAuthService(t, sessions, carts)
	register(t, svc, "zaid@example.com", "s3cret-pass")

	result, err := svc.Login(context.Background(), LoginParams{
		Email:    "zaid@example.com",
		Password: "s3cret-pass",
		GuestID:  "guest-token-1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.True(t, result.CartMerged)
	require.Equal(t, 3, result.Cart.ItemCount)
	require.Equal(t, "guest-token-1", carts.mergedGuest)
	require.Len(t, sessions.created, 1)
}

func TestLoginSucceedsWhenMergeFails(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{}
	carts := &fakeCarts{
		mergeErr:     pkgerrors.New(pkgerrors.CodeDependency, "redis down"),
		accountCarts: map[uuid.UUID]cart.Snapshot{},
	}
	svc := testAuthService(t, sessions, carts)
	profile := register(t, svc, "zaid@example.com", "s3cret-pass")
	carts.accountCarts[profile.ID] = cart.Snapshot{ItemCount: 2}

	result, err := svc.Login(context.Background(), LoginParams{
		Email:    "zaid@example.com",
		Password: "s3cret-pass",
		GuestID:  "guest-token-1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, result.Token)
	require.False(t, result.CartMerged)
	require.Equal(t, 2, result.Cart.ItemCount)
	require.Len(t, sessions.created, 1)
}

func TestLogoutRevokesSession(t *testing.T) {
	t.Parallel()

	sessions := &fakeSessions{}
	svc := testAuthService(t, sessions, &fakeCarts{})

	require.NoError(t, svc.Logout(context.Background(), "session-1"))
	require.Equal(t, []string{"session-1"}, sessions.revoked)

	err := svc.Logout(context.Background(), "")
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
