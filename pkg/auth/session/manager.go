package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/zaidansari/attarmart-backend/pkg/config"
	redisclient "github.com/zaidansari/attarmart-backend/pkg/redis"
)

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
}

// Manager tracks which access-token session ids are still live, so logout can
// revoke a JWT before it expires.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// AccessSessionChecker exposes the read-only surface needed by middleware.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, sessionID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.SessionTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	accessTTL := time.Duration(cfg.ExpirationMinutes) * time.Minute
	if ttl <= accessTTL {
		return nil, fmt.Errorf("session ttl (%s) must exceed access token ttl (%s)", ttl, accessTTL)
	}

	return &Manager{
		store: client,
		keyer: client,
		ttl:   ttl,
	}, nil
}

// Create registers a session marker for the provided session id.
func (m *Manager) Create(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.Set(ctx, m.keyer.SessionKey(sessionID), time.Now().UTC().Format(time.RFC3339), m.ttl)
}

// Revoke deletes the session marker tied to the session id.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	return m.store.Del(ctx, m.keyer.SessionKey(sessionID))
}

// HasSession reports whether the provided session id is still active.
func (m *Manager) HasSession(ctx context.Context, sessionID string) (bool, error) {
	if strings.TrimSpace(sessionID) == "" {
		return false, fmt.Errorf("session id is required")
	}
	if _, err := m.store.Get(ctx, m.keyer.SessionKey(sessionID)); err != nil {
		if errors.Is(err, redislib.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// NewSessionID produces a stable identifier used as the JWT jti/Redis key.
func NewSessionID() string {
	return uuid.NewString()
}
