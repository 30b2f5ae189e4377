package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/zaidansari/attarmart-backend/pkg/config"
)

func tokenConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "attarmart-test",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := tokenConfig()
	userID := uuid.New()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: userID,
		Email:  "zaid@example.com",
		JTI:    "session-1",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user %s, got %s", userID, claims.UserID)
	}
	if claims.Email != "zaid@example.com" {
		t.Fatalf("unexpected email %s", claims.Email)
	}
	if claims.ID != "session-1" {
		t.Fatalf("expected session jti, got %s", claims.ID)
	}
}

func TestMintRequiresUserID(t *testing.T) {
	t.Parallel()

	if _, err := MintAccessToken(tokenConfig(), time.Now(), AccessTokenPayload{}); err == nil {
		t.Fatal("expected an error without a user id")
	}
}

func TestMintGeneratesJTIWhenMissing(t *testing.T) {
	t.Parallel()

	cfg := tokenConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.ID == "" {
		t.Fatal("expected a generated jti")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	cfg := tokenConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := cfg
	other.Secret = "different-secret"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected parse to fail with the wrong secret")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	cfg := tokenConfig()
	token, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected parse to fail for an expired token")
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	other := tokenConfig()
	other.Issuer = "someone-else"
	token, err := MintAccessToken(other, time.Now(), AccessTokenPayload{UserID: uuid.New()})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseAccessToken(tokenConfig(), token); err == nil {
		t.Fatal("expected parse to fail for a foreign issuer")
	}
}
