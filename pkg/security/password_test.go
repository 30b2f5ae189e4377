package security

import (
	"errors"
	"testing"

	"github.com/zaidansari/attarmart-backend/pkg/config"
)

func fastParams() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerify(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("s3cret-pass", fastParams())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	match, err := VerifyPassword("s3cret-pass", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !match {
		t.Fatal("expected the original password to match")
	}

	match, err = VerifyPassword("wrong-pass", hash)
	if err != nil {
		t.Fatalf("verify wrong: %v", err)
	}
	if match {
		t.Fatal("expected a wrong password to fail")
	}
}

func TestHashesAreSalted(t *testing.T) {
	t.Parallel()

	first, err := HashPassword("s3cret-pass", fastParams())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := HashPassword("s3cret-pass", fastParams())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct salts to produce distinct hashes")
	}
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	t.Parallel()

	if _, err := HashPassword("", fastParams()); err == nil {
		t.Fatal("expected an error for an empty password")
	}
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	t.Parallel()

	if _, err := VerifyPassword("whatever", "not-an-argon2id-hash"); !errors.Is(err, ErrInvalidHash) {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
}
