package users

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/zaidansari/attarmart-backend/pkg/db/models"
)

func setupUsersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "zaid@example.com", NormalizeEmail("  Zaid@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestFindByEmailNormalizesLookup(t *testing.T) {
	t.Parallel()

	repo := NewRepository(setupUsersTestDB(t))
	user := &models.User{
		Email:        "zaid@example.com",
		PasswordHash: "hash",
		FirstName:    "Zaid",
		LastName:     "Ansari",
		IsActive:     true,
	}
	require.NoError(t, repo.Create(context.Background(), user))

	found, err := repo.FindByEmail(context.Background(), "  ZAID@example.com ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByEmail(context.Background(), "other@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFindByID(t *testing.T) {
	t.Parallel()

	repo := NewRepository(setupUsersTestDB(t))
	user := &models.User{Email: "zaid@example.com", PasswordHash: "hash", IsActive: true}
	require.NoError(t, repo.Create(context.Background(), user))

	found, err := repo.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "zaid@example.com", found.Email)
}
