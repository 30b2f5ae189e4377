package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/zaidansari/attarmart-backend/pkg/db/models"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.CartRecord{}, &models.CartItem{}))
	return db
}

func TestEnsureCartIsIdempotent(t *testing.T) {
	t.Parallel()

	repo := NewRepository(setupCartTestDB(t))
	userID := uuid.New()

	first, err := repo.EnsureCart(context.Background(), userID)
	require.NoError(t, err)
	second, err := repo.EnsureCart(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, userID, second.UserID)
}

func TestFindItemMatchesProductAndVariant(t *testing.T) {
	t.Parallel()

	repo := NewRepository(setupCartTestDB(t))
	record, err := repo.EnsureCart(context.Background(), uuid.New())
	require.NoError(t, err)

	productID := uuid.New()
	require.NoError(t, repo.CreateItem(context.Background(), &models.CartItem{
		CartID:    record.ID,
		ProductID: productID,
		VariantID: "12ml",
		Quantity:  2,
	}))

	found, err := repo.FindItem(context.Background(), record.ID, productID, "12ml")
	require.NoError(t, err)
	assert.Equal(t, 2, found.Quantity)

	_, err = repo.FindItem(context.Background(), record.ID, productID, "24ml")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSetItemQuantityScopedToCart(t *testing.T) {
	t.Parallel()

	repo := NewRepository(setupCartTestDB(t))
	record, err := repo.EnsureCart(context.Background(), uuid.New())
	require.NoError(t, err)

	item := &models.CartItem{CartID: record.ID, ProductID: uuid.New(), Quantity: 1}
	require.NoError(t, repo.CreateItem(context.Background(), item))

	require.NoError(t, repo.SetItemQuantity(context.Background(), record.ID, item.ID, 5))
	found, err := repo.FindItem(context.Background(), record.ID, item.ProductID, "")
	require.NoError(t, err)
	assert.Equal(t, 5, found.Quantity)

	// An update keyed to another cart must not touch the row.
	require.NoError(t, repo.SetItemQuantity(context.Background(), uuid.New(), item.ID, 9))
	found, err = repo.FindItem(context.Background(), record.ID, item.ProductID, "")
	require.NoError(t, err)
	assert.Equal(t, 5, found.Quantity)
}

func TestDeleteItemsEmptiesCart(t *testing.T) {
	t.Parallel()

	repo := NewRepository(setupCartTestDB(t))
	record, err := repo.EnsureCart(context.Background(), uuid.New())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.CreateItem(context.Background(), &models.CartItem{
			CartID:    record.ID,
			ProductID: uuid.New(),
			Quantity:  1,
		}))
	}

	require.NoError(t, repo.DeleteItems(context.Background(), record.ID))
	items, err := repo.ListItems(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
