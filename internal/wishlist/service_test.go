package wishlist

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/zaidansari/attarmart-backend/pkg/db/models"
	pkgerrors "github.com/zaidansari/attarmart-backend/pkg/errors"
	"github.com/zaidansari/attarmart-backend/pkg/pagination"
)

type stubProducts struct {
	products map[uuid.UUID]*models.Product
}

func (s stubProducts) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func setupWishlistTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.WishlistItem{}, &models.Product{}))
	return db
}

func testWishlist(t *testing.T) (Service, *gorm.DB, *models.Product) {
	t.Helper()

	db := setupWishlistTestDB(t)
	listing := &models.Product{
		Name:       "Royal Oudh",
		Brand:      "Al Haramain",
		PriceCents: 1000,
		Stock:      10,
		IsActive:   true,
	}
	require.NoError(t, db.Create(listing).Error)

	svc, err := NewService(NewRepository(db), stubProducts{
		products: map[uuid.UUID]*models.Product{listing.ID: listing},
	})
	require.NoError(t, err)
	return svc, db, listing
}

func TestAddIsIdempotent(t *testing.T) {
	t.Parallel()

	svc, db, listing := testWishlist(t)
	userID := uuid.New()

	require.NoError(t, svc.Add(context.Background(), userID, listing.ID))
	require.NoError(t, svc.Add(context.Background(), userID, listing.ID))

	var count int64
	require.NoError(t, db.Model(&models.WishlistItem{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestAddUnknownProduct(t *testing.T) {
	t.Parallel()

	svc, _, _ := testWishlist(t)
	err := svc.Add(context.Background(), uuid.New(), uuid.New())
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestAddRequiresUser(t *testing.T) {
	t.Parallel()

	svc, _, listing := testWishlist(t)
	err := svc.Add(context.Background(), uuid.Nil, listing.ID)
	require.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestRemoveMissingEntry(t *testing.T) {
	t.Parallel()

	svc, _, listing := testWishlist(t)
	err := svc.Remove(context.Background(), uuid.New(), listing.ID)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestRemoveDeletesEntry(t *testing.T) {
	t.Parallel()

	svc, _, listing := testWishlist(t)
	userID := uuid.New()

	require.NoError(t, svc.Add(context.Background(), userID, listing.ID))
	require.NoError(t, svc.Remove(context.Background(), userID, listing.ID))

	page, err := svc.List(context.Background(), userID, pagination.Params{})
	require.NoError(t, err)
	require.Empty(t, page.Items)
}

func TestListJoinsLiveProducts(t *testing.T) {
	t.Parallel()

	svc, db, listing := testWishlist(t)
	userID := uuid.New()
	require.NoError(t, svc.Add(context.Background(), userID, listing.ID))

	// An entry whose listing has since been deactivated keeps its row but
	// loses the product payload.
	retired := &models.Product{Name: "Retired", Brand: "Ajmal", PriceCents: 700, IsActive: true}
	require.NoError(t, db.Create(retired).Error)
	require.NoError(t, db.Create(&models.WishlistItem{UserID: userID, ProductID: retired.ID}).Error)
	require.NoError(t, db.Model(retired).Update("is_active", false).Error)

	page, err := svc.List(context.Background(), userID, pagination.Params{})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)

	byProduct := map[uuid.UUID]Entry{}
	for _, entry := range page.Items {
		byProduct[entry.ProductID] = entry
	}
	require.NotNil(t, byProduct[listing.ID].Product)
	require.Equal(t, listing.Name, byProduct[listing.ID].Product.Name)
	require.Nil(t, byProduct[retired.ID].Product)
}

func TestListPaginatesNewestFirst(t *testing.T) {
	t.Parallel()

	svc, db, _ := testWishlist(t)
	userID := uuid.New()

	base := time.Now().UTC().Add(-time.Hour)
	var newestProduct uuid.UUID
	for i := 0; i < 3; i++ {
		productID := uuid.New()
		item := &models.WishlistItem{UserID: userID, ProductID: productID}
		require.NoError(t, db.Create(item).Error)
		require.NoError(t, db.Model(item).Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
		newestProduct = productID
	}

	first, err := svc.List(context.Background(), userID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	require.NotEmpty(t, first.Cursor)
	require.Equal(t, newestProduct, first.Items[0].ProductID)

	second, err := svc.List(context.Background(), userID, pagination.Params{Limit: 2, Cursor: first.Cursor})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	require.Empty(t, second.Cursor)
}

func TestListRejectsBadCursor(t *testing.T) {
	t.Parallel()

	svc, _, _ := testWishlist(t)
	_, err := svc.List(context.Background(), uuid.New(), pagination.Params{Cursor: "not-base64!"})
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
