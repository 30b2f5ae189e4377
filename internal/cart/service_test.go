package cart

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/zaidansari/attarmart-backend/pkg/config"
	"github.com/zaidansari/attarmart-backend/pkg/db/models"
	pkgerrors "github.com/zaidansari/attarmart-backend/pkg/errors"
	"github.com/zaidansari/attarmart-backend/pkg/logger"
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

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func testCartConfig() config.CartConfig {
	return config.CartConfig{GuestTTL: time.Hour, MaxLineQty: 99, MaxLineCount: 100}
}

func activeProduct(id uuid.UUID, priceCents, stock int) *models.Product {
	return &models.Product{
		ID:         id,
		Name:       "Royal Oudh",
		Brand:      "Al Haramain",
		PriceCents: priceCents,
		Stock:      stock,
		IsActive:   true,
	}
}

func testService(t *testing.T, kv *fakeKV, products map[uuid.UUID]*models.Product) Service {
	t.Helper()

	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(setupCartTestDB(t)),
		KV:       kv,
		Products: stubProducts{products: products},
		Logger:   testLogger(),
		Config:   testCartConfig(),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewService(ServiceParams{})
	if pkgerrors.As(err).Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestGetRequiresIdentity(t *testing.T) {
	t.Parallel()

	svc := testService(t, newFakeKV(), nil)
	_, err := svc.Get(context.Background(), Identity{})
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAddItemValidatesInput(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	svc := testService(t, newFakeKV(), map[uuid.UUID]*models.Product{
		productID: activeProduct(productID, 500, 10),
	})
	identity := Identity{GuestID: "guest-1"}

	cases := []struct {
		name   string
		params AddParams
		code   pkgerrors.Code
	}{
		{"missing product id", AddParams{Quantity: 1}, pkgerrors.CodeValidation},
		{"zero quantity", AddParams{ProductID: productID}, pkgerrors.CodeValidation},
		{"quantity above cap", AddParams{ProductID: productID, Quantity: 100}, pkgerrors.CodeValidation},
		{"unknown product", AddParams{ProductID: uuid.New(), Quantity: 1}, pkgerrors.CodeNotFound},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.AddItem(context.Background(), identity, tc.params)
			if pkgerrors.As(err).Code() != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestAddItemRejectsOutOfStock(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	svc := testService(t, newFakeKV(), map[uuid.UUID]*models.Product{
		productID: activeProduct(productID, 500, 0),
	})

	_, err := svc.AddItem(context.Background(), Identity{GuestID: "guest-1"}, AddParams{
		ProductID: productID,
		Quantity:  1,
	})
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for out-of-stock product, got %v", err)
	}
}

func TestAddItemGuestSumsQuantities(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	kv := newFakeKV()
	svc := testService(t, kv, map[uuid.UUID]*models.Product{
		productID: activeProduct(productID, 500, 10),
	})
	identity := Identity{GuestID: "guest-1"}

	if _, err := svc.AddItem(context.Background(), identity, AddParams{ProductID: productID, Quantity: 1}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	snap, err := svc.AddItem(context.Background(), identity, AddParams{ProductID: productID, Quantity: 2})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(snap.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(snap.Items))
	}
	if snap.Items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", snap.Items[0].Quantity)
	}
	if snap.Subtotal.String() != "15" {
		t.Fatalf("expected subtotal 15.00, got %s", snap.Subtotal)
	}
	if snap.ItemCount != 3 {
		t.Fatalf("expected item count 3, got %d", snap.ItemCount)
	}
	if _, ok := kv.data[kv.GuestCartKey("guest-1")]; !ok {
		t.Fatal("expected guest cart blob to be persisted")
	}
}

func TestAddItemAccountSumsQuantities(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	userID := uuid.New()
	svc := testService(t, newFakeKV(), map[uuid.UUID]*models.Product{
		productID: activeProduct(productID, 1250, 10),
	})
	identity := Identity{UserID: &userID}

	if _, err := svc.AddItem(context.Background(), identity, AddParams{ProductID: productID, Quantity: 2}); err != nil {
		t.Fatalf("first add: %v", err)
	}
	snap, err := svc.AddItem(context.Background(), identity, AddParams{ProductID: productID, Quantity: 3})
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(snap.Items) != 1 {
		t.Fatalf("expected one merged row, got %d", len(snap.Items))
	}
	if snap.Items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", snap.Items[0].Quantity)
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	svc := testService(t, newFakeKV(), map[uuid.UUID]*models.Product{
		productID: activeProduct(productID, 500, 10),
	})
	identity := Identity{GuestID: "guest-1"}

	snap, err := svc.AddItem(context.Background(), identity, AddParams{ProductID: productID, Quantity: 2})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	updated, err := svc.UpdateQuantity(context.Background(), identity, snap.Items[0].ID, 0)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(updated.Items) != 0 || updated.ItemCount != 0 {
		t.Fatalf("expected empty cart, got %+v", updated)
	}
}

func TestRemoveItemRequiresLineID(t *testing.T) {
	t.Parallel()

	svc := testService(t, newFakeKV(), nil)
	_, err := svc.RemoveItem(context.Background(), Identity{GuestID: "guest-1"}, "")
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClearEmptiesBothStores(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	userID := uuid.New()
	kv := newFakeKV()
	svc := testService(t, kv, map[uuid.UUID]*models.Product{
		productID: activeProduct(productID, 500, 10),
	})

	if _, err := svc.AddItem(context.Background(), Identity{GuestID: "guest-1"}, AddParams{ProductID: productID, Quantity: 1}); err != nil {
		t.Fatalf("guest add: %v", err)
	}
	if _, err := svc.AddItem(context.Background(), Identity{UserID: &userID}, AddParams{ProductID: productID, Quantity: 1}); err != nil {
		t.Fatalf("account add: %v", err)
	}

	snap, err := svc.Clear(context.Background(), Identity{UserID: &userID, GuestID: "guest-1"})
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if snap.ItemCount != 0 {
		t.Fatalf("expected empty snapshot, got count %d", snap.ItemCount)
	}
	if _, ok := kv.data[kv.GuestCartKey("guest-1")]; ok {
		t.Fatal("expected guest cart key to be deleted")
	}
	if account, err := svc.Get(context.Background(), Identity{UserID: &userID}); err != nil || account.ItemCount != 0 {
		t.Fatalf("expected empty account cart, got %+v (err %v)", account, err)
	}
}

func TestClearRequiresIdentity(t *testing.T) {
	t.Parallel()

	svc := testService(t, newFakeKV(), nil)
	_, err := svc.Clear(context.Background(), Identity{})
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
