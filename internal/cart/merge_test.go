package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zaidansari/attarmart-backend/pkg/db/models"
	pkgerrors "github.com/zaidansari/attarmart-backend/pkg/errors"
)

func testMergeService(t *testing.T, kv *fakeKV, products map[uuid.UUID]*models.Product) (Service, *gorm.DB) {
	t.Helper()

	db := setupCartTestDB(t)
	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(db),
		KV:       kv,
		Products: stubProducts{products: products},
		Logger:   testLogger(),
		Config:   testCartConfig(),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, db
}

func TestMergeGuestCartRequiresUser(t *testing.T) {
	t.Parallel()

	svc, _ := testMergeService(t, newFakeKV(), nil)
	_, err := svc.MergeGuestCart(context.Background(), uuid.Nil, "guest-1")
	if pkgerrors.As(err).Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestMergeGuestCartMovesAllLines(t *testing.T) {
	t.Parallel()

	productA := uuid.New()
	productB := uuid.New()
	kv := newFakeKV()
	svc, _ := testMergeService(t, kv, map[uuid.UUID]*models.Product{
		productA: activeProduct(productA, 500, 10),
		productB: activeProduct(productB, 900, 10),
	})

	guest := Identity{GuestID: "guest-1"}
	if _, err := svc.AddItem(context.Background(), guest, AddParams{ProductID: productA, Quantity: 2}); err != nil {
		t.Fatalf("add A: %v", err)
	}
	if _, err := svc.AddItem(context.Background(), guest, AddParams{ProductID: productB, Quantity: 1}); err != nil {
		t.Fatalf("add B: %v", err)
	}

	userID := uuid.New()
	snap, err := svc.MergeGuestCart(context.Background(), userID, "guest-1")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(snap.Items) != 2 {
		t.Fatalf("expected two merged lines, got %d", len(snap.Items))
	}
	if snap.ItemCount != 3 {
		t.Fatalf("expected item count 3, got %d", snap.ItemCount)
	}
	if _, ok := kv.data[kv.GuestCartKey("guest-1")]; ok {
		t.Fatal("expected guest cart key to be deleted after merge")
	}

	// A fresh authenticated load sees exactly the merged lines.
	account, err := svc.Get(context.Background(), Identity{UserID: &userID})
	if err != nil {
		t.Fatalf("get account cart: %v", err)
	}
	got := map[uuid.UUID]int{}
	for _, line := range account.Items {
		got[line.ProductID] = line.Quantity
	}
	if got[productA] != 2 || got[productB] != 1 {
		t.Fatalf("unexpected account lines: %v", got)
	}
}

func TestMergeGuestCartSumsWithExistingAccountLine(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	kv := newFakeKV()
	svc, _ := testMergeService(t, kv, map[uuid.UUID]*models.Product{
		productID: activeProduct(productID, 500, 10),
	})

	userID := uuid.New()
	if _, err := svc.AddItem(context.Background(), Identity{UserID: &userID}, AddParams{ProductID: productID, Quantity: 1}); err != nil {
		t.Fatalf("account add: %v", err)
	}
	if _, err := svc.AddItem(context.Background(), Identity{GuestID: "guest-1"}, AddParams{ProductID: productID, Quantity: 2}); err != nil {
		t.Fatalf("guest add: %v", err)
	}

	snap, err := svc.MergeGuestCart(context.Background(), userID, "guest-1")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if len(snap.Items) != 1 {
		t.Fatalf("expected one line, got %d", len(snap.Items))
	}
	if snap.Items[0].Quantity != 3 {
		t.Fatalf("expected summed quantity 3, got %d", snap.Items[0].Quantity)
	}
}

func TestMergeEmptyGuestCartIsNoop(t *testing.T) {
	t.Parallel()

	kv := newFakeKV()
	svc, db := testMergeService(t, kv, nil)

	userID := uuid.New()
	snap, err := svc.MergeGuestCart(context.Background(), userID, "guest-1")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if snap.ItemCount != 0 {
		t.Fatalf("expected empty snapshot, got count %d", snap.ItemCount)
	}
	if kv.delCalls != 0 {
		t.Fatalf("expected no guest key deletion, got %d", kv.delCalls)
	}

	var count int64
	if err := db.Model(&models.CartRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("count carts: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no account cart to be created, got %d", count)
	}
}

func TestMergeWithoutGuestIDReturnsAccountCart(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	svc, _ := testMergeService(t, newFakeKV(), map[uuid.UUID]*models.Product{
		productID: activeProduct(productID, 500, 10),
	})

	userID := uuid.New()
	if _, err := svc.AddItem(context.Background(), Identity{UserID: &userID}, AddParams{ProductID: productID, Quantity: 2}); err != nil {
		t.Fatalf("account add: %v", err)
	}

	snap, err := svc.MergeGuestCart(context.Background(), userID, "")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if snap.ItemCount != 2 {
		t.Fatalf("expected existing account cart back, got count %d", snap.ItemCount)
	}
}

func TestMergeFailureLeavesGuestCartIntact(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	kv := newFakeKV()
	svc, db := testMergeService(t, kv, map[uuid.UUID]*models.Product{
		productID: activeProduct(productID, 500, 10),
	})

	if _, err := svc.AddItem(context.Background(), Identity{GuestID: "guest-1"}, AddParams{ProductID: productID, Quantity: 2}); err != nil {
		t.Fatalf("guest add: %v", err)
	}

	// Breaking the items table makes the first transfer fail.
	if err := db.Migrator().DropTable(&models.CartItem{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	_, err := svc.MergeGuestCart(context.Background(), uuid.New(), "guest-1")
	if pkgerrors.As(err).Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if _, ok := kv.data[kv.GuestCartKey("guest-1")]; !ok {
		t.Fatal("expected guest cart to survive the failed merge")
	}
}
