package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestBuildSnapshotCountsEveryLine(t *testing.T) {
	t.Parallel()

	productA := uuid.New()
	productB := uuid.New()
	lines := []Line{
		{ID: "a", ProductID: productA, Quantity: 2, Product: ProductSnapshot{ID: productA, PriceCents: 500}},
		{ID: "b", ProductID: productB, Quantity: 3, Product: ProductSnapshot{ID: productB, PriceCents: 200}},
	}

	snap, skipped := buildSnapshot(lines)
	if len(skipped) != 0 {
		t.Fatalf("unexpected skipped lines: %v", skipped)
	}
	if snap.ItemCount != 5 {
		t.Fatalf("expected item count 5, got %d", snap.ItemCount)
	}
	if !snap.Subtotal.Equal(decimal.NewFromInt(16)) {
		t.Fatalf("expected subtotal 16.00, got %s", snap.Subtotal)
	}
}

func TestBuildSnapshotSkipsMissingProductFromSubtotal(t *testing.T) {
	t.Parallel()

	productID := uuid.New()
	lines := []Line{
		{ID: "ok", ProductID: productID, Quantity: 1, Product: ProductSnapshot{ID: productID, PriceCents: 500}},
		{ID: "broken", ProductID: uuid.New(), Quantity: 2},
	}

	snap, skipped := buildSnapshot(lines)
	if len(skipped) != 1 || skipped[0] != "broken" {
		t.Fatalf("expected the broken line to be skipped, got %v", skipped)
	}
	if snap.ItemCount != 3 {
		t.Fatalf("expected item count to include the broken line, got %d", snap.ItemCount)
	}
	if !snap.Subtotal.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("expected subtotal 5.00, got %s", snap.Subtotal)
	}
}

func TestBuildSnapshotEmptyCart(t *testing.T) {
	t.Parallel()

	snap, skipped := buildSnapshot(nil)
	if len(skipped) != 0 {
		t.Fatalf("unexpected skipped lines: %v", skipped)
	}
	if snap.Items == nil {
		t.Fatal("expected non-nil items slice for json encoding")
	}
	if snap.ItemCount != 0 || !snap.Subtotal.Equal(decimal.Zero) {
		t.Fatalf("expected zero totals, got %+v", snap)
	}
}
