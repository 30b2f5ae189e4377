package cart

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/zaidansari/attarmart-backend/pkg/db/models"
)

// ProductSnapshot embeds the product data a cart line was created with. It is
// a copy, not a live reference; price changes after add do not move the line.
type ProductSnapshot struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Brand      string    `json:"brand"`
	PriceCents int       `json:"price_cents"`
	Stock      int       `json:"stock"`
	ImageURL   *string   `json:"image_url,omitempty"`
}

func (p ProductSnapshot) missing() bool {
	return p.ID == uuid.Nil
}

// Line is one cart entry, identical in shape for guest and account carts.
type Line struct {
	ID        string          `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	VariantID string          `json:"variant_id,omitempty"`
	Quantity  int             `json:"quantity"`
	Product   ProductSnapshot `json:"product"`
}

// Snapshot is the cart state handed to callers after any load or mutation.
type Snapshot struct {
	Items     []Line          `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"item_count"`
}

// Identity names the shopper a request acts for. GuestID may be set alongside
// UserID: an authenticated request still carries its pre-login guest token so
// Clear and the merge can reach the guest cart.
type Identity struct {
	UserID  *uuid.UUID
	GuestID string
}

// Authenticated reports whether the identity belongs to a signed-in customer.
func (i Identity) Authenticated() bool {
	return i.UserID != nil && *i.UserID != uuid.Nil
}

func snapshotFromProduct(p *models.Product) ProductSnapshot {
	snap := ProductSnapshot{
		ID:         p.ID,
		Name:       p.Name,
		Brand:      p.Brand,
		PriceCents: p.PriceCents,
		Stock:      p.Stock,
	}
	if len(p.ImageURLs) > 0 {
		url := p.ImageURLs[0]
		snap.ImageURL = &url
	}
	return snap
}

// guestLineID builds the client-style composite identifier for guest lines.
func guestLineID(productID uuid.UUID, variantID string, now time.Time) string {
	if variantID == "" {
		return fmt.Sprintf("%s-%d", productID, now.UnixMilli())
	}
	return fmt.Sprintf("%s-%s-%d", productID, variantID, now.UnixMilli())
}

var cents = decimal.NewFromInt(100)

// buildSnapshot derives subtotal and item count from the lines. Lines whose
// product snapshot is missing are excluded from the subtotal but still count
// toward quantities; skipped line ids are returned for logging.
func buildSnapshot(lines []Line) (Snapshot, []string) {
	subtotal := decimal.Zero
	count := 0
	var skipped []string

	for _, line := range lines {
		count += line.Quantity
		if line.Product.missing() {
			skipped = append(skipped, line.ID)
			continue
		}
		lineTotal := decimal.NewFromInt(int64(line.Product.PriceCents)).
			Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
	}

	if lines == nil {
		lines = []Line{}
	}
	return Snapshot{
		Items:     lines,
		Subtotal:  subtotal.Div(cents),
		ItemCount: count,
	}, skipped
}
