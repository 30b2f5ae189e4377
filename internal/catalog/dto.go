package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/zaidansari/attarmart-backend/pkg/db/models"
	"github.com/zaidansari/attarmart-backend/pkg/enums"
)

// ProductSummary is the catalog listing shape returned to storefront clients.
type ProductSummary struct {
	ID                  uuid.UUID             `json:"id"`
	Name                string                `json:"name"`
	Brand               string                `json:"brand"`
	Category            enums.ProductCategory `json:"category"`
	PriceCents          int                   `json:"price_cents"`
	CompareAtPriceCents *int                  `json:"compare_at_price_cents,omitempty"`
	Stock               int                   `json:"stock"`
	Rating              float64               `json:"rating"`
	RatingCount         int                   `json:"rating_count"`
	Tags                []string              `json:"tags,omitempty"`
	ImageURLs           []string              `json:"image_urls,omitempty"`
	IsFeatured          bool                  `json:"is_featured"`
	CreatedAt           time.Time             `json:"created_at"`
}

// ProductPage is one cursor page of catalog listings.
type ProductPage struct {
	Items  []ProductSummary `json:"items"`
	Cursor string           `json:"cursor,omitempty"`
}

// NewProductSummary maps the persisted product onto its listing shape.
func NewProductSummary(p models.Product) ProductSummary {
	return ProductSummary{
		ID:                  p.ID,
		Name:                p.Name,
		Brand:               p.Brand,
		Category:            p.Category,
		PriceCents:          p.PriceCents,
		CompareAtPriceCents: p.CompareAtPriceCents,
		Stock:               p.Stock,
		Rating:              p.Rating,
		RatingCount:         p.RatingCount,
		Tags:                p.Tags,
		ImageURLs:           p.ImageURLs,
		IsFeatured:          p.IsFeatured,
		CreatedAt:           p.CreatedAt,
	}
}
