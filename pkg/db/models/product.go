package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/zaidansari/attarmart-backend/pkg/enums"
)

// Product represents a catalog listing (attar, bakhoor, accessory...).
type Product struct {
	ID                  uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Name                string                `gorm:"column:name;not null"`
	Brand               string                `gorm:"column:brand;not null"`
	Category            enums.ProductCategory `gorm:"column:category;not null"`
	PriceCents          int                   `gorm:"column:price_cents;not null"`
	CompareAtPriceCents *int                  `gorm:"column:compare_at_price_cents"`
	Stock               int                   `gorm:"column:stock;not null;default:0"`
	Rating              float64               `gorm:"column:rating;not null;default:0"`
	RatingCount         int                   `gorm:"column:rating_count;not null;default:0"`
	Tags                pq.StringArray        `gorm:"column:tags;type:text[]"`
	ImageURLs           pq.StringArray        `gorm:"column:image_urls;type:text[]"`
	IsFeatured          bool                  `gorm:"column:is_featured;not null;default:false"`
	IsActive            bool                  `gorm:"column:is_active;not null;default:true"`
	CreatedAt           time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
