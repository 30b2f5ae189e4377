package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem is one line of an account-backed cart. The product fields are a
// snapshot taken at add time, not a live reference.
type CartItem struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CartID          uuid.UUID `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:idx_cart_product_variant,priority:1"`
	ProductID       uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_product_variant,priority:2"`
	VariantID       string    `gorm:"column:variant_id;not null;default:'';uniqueIndex:idx_cart_product_variant,priority:3"`
	Quantity        int       `gorm:"column:quantity;not null"`
	ProductName     string    `gorm:"column:product_name;not null"`
	ProductBrand    string    `gorm:"column:product_brand;not null"`
	UnitPriceCents  int       `gorm:"column:unit_price_cents;not null"`
	ProductStock    int       `gorm:"column:product_stock;not null;default:0"`
	ProductImageURL *string   `gorm:"column:product_image_url"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
