package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zaidansari/attarmart-backend/pkg/db/models"
)

// Repository encapsulates account cart persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a cart repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindCartByUser loads the user's cart header without items.
func (r *Repository) FindCartByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	var record models.CartRecord
	if err := r.db.WithContext(ctx).First(&record, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// EnsureCart returns the user's cart header, creating it on first use.
func (r *Repository) EnsureCart(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	record, err := r.FindCartByUser(ctx, userID)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &models.CartRecord{UserID: userID}
	if err := r.db.WithContext(ctx).Create(created).Error; err != nil {
		return nil, err
	}
	return created, nil
}

// ListItems returns the cart's lines in insertion order.
func (r *Repository) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&items).
		Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FindItem locates the line for a (product, variant) pair within the cart.
func (r *Repository) FindItem(ctx context.Context, cartID, productID uuid.UUID, variantID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		First(&item, "cart_id = ? AND product_id = ? AND variant_id = ?", cartID, productID, variantID).
		Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem inserts a new cart line.
func (r *Repository) CreateItem(ctx context.Context, item *models.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// SetItemQuantity updates the quantity of an existing line.
func (r *Repository) SetItemQuantity(ctx context.Context, cartID uuid.UUID, itemID uuid.UUID, quantity int) error {
	return r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("cart_id = ? AND id = ?", cartID, itemID).
		Update("quantity", quantity).
		Error
}

// DeleteItem removes one line from the cart.
func (r *Repository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND id = ?", cartID, itemID).
		Delete(&models.CartItem{}).
		Error
}

// DeleteItems removes every line from the cart.
func (r *Repository) DeleteItems(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).
		Error
}
