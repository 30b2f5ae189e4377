package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zaidansari/attarmart-backend/pkg/db/models"
	"github.com/zaidansari/attarmart-backend/pkg/pagination"
)

// Repository encapsulates wishlist persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type listQuery struct {
	UserID uuid.UUID
	Cursor *pagination.Cursor
	Limit  int
}

// List returns one buffered page of wishlist entries, newest first, plus the
// cursor for the following page when one exists.
func (r *Repository) List(ctx context.Context, query listQuery) ([]models.WishlistItem, *pagination.Cursor, error) {
	tx := r.db.WithContext(ctx).
		Where("user_id = ?", query.UserID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(query.Limit)

	if query.Cursor != nil {
		tx = tx.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			query.Cursor.CreatedAt, query.Cursor.CreatedAt, query.Cursor.ID,
		)
	}

	var items []models.WishlistItem
	if err := tx.Find(&items).Error; err != nil {
		return nil, nil, err
	}

	var next *pagination.Cursor
	if query.Limit > 1 && len(items) == query.Limit {
		items = items[:query.Limit-1]
		last := items[len(items)-1]
		next = &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return items, next, nil
}

// Find returns the entry for the (user, product) pair.
func (r *Repository) Find(ctx context.Context, userID, productID uuid.UUID) (*models.WishlistItem, error) {
	var item models.WishlistItem
	err := r.db.WithContext(ctx).
		First(&item, "user_id = ? AND product_id = ?", userID, productID).
		Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a new wishlist entry.
func (r *Repository) Create(ctx context.Context, item *models.WishlistItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Delete removes the (user, product) entry and reports whether a row existed.
func (r *Repository) Delete(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.WishlistItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ProductsByIDs loads the products referenced by a page of entries.
func (r *Repository) ProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&products).
		Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
