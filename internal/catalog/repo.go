package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zaidansari/attarmart-backend/pkg/db/models"
	"github.com/zaidansari/attarmart-backend/pkg/enums"
	"github.com/zaidansari/attarmart-backend/pkg/pagination"
)

// Repository encapsulates product catalog persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a catalog repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a single product regardless of active state.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListActive returns every active product, in catalog (creation) order. The
// recommendation scorer consumes this slice in memory.
func (r *Repository) ListActive(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Order("id ASC").
		Find(&products).
		Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

type listQuery struct {
	Category *enums.ProductCategory
	Cursor   *pagination.Cursor
	Limit    int
}

// List returns one cursor page of active products, newest first.
func (r *Repository) List(ctx context.Context, query listQuery) ([]models.Product, *pagination.Cursor, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("is_active = ?", true)

	if query.Category != nil {
		q = q.Where("category = ?", *query.Category)
	}
	if query.Cursor != nil {
		q = q.Where("(created_at < ?) OR (created_at = ? AND id < ?)", query.Cursor.CreatedAt, query.Cursor.CreatedAt, query.Cursor.ID)
	}

	var rows []models.Product
	err := q.Order("created_at DESC").Order("id DESC").Limit(query.Limit).Find(&rows).Error
	if err != nil {
		return nil, nil, err
	}

	normalized := query.Limit - 1
	var next *pagination.Cursor
	if normalized > 0 && len(rows) > normalized {
		rows = rows[:normalized]
		last := rows[len(rows)-1]
		next = &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return rows, next, nil
}
