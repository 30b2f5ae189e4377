package wishlist

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zaidansari/attarmart-backend/internal/catalog"
	"github.com/zaidansari/attarmart-backend/pkg/db/models"
	pkgerrors "github.com/zaidansari/attarmart-backend/pkg/errors"
	"github.com/zaidansari/attarmart-backend/pkg/pagination"
)

// Entry is one wishlist row joined with its live product listing. Product is
// nil when the listing has since been removed from the catalog.
type Entry struct {
	ID        uuid.UUID               `json:"id"`
	ProductID uuid.UUID               `json:"product_id"`
	AddedAt   time.Time               `json:"added_at"`
	Product   *catalog.ProductSummary `json:"product,omitempty"`
}

// Page is one cursor page of wishlist entries.
type Page struct {
	Items  []Entry `json:"items"`
	Cursor string  `json:"cursor,omitempty"`
}

// productLoader is the slice of the catalog the wishlist needs.
type productLoader interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service manages per-user wishlists.
type Service interface {
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (Page, error)
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
}

type service struct {
	repo     *Repository
	products productLoader
}

// NewService builds a wishlist service with the required dependencies.
func NewService(repo *Repository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "wishlist repository required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "product loader required")
	}
	return &service{repo: repo, products: products}, nil
}

// List returns one page of the user's wishlist, newest first.
func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (Page, error) {
	if userID == uuid.Nil {
		return Page{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	query := listQuery{UserID: userID, Limit: pagination.LimitWithBuffer(params.Limit)}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return Page{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return Page{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist")
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ProductID)
	}
	products, err := s.repo.ProductsByIDs(ctx, ids)
	if err != nil {
		return Page{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist products")
	}
	byID := make(map[uuid.UUID]models.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entry := Entry{ID: row.ID, ProductID: row.ProductID, AddedAt: row.CreatedAt}
		if product, ok := byID[row.ProductID]; ok && product.IsActive {
			summary := catalog.NewProductSummary(product)
			entry.Product = &summary
		}
		entries = append(entries, entry)
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return Page{Items: entries, Cursor: cursor}, nil
}

// Add records the product on the user's wishlist. Adding a product that is
// already listed is a no-op, not a conflict.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if _, err := s.products.GetProduct(ctx, productID); err != nil {
		return err
	}

	_, err := s.repo.Find(ctx, userID, productID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check wishlist entry")
	}

	item := &models.WishlistItem{UserID: userID, ProductID: productID}
	if err := s.repo.Create(ctx, item); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add wishlist entry")
	}
	return nil
}

// Remove drops the product from the user's wishlist.
func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	removed, err := s.repo.Delete(ctx, userID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove wishlist entry")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "wishlist entry not found")
	}
	return nil
}
