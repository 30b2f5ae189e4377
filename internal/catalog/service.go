package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zaidansari/attarmart-backend/pkg/db/models"
	"github.com/zaidansari/attarmart-backend/pkg/enums"
	pkgerrors "github.com/zaidansari/attarmart-backend/pkg/errors"
	"github.com/zaidansari/attarmart-backend/pkg/pagination"
)

// ListParams configures catalog listing queries.
type ListParams struct {
	Category string
	Limit    int
	Cursor   string
}

// Service exposes read access to the product catalog.
type Service interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, params ListParams) (ProductPage, error)
	ActiveCatalog(ctx context.Context) ([]models.Product, error)
}

type service struct {
	repo *Repository
}

// NewService builds a catalog service with the required dependencies.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog repository required")
	}
	return &service{repo: repo}, nil
}

// GetProduct loads an active product by id.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

// ListProducts returns one page of active catalog listings.
func (s *service) ListProducts(ctx context.Context, params ListParams) (ProductPage, error) {
	query := listQuery{Limit: pagination.LimitWithBuffer(params.Limit)}

	if trimmed := strings.TrimSpace(params.Category); trimmed != "" {
		category := enums.ProductCategory(trimmed)
		if !category.IsValid() {
			return ProductPage{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown category")
		}
		query.Category = &category
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return ProductPage{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return ProductPage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	items := make([]ProductSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, NewProductSummary(row))
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return ProductPage{Items: items, Cursor: cursor}, nil
}

// ActiveCatalog returns the full active product list for in-memory scoring.
func (s *service) ActiveCatalog(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog")
	}
	return products, nil
}
