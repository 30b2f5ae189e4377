package recommendations

import (
	"context"

	"github.com/google/uuid"

	"github.com/zaidansari/attarmart-backend/internal/catalog"
	"github.com/zaidansari/attarmart-backend/pkg/db/models"
	pkgerrors "github.com/zaidansari/attarmart-backend/pkg/errors"
	"github.com/zaidansari/attarmart-backend/pkg/logger"
	"github.com/zaidansari/attarmart-backend/pkg/metrics"
)

// DefaultMaxItems caps a recommendation listing when the caller sends none.
const DefaultMaxItems = 8

// catalogSource supplies the in-memory catalog the scorer ranks over.
type catalogSource interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ActiveCatalog(ctx context.Context) ([]models.Product, error)
}

// Service answers storefront recommendation queries and manages the
// recently-viewed history they are personalized from.
type Service interface {
	Related(ctx context.Context, productID uuid.UUID, maxItems int) ([]catalog.ProductSummary, error)
	FrequentlyBoughtTogether(ctx context.Context, productID uuid.UUID, maxItems int) ([]catalog.ProductSummary, error)
	Personalized(ctx context.Context, identity string, maxItems int) ([]catalog.ProductSummary, error)
	Trending(ctx context.Context, maxItems int) ([]catalog.ProductSummary, error)
	NewArrivals(ctx context.Context, maxItems int) ([]catalog.ProductSummary, error)

	RecentlyViewed(ctx context.Context, identity string) ([]ViewedEntry, error)
	AddRecentlyViewed(ctx context.Context, identity string, productID uuid.UUID) error
	RemoveRecentlyViewed(ctx context.Context, identity string, productID uuid.UUID) error
	ClearRecentlyViewed(ctx context.Context, identity string) error
}

// ServiceParams lists the dependencies for NewService.
type ServiceParams struct {
	Catalog catalogSource
	Scorer  *Scorer
	History *History
	Logger  *logger.Logger
	Metrics *metrics.StorefrontMetrics
}

type service struct {
	catalog catalogSource
	scorer  *Scorer
	history *History
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
}

// NewService builds the recommendations service.
func NewService(params ServiceParams) (Service, error) {
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog source required")
	}
	if params.Scorer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "scorer required")
	}
	if params.History == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "history required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		catalog: params.Catalog,
		scorer:  params.Scorer,
		history: params.History,
		logg:    params.Logger,
		metrics: params.Metrics,
	}, nil
}

// Related returns products similar to the reference product.
func (s *service) Related(ctx context.Context, productID uuid.UUID, maxItems int) ([]catalog.ProductSummary, error) {
	reference, listing, err := s.referenceAndCatalog(ctx, productID)
	if err != nil {
		return nil, err
	}
	ranked := s.scorer.Related(*reference, listing, normalizeMax(maxItems))
	s.metrics.IncRecommendation("related")
	return summaries(ranked), nil
}

// FrequentlyBoughtTogether returns likely companion products.
func (s *service) FrequentlyBoughtTogether(ctx context.Context, productID uuid.UUID, maxItems int) ([]catalog.ProductSummary, error) {
	reference, listing, err := s.referenceAndCatalog(ctx, productID)
	if err != nil {
		return nil, err
	}
	ranked := s.scorer.FrequentlyBoughtTogether(*reference, listing, normalizeMax(maxItems))
	s.metrics.IncRecommendation("frequently_bought_together")
	return summaries(ranked), nil
}

// Personalized ranks the catalog against the identity's viewing history.
func (s *service) Personalized(ctx context.Context, identity string, maxItems int) ([]catalog.ProductSummary, error) {
	if identity == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "identity is required")
	}
	listing, err := s.catalog.ActiveCatalog(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.history.List(ctx, identity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load view history")
	}

	viewed := resolveViewed(entries, listing)
	ranked := s.scorer.Personalized(viewed, listing, normalizeMax(maxItems))
	s.metrics.IncRecommendation("personalized")
	return summaries(ranked), nil
}

// Trending returns the current top-rated rotation.
func (s *service) Trending(ctx context.Context, maxItems int) ([]catalog.ProductSummary, error) {
	listing, err := s.catalog.ActiveCatalog(ctx)
	if err != nil {
		return nil, err
	}
	ranked := s.scorer.Trending(listing, normalizeMax(maxItems))
	s.metrics.IncRecommendation("trending")
	return summaries(ranked), nil
}

// NewArrivals returns the newest listings first.
func (s *service) NewArrivals(ctx context.Context, maxItems int) ([]catalog.ProductSummary, error) {
	listing, err := s.catalog.ActiveCatalog(ctx)
	if err != nil {
		return nil, err
	}
	ranked := s.scorer.NewArrivals(listing, normalizeMax(maxItems))
	s.metrics.IncRecommendation("new_arrivals")
	return summaries(ranked), nil
}

// RecentlyViewed returns the identity's history, newest first.
func (s *service) RecentlyViewed(ctx context.Context, identity string) ([]ViewedEntry, error) {
	if identity == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "identity is required")
	}
	entries, err := s.history.List(ctx, identity)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load view history")
	}
	return entries, nil
}

// AddRecentlyViewed records a product view. The product must exist and be
// active so the history never references dead listings.
func (s *service) AddRecentlyViewed(ctx context.Context, identity string, productID uuid.UUID) error {
	if identity == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "identity is required")
	}
	if _, err := s.catalog.GetProduct(ctx, productID); err != nil {
		return err
	}
	if err := s.history.Add(ctx, identity, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record view")
	}
	return nil
}

// RemoveRecentlyViewed drops one product from the history.
func (s *service) RemoveRecentlyViewed(ctx context.Context, identity string, productID uuid.UUID) error {
	if identity == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "identity is required")
	}
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.history.Remove(ctx, identity, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove view")
	}
	return nil
}

// ClearRecentlyViewed deletes the identity's entire history.
func (s *service) ClearRecentlyViewed(ctx context.Context, identity string) error {
	if identity == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "identity is required")
	}
	if err := s.history.Clear(ctx, identity); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear view history")
	}
	return nil
}

func (s *service) referenceAndCatalog(ctx context.Context, productID uuid.UUID) (*models.Product, []models.Product, error) {
	if productID == uuid.Nil {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	reference, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	listing, err := s.catalog.ActiveCatalog(ctx)
	if err != nil {
		return nil, nil, err
	}
	return reference, listing, nil
}

// resolveViewed maps history entries onto live catalog products, dropping
// views of products no longer listed.
func resolveViewed(entries []ViewedEntry, listing []models.Product) []models.Product {
	if len(entries) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]models.Product, len(listing))
	for _, product := range listing {
		byID[product.ID] = product
	}
	viewed := make([]models.Product, 0, len(entries))
	for _, entry := range entries {
		if product, ok := byID[entry.ProductID]; ok {
			viewed = append(viewed, product)
		}
	}
	return viewed
}

func normalizeMax(maxItems int) int {
	if maxItems < 1 {
		return DefaultMaxItems
	}
	return maxItems
}

func summaries(products []models.Product) []catalog.ProductSummary {
	items := make([]catalog.ProductSummary, 0, len(products))
	for _, product := range products {
		items = append(items, catalog.NewProductSummary(product))
	}
	return items
}
