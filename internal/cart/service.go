package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/zaidansari/attarmart-backend/internal/notifications"
	"github.com/zaidansari/attarmart-backend/pkg/config"
	"github.com/zaidansari/attarmart-backend/pkg/db/models"
	pkgerrors "github.com/zaidansari/attarmart-backend/pkg/errors"
	"github.com/zaidansari/attarmart-backend/pkg/logger"
	"github.com/zaidansari/attarmart-backend/pkg/metrics"
)

// AddParams carries one add-to-cart request.
type AddParams struct {
	ProductID uuid.UUID
	VariantID string
	Quantity  int
}

// Service is the cart facade. Every operation resolves the identity to a
// backing store first, so guest and account requests run the same code path.
type Service interface {
	Get(ctx context.Context, identity Identity) (Snapshot, error)
	AddItem(ctx context.Context, identity Identity, params AddParams) (Snapshot, error)
	UpdateQuantity(ctx context.Context, identity Identity, lineID string, quantity int) (Snapshot, error)
	RemoveItem(ctx context.Context, identity Identity, lineID string) (Snapshot, error)
	Clear(ctx context.Context, identity Identity) (Snapshot, error)
	MergeGuestCart(ctx context.Context, userID uuid.UUID, guestID string) (Snapshot, error)
}

// productLoader is the slice of the catalog the cart needs.
type productLoader interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ServiceParams lists the dependencies for NewService.
type ServiceParams struct {
	Repo     *Repository
	KV       guestKV
	Products productLoader
	Logger   *logger.Logger
	Metrics  *metrics.StorefrontMetrics
	Emitter  *notifications.Emitter
	Config   config.CartConfig
	Now      func() time.Time
}

type service struct {
	repo     *Repository
	kv       guestKV
	products productLoader
	logg     *logger.Logger
	metrics  *metrics.StorefrontMetrics
	emitter  *notifications.Emitter
	cfg      config.CartConfig
	now      func() time.Time
}

// NewService builds the cart service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart repository required")
	}
	if params.KV == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart key-value store required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "product loader required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		repo:     params.Repo,
		kv:       params.KV,
		products: params.Products,
		logg:     params.Logger,
		metrics:  params.Metrics,
		emitter:  params.Emitter,
		cfg:      params.Config,
		now:      params.Now,
	}, nil
}

// storeFor picks the backing store for the identity.
func (s *service) storeFor(identity Identity) (Store, string, error) {
	if identity.Authenticated() {
		return newAccountStore(s.repo, *identity.UserID), "account", nil
	}
	if identity.GuestID == "" {
		return nil, "", pkgerrors.New(pkgerrors.CodeUnauthorized, "guest token or authentication required")
	}
	return newGuestStore(s.kv, identity.GuestID, s.cfg.GuestTTL, s.now), "guest", nil
}

// Get returns the identity's cart snapshot.
func (s *service) Get(ctx context.Context, identity Identity) (Snapshot, error) {
	store, _, err := s.storeFor(identity)
	if err != nil {
		return Snapshot{}, err
	}
	lines, err := store.Load(ctx)
	if err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return s.snapshot(ctx, lines), nil
}

// AddItem validates the product and adds or merges the line.
func (s *service) AddItem(ctx context.Context, identity Identity, params AddParams) (Snapshot, error) {
	store, mode, err := s.storeFor(identity)
	if err != nil {
		return Snapshot{}, err
	}
	if params.ProductID == uuid.Nil {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if params.Quantity < 1 || params.Quantity > s.cfg.MaxLineQty {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("quantity must be between 1 and %d", s.cfg.MaxLineQty))
	}

	product, err := s.products.GetProduct(ctx, params.ProductID)
	if err != nil {
		return Snapshot{}, err
	}
	if product.Stock < 1 {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeConflict, "product is out of stock")
	}

	lines, err := store.Load(ctx)
	if err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if s.cfg.MaxLineCount > 0 && len(lines) >= s.cfg.MaxLineCount && !hasLine(lines, params.ProductID, params.VariantID) {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "cart line limit reached")
	}

	updated, err := store.Add(ctx, Line{
		ProductID: params.ProductID,
		VariantID: params.VariantID,
		Quantity:  params.Quantity,
		Product:   snapshotFromProduct(product),
	})
	if err != nil {
		s.notifyError("Cart", "Could not add the item to your cart.")
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add cart item")
	}

	s.metrics.IncCartMutation("add", mode)
	s.notifySuccess("Cart", fmt.Sprintf("%s added to your cart.", product.Name))
	return s.snapshot(ctx, updated), nil
}

// UpdateQuantity sets a line's quantity; zero or less removes the line.
func (s *service) UpdateQuantity(ctx context.Context, identity Identity, lineID string, quantity int) (Snapshot, error) {
	store, mode, err := s.storeFor(identity)
	if err != nil {
		return Snapshot{}, err
	}
	if lineID == "" {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "line id is required")
	}
	if quantity > s.cfg.MaxLineQty {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("quantity must be at most %d", s.cfg.MaxLineQty))
	}

	updated, err := store.UpdateQuantity(ctx, lineID, quantity)
	if err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart quantity")
	}
	s.metrics.IncCartMutation("update_quantity", mode)
	return s.snapshot(ctx, updated), nil
}

// RemoveItem drops one line from the cart.
func (s *service) RemoveItem(ctx context.Context, identity Identity, lineID string) (Snapshot, error) {
	store, mode, err := s.storeFor(identity)
	if err != nil {
		return Snapshot{}, err
	}
	if lineID == "" {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "line id is required")
	}

	updated, err := store.Remove(ctx, lineID)
	if err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}
	s.metrics.IncCartMutation("remove", mode)
	s.notifyInfo("Cart", "Item removed from your cart.")
	return s.snapshot(ctx, updated), nil
}

// Clear empties every store the identity can reach. An authenticated request
// that still carries its guest token clears both carts, so a logout or a
// checkout cannot resurrect stale guest lines.
func (s *service) Clear(ctx context.Context, identity Identity) (Snapshot, error) {
	var errs error

	if identity.Authenticated() {
		account := newAccountStore(s.repo, *identity.UserID)
		if err := account.Clear(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("clear account cart: %w", err))
		} else {
			s.metrics.IncCartMutation("clear", "account")
		}
	}
	if identity.GuestID != "" {
		guest := newGuestStore(s.kv, identity.GuestID, s.cfg.GuestTTL, s.now)
		if err := guest.Clear(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("clear guest cart: %w", err))
		} else {
			s.metrics.IncCartMutation("clear", "guest")
		}
	}
	if !identity.Authenticated() && identity.GuestID == "" {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "guest token or authentication required")
	}

	if errs != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "clear cart")
	}
	s.notifyInfo("Cart", "Your cart has been emptied.")
	return s.snapshot(ctx, nil), nil
}

// snapshot derives totals and logs lines excluded from the subtotal.
func (s *service) snapshot(ctx context.Context, lines []Line) Snapshot {
	snap, skipped := buildSnapshot(lines)
	if len(skipped) > 0 {
		s.logg.Warn(
			s.logg.WithField(ctx, "skipped_lines", skipped),
			"cart lines excluded from subtotal: missing product snapshot",
		)
	}
	return snap
}

func (s *service) notifySuccess(title, message string) {
	if s.emitter != nil {
		s.emitter.Success(title, message)
	}
}

func (s *service) notifyInfo(title, message string) {
	if s.emitter != nil {
		s.emitter.Info(title, message)
	}
}

func (s *service) notifyError(title, message string) {
	if s.emitter != nil {
		s.emitter.Error(title, message)
	}
}

func hasLine(lines []Line, productID uuid.UUID, variantID string) bool {
	for _, line := range lines {
		if line.ProductID == productID && line.VariantID == variantID {
			return true
		}
	}
	return false
}
