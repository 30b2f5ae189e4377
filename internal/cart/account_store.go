package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zaidansari/attarmart-backend/pkg/db/models"
)

// accountStore keeps the cart in Postgres rows for a signed-in customer.
type accountStore struct {
	repo   *Repository
	userID uuid.UUID
}

func newAccountStore(repo *Repository, userID uuid.UUID) *accountStore {
	return &accountStore{repo: repo, userID: userID}
}

func (a *accountStore) Load(ctx context.Context) ([]Line, error) {
	record, err := a.repo.FindCartByUser(ctx, a.userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []Line{}, nil
		}
		return nil, err
	}
	items, err := a.repo.ListItems(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	return linesFromItems(items), nil
}

func (a *accountStore) Add(ctx context.Context, line Line) ([]Line, error) {
	record, err := a.repo.EnsureCart(ctx, a.userID)
	if err != nil {
		return nil, err
	}

	existing, err := a.repo.FindItem(ctx, record.ID, line.ProductID, line.VariantID)
	switch {
	case err == nil:
		if err := a.repo.SetItemQuantity(ctx, record.ID, existing.ID, existing.Quantity+line.Quantity); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := itemFromLine(record.ID, line)
		if err := a.repo.CreateItem(ctx, item); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	items, err := a.repo.ListItems(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	return linesFromItems(items), nil
}

func (a *accountStore) UpdateQuantity(ctx context.Context, lineID string, quantity int) ([]Line, error) {
	if quantity <= 0 {
		return a.Remove(ctx, lineID)
	}

	record, err := a.repo.FindCartByUser(ctx, a.userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []Line{}, nil
		}
		return nil, err
	}
	itemID, err := uuid.Parse(lineID)
	if err != nil {
		// Unknown line ids are a no-op, same as updating a line that was
		// already removed.
		items, listErr := a.repo.ListItems(ctx, record.ID)
		if listErr != nil {
			return nil, listErr
		}
		return linesFromItems(items), nil
	}
	if err := a.repo.SetItemQuantity(ctx, record.ID, itemID, quantity); err != nil {
		return nil, err
	}

	items, err := a.repo.ListItems(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	return linesFromItems(items), nil
}

func (a *accountStore) Remove(ctx context.Context, lineID string) ([]Line, error) {
	record, err := a.repo.FindCartByUser(ctx, a.userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []Line{}, nil
		}
		return nil, err
	}
	if itemID, parseErr := uuid.Parse(lineID); parseErr == nil {
		if err := a.repo.DeleteItem(ctx, record.ID, itemID); err != nil {
			return nil, err
		}
	}

	items, err := a.repo.ListItems(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	return linesFromItems(items), nil
}

func (a *accountStore) Clear(ctx context.Context) error {
	record, err := a.repo.FindCartByUser(ctx, a.userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	return a.repo.DeleteItems(ctx, record.ID)
}

func linesFromItems(items []models.CartItem) []Line {
	lines := make([]Line, 0, len(items))
	for _, item := range items {
		lines = append(lines, Line{
			ID:        item.ID.String(),
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			Product: ProductSnapshot{
				ID:         item.ProductID,
				Name:       item.ProductName,
				Brand:      item.ProductBrand,
				PriceCents: item.UnitPriceCents,
				Stock:      item.ProductStock,
				ImageURL:   item.ProductImageURL,
			},
		})
	}
	return lines
}

func itemFromLine(cartID uuid.UUID, line Line) *models.CartItem {
	return &models.CartItem{
		CartID:          cartID,
		ProductID:       line.ProductID,
		VariantID:       line.VariantID,
		Quantity:        line.Quantity,
		ProductName:     line.Product.Name,
		ProductBrand:    line.Product.Brand,
		UnitPriceCents:  line.Product.PriceCents,
		ProductStock:    line.Product.Stock,
		ProductImageURL: line.Product.ImageURL,
	}
}
