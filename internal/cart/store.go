package cart

import "context"

// Store abstracts where a shopper's cart lives. The service selects one
// implementation per request from the identity: Redis for guests, Postgres
// for signed-in customers. Operations share one contract so the service has
// no per-mode branching.
type Store interface {
	// Load returns the current lines. A missing cart is an empty slice.
	Load(ctx context.Context) ([]Line, error)
	// Add merges the line into an existing (product, variant) entry by
	// summing quantities, or appends it, then returns the updated lines.
	Add(ctx context.Context, line Line) ([]Line, error)
	// UpdateQuantity sets the line's quantity. A quantity of zero or less
	// removes the line.
	UpdateQuantity(ctx context.Context, lineID string, quantity int) ([]Line, error)
	// Remove deletes the line if present.
	Remove(ctx context.Context, lineID string) ([]Line, error)
	// Clear drops every line and any persisted cart state.
	Clear(ctx context.Context) error
}
