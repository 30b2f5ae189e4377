package cart

import (
	"context"

	"github.com/google/uuid"

	pkgerrors "github.com/zaidansari/attarmart-backend/pkg/errors"
)

// MergeGuestCart folds the guest cart into the user's account cart after
// login. Lines transfer one at a time in guest order; the first failure
// aborts the merge and leaves the guest cart untouched for a later retry.
// Only a fully transferred cart deletes the guest key. An empty guest cart
// is a no-op, which makes repeated merges after success idempotent.
func (s *service) MergeGuestCart(ctx context.Context, userID uuid.UUID, guestID string) (Snapshot, error) {
	if userID == uuid.Nil {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	account := newAccountStore(s.repo, userID)

	if guestID == "" {
		return s.accountSnapshot(ctx, account)
	}
	guest := newGuestStore(s.kv, guestID, s.cfg.GuestTTL, s.now)

	guestLines, err := guest.Load(ctx)
	if err != nil {
		s.metrics.IncMerge("failure")
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load guest cart")
	}
	if len(guestLines) == 0 {
		s.metrics.IncMerge("noop")
		return s.accountSnapshot(ctx, account)
	}

	var merged []Line
	for _, line := range guestLines {
		merged, err = account.Add(ctx, line)
		if err != nil {
			s.metrics.IncMerge("failure")
			s.notifyError("Cart", "We could not move your cart to your account. It is still saved.")
			return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "merge guest cart line")
		}
	}

	if err := guest.Clear(ctx); err != nil {
		// The lines are safely in the account cart; a dangling guest key
		// re-merges into summed quantities, so log instead of failing.
		s.logg.Warn(s.logg.WithGuestID(ctx, guestID), "guest cart key not deleted after merge")
	}

	s.metrics.IncMerge("success")
	s.notifySuccess("Cart", "Your cart items were moved to your account.")
	return s.snapshot(ctx, merged), nil
}

func (s *service) accountSnapshot(ctx context.Context, account *accountStore) (Snapshot, error) {
	lines, err := account.Load(ctx)
	if err != nil {
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return s.snapshot(ctx, lines), nil
}
