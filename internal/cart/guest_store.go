package cart

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

// guestKV is the slice of the Redis client the guest store needs.
type guestKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	GuestCartKey(guestID string) string
}

// guestStore keeps the whole cart as one JSON blob under the guest's key.
// A missing or malformed blob reads as an empty cart: a first visit and a
// corrupted cart look the same, neither is an error.
type guestStore struct {
	kv      guestKV
	guestID string
	ttl     time.Duration
	now     func() time.Time
}

func newGuestStore(kv guestKV, guestID string, ttl time.Duration, now func() time.Time) *guestStore {
	if now == nil {
		now = time.Now
	}
	return &guestStore{kv: kv, guestID: guestID, ttl: ttl, now: now}
}

func (g *guestStore) Load(ctx context.Context) ([]Line, error) {
	raw, err := g.kv.Get(ctx, g.kv.GuestCartKey(g.guestID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return []Line{}, nil
		}
		return nil, err
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return []Line{}, nil
	}
	return lines, nil
}

func (g *guestStore) Add(ctx context.Context, line Line) ([]Line, error) {
	lines, err := g.Load(ctx)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range lines {
		if lines[i].ProductID == line.ProductID && lines[i].VariantID == line.VariantID {
			lines[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		line.ID = guestLineID(line.ProductID, line.VariantID, g.now())
		lines = append(lines, line)
	}

	if err := g.persist(ctx, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (g *guestStore) UpdateQuantity(ctx context.Context, lineID string, quantity int) ([]Line, error) {
	if quantity <= 0 {
		return g.Remove(ctx, lineID)
	}

	lines, err := g.Load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range lines {
		if lines[i].ID == lineID {
			lines[i].Quantity = quantity
			break
		}
	}
	if err := g.persist(ctx, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (g *guestStore) Remove(ctx context.Context, lineID string) ([]Line, error) {
	lines, err := g.Load(ctx)
	if err != nil {
		return nil, err
	}

	kept := lines[:0]
	for _, line := range lines {
		if line.ID != lineID {
			kept = append(kept, line)
		}
	}
	if err := g.persist(ctx, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

func (g *guestStore) Clear(ctx context.Context) error {
	return g.kv.Del(ctx, g.kv.GuestCartKey(g.guestID))
}

func (g *guestStore) persist(ctx context.Context, lines []Line) error {
	payload, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return g.kv.Set(ctx, g.kv.GuestCartKey(g.guestID), string(payload), g.ttl)
}
