package recommendations

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

// ViewedEntry is one recently-viewed record, newest first in storage.
type ViewedEntry struct {
	ProductID uuid.UUID `json:"product_id"`
	ViewedAt  time.Time `json:"viewed_at"`
}

// historyKV is the slice of the Redis client the history needs.
type historyKV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	RecentlyViewedKey(identity string) string
}

// History keeps each shopper's capped recently-viewed list in Redis and
// notifies registered observers after every successful mutation. Observers
// register explicitly and own their unsubscribe, mirroring the notification
// emitter's lifecycle.
type History struct {
	kv  historyKV
	cap int
	ttl time.Duration
	now func() time.Time

	mu        sync.Mutex
	nextID    int
	observers map[int]func(identity string)
}

// NewHistory builds a history manager. cap bounds the list length per shopper.
func NewHistory(kv historyKV, cap int, ttl time.Duration, now func() time.Time) *History {
	if now == nil {
		now = time.Now
	}
	if cap < 1 {
		cap = 1
	}
	return &History{
		kv:        kv,
		cap:       cap,
		ttl:       ttl,
		now:       now,
		observers: map[int]func(string){},
	}
}

// Subscribe registers fn to run after each mutation, with the identity whose
// history changed. Returns the unsubscribe function.
func (h *History) Subscribe(fn func(identity string)) func() {
	if fn == nil {
		return func() {}
	}

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.observers[id] = fn
	h.mu.Unlock()

	return func() {
		h.mu.Lock()
		delete(h.observers, id)
		h.mu.Unlock()
	}
}

func (h *History) notify(identity string) {
	h.mu.Lock()
	targets := make([]func(string), 0, len(h.observers))
	for _, fn := range h.observers {
		targets = append(targets, fn)
	}
	h.mu.Unlock()

	for _, fn := range targets {
		fn(identity)
	}
}

// List returns the identity's history, newest first. A missing or malformed
// record reads as empty.
func (h *History) List(ctx context.Context, identity string) ([]ViewedEntry, error) {
	raw, err := h.kv.Get(ctx, h.kv.RecentlyViewedKey(identity))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return []ViewedEntry{}, nil
		}
		return nil, err
	}

	var entries []ViewedEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return []ViewedEntry{}, nil
	}
	return entries, nil
}

// Add prepends the product, deduplicating an earlier view and trimming to the
// cap.
func (h *History) Add(ctx context.Context, identity string, productID uuid.UUID) error {
	entries, err := h.List(ctx, identity)
	if err != nil {
		return err
	}

	next := make([]ViewedEntry, 0, len(entries)+1)
	next = append(next, ViewedEntry{ProductID: productID, ViewedAt: h.now()})
	for _, entry := range entries {
		if entry.ProductID == productID {
			continue
		}
		next = append(next, entry)
	}
	if len(next) > h.cap {
		next = next[:h.cap]
	}

	if err := h.persist(ctx, identity, next); err != nil {
		return err
	}
	h.notify(identity)
	return nil
}

// Remove drops the product from the history if present.
func (h *History) Remove(ctx context.Context, identity string, productID uuid.UUID) error {
	entries, err := h.List(ctx, identity)
	if err != nil {
		return err
	}

	kept := entries[:0]
	for _, entry := range entries {
		if entry.ProductID != productID {
			kept = append(kept, entry)
		}
	}

	if err := h.persist(ctx, identity, kept); err != nil {
		return err
	}
	h.notify(identity)
	return nil
}

// Clear deletes the identity's history key.
func (h *History) Clear(ctx context.Context, identity string) error {
	if err := h.kv.Del(ctx, h.kv.RecentlyViewedKey(identity)); err != nil {
		return err
	}
	h.notify(identity)
	return nil
}

func (h *History) persist(ctx context.Context, identity string, entries []ViewedEntry) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return h.kv.Set(ctx, h.kv.RecentlyViewedKey(identity), string(payload), h.ttl)
}
