package notifications

import (
	"testing"

	"github.com/zaidansari/attarmart-backend/pkg/enums"
)

func TestPublishReachesEverySubscriber(t *testing.T) {
	t.Parallel()

	emitter := NewEmitter()
	var first, second []Event
	emitter.Subscribe(func(event Event) { first = append(first, event) })
	emitter.Subscribe(func(event Event) { second = append(second, event) })

	emitter.Success("Cart", "Item added.")

	if len(first) != 1 || len(second) != 1 {
		t.Fatalf("expected both subscribers notified, got %d and %d", len(first), len(second))
	}
	if first[0].Kind != enums.NotificationKindSuccess {
		t.Fatalf("unexpected kind %s", first[0].Kind)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()

	emitter := NewEmitter()
	var received []Event
	unsubscribe := emitter.Subscribe(func(event Event) { received = append(received, event) })

	emitter.Info("Cart", "first")
	unsubscribe()
	unsubscribe() // double unsubscribe is harmless
	emitter.Error("Cart", "second")

	if len(received) != 1 || received[0].Message != "first" {
		t.Fatalf("expected only the first event, got %v", received)
	}
}

func TestSubscribeNilIsNoop(t *testing.T) {
	t.Parallel()

	emitter := NewEmitter()
	unsubscribe := emitter.Subscribe(nil)
	unsubscribe()
	emitter.Info("Cart", "still fine")
}
