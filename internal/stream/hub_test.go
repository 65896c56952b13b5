package stream

import (
	"testing"

	"go.uber.org/zap"

	"gtmdash/internal/engine"
)

func testUpdate(scenarioID uint64) Update {
	return Update{ScenarioID: scenarioID, Snapshot: &engine.Snapshot{ConfigHash: "abc"}}
}

func TestHub_PublishReachesSubscribers(t *testing.T) {
	hub := NewHub(zap.NewNop(), 4)
	ch, cancel := hub.Subscribe(1)
	defer cancel()

	hub.Publish(testUpdate(1))

	select {
	case u := <-ch:
		if u.ScenarioID != 1 || u.Snapshot == nil {
			t.Fatalf("update=%+v", u)
		}
	default:
		t.Fatalf("expected a buffered update")
	}
}

func TestHub_PublishIsScopedToScenario(t *testing.T) {
	hub := NewHub(zap.NewNop(), 4)
	ch, cancel := hub.Subscribe(1)
	defer cancel()

	hub.Publish(testUpdate(2))

	select {
	case u := <-ch:
		t.Fatalf("subscriber of scenario 1 received %+v", u)
	default:
	}
}

func TestHub_CancelRemovesSubscriber(t *testing.T) {
	hub := NewHub(zap.NewNop(), 4)
	_, cancel := hub.Subscribe(7)
	if hub.Subscribers(7) != 1 {
		t.Fatalf("subscribers=%d want=1", hub.Subscribers(7))
	}
	cancel()
	if hub.Subscribers(7) != 0 {
		t.Fatalf("subscribers=%d want=0 after cancel", hub.Subscribers(7))
	}
	// Cancel is idempotent.
	cancel()
}

// A full subscriber buffer must never block Publish; the overflow is
// counted instead.
func TestHub_SlowSubscriberDropsUpdates(t *testing.T) {
	hub := NewHub(zap.NewNop(), 1)
	ch, cancel := hub.Subscribe(3)
	defer cancel()

	hub.Publish(testUpdate(3))
	hub.Publish(testUpdate(3))
	hub.Publish(testUpdate(3))

	if hub.Dropped() != 2 {
		t.Fatalf("dropped=%d want=2", hub.Dropped())
	}
	if len(ch) != 1 {
		t.Fatalf("buffered=%d want=1", len(ch))
	}
}

func TestHub_NilReceiverAndNilSnapshot(t *testing.T) {
	var hub *Hub
	hub.Publish(testUpdate(1))
	if hub.Subscribers(1) != 0 || hub.Dropped() != 0 {
		t.Fatalf("nil hub must report zero state")
	}

	hub = NewHub(nil, 0)
	ch, cancel := hub.Subscribe(1)
	defer cancel()
	hub.Publish(Update{ScenarioID: 1})
	if len(ch) != 0 {
		t.Fatalf("nil snapshot must not be published")
	}
}
