package stream

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"gtmdash/internal/alert"
	"gtmdash/internal/engine"
)

// Update is one evaluated result pushed to live subscribers of a scenario.
type Update struct {
	ScenarioID uint64           `json:"scenario_id"`
	Snapshot   *engine.Snapshot `json:"snapshot"`
	Alerts     []alert.Alert    `json:"alerts,omitempty"`
}

// Hub fans evaluated snapshots out to websocket subscribers per scenario.
// Publishing never blocks: a subscriber that cannot keep up loses updates
// (each update supersedes the previous one anyway) and the drop is counted.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint64]map[chan Update]struct{}
	buf    int
	logger *zap.Logger

	droppedFanout uint64
}

func NewHub(logger *zap.Logger, subscriberBuffer int) *Hub {
	if subscriberBuffer <= 0 {
		subscriberBuffer = 16
	}
	return &Hub{
		subs:   map[uint64]map[chan Update]struct{}{},
		buf:    subscriberBuffer,
		logger: logger,
	}
}

// Subscribe returns a channel of updates for one scenario and a cancel
// function that must be called when the subscriber goes away.
func (h *Hub) Subscribe(scenarioID uint64) (<-chan Update, func()) {
	ch := make(chan Update, h.buf)
	h.mu.Lock()
	set, ok := h.subs[scenarioID]
	if !ok {
		set = map[chan Update]struct{}{}
		h.subs[scenarioID] = set
	}
	set[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if set, ok := h.subs[scenarioID]; ok {
			delete(set, ch)
			if len(set) == 0 {
				delete(h.subs, scenarioID)
			}
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an update to every current subscriber of the scenario.
func (h *Hub) Publish(u Update) {
	if h == nil || u.Snapshot == nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[u.ScenarioID] {
		select {
		case ch <- u:
		default:
			atomic.AddUint64(&h.droppedFanout, 1)
			if h.logger != nil {
				h.logger.Debug("stream subscriber lagging, update dropped",
					zap.Uint64("scenario_id", u.ScenarioID))
			}
		}
	}
}

// Subscribers reports the current subscriber count for a scenario.
func (h *Hub) Subscribers(scenarioID uint64) int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[scenarioID])
}

// Dropped reports how many fan-out sends were discarded for slow subscribers.
func (h *Hub) Dropped() uint64 {
	if h == nil {
		return 0
	}
	return atomic.LoadUint64(&h.droppedFanout)
}
