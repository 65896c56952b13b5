package engine

import "sync"

// Memoizer caches snapshots keyed on the hash of the complete config, so a
// stale entry can never be served for changed inputs. It is a performance
// layer only; callers may always use Evaluate directly.
type Memoizer struct {
	mu         sync.Mutex
	entries    map[string]*Snapshot
	maxEntries int
}

func NewMemoizer(maxEntries int) *Memoizer {
	if maxEntries <= 0 {
		maxEntries = 256
	}
	return &Memoizer{
		entries:    make(map[string]*Snapshot, maxEntries),
		maxEntries: maxEntries,
	}
}

// Evaluate returns the cached snapshot for an identical config, computing
// and storing it on a miss. When the cache is full it is cleared wholesale;
// entries are cheap to recompute and eviction bookkeeping is not worth it
// for a what-if tool.
func (m *Memoizer) Evaluate(cfg ScenarioConfig) (*Snapshot, error) {
	if m == nil {
		return Evaluate(cfg)
	}
	key := cfg.Normalize().Hash()

	m.mu.Lock()
	if snap, ok := m.entries[key]; ok {
		m.mu.Unlock()
		return snap, nil
	}
	m.mu.Unlock()

	snap, err := Evaluate(cfg)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	if len(m.entries) >= m.maxEntries {
		m.entries = make(map[string]*Snapshot, m.maxEntries)
	}
	m.entries[key] = snap
	m.mu.Unlock()
	return snap, nil
}

// Len reports the number of cached snapshots.
func (m *Memoizer) Len() int {
	if m == nil {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
