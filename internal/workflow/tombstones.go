package workflow

import (
	"strings"
	"sync"
)

// tombstoneSet records scene identifiers deleted locally whose deletion may
// not yet be visible in a remote snapshot. Entries are never removed; the set
// lives only as long as the engine's subscription to one project.
type tombstoneSet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func newTombstoneSet() *tombstoneSet {
	return &tombstoneSet{ids: map[string]struct{}{}}
}

func (t *tombstoneSet) Add(id string) {
	if t == nil || strings.TrimSpace(id) == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ids[id] = struct{}{}
}

func (t *tombstoneSet) Contains(id string) bool {
	if t == nil || id == "" {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.ids[id]
	return ok
}

func (t *tombstoneSet) Len() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.ids)
}
