package runtime

import (
	"sync"
)

// lockTable serializes commands per aggregate identity. Every operation
// reads full current state before deciding validity, so two unserialized
// writers against the same aggregate could both validate against the same
// state and double-spend; distinct aggregates share nothing and run fully
// in parallel.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the aggregate's mutex and returns its release function.
// Mutexes are retained for the life of the table; aggregate identities are
// long-lived and bounded by the number of markets and pools.
func (t *lockTable) acquire(aggregateID string) func() {
	t.mu.Lock()
	l, ok := t.locks[aggregateID]
	if !ok {
		l = &sync.Mutex{}
		t.locks[aggregateID] = l
	}
	t.mu.Unlock()

	l.Lock()
	return l.Unlock
}
