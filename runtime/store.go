package runtime

import (
	"context"
	"sync"

	"github.com/paw-chain/exchange-core/types"
)

// EventStore is the persistence boundary of the core. Implementations own
// durability; the core only requires that one command's events append
// atomically (all or none become visible to Load) and that Load returns
// events in exactly the order they were appended.
type EventStore interface {
	// Load returns the full ordered history of an aggregate. A missing
	// aggregate is an empty history, not an error.
	Load(ctx context.Context, aggregateID string) ([]types.Event, error)

	// Append appends events atomically. expectedVersion is the number of
	// events the writer observed before deciding; a mismatch means another
	// writer got there first and fails with ErrVersionConflict.
	Append(ctx context.Context, aggregateID string, expectedVersion uint64, events []types.Event) error
}

// MemStore is an in-memory EventStore for tests and single-process
// embedding. Appends are atomic under one lock and optimistic versioning
// rejects concurrent writers.
type MemStore struct {
	mu      sync.RWMutex
	streams map[string][]types.Event
}

// NewMemStore returns an empty in-memory event store.
func NewMemStore() *MemStore {
	return &MemStore{streams: make(map[string][]types.Event)}
}

// Load returns a copy of the aggregate's history.
func (s *MemStore) Load(_ context.Context, aggregateID string) ([]types.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stream := s.streams[aggregateID]
	out := make([]types.Event, len(stream))
	copy(out, stream)
	return out, nil
}

// Append appends events atomically, enforcing the expected version.
func (s *MemStore) Append(_ context.Context, aggregateID string, expectedVersion uint64, events []types.Event) error {
	if len(events) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stream := s.streams[aggregateID]
	if uint64(len(stream)) != expectedVersion {
		return types.ErrVersionConflict.Wrapf("aggregate %s at version %d, writer expected %d",
			aggregateID, len(stream), expectedVersion)
	}
	for _, ev := range events {
		if ev.AggregateID() != aggregateID {
			return types.ErrAggregateMismatch.Wrapf("append to %s got event for %s",
				aggregateID, ev.AggregateID())
		}
	}

	s.streams[aggregateID] = append(stream, events...)
	return nil
}

// Version returns the number of events recorded for an aggregate.
func (s *MemStore) Version(aggregateID string) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(len(s.streams[aggregateID]))
}
