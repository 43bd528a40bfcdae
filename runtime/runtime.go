// Package runtime executes aggregate commands against an event store with
// the single-writer guarantee the core requires: commands against the same
// aggregate identity are serialized by a per-identity lock, replay is
// strictly sequential, and one command's events append atomically or not
// at all.
package runtime

import (
	"context"
	"errors"
	"time"

	"cosmossdk.io/log"
	"github.com/google/uuid"

	"github.com/paw-chain/exchange-core/types"
)

// Aggregate is the contract every aggregate in the core satisfies.
type Aggregate interface {
	// UncommittedEvents returns events raised since the last commit,
	// in the order they were raised.
	UncommittedEvents() []types.Event
	// MarkCommitted clears the uncommitted buffer after a successful append.
	MarkCommitted()
}

// Runtime wires an event store, per-aggregate locking, logging and metrics
// into a command execution loop.
type Runtime struct {
	store   EventStore
	logger  log.Logger
	metrics *Metrics
	locks   *lockTable
}

// New returns a runtime over the given store. logger may be nil (nop) and
// metrics may be nil (disabled).
func New(store EventStore, logger log.Logger, metrics *Metrics) *Runtime {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Runtime{
		store:   store,
		logger:  logger,
		metrics: metrics,
		locks:   newLockTable(),
	}
}

// Execute runs one command against one aggregate. The handler receives the
// aggregate's full ordered history; it replays state, runs the command, and
// returns the aggregate carrying the command's uncommitted events. Execute
// appends those events atomically at the version the handler observed.
//
// On any handler or append failure no events are recorded: validation is
// all-or-nothing per command, and errors are not retryable as-is — the
// caller must correct the request first.
func Execute[A Aggregate](ctx context.Context, r *Runtime, kind, aggregateID string, handler func(history []types.Event) (A, error)) (A, error) {
	var zero A
	start := time.Now()
	commandID := uuid.NewString()

	release := r.locks.acquire(aggregateID)
	defer release()

	history, err := r.store.Load(ctx, aggregateID)
	if err != nil {
		r.observe(kind, "failed", start)
		r.logger.Error("failed to load aggregate history",
			"aggregate", kind, "aggregate_id", aggregateID, "command_id", commandID, "error", err)
		return zero, err
	}
	if r.metrics != nil {
		r.metrics.ReplayDepth.Observe(float64(len(history)))
	}

	agg, err := handler(history)
	if err != nil {
		r.observe(kind, "rejected", start)
		return zero, err
	}

	events := agg.UncommittedEvents()
	if len(events) == 0 {
		r.observe(kind, "noop", start)
		return agg, nil
	}

	if err := r.store.Append(ctx, aggregateID, uint64(len(history)), events); err != nil {
		if r.metrics != nil && errors.Is(err, types.ErrVersionConflict) {
			r.metrics.VersionConflicts.WithLabelValues(kind).Inc()
		}
		r.observe(kind, "failed", start)
		r.logger.Error("failed to append events",
			"aggregate", kind, "aggregate_id", aggregateID, "command_id", commandID,
			"events", len(events), "error", err)
		return zero, err
	}
	agg.MarkCommitted()

	if r.metrics != nil {
		r.metrics.EventsAppended.WithLabelValues(kind).Add(float64(len(events)))
	}
	r.observe(kind, "success", start)
	r.logger.Debug("command applied",
		"aggregate", kind, "aggregate_id", aggregateID, "command_id", commandID,
		"events", len(events))
	return agg, nil
}

func (r *Runtime) observe(kind, status string, start time.Time) {
	if r.metrics == nil {
		return
	}
	r.metrics.CommandsTotal.WithLabelValues(kind, status).Inc()
	r.metrics.CommandLatency.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
