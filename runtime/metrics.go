package runtime

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the exchange core runtime
type Metrics struct {
	// Command metrics
	CommandsTotal  *prometheus.CounterVec
	CommandLatency *prometheus.HistogramVec

	// Event metrics
	EventsAppended *prometheus.CounterVec
	ReplayDepth    prometheus.Histogram

	// Concurrency metrics
	VersionConflicts *prometheus.CounterVec
}

var (
	metricsOnce sync.Once
	metrics     *Metrics
)

// NewMetrics creates and registers runtime metrics (singleton pattern)
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		metrics = &Metrics{
			CommandsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "exchange",
					Name:      "commands_total",
					Help:      "Total number of aggregate commands executed",
				},
				[]string{"aggregate", "status"},
			),
			CommandLatency: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Namespace: "paw",
					Subsystem: "exchange",
					Name:      "command_latency_seconds",
					Help:      "Aggregate command execution latency in seconds",
					Buckets:   prometheus.DefBuckets,
				},
				[]string{"aggregate"},
			),
			EventsAppended: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "exchange",
					Name:      "events_appended_total",
					Help:      "Total number of events appended to the store",
				},
				[]string{"aggregate"},
			),
			ReplayDepth: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "paw",
					Subsystem: "exchange",
					Name:      "replay_depth_events",
					Help:      "Number of events replayed per command",
					Buckets:   []float64{1, 10, 50, 100, 500, 1000, 5000},
				},
			),
			VersionConflicts: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "paw",
					Subsystem: "exchange",
					Name:      "version_conflicts_total",
					Help:      "Total number of optimistic concurrency conflicts",
				},
				[]string{"aggregate"},
			),
		}
	})
	return metrics
}
