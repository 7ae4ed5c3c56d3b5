// Package metrics defines and registers the custom Prometheus metrics of the
// character catalog API. All metrics live in the default registry, next to
// the HTTP metrics produced by the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "catalog"

// ── Character metrics ─────────────────────────────────────────────────────────

// CharacterMutationsTotal counts successful writes to the catalog.
// Label:
//   - operation: "create", "update" or "delete"
var CharacterMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "character_mutations_total",
		Help:      "Total number of successful character creates, updates and deletes.",
	},
	[]string{"operation"},
)

// CharactersStored is the collection size observed on the most recent load or save.
var CharactersStored = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "characters_stored",
		Help:      "Number of characters in the collection at the last store access.",
	},
)

// ── Store metrics ─────────────────────────────────────────────────────────────

// StoreOperationDuration measures whole-collection loads and saves.
// Labels:
//   - backend: "file", "redis" or "mongo"
//   - operation: "load" or "save"
var StoreOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "store_operation_duration_seconds",
		Help:      "Duration of full-collection store operations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"backend", "operation"},
)

// StoreErrorsTotal counts failed loads and saves.
var StoreErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_errors_total",
		Help:      "Total number of failed store operations.",
	},
	[]string{"backend", "operation"},
)

// ── Write queue metrics ───────────────────────────────────────────────────────

// WriteQueueDepth tracks the number of mutations waiting for the single writer.
var WriteQueueDepth = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "write_queue_depth",
		Help:      "Current number of character mutations waiting in the write queue.",
	},
)
