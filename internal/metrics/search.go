// Package metrics holds the Prometheus instrumentation shared across the
// service: the HTTP middleware plus search and bulk-write counters.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// SearchSourceFailures counts per-source fetch failures during
	// cross-collection search. A failing source degrades to zero results,
	// so this counter is the only way to see it happening.
	SearchSourceFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pumproom",
			Name:      "search_source_failures_total",
			Help:      "Search source fetches that failed and were skipped",
		},
		[]string{"source"},
	)

	// SearchSourceHits counts matched records per source.
	SearchSourceHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pumproom",
			Name:      "search_source_hits_total",
			Help:      "Records matched per search source",
		},
		[]string{"source"},
	)

	// BulkItemOutcomes counts per-item outcomes of bulk writes.
	BulkItemOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pumproom",
			Name:      "bulk_item_outcomes_total",
			Help:      "Bulk write item outcomes by operation and status",
		},
		[]string{"operation", "status"},
	)
)

func init() {
	prometheus.MustRegister(SearchSourceFailures)
	prometheus.MustRegister(SearchSourceHits)
	prometheus.MustRegister(BulkItemOutcomes)
}
