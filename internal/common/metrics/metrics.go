// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FetchTotal counts list and stats queries; kind is "list", "stats" or "lookup".
	FetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostel_fetch_total",
			Help: "Total number of list/stats/lookup queries issued per resource",
		},
		[]string{"resource", "kind", "outcome"},
	)

	FetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hostel_fetch_duration_seconds",
			Help:    "Duration of list/stats/lookup queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource", "kind"},
	)

	DebounceCoalesced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostel_debounce_coalesced_total",
			Help: "Search/filter edits absorbed by a later edit inside the debounce window",
		},
		[]string{"resource"},
	)

	StaleResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostel_stale_responses_total",
			Help: "Responses discarded because a newer request was issued",
		},
		[]string{"resource", "kind"},
	)

	MutationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostel_mutation_total",
			Help: "Create/update/delete/bulk mutations per resource",
		},
		[]string{"resource", "action", "outcome"},
	)

	BackendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostel_backend_requests_total",
			Help: "HTTP requests sent to the hostel backend",
		},
		[]string{"method", "status_class"},
	)
)
