// Package metrics defines Prometheus metrics for the grid planner.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grid_planner_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grid_planner_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grid_planner_searches_total",
			Help: "Total path searches by outcome (found, not_found, error)",
		},
		[]string{"outcome"},
	)

	ExpandedNodes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "grid_planner_search_expanded_nodes",
			Help:    "Nodes moved to the closed set per search",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "grid_planner_search_duration_seconds",
			Help:    "Path search duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grid_planner_api_errors_total",
			Help: "API error responses by code",
		},
		[]string{"code"},
	)

	GridsRegistered = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "grid_planner_grids_registered",
			Help: "Grids currently held by the planner",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal,
		SearchesTotal, ExpandedNodes, SearchDuration,
		ErrorsTotal, GridsRegistered,
	)
}
