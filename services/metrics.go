package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	estimatesComputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "citibike_api_estimates_computed_total",
		Help: "Total number of probability estimates computed.",
	})
	estimateFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "citibike_api_estimate_failures_total",
		Help: "Total number of failed probability estimates.",
	})
	statsCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "citibike_api_trip_stats_cache_hits_total",
		Help: "Total number of trip statistics served from cache.",
	})
	statsCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "citibike_api_trip_stats_cache_misses_total",
		Help: "Total number of trip statistics computed from the database.",
	})
	estimateDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "citibike_api_estimate_duration_seconds",
		Help:    "Duration of a full probability estimate.",
		Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1.0, 2.5},
	})
)
