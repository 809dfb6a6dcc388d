package main

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus metrics
var (
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nyayai_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "nyayai_request_duration_seconds",
			Help: "Duration of API requests",
		},
		[]string{"method", "endpoint"},
	)
	geminiCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nyayai_gemini_calls_total",
			Help: "Total number of Gemini generation calls",
		},
		[]string{"status"},
	)
	extractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nyayai_extractions_total",
			Help: "Total number of document extractions",
		},
		[]string{"extension", "status"},
	)
	cacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nyayai_cache_hits_total",
			Help: "Total number of reply cache hits",
		},
	)
	cacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "nyayai_cache_misses_total",
			Help: "Total number of reply cache misses",
		},
	)
)

func init() {
	prometheus.MustRegister(requestsTotal)
	prometheus.MustRegister(requestDuration)
	prometheus.MustRegister(geminiCallsTotal)
	prometheus.MustRegister(extractionsTotal)
	prometheus.MustRegister(cacheHitsTotal)
	prometheus.MustRegister(cacheMissesTotal)
}

// generationStatus labels a Generate result for metrics.
func generationStatus(sentinel bool) string {
	if sentinel {
		return "sentinel"
	}
	return "ok"
}
