// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "kodiserv"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration in seconds.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.3, 0.5, 1, 2, 5},
	}, []string{"method", "route"})

	KodiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "kodi_requests_total",
		Help:      "Total JSON-RPC calls to Kodi by method and result.",
	}, []string{"method", "result"})

	KodiRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "kodi_request_duration_seconds",
		Help:      "Kodi JSON-RPC call duration in seconds.",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"method"})

	NowPlayingCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "nowplaying_cache_hits_total",
		Help:      "Now playing lookups served from the resolver cache.",
	})

	NowPlayingRefreshesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "nowplaying_refreshes_total",
		Help:      "Now playing lookups that queried Kodi successfully.",
	})

	NowPlayingFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "nowplaying_failures_total",
		Help:      "Now playing refreshes that failed to resolve.",
	})

	HistoryEntriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_entries_total",
		Help:      "Now playing changes recorded to history.",
	})
)

// Register adds every collector to reg. Call once at startup.
func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		KodiRequestsTotal,
		KodiRequestDuration,
		NowPlayingCacheHitsTotal,
		NowPlayingRefreshesTotal,
		NowPlayingFailuresTotal,
		HistoryEntriesTotal,
	)
}
