package feed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pagesLoaded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptsci_feed_pages_loaded_total",
		Help: "Feed page loads by result",
	}, []string{"result"})

	pageLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "promptsci_feed_page_load_duration_seconds",
		Help:    "Time spent loading and decorating one feed page",
		Buckets: prometheus.DefBuckets,
	})

	cacheLookups = promauto.NewCounter(prometheus.CounterOpts{
		Name: "promptsci_feed_name_lookups_total",
		Help: "User lookups issued by the name cache",
	})

	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "promptsci_feed_sessions",
		Help: "Live feed sessions",
	})
)
