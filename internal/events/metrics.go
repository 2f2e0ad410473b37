package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	subscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "promptsci_event_subscribers",
		Help: "Live feed event subscribers",
	})

	droppedEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "promptsci_events_dropped_total",
		Help: "Events skipped because a subscriber was not keeping up",
	})

	publishErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptsci_event_publish_errors_total",
		Help: "Failed broker publishes per queue",
	}, []string{"queue"})
)
