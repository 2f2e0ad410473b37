package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "promptsci_http_requests_total",
		Help: "HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "promptsci_http_request_duration_seconds",
		Help:    "HTTP request latency by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

func (h *Handler) loggingMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	latency := time.Since(start)
	status := c.Writer.Status()

	httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
	httpLatency.WithLabelValues(c.Request.Method, route).Observe(latency.Seconds())

	h.logger.Info("request",
		zap.String("method", c.Request.Method),
		zap.String("route", route),
		zap.Int("status", status),
		zap.Duration("latency", latency),
	)
}
