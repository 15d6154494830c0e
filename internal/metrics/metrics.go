package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests"},
		[]string{"route", "method", "status"},
	)
	ReqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Request duration seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	InFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "http_in_flight_requests", Help: "In-flight HTTP requests"},
	)
	RateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "http_rate_limited_total", Help: "Requests rejected by the rate limiter"},
	)
	PurchasesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "coursell_purchases_total", Help: "Purchase attempts by outcome"},
		[]string{"outcome"},
	)
)

// MustRegister registers the collectors with the default registry. Call once
// from main.
func MustRegister() {
	prometheus.MustRegister(RequestsTotal, ReqDuration, InFlight, RateLimited, PurchasesTotal)
}

// Middleware records request count, latency and in-flight gauge per route
// template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		InFlight.Inc()
		defer InFlight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		RequestsTotal.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		ReqDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
