// Package metrics exposes Prometheus collectors for HTTP traffic and claim activity.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_ms",
		Help:    "Duration of HTTP requests in ms",
		Buckets: []float64{50, 100, 200, 300, 400, 500},
	}, []string{"method", "route", "status_code"})

	ClaimsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "claims_created_total",
		Help: "Claims accepted by the API",
	})

	ClaimStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "claim_status_changes_total",
		Help: "Claim status updates by resulting status",
	}, []string{"status"})

	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_total",
		Help: "Status-change notifications by sender and outcome",
	}, []string{"sender", "result"})
)

// Middleware records request latency per matched route. Unmatched paths share one label
// so probes for random URLs don't explode cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := float64(time.Since(start).Microseconds()) / 1000
		RequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(elapsed)
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
