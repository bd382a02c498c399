package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rosedale/studio-api/internal/metrics"
)

// MetricsMiddleware records request counts and latency per route. The
// route template is used as the label, not the raw path, to keep the
// label cardinality bounded.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		metrics.HTTPRequestsTotal.WithLabelValues(
			method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()

		metrics.HTTPRequestDuration.WithLabelValues(
			method,
			route,
		).Observe(time.Since(start).Seconds())
	}
}
