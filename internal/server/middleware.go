package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/paylane/billing/internal/metrics"
)

// MetricsMiddleware records request counts and latency per route template.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTP().Observe(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
