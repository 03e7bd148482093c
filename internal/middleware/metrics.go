package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"artnexus/internal/pkg/metrics"
)

// Metrics records request counts and latency per route template.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		metrics.TrackInFlight(1)
		defer metrics.TrackInFlight(-1)

		c.Next()

		metrics.ObserveHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
