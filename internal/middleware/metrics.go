package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mentorlink/mentorlink-api/internal/service"
)

// Metrics observes every completed request on the metrics service. Requests
// are labelled by route template, not raw path, so watch streams with ids in
// the URL do not explode the cardinality.
func Metrics(m *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		m.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
