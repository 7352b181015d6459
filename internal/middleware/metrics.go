package middleware

import (
	"time"

	"github.com/DerliscrDev/bodega-eirete/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records one observation per request, labelled by route template.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveHTTP(c.FullPath(), c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
