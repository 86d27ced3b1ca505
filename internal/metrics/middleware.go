package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
)

// GinMiddleware instruments every request passing through the router. The
// route template (e.g. /api/v1/runs/:id) is used as the path label so
// per-run URLs do not explode the cardinality.
func GinMiddleware(reg *Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		reg.InFlightInc()
		defer reg.InFlightDec()

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		reg.RecordRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start).Seconds())
	}
}
