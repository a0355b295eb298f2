package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/funcbox/logger"
)

// RequestLogger returns a Gin middleware that logs every completed request
// with method, path, status and duration. Health probes are skipped to keep
// the logs readable under frequent polling.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isHealthEndpoint(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		fields := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"remote_addr": c.ClientIP(),
		}
		if id, ok := c.Get("request_id"); ok {
			fields["request_id"] = id
		}
		logByStatus(log, c.Writer.Status(), fields)
	}
}

func logByStatus(log *logger.Logger, status int, fields map[string]interface{}) {
	switch {
	case status >= 500:
		log.Error("request failed", fields)
	case status >= 400:
		log.Warn("request rejected", fields)
	default:
		log.Info("request completed", fields)
	}
}

func isHealthEndpoint(path string) bool {
	return path == "/health" || strings.HasPrefix(path, "/health/")
}
