package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"techstack-backend/internal/shared/telemetry"
)

// LogFieldsKey holds extra request-complete fields set by handlers.
const LogFieldsKey = "logFields"

// AddLogField attaches a field to the request-complete log line.
func AddLogField(c *gin.Context, key string, value any) {
	fields, _ := c.Get(LogFieldsKey)
	m, ok := fields.(map[string]any)
	if !ok {
		m = map[string]any{}
		c.Set(LogFieldsKey, m)
	}
	m[key] = value
}

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		entry := map[string]any{}
		if extra, ok := c.Get(LogFieldsKey); ok {
			if m, ok := extra.(map[string]any); ok {
				for k, v := range m {
					entry[k] = v
				}
			}
		}
		entry["request_id"] = RequestIDFromContext(c)
		entry["method"] = c.Request.Method
		entry["path"] = c.Request.URL.Path
		entry["route"] = c.FullPath()
		entry["status"] = c.Writer.Status()
		entry["duration_ms"] = float64(latency.Microseconds()) / 1000.0
		entry["client_ip"] = c.ClientIP()
		entry["user_agent"] = c.Request.UserAgent()

		telemetry.Info("request.complete", entry)
	}
}
