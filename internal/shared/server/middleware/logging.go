package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cv-matcher/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log line.
const (
	DocumentKey      = "documentKey"
	ResumeStatusKey  = "resumeStatus"
	FailureReasonKey = "failureReason"
)

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

		userID, _ := c.Get(userIDKey)
		isGuest, _ := c.Get(isGuestKey)
		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     userID,
			"is_guest":    isGuest,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		for key, field := range map[string]string{
			DocumentKey:      "document_key",
			ResumeStatusKey:  "resume_status",
			FailureReasonKey: "failure_reason",
		} {
			if v := c.GetString(key); v != "" {
				fields[field] = v
			}
		}
		telemetry.Info("request.complete", fields)
	}
}
