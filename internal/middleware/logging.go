package middleware

import (
	"time"

	"hospital-management-server/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs one entry per request, including any errors handlers attached
// with c.Error.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"status_code": c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"client_ip":   c.ClientIP(),
		}
		if fields["path"] == "" {
			fields["path"] = c.Request.URL.Path
		}
		if user, ok := GetSessionUser(c); ok {
			fields["user_id"] = user.ID
			fields["role"] = user.Role
		}
		entry := log.WithComponent("http").WithFields(fields)

		switch {
		case len(c.Errors) > 0:
			entry.WithField("errors", c.Errors.Errors()).Error("HTTP request failed")
		case c.Writer.Status() >= 400:
			entry.Warn("HTTP request completed with error")
		default:
			entry.Info("HTTP request completed")
		}
	}
}
