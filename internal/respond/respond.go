// Package respond standardizes JSON error responses for gin handlers.
package respond

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"restohub/backend/internal/middleware"
)

// Error logs err and aborts the request with {"error": "<message>"}.
// Server errors are logged at error level, client errors at warn. The log
// line carries the request id when middleware.Logger assigned one.
func Error(c *gin.Context, logger *slog.Logger, status int, err error) {
	attrs := []any{
		"error", err,
		"status", status,
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	}
	if id := middleware.RequestID(c); id != "" {
		attrs = append(attrs, "request_id", id)
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
