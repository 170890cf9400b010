package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"telecounsel/internal/pkg/response"
)

// RequestLogger logs every request, records server errors, and recovers from
// panics with a JSON response.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		defer func() {
			if recovered := recover(); recovered != nil {
				logger.Error("panic recovered",
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.String("client_ip", c.ClientIP()),
					zap.Int64("user_id", c.GetInt64("user_id")),
					zap.Any("panic", recovered),
					zap.ByteString("stack", debug.Stack()),
				)
				response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				c.Abort()
				return
			}

			fields := []zap.Field{
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("status", c.Writer.Status()),
				zap.String("client_ip", c.ClientIP()),
				zap.Duration("latency", time.Since(start)),
			}
			if userID := c.GetInt64("user_id"); userID != 0 {
				fields = append(fields, zap.Int64("user_id", userID), zap.String("role", c.GetString("role")))
			}
			for _, err := range c.Errors {
				fields = append(fields, zap.String("error", fmt.Sprintf("%v", err.Err)))
			}

			if c.Writer.Status() >= http.StatusInternalServerError {
				logger.Error("request failed", fields...)
			} else {
				logger.Info("request", fields...)
			}
		}()

		c.Next()
	}
}
