package middleware

import (
	"time"

	"claims-management-api/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger writes one structured record per request.
func RequestLogger() gin.HandlerFunc {
	log := logger.New("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"ip", c.ClientIP(),
		}
		if userID := GetUserID(c); userID != "" {
			args = append(args, "userID", userID)
		}

		if c.Writer.Status() >= 500 {
			log.Warn("request failed", args...)
			return
		}
		log.Debug("request", args...)
	}
}
