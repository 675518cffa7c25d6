package config

import (
	"time"

	"github.com/gin-gonic/gin"
)

func PerformanceLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		Log.Infow("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", latency,
		)

		if latency > 200*time.Millisecond {
			Log.Warnw("slow request",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"latency", latency,
			)
		}
	}
}
