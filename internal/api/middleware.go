package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/tcfw/ccgenesis/internal/metrics"
	"github.com/tcfw/ccgenesis/internal/utils/logging"
)

// requestLogger logs each request through the shared logrus entry.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		l := logging.Entry().WithFields(logrus.Fields{
			"path":    path,
			"raw":     raw,
			"status":  c.Writer.Status(),
			"method":  c.Request.Method,
			"ip":      c.ClientIP(),
			"latency": time.Since(start),
		})

		if len(c.Errors) > 0 {
			l = l.WithField("error", c.Errors.String())
		}

		l.Debug("incoming request")
	}
}

func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		metrics.APIRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
