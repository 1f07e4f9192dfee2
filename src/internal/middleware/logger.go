package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/tomasen/realip"
)

const RequestIDHeader = "X-Request-ID"

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(RequestIDHeader, requestID)

		c.Next()

		fields := logrus.Fields{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency":    time.Since(start).String(),
			"client_ip":  realip.FromRequest(c.Request),
		}
		if route := c.GetString("route_name"); route != "" {
			fields["route"] = route
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			logrus.WithFields(fields).Error("Request completed")
		case status >= 400:
			logrus.WithFields(fields).Warn("Request completed")
		default:
			logrus.WithFields(fields).Info("Request completed")
		}
	}
}
