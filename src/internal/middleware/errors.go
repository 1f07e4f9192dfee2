package middleware

import (
	"customer-dashboard-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorHandler turns the last error recorded with c.Error into a response,
// unless the handler already wrote one.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := models.HTTPStatus(err)

		entry := logrus.WithError(err).WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"status": status,
		})
		if status >= 500 {
			entry.Error("Request failed")
		} else {
			entry.Warn("Request rejected")
		}

		c.String(status, models.PublicMessage(err))
	}
}
