package middleware

import (
	"net/http"
	"time"

	"customer-dashboard-svc/src/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequireLogin redirects to the login page unless the attached session is
// logged in and unexpired.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session.Current(c)
		if s == nil || !s.Authenticated(time.Now()) {
			logrus.WithField("path", c.Request.URL.Path).Debug("Anonymous request to protected route")
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		c.Set("username", s.Username)
		c.Set("customer_id", s.CustomerID)
		c.Next()
	}
}
