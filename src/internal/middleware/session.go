package middleware

import (
	"context"
	"time"

	"customer-dashboard-svc/src/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Sessions resolves the session cookie and attaches the session to the
// request. Requests without a valid cookie get a fresh anonymous session.
// A store failure ends the request.
func Sessions(manager *session.Manager, timeout time.Duration) gin.HandlerFunc {
	return attachSession(manager, timeout, false)
}

// TolerantSessions behaves like Sessions, except that a store failure attaches
// a placeholder carrying the cookie's session id and the request continues.
// Routes that must always finish, such as signoff, use it.
func TolerantSessions(manager *session.Manager, timeout time.Duration) gin.HandlerFunc {
	return attachSession(manager, timeout, true)
}

func attachSession(manager *session.Manager, timeout time.Duration, tolerant bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(manager.CookieName())

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		s, err := manager.Resolve(ctx, cookie)
		if err != nil {
			if !tolerant {
				logrus.WithError(err).Error("Failed to load session")
				_ = c.Error(err)
				c.Abort()
				return
			}
			logrus.WithError(err).Warn("Failed to load session, continuing with placeholder")
			s = manager.Placeholder(cookie)
		}

		session.Attach(c, s)
		c.Next()
	}
}
