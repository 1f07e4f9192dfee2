package middleware

import (
	"context"
	"net/http"
	"time"

	"customer-dashboard-svc/src/internal/metrics"
	"customer-dashboard-svc/src/internal/models"
	"customer-dashboard-svc/src/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SessionTimeout ends sessions whose expiry has passed and sends the client
// back to the login page. The request is not processed further.
func SessionTimeout(manager *session.Manager, publisher models.ActivityPublisher, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session.Current(c)
		if s == nil || !s.Expired(time.Now()) {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		if err := manager.Destroy(ctx, s); err != nil {
			logrus.WithError(err).WithField("session_id", s.SessionID).Error("Failed to destroy expired session")
		}
		manager.ClearCookie(c)
		session.Attach(c, manager.New())
		metrics.SessionsExpired.Inc()

		logrus.WithFields(logrus.Fields{
			"session_id": s.SessionID,
			"username":   s.Username,
			"expired_at": s.ExpiresAt,
		}).Info("Session expired")

		if publisher != nil {
			err := publisher.PublishActivity(models.ActivityMessage{
				Username:    s.Username,
				CustomerID:  s.CustomerID,
				SessionID:   s.SessionID,
				ServiceName: models.ServiceTimeoutGuard,
				Action:      models.ActionSessionExpired,
				IPAddress:   c.ClientIP(),
			})
			if err != nil {
				logrus.WithError(err).Warn("Failed to publish session expiry")
			}
		}

		c.Redirect(http.StatusFound, "/")
		c.Abort()
	}
}
