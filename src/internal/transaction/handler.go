package transaction

import (
	"context"
	"net/http"
	"time"

	"customer-dashboard-svc/src/internal/config"
	"customer-dashboard-svc/src/internal/metrics"
	"customer-dashboard-svc/src/internal/models"
	"customer-dashboard-svc/src/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler interface {
	Dashboard(c *gin.Context)
}

type handler struct {
	config    *config.Configuration
	service   Service
	publisher models.ActivityPublisher
	timeout   time.Duration
}

func NewHandler(cfg *config.Configuration, service Service, publisher models.ActivityPublisher, timeout time.Duration) Handler {
	return &handler{
		config:    cfg,
		service:   service,
		publisher: publisher,
		timeout:   timeout,
	}
}

// Dashboard renders the logged-in customer's transactions. The customer is
// taken from the session only; query parameters are not consulted.
func (h *handler) Dashboard(c *gin.Context) {
	s := session.Current(c)
	if s == nil || !s.LoggedIn {
		c.Redirect(http.StatusFound, "/")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	dashboard, err := h.service.GetDashboard(ctx, s.Username, s.CustomerID)
	if err != nil {
		logrus.WithError(err).WithField("username", s.Username).Error("Failed to load dashboard")
		metrics.DashboardRenders.WithLabelValues("error").Inc()
		_ = c.Error(err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"username":     s.Username,
		"transactions": dashboard.Stats.Count,
	}).Info("Dashboard rendered")
	metrics.DashboardRenders.WithLabelValues("ok").Inc()

	if h.publisher != nil {
		err := h.publisher.PublishActivity(models.ActivityMessage{
			Username:    s.Username,
			CustomerID:  s.CustomerID,
			SessionID:   s.SessionID,
			ServiceName: models.ServiceDashboardHandler,
			Action:      models.ActionDashboardView,
			IPAddress:   c.ClientIP(),
		})
		if err != nil {
			logrus.WithError(err).Warn("Failed to publish dashboard activity")
		}
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"title":           h.config.App.Name,
		"transactions":    dashboard.Transactions,
		"stats":           dashboard.Stats,
		"firstName":       dashboard.FirstName,
		"lastName":        dashboard.LastName,
		"customerAcctNum": dashboard.AccountNumber,
		"showOverlay":     true,
	})
}
