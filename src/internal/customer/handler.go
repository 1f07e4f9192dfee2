package customer

import (
	"context"
	"errors"
	"fmt"
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
	ShowLogin(c *gin.Context)
	Authenticate(c *gin.Context)
	Signoff(c *gin.Context)
}

type handler struct {
	config    *config.Configuration
	service   Service
	sessions  *session.Manager
	publisher models.ActivityPublisher
	timeout   time.Duration
}

func NewHandler(cfg *config.Configuration, service Service, sessions *session.Manager, publisher models.ActivityPublisher, timeout time.Duration) Handler {
	return &handler{
		config:    cfg,
		service:   service,
		sessions:  sessions,
		publisher: publisher,
		timeout:   timeout,
	}
}

func (h *handler) ShowLogin(c *gin.Context) {
	if s := session.Current(c); s != nil && s.Authenticated(time.Now()) {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"title": h.config.App.Name,
	})
}

func (h *handler) Authenticate(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		logrus.WithError(err).Warn("Malformed login request")
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		_ = c.Error(fmt.Errorf("%w: %v", models.ErrValidation, err))
		return
	}

	profile, err := h.service.Authenticate(ctx, req.UserID, req.Password)
	if err != nil {
		h.handleAuthError(c, req.UserID, err)
		return
	}

	client := session.ClientInfo{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	identity := session.Identity{
		Username:   profile.Username,
		CustomerID: profile.CustomerID,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
	}

	s, err := h.sessions.Login(ctx, session.Current(c), identity, client)
	if err != nil {
		logrus.WithError(err).WithField("username", profile.Username).Error("Failed to establish session")
		_ = c.Error(err)
		return
	}

	if err := h.sessions.WriteCookie(c, s); err != nil {
		logrus.WithError(err).Error("Failed to sign session cookie")
		_ = c.Error(err)
		return
	}
	session.Attach(c, s)

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	h.publish(models.ActivityMessage{
		Username:    s.Username,
		CustomerID:  s.CustomerID,
		SessionID:   s.SessionID,
		ServiceName: models.ServiceAuthHandler,
		Action:      models.ActionAuthenticated,
		IPAddress:   client.IPAddress,
		UserAgent:   client.UserAgent,
	})

	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *handler) handleAuthError(c *gin.Context, username string, err error) {
	switch {
	case errors.Is(err, models.ErrMissingCredentials):
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
	case errors.Is(err, models.ErrInvalidCredentials):
		metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		h.publish(models.ActivityMessage{
			Username:    username,
			ServiceName: models.ServiceAuthHandler,
			Action:      models.ActionLoginFailed,
			IPAddress:   c.ClientIP(),
			UserAgent:   c.Request.UserAgent(),
		})
	default:
		metrics.LoginAttempts.WithLabelValues("error").Inc()
		logrus.WithError(err).WithField("username", username).Error("Authentication failed with an internal error")
	}

	_ = c.Error(err)
}

// Signoff always ends the session: store failures are logged and the cookie is cleared regardless.
func (h *handler) Signoff(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	s := session.Current(c)
	if err := h.sessions.Destroy(ctx, s); err != nil {
		logrus.WithError(err).Error("Error destroying the session")
	}
	h.sessions.ClearCookie(c)
	session.Attach(c, h.sessions.New())

	if s != nil && s.LoggedIn {
		h.publish(models.ActivityMessage{
			Username:    s.Username,
			CustomerID:  s.CustomerID,
			SessionID:   s.SessionID,
			ServiceName: models.ServiceSignoffHandler,
			Action:      models.ActionSignedOff,
			IPAddress:   c.ClientIP(),
		})
	}

	c.Redirect(http.StatusFound, "/")
}

func (h *handler) publish(message models.ActivityMessage) {
	if h.publisher == nil {
		return
	}
	if err := h.publisher.PublishActivity(message); err != nil {
		logrus.WithError(err).WithField("action", message.Action).Warn("Failed to publish activity")
	}
}
