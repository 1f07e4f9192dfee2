package session

import (
	"math"
	"net/http"
	"time"

	"customer-dashboard-svc/src/internal/models"

	"github.com/gin-gonic/gin"
)

const contextKey = "session"

// Attach stores the request's session on the gin context.
func Attach(c *gin.Context, s *models.Session) {
	c.Set(contextKey, s)
}

// Current returns the session attached by the session middleware, or nil.
func Current(c *gin.Context) *models.Session {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	s, _ := v.(*models.Session)
	return s
}

func (m *Manager) CookieName() string {
	return m.cfg.CookieName
}

// WriteCookie sets the signed session cookie; its max-age is the session's remaining lifetime.
func (m *Manager) WriteCookie(c *gin.Context, s *models.Session) error {
	token, err := m.signer.Sign(s.SessionID, s.CreatedAt)
	if err != nil {
		return err
	}

	maxAge := int(math.Ceil(time.Until(s.ExpiresAt).Seconds()))
	if maxAge <= 0 {
		maxAge = -1
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cfg.CookieName, token, maxAge, "/", "", m.cfg.SecureCookie, true)
	return nil
}

func (m *Manager) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cfg.CookieName, "", -1, "/", "", m.cfg.SecureCookie, true)
}
