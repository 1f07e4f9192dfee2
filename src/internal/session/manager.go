package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"customer-dashboard-svc/src/internal/cache"
	"customer-dashboard-svc/src/internal/config"
	"customer-dashboard-svc/src/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const activityInterval = time.Minute

// Identity is what a successful login stores in the session.
type Identity struct {
	Username   string
	CustomerID string
	FirstName  string
	LastName   string
}

// ClientInfo describes the client that opened the session.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// Manager owns session lifecycle: lookup (cache first, then MongoDB),
// login, and destruction.
type Manager struct {
	repo    Repository
	cache   cache.Service
	signer  *TokenSigner
	cfg     *config.SessionSettings
	timeout time.Duration
	now     func() time.Time
}

func NewManager(repo Repository, cacheService cache.Service, cfg *config.Configuration) *Manager {
	timeout := time.Duration(cfg.Session.TimeoutMinutes) * time.Minute
	if timeout <= 0 {
		timeout = 15 * time.Minute
	}

	return &Manager{
		repo:    repo,
		cache:   cacheService,
		signer:  NewTokenSigner(cfg.Security.SessionSecret),
		cfg:     &cfg.Session,
		timeout: timeout,
		now:     time.Now,
	}
}

func (m *Manager) Timeout() time.Duration {
	return m.timeout
}

// New returns a fresh anonymous session. It is not persisted until Login.
func (m *Manager) New() *models.Session {
	return &models.Session{SessionID: uuid.NewString()}
}

// Placeholder stands in for a session the store could not return. It keeps
// the cookie's session id so Destroy can still remove whatever is stored.
func (m *Manager) Placeholder(cookieValue string) *models.Session {
	sessionID, err := m.signer.Parse(cookieValue)
	if err != nil {
		return m.New()
	}
	return &models.Session{SessionID: sessionID, CreatedAt: m.now().UTC()}
}

// Resolve maps a cookie value onto a session. Missing, forged, or unknown
// cookies yield a fresh anonymous session; only store failures are errors.
func (m *Manager) Resolve(ctx context.Context, cookieValue string) (*models.Session, error) {
	if cookieValue == "" {
		return m.New(), nil
	}

	sessionID, err := m.signer.Parse(cookieValue)
	if err != nil {
		logrus.Debug("Ignoring session cookie with invalid signature")
		return m.New(), nil
	}

	s, err := m.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, models.ErrSessionNotFound) {
			return m.New(), nil
		}
		return nil, err
	}

	return s, nil
}

// Load fetches a stored session by id, preferring the cache.
func (m *Manager) Load(ctx context.Context, sessionID string) (*models.Session, error) {
	s, err := m.cache.GetSession(ctx, sessionID)
	if err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).Warn("Session cache unavailable, falling back to database")
	}

	if s == nil {
		s, err = m.repo.GetByID(ctx, sessionID)
		if err != nil {
			return nil, err
		}

		if !s.Expired(m.now()) {
			if err := m.cache.CacheSession(ctx, s); err != nil {
				logrus.WithError(err).WithField("session_id", sessionID).Warn("Failed to cache session")
			}
		}
	}

	m.touch(ctx, s)
	return s, nil
}

// touch records activity on a live logged-in session, at most once per activityInterval.
func (m *Manager) touch(ctx context.Context, s *models.Session) {
	now := m.now().UTC()
	if !s.Authenticated(now) || now.Sub(s.LastActiveAt) < activityInterval {
		return
	}

	s.LastActiveAt = now
	if err := m.repo.UpdateActivity(ctx, s.SessionID, now); err != nil {
		logrus.WithError(err).WithField("session_id", s.SessionID).Warn("Failed to record session activity")
		return
	}
	if err := m.cache.CacheSession(ctx, s); err != nil {
		logrus.WithError(err).WithField("session_id", s.SessionID).Warn("Failed to cache session")
	}
}

// Login discards previous and persists a new authenticated session for id.
// The session id is regenerated so a pre-login cookie never becomes authenticated.
func (m *Manager) Login(ctx context.Context, previous *models.Session, id Identity, client ClientInfo) (*models.Session, error) {
	if previous != nil && !previous.IsNew() {
		if err := m.Destroy(ctx, previous); err != nil {
			logrus.WithError(err).WithField("session_id", previous.SessionID).Warn("Failed to discard previous session")
		}
	}

	now := m.now().UTC()
	s := &models.Session{
		SessionID:    uuid.NewString(),
		LoggedIn:     true,
		Username:     id.Username,
		CustomerID:   id.CustomerID,
		FirstName:    id.FirstName,
		LastName:     id.LastName,
		IPAddress:    client.IPAddress,
		UserAgent:    client.UserAgent,
		ExpiresAt:    now.Add(m.timeout),
		CreatedAt:    now,
		LastActiveAt: now,
	}

	if err := m.repo.Save(ctx, s); err != nil {
		return nil, err
	}

	if err := m.cache.CacheSession(ctx, s); err != nil {
		logrus.WithError(err).WithField("session_id", s.SessionID).Warn("Failed to cache new session")
	}

	logrus.WithFields(logrus.Fields{
		"session_id": s.SessionID,
		"username":   s.Username,
		"expires_at": s.ExpiresAt,
	}).Info("Session established")

	return s, nil
}

// Destroy removes the session from cache and store. Both removals are
// attempted even when one fails.
func (m *Manager) Destroy(ctx context.Context, s *models.Session) error {
	if s == nil || s.IsNew() {
		return nil
	}

	var errs []error
	if err := m.cache.DeleteSession(ctx, s.SessionID); err != nil {
		errs = append(errs, err)
	}
	if err := m.repo.Delete(ctx, s.SessionID); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("destroy session %s: %w", s.SessionID, errors.Join(errs...))
	}

	logrus.WithField("session_id", s.SessionID).Info("Session destroyed")
	return nil
}
