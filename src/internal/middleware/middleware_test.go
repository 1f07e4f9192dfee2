package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"customer-dashboard-svc/src/internal/cache"
	"customer-dashboard-svc/src/internal/config"
	"customer-dashboard-svc/src/internal/metrics"
	"customer-dashboard-svc/src/internal/models"
	"customer-dashboard-svc/src/internal/session"
	"customer-dashboard-svc/src/internal/session/sessiontest"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingPublisher struct {
	messages []models.ActivityMessage
}

func (p *recordingPublisher) PublishActivity(message models.ActivityMessage) error {
	p.messages = append(p.messages, message)
	return nil
}

func newTestManager(t *testing.T) (*session.Manager, *sessiontest.MemoryRepository) {
	t.Helper()
	cfg := &config.Configuration{}
	cfg.Security.SessionSecret = testSecret
	cfg.Session.CookieName = "user-sesh.sid"
	cfg.Session.TimeoutMinutes = 15

	repo := sessiontest.NewMemoryRepository()
	return session.NewManager(repo, cache.NewCacheService(nil, cfg), cfg), repo
}

func cookieFor(t *testing.T, sessionID string) *http.Cookie {
	t.Helper()
	token, err := session.NewTokenSigner(testSecret).Sign(sessionID, time.Now())
	require.NoError(t, err)
	return &http.Cookie{Name: "user-sesh.sid", Value: token}
}

func sessionEngine(mgr *session.Manager, publisher models.ActivityPublisher) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler(), Sessions(mgr, time.Second), SessionTimeout(mgr, publisher, time.Second))
	r.GET("/", func(c *gin.Context) {
		s := session.Current(c)
		c.String(http.StatusOK, "user=%s logged_in=%t", s.Username, s.LoggedIn)
	})
	r.GET("/dashboard", RequireLogin(), func(c *gin.Context) {
		c.String(http.StatusOK, "dashboard for %s", c.GetString("username"))
	})
	return r
}

func TestSessions_AnonymousWithoutCookie(t *testing.T) {
	mgr, repo := newTestManager(t)
	r := sessionEngine(mgr, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "user= logged_in=false", w.Body.String())
	require.Zero(t, repo.Len())
}

func TestSessions_ForgedCookieIsAnonymous(t *testing.T) {
	mgr, repo := newTestManager(t)
	repo.Put(models.Session{SessionID: "sid-1", LoggedIn: true, Username: "alice", ExpiresAt: time.Now().Add(time.Hour), CreatedAt: time.Now()})
	r := sessionEngine(mgr, nil)

	token, err := session.NewTokenSigner("other-secret").Sign("sid-1", time.Now())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "user-sesh.sid", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, "user= logged_in=false", w.Body.String())
}

func TestSessions_LoadsStoredSession(t *testing.T) {
	mgr, repo := newTestManager(t)
	repo.Put(models.Session{SessionID: "sid-1", LoggedIn: true, Username: "alice", ExpiresAt: time.Now().Add(time.Hour), CreatedAt: time.Now()})
	r := sessionEngine(mgr, nil)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(cookieFor(t, "sid-1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "dashboard for alice", w.Body.String())
}

func TestSessions_StoreFailureIsServiceUnavailable(t *testing.T) {
	mgr, repo := newTestManager(t)
	repo.Err = models.ErrDatabaseQuery
	r := sessionEngine(mgr, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookieFor(t, "sid-1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Equal(t, "Service temporarily unavailable", w.Body.String())
}

func TestTolerantSessions_StoreFailureContinuesWithPlaceholder(t *testing.T) {
	mgr, repo := newTestManager(t)
	repo.Put(models.Session{SessionID: "sid-1", LoggedIn: true, Username: "alice", ExpiresAt: time.Now().Add(time.Hour), CreatedAt: time.Now()})
	repo.GetErr = models.ErrDatabaseConnection

	r := gin.New()
	r.Use(ErrorHandler(), TolerantSessions(mgr, time.Second))
	r.GET("/signoff", func(c *gin.Context) {
		s := session.Current(c)
		c.String(http.StatusOK, "sid=%s new=%t logged_in=%t", s.SessionID, s.IsNew(), s.LoggedIn)
	})

	req := httptest.NewRequest(http.MethodGet, "/signoff", nil)
	req.AddCookie(cookieFor(t, "sid-1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "sid=sid-1 new=false logged_in=false", w.Body.String())
}

func TestSessionTimeout_DestroysExpiredSession(t *testing.T) {
	mgr, repo := newTestManager(t)
	publisher := &recordingPublisher{}
	r := sessionEngine(mgr, publisher)
	expiredBefore := testutil.ToFloat64(metrics.SessionsExpired)

	for _, path := range []string{"/", "/dashboard"} {
		repo.Put(models.Session{SessionID: "sid-old", LoggedIn: true, Username: "alice", CreatedAt: time.Now().Add(-time.Hour), ExpiresAt: time.Now().Add(-time.Minute)})

		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(cookieFor(t, "sid-old"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusFound, w.Code, path)
		require.Equal(t, "/", w.Header().Get("Location"))
		require.Contains(t, w.Header().Get("Set-Cookie"), "user-sesh.sid=;")
		require.Zero(t, repo.Len(), "expired session must be removed from the store")
	}

	require.Equal(t, expiredBefore+2, testutil.ToFloat64(metrics.SessionsExpired))
	require.Len(t, publisher.messages, 2)
	require.Equal(t, models.ActionSessionExpired, publisher.messages[0].Action)
	require.Equal(t, "alice", publisher.messages[0].Username)
}

func TestSessionTimeout_StoreFailureStillRedirects(t *testing.T) {
	mgr, repo := newTestManager(t)
	repo.Put(models.Session{SessionID: "sid-old", LoggedIn: true, CreatedAt: time.Now().Add(-time.Hour), ExpiresAt: time.Now().Add(-time.Minute)})
	repo.DeleteErr = errors.New("delete failed")
	r := sessionEngine(mgr, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookieFor(t, "sid-old"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
}

func TestRequireLogin_RedirectsAnonymous(t *testing.T) {
	mgr, _ := newTestManager(t)
	r := sessionEngine(mgr, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/bad-login", func(c *gin.Context) { _ = c.Error(models.ErrInvalidCredentials) })
	r.GET("/missing", func(c *gin.Context) { _ = c.Error(models.ErrUserNotFound) })
	r.GET("/unknown", func(c *gin.Context) { _ = c.Error(errors.New("boom")) })
	r.GET("/written", func(c *gin.Context) {
		c.String(http.StatusTeapot, "already")
		_ = c.Error(models.ErrDatabaseQuery)
	})

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/bad-login", http.StatusUnauthorized, "Authentication failed"},
		{"/missing", http.StatusNotFound, "User not found"},
		{"/unknown", http.StatusInternalServerError, "Internal Server Error"},
		{"/written", http.StatusTeapot, "already"},
	}

	for _, tt := range tests {
		t.Run(strings.TrimPrefix(tt.path, "/"), func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, tt.status, w.Code)
			require.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "Internal Server Error", w.Body.String())
}

func TestRequestLogger_RequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	generated := w.Header().Get(RequestIDHeader)
	require.Len(t, generated, 36)
	require.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
