package models

import "time"

type ActivityMessage struct {
	Username    string            `json:"username"`
	CustomerID  string            `json:"customer_id,omitempty"`
	SessionID   string            `json:"session_id,omitempty"`
	ServiceName string            `json:"service_name"`
	Action      string            `json:"action"`
	IPAddress   string            `json:"ip_address,omitempty"`
	UserAgent   string            `json:"user_agent,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
}

// Activity action constants
const (
	ActionAuthenticated  = "authenticated"
	ActionLoginFailed    = "login_failed"
	ActionSignedOff      = "signed_off"
	ActionSessionExpired = "session_expired"
	ActionDashboardView  = "dashboard_view"
)

// Service name constants
const (
	ServiceAuthHandler      = "dashboard.handler.auth"
	ServiceSignoffHandler   = "dashboard.handler.signoff"
	ServiceDashboardHandler = "dashboard.handler.dashboard"
	ServiceTimeoutGuard     = "dashboard.middleware.timeout"
)

// ActivityPublisher is satisfied by clients.ActivityClient.
type ActivityPublisher interface {
	PublishActivity(message ActivityMessage) error
}
