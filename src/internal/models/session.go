package models

import "time"

// Session is the server-held state behind the session cookie. ExpiresAt is
// the only expiry: the cookie max-age and the cache TTL are derived from it.
type Session struct {
	SessionID    string    `bson:"session_id" json:"session_id"`
	LoggedIn     bool      `bson:"logged_in" json:"logged_in"`
	Username     string    `bson:"username,omitempty" json:"username,omitempty"`
	CustomerID   string    `bson:"customer_id,omitempty" json:"customer_id,omitempty"`
	FirstName    string    `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName     string    `bson:"last_name,omitempty" json:"last_name,omitempty"`
	IPAddress    string    `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	UserAgent    string    `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	ExpiresAt    time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	LastActiveAt time.Time `bson:"last_active_at" json:"last_active_at"`
}

// IsNew reports whether the session has never been persisted.
func (s *Session) IsNew() bool {
	return s.CreatedAt.IsZero()
}

// Expired reports whether the session carries a timeout that lies before now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// Authenticated reports whether the session belongs to a logged-in customer and is still valid.
func (s *Session) Authenticated(now time.Time) bool {
	return s.LoggedIn && s.Username != "" && !s.Expired(now)
}
