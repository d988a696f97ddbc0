package models

import "time"

// Session is an authenticated bearer session.
//
// Token is an opaque random string with at least 256 bits of entropy. It
// carries no claims: possession of the token is the whole credential, and
// every request is checked against the sessions table.
type Session struct {
	SessionID int64     `json:"-"`
	AccountID int64     `json:"-"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// TableName returns the name of the database table
// associated with the Session model.
func (s Session) TableName() string {
	return "sessions"
}
