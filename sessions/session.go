package sessions

import "time"

// Session is one minted authentication session. Sessions are immutable once
// created: a new login always mints a new session rather than mutating an
// existing one.
type Session struct {
	Token    string    // Opaque unique session token (UUID)
	TenantID string    // Tenant this session belongs to
	UserID   string    // Generated user identifier
	Username string    // Username the session was minted for
	Expires  time.Time // Absolute expiry; zero means the session never expires
}

// Expired reports whether the session is past its expiry at the given
// instant. Sessions without an expiry never expire.
func (s *Session) Expired(now time.Time) bool {
	if s.Expires.IsZero() {
		return false
	}
	return !now.Before(s.Expires)
}
