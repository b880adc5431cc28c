package entity

import "time"

// Session is a refresh-token session issued at login.
// Its ID is the refresh token itself, so it must never be logged.
type Session struct {
	ID        string     // 64-character hex refresh token
	UserID    string     // Owning user's ID
	UserAgent string     // Client User-Agent at login
	IPAddress string     // Client IP at login
	CreatedAt time.Time  // Issue time
	ExpiresAt time.Time  // Hard expiry
	RevokedAt *time.Time // Set on logout or rotation
}

// IsExpired reports whether the session has passed its expiry.
func (s *Session) IsExpired() bool {
	return s.IsExpiredAt(time.Now())
}

// IsExpiredAt reports whether the session is expired at now.
func (s *Session) IsExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// IsRevoked reports whether the session was revoked.
func (s *Session) IsRevoked() bool {
	return s.RevokedAt != nil
}

// IsValid is true for sessions that are neither expired nor revoked.
func (s *Session) IsValid() bool {
	return !s.IsExpired() && !s.IsRevoked()
}
