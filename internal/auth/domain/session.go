package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is a process-local authenticated session. ID is 64 lowercase hex characters
// (256 random bits) and doubles as the bearer token.
type Session struct {
	ID           string
	UserID       uuid.UUID
	CreatedAt    time.Time
	LastActivity time.Time
}

// Expired reports whether the session has been idle longer than ttl at now.
func (s *Session) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(s.LastActivity) > ttl
}
