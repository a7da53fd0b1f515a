package sessions

import (
	"time"

	"github.com/google/uuid"
)

// Session is an authenticated session of an account
type Session struct {
	ID         uuid.UUID         `json:"id"`
	AccountID  uuid.UUID         `json:"account_id"`
	JTI        string            `json:"jti"`
	Attributes map[string]string `json:"attributes,omitempty"`
	IssuedAt   time.Time         `json:"issued_at"`
	ExpiresAt  time.Time         `json:"expires_at"`
	RevokedAt  *time.Time        `json:"revoked_at,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// IsActive reports whether the session is neither revoked nor expired at now
func (s *Session) IsActive(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// CreateSessionRequest represents the request to create a new session
type CreateSessionRequest struct {
	ID         uuid.UUID
	AccountID  uuid.UUID
	JTI        string
	Attributes map[string]string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// IssuedSession is a stored session together with its signed token
type IssuedSession struct {
	Session   *Session
	Token     string
	ExpiresAt time.Time
}
