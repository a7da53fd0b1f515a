package sessions

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned when no session has the given id
var ErrSessionNotFound = errors.New("session not found")

// Repository defines the interface for session data access
type Repository interface {
	// Create a new session
	Create(ctx context.Context, req CreateSessionRequest) (*Session, error)

	// Get a session by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)

	// Revoke a session by ID. Revoking twice is not an error.
	Revoke(ctx context.Context, id uuid.UUID) error

	// List sessions of an account, newest first
	ListByAccountID(ctx context.Context, accountID uuid.UUID) ([]Session, error)
}
