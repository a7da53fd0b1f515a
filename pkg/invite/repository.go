package invite

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrTokenNotFound is returned when no unredeemed token matches.
	ErrTokenNotFound = errors.New("invite token not found")

	// ErrTokenAlreadyRedeemed is returned by MarkRedeemed when the token
	// exists but another request redeemed it first.
	ErrTokenAlreadyRedeemed = errors.New("invite token already redeemed")
)

// Repository defines the interface for invite token persistence
type Repository interface {
	// Create stores a new, unredeemed token
	Create(ctx context.Context, params CreateTokenParams) (*Token, error)

	// GetByID returns a token regardless of its redeemed state
	GetByID(ctx context.Context, id uuid.UUID) (*Token, error)

	// FindActiveByFingerprint returns the unredeemed token with the given
	// fingerprint. Redeemed tokens are reported as ErrTokenNotFound.
	FindActiveByFingerprint(ctx context.Context, fingerprint string) (*Token, error)

	// MarkRedeemed flips redeemed from false to true in a single conditional
	// write. Only one caller can succeed for a given token.
	MarkRedeemed(ctx context.Context, id uuid.UUID) error
}
