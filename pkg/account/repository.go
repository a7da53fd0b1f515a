package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrDuplicateIdentity is returned when the username or email is taken.
	ErrDuplicateIdentity = errors.New("user with username or email already exists")

	// ErrAccountNotFound is returned when no account has the given id.
	ErrAccountNotFound = errors.New("account not found")

	// ErrGroupNotFound is returned when linking to a group that does not exist.
	ErrGroupNotFound = errors.New("group not found")

	// ErrLinkFailed wraps any failure to create a group membership.
	ErrLinkFailed = errors.New("failed to link account to group")
)

// Repository defines the interface for account persistence
type Repository interface {
	// CountAccounts returns the number of registered accounts
	CountAccounts(ctx context.Context) (int64, error)

	// CreateAccount stores the profile and username credential atomically.
	// Returns ErrDuplicateIdentity if username or email is taken.
	CreateAccount(ctx context.Context, params CreateAccountParams) (*Account, error)

	// GetByID returns an account by id
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// GetCredential returns the credential for a provider identity
	GetCredential(ctx context.Context, providerID, providerUserID string) (*Credential, error)

	// CreateGroupMembership stores an active membership
	CreateGroupMembership(ctx context.Context, groupID, accountID uuid.UUID) (*GroupMembership, error)

	// ListGroupMemberships returns all memberships of an account
	ListGroupMemberships(ctx context.Context, accountID uuid.UUID) ([]GroupMembership, error)
}
