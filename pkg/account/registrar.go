package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Registrar creates accounts and group memberships
type Registrar struct {
	repo   Repository
	hasher PasswordHasher
}

// Option configures a Registrar
type Option func(*Registrar)

// WithPasswordHasher overrides the default bcrypt hasher
func WithPasswordHasher(hasher PasswordHasher) Option {
	return func(r *Registrar) {
		r.hasher = hasher
	}
}

// NewRegistrar creates a registrar backed by repo
func NewRegistrar(repo Repository, opts ...Option) *Registrar {
	r := &Registrar{
		repo:   repo,
		hasher: NewBcryptHasher(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AssignRole returns RoleAdmin when no account exists yet, RoleUser otherwise.
// The count is advisory: it is not held across Register.
func (r *Registrar) AssignRole(ctx context.Context) (Role, error) {
	count, err := r.repo.CountAccounts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to assign role: %w", err)
	}
	if count == 0 {
		return RoleAdmin, nil
	}
	return RoleUser, nil
}

// Register hashes the password and stores the account with its credential.
func (r *Registrar) Register(ctx context.Context, params RegisterParams) (*Account, error) {
	hash, err := r.hasher.Hash(params.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account, err := r.repo.CreateAccount(ctx, CreateAccountParams{
		Username:     params.Username,
		Email:        params.Email,
		Name:         params.Name,
		Role:         params.Role,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Account registered", "account_id", account.ID, "role", account.Role)
	return account, nil
}

// LinkToGroup adds the account to the group. The account is kept on failure.
func (r *Registrar) LinkToGroup(ctx context.Context, accountID, groupID uuid.UUID) error {
	if _, err := r.repo.CreateGroupMembership(ctx, groupID, accountID); err != nil {
		return fmt.Errorf("%w: %w", ErrLinkFailed, err)
	}
	return nil
}
