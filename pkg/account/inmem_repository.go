package account

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type credentialKey struct {
	providerID     string
	providerUserID string
}

type membershipKey struct {
	groupID   uuid.UUID
	accountID uuid.UUID
}

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu          sync.Mutex
	accounts    map[uuid.UUID]Account
	usernames   map[string]uuid.UUID
	emails      map[string]uuid.UUID
	credentials map[credentialKey]Credential
	groups      map[uuid.UUID]string
	memberships map[membershipKey]GroupMembership
}

// NewInMemoryRepository creates a new in-memory account repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		accounts:    make(map[uuid.UUID]Account),
		usernames:   make(map[string]uuid.UUID),
		emails:      make(map[string]uuid.UUID),
		credentials: make(map[credentialKey]Credential),
		groups:      make(map[uuid.UUID]string),
		memberships: make(map[membershipKey]GroupMembership),
	}
}

// AddGroup registers a group so memberships can reference it
func (r *InMemoryRepository) AddGroup(id uuid.UUID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups[id] = name
}

// RemoveGroup deletes a group and its memberships
func (r *InMemoryRepository) RemoveGroup(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.groups, id)
	for key := range r.memberships {
		if key.groupID == id {
			delete(r.memberships, key)
		}
	}
}

func (r *InMemoryRepository) CountAccounts(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.accounts)), nil
}

func (r *InMemoryRepository) CreateAccount(ctx context.Context, params CreateAccountParams) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	username := strings.ToLower(params.Username)
	email := strings.ToLower(params.Email)
	if _, taken := r.usernames[username]; taken {
		return nil, ErrDuplicateIdentity
	}
	if _, taken := r.emails[email]; taken {
		return nil, ErrDuplicateIdentity
	}

	account := Account{
		ID:        uuid.New(),
		Username:  params.Username,
		Email:     params.Email,
		Name:      params.Name,
		Role:      params.Role,
		CreatedAt: time.Now().UTC(),
	}
	r.accounts[account.ID] = account
	r.usernames[username] = account.ID
	r.emails[email] = account.ID
	r.credentials[credentialKey{UsernameProvider, username}] = Credential{
		ProviderID:     UsernameProvider,
		ProviderUserID: params.Username,
		AccountID:      account.ID,
		Secret:         params.PasswordHash,
	}

	out := account
	return &out, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return &account, nil
}

func (r *InMemoryRepository) GetCredential(ctx context.Context, providerID, providerUserID string) (*Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cred, ok := r.credentials[credentialKey{providerID, strings.ToLower(providerUserID)}]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return &cred, nil
}

func (r *InMemoryRepository) CreateGroupMembership(ctx context.Context, groupID, accountID uuid.UUID) (*GroupMembership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.groups[groupID]; !ok {
		return nil, ErrGroupNotFound
	}
	if _, ok := r.accounts[accountID]; !ok {
		return nil, ErrAccountNotFound
	}

	m := GroupMembership{GroupID: groupID, AccountID: accountID, Active: true}
	r.memberships[membershipKey{groupID, accountID}] = m
	return &m, nil
}

func (r *InMemoryRepository) ListGroupMemberships(ctx context.Context, accountID uuid.UUID) ([]GroupMembership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []GroupMembership
	for key, m := range r.memberships {
		if key.accountID == accountID {
			out = append(out, m)
		}
	}
	return out, nil
}
