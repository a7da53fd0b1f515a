package invite

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu            sync.Mutex
	tokens        map[uuid.UUID]Token
	byFingerprint map[string]uuid.UUID
	now           func() time.Time
}

// NewInMemoryRepository creates a new in-memory invite repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		tokens:        make(map[uuid.UUID]Token),
		byFingerprint: make(map[string]uuid.UUID),
		now:           time.Now,
	}
}

// Create stores a new token. Fingerprints are unique.
func (r *InMemoryRepository) Create(ctx context.Context, params CreateTokenParams) (*Token, error) {
	return r.CreateAt(ctx, params, r.now().UTC())
}

// CreateAt stores a new token with an explicit creation time.
func (r *InMemoryRepository) CreateAt(ctx context.Context, params CreateTokenParams, createdAt time.Time) (*Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if params.Fingerprint == "" {
		return nil, ErrInvalidTokenFormat
	}
	if _, exists := r.byFingerprint[params.Fingerprint]; exists {
		return nil, fmt.Errorf("invite token fingerprint already exists")
	}

	token := Token{
		ID:          uuid.New(),
		Fingerprint: params.Fingerprint,
		GroupID:     params.GroupID,
		CreatedAt:   createdAt,
	}
	r.tokens[token.ID] = token
	r.byFingerprint[token.Fingerprint] = token.ID

	out := token
	return &out, nil
}

// GetByID returns a token regardless of its redeemed state
func (r *InMemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.tokens[id]
	if !ok {
		return nil, ErrTokenNotFound
	}
	return &token, nil
}

// FindActiveByFingerprint returns the unredeemed token with the given fingerprint
func (r *InMemoryRepository) FindActiveByFingerprint(ctx context.Context, fingerprint string) (*Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byFingerprint[fingerprint]
	if !ok {
		return nil, ErrTokenNotFound
	}
	token := r.tokens[id]
	if token.Redeemed {
		return nil, ErrTokenNotFound
	}
	return &token, nil
}

// MarkRedeemed flips the token to redeemed if nobody else has
func (r *InMemoryRepository) MarkRedeemed(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	token, ok := r.tokens[id]
	if !ok {
		return ErrTokenNotFound
	}
	if token.Redeemed {
		return ErrTokenAlreadyRedeemed
	}

	now := r.now().UTC()
	token.Redeemed = true
	token.RedeemedAt = &now
	r.tokens[id] = token
	return nil
}
