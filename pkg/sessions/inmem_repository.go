package sessions

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]Session
}

// NewInMemoryRepository creates a new in-memory session repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		sessions: make(map[uuid.UUID]Session),
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, req CreateSessionRequest) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := req.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	if _, exists := r.sessions[id]; exists {
		return nil, fmt.Errorf("session %s already exists", id)
	}
	for _, s := range r.sessions {
		if s.JTI == req.JTI {
			return nil, fmt.Errorf("session with jti %s already exists", req.JTI)
		}
	}

	session := Session{
		ID:         id,
		AccountID:  req.AccountID,
		JTI:        req.JTI,
		Attributes: req.Attributes,
		IssuedAt:   req.IssuedAt,
		ExpiresAt:  req.ExpiresAt,
		CreatedAt:  time.Now().UTC(),
	}
	r.sessions[id] = session

	out := session
	return &out, nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (r *InMemoryRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if session.RevokedAt == nil {
		now := time.Now().UTC()
		session.RevokedAt = &now
		r.sessions[id] = session
	}
	return nil
}

func (r *InMemoryRepository) ListByAccountID(ctx context.Context, accountID uuid.UUID) ([]Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Session
	for _, s := range r.sessions {
		if s.AccountID == accountID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].IssuedAt.After(out[j].IssuedAt)
	})
	return out, nil
}
