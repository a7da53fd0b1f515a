package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-wishlist/pkg/tokengenerator"
)

// DefaultExpiry is used when no expiry is configured
const DefaultExpiry = 30 * 24 * time.Hour

var (
	// ErrSessionRevoked is returned by Validate for a revoked session
	ErrSessionRevoked = errors.New("session revoked")

	// ErrSessionExpired is returned by Validate for an expired session
	ErrSessionExpired = errors.New("session expired")
)

// Service issues and validates account sessions
type Service struct {
	repo      Repository
	generator tokengenerator.TokenGenerator
	expiry    time.Duration
	now       func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithExpiry sets the session lifetime
func WithExpiry(expiry time.Duration) Option {
	return func(s *Service) {
		if expiry > 0 {
			s.expiry = expiry
		}
	}
}

// WithClock replaces the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new session service
func NewService(repo Repository, generator tokengenerator.TokenGenerator, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		generator: generator,
		expiry:    DefaultExpiry,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue creates a session record for the account and signs its token.
func (s *Service) Issue(ctx context.Context, accountID uuid.UUID) (*IssuedSession, error) {
	if accountID == uuid.Nil {
		return nil, fmt.Errorf("account_id is required")
	}

	sessionID := uuid.New()
	jti := uuid.New().String()

	token, expiresAt, err := s.generator.GenerateToken(accountID.String(), sessionID.String(), jti, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	session, err := s.repo.Create(ctx, CreateSessionRequest{
		ID:        sessionID,
		AccountID: accountID,
		JTI:       jti,
		IssuedAt:  s.now().UTC(),
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	slog.Info("Session issued", "session_id", session.ID, "account_id", accountID)
	return &IssuedSession{Session: session, Token: token, ExpiresAt: expiresAt}, nil
}

// Get retrieves a session by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	return s.repo.GetByID(ctx, id)
}

// Revoke ends a session
func (s *Service) Revoke(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Revoke(ctx, id); err != nil {
		return err
	}
	slog.Info("Session revoked", "session_id", id)
	return nil
}

// Validate parses a session token and checks the stored session is active.
func (s *Service) Validate(ctx context.Context, token string) (*Session, error) {
	claims, err := s.generator.ParseToken(token)
	if err != nil {
		return nil, err
	}
	return s.ValidateID(ctx, claims.SessionID, claims.Subject)
}

// ValidateID checks a session id taken from already verified claims.
func (s *Service) ValidateID(ctx context.Context, sessionID, subject string) (*Session, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad session id", tokengenerator.ErrInvalidToken)
	}

	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.AccountID.String() != subject {
		return nil, fmt.Errorf("%w: subject mismatch", tokengenerator.ErrInvalidToken)
	}
	if session.RevokedAt != nil {
		return nil, ErrSessionRevoked
	}
	if !session.IsActive(s.now()) {
		return nil, ErrSessionExpired
	}
	return session, nil
}
