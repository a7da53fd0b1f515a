package invite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Service issues invite tokens
type Service struct {
	repo Repository
}

// NewService creates a new invite service
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// IssuedInvite is a stored token together with its raw value. The raw value
// is never persisted and can only be shown once.
type IssuedInvite struct {
	Token    *Token
	RawToken string
}

// Issue generates a raw token, stores its fingerprint and returns both.
// groupID is optional; when set the invited account joins that group.
func (s *Service) Issue(ctx context.Context, groupID *uuid.UUID) (*IssuedInvite, error) {
	raw, err := GenerateRawToken()
	if err != nil {
		return nil, err
	}
	fp, err := Fingerprint(raw)
	if err != nil {
		return nil, err
	}

	token, err := s.repo.Create(ctx, CreateTokenParams{
		Fingerprint: fp,
		GroupID:     groupID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store invite token: %w", err)
	}

	slog.Info("Invite token issued", "token_id", token.ID, "group_id", groupID)
	return &IssuedInvite{Token: token, RawToken: raw}, nil
}

// Lookup fingerprints raw and returns the matching unredeemed token.
func (s *Service) Lookup(ctx context.Context, raw string) (*Token, error) {
	fp, err := Fingerprint(raw)
	if err != nil {
		return nil, err
	}
	return s.repo.FindActiveByFingerprint(ctx, fp)
}

// Redeem marks the token as consumed.
func (s *Service) Redeem(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkRedeemed(ctx, id)
}
