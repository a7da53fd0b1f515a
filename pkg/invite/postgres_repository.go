package invite

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL invite repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		pool: pool,
	}
}

const tokenColumns = `id, fingerprint, group_id, created_at, redeemed, redeemed_at`

func scanToken(row pgx.Row) (*Token, error) {
	token := &Token{}
	err := row.Scan(
		&token.ID,
		&token.Fingerprint,
		&token.GroupID,
		&token.CreatedAt,
		&token.Redeemed,
		&token.RedeemedAt,
	)
	if err != nil {
		return nil, err
	}
	return token, nil
}

// Create stores a new, unredeemed token
func (r *PostgresRepository) Create(ctx context.Context, params CreateTokenParams) (*Token, error) {
	query := `
		INSERT INTO invite_tokens (fingerprint, group_id)
		VALUES ($1, $2)
		RETURNING ` + tokenColumns

	token, err := scanToken(r.pool.QueryRow(ctx, query, params.Fingerprint, params.GroupID))
	if err != nil {
		return nil, fmt.Errorf("failed to create invite token: %w", err)
	}
	return token, nil
}

// GetByID returns a token regardless of its redeemed state
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM invite_tokens WHERE id = $1`

	token, err := scanToken(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invite token: %w", err)
	}
	return token, nil
}

// FindActiveByFingerprint returns the unredeemed token with the given fingerprint
func (r *PostgresRepository) FindActiveByFingerprint(ctx context.Context, fingerprint string) (*Token, error) {
	query := `
		SELECT ` + tokenColumns + `
		FROM invite_tokens
		WHERE fingerprint = $1
		  AND redeemed = FALSE
	`

	token, err := scanToken(r.pool.QueryRow(ctx, query, fingerprint))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find invite token: %w", err)
	}
	return token, nil
}

// MarkRedeemed flips redeemed to true only if it is still false
func (r *PostgresRepository) MarkRedeemed(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE invite_tokens
		SET redeemed = TRUE,
		    redeemed_at = NOW()
		WHERE id = $1
		  AND redeemed = FALSE
	`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to redeem invite token: %w", err)
	}
	if result.RowsAffected() == 1 {
		return nil
	}

	// Nothing updated: either the token is gone or someone redeemed it first.
	var exists bool
	err = r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM invite_tokens WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check invite token: %w", err)
	}
	if !exists {
		return ErrTokenNotFound
	}
	return ErrTokenAlreadyRedeemed
}
