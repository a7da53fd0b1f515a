package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// PostgresRepository implements the Repository interface using PostgreSQL
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL account repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{
		pool: pool,
	}
}

func pgErrorCode(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	return "", ""
}

// CountAccounts returns the number of registered accounts
func (r *PostgresRepository) CountAccounts(ctx context.Context) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count accounts: %w", err)
	}
	return count, nil
}

// CreateAccount inserts the account and its credential in one transaction
func (r *PostgresRepository) CreateAccount(ctx context.Context, params CreateAccountParams) (*Account, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	account := &Account{}
	err = tx.QueryRow(ctx, `
		INSERT INTO accounts (username, email, name, role_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, username, email, name, role_id, created_at
	`, params.Username, params.Email, params.Name, int(params.Role)).Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.Name,
		&account.Role,
		&account.CreatedAt,
	)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgUniqueViolation {
			return nil, ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO credentials (provider_id, provider_user_id, account_id, secret)
		VALUES ($1, $2, $3, $4)
	`, UsernameProvider, params.Username, account.ID, params.PasswordHash)
	if err != nil {
		if code, _ := pgErrorCode(err); code == pgUniqueViolation {
			return nil, ErrDuplicateIdentity
		}
		return nil, fmt.Errorf("failed to create credential: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit account: %w", err)
	}
	return account, nil
}

// GetByID returns an account by id
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	account := &Account{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, email, name, role_id, created_at
		FROM accounts
		WHERE id = $1
	`, id).Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.Name,
		&account.Role,
		&account.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// GetCredential returns the credential for a provider identity, ignoring case
func (r *PostgresRepository) GetCredential(ctx context.Context, providerID, providerUserID string) (*Credential, error) {
	cred := &Credential{}
	err := r.pool.QueryRow(ctx, `
		SELECT provider_id, provider_user_id, account_id, COALESCE(secret, '')
		FROM credentials
		WHERE provider_id = $1 AND LOWER(provider_user_id) = LOWER($2)
	`, providerID, providerUserID).Scan(
		&cred.ProviderID,
		&cred.ProviderUserID,
		&cred.AccountID,
		&cred.Secret,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}
	return cred, nil
}

// CreateGroupMembership stores an active membership, reactivating an existing one
func (r *PostgresRepository) CreateGroupMembership(ctx context.Context, groupID, accountID uuid.UUID) (*GroupMembership, error) {
	m := &GroupMembership{}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO group_memberships (group_id, account_id, active)
		VALUES ($1, $2, TRUE)
		ON CONFLICT (group_id, account_id) DO UPDATE SET active = TRUE
		RETURNING group_id, account_id, active
	`, groupID, accountID).Scan(&m.GroupID, &m.AccountID, &m.Active)
	if err != nil {
		if code, constraint := pgErrorCode(err); code == pgForeignKeyViolation {
			if constraint == "group_memberships_account_id_fkey" {
				return nil, ErrAccountNotFound
			}
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to create group membership: %w", err)
	}
	return m, nil
}

// ListGroupMemberships returns all memberships of an account
func (r *PostgresRepository) ListGroupMemberships(ctx context.Context, accountID uuid.UUID) ([]GroupMembership, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT group_id, account_id, active
		FROM group_memberships
		WHERE account_id = $1
		ORDER BY created_at
	`, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group memberships: %w", err)
	}
	defer rows.Close()

	var out []GroupMembership
	for rows.Next() {
		var m GroupMembership
		if err := rows.Scan(&m.GroupID, &m.AccountID, &m.Active); err != nil {
			return nil, fmt.Errorf("failed to scan group membership: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
