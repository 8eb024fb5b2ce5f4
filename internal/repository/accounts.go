package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rentalmap/internal/model"

	"github.com/jmoiron/sqlx"
)

// AccountRepository handles credential rows. The schema carries no
// uniqueness constraint on username; Find resolves duplicates by taking
// the first row so authentication stays deterministic.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// EnsureSchema creates the accounts table if it does not exist yet.
func (r *AccountRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS accounts (
			username TEXT,
			password_hash TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to ensure accounts schema: %w", err)
	}
	return nil
}

// Find returns the account for the given username, or nil when no row
// matches.
func (r *AccountRepository) Find(ctx context.Context, username string) (*model.Account, error) {
	var account model.Account
	query := r.db.Rebind(`SELECT username, password_hash FROM accounts WHERE username = ? LIMIT 1`)
	err := r.db.GetContext(ctx, &account, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return &account, nil
}

// Insert stores a new credential row. No pre-existence check: duplicate
// usernames are representable.
func (r *AccountRepository) Insert(ctx context.Context, username, passwordHash string) error {
	query := r.db.Rebind(`INSERT INTO accounts (username, password_hash) VALUES (?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, username, passwordHash); err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}
	return nil
}
