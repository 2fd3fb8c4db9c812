package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/studentbook/internal/models"
	"github.com/mmynk/studentbook/internal/storage"
)

// InsertAccount inserts a new account into the database.
func (s *SQLiteStore) InsertAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (username, phone, password)
		VALUES (?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		account.Username,
		account.Phone,
		account.PasswordHash,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("%w: account %q", storage.ErrDuplicate, account.Username)
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}

	return nil
}

// GetAccount retrieves an account by its username.
func (s *SQLiteStore) GetAccount(ctx context.Context, username string) (*models.Account, error) {
	query := `
		SELECT username, phone, password
		FROM accounts
		WHERE username = ?
	`

	account := &models.Account{}
	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&account.Username,
		&account.Phone,
		&account.PasswordHash,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Account not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return account, nil
}

// AccountExists reports whether an account with the given username exists.
func (s *SQLiteStore) AccountExists(ctx context.Context, username string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM accounts WHERE username = ?", username).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	return true, nil
}
