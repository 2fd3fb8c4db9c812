// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/studentbook/internal/models"
)

var (
	// ErrDuplicate is returned when an insert violates a uniqueness constraint.
	ErrDuplicate = errors.New("record already exists")

	// ErrSchemaTooNew is returned when the on-disk schema was written by a newer build.
	ErrSchemaTooNew = errors.New("database schema is newer than this build supports")
)

// Store defines the interface for account and student storage operations.
// This abstraction allows swapping storage backends without changing the
// repository or lifecycle layers.
type Store interface {
	// InsertAccount persists a new account.
	// Returns ErrDuplicate if the username is already taken.
	InsertAccount(ctx context.Context, account *models.Account) error

	// GetAccount retrieves an account by username.
	// Returns nil and no error if the account does not exist.
	GetAccount(ctx context.Context, username string) (*models.Account, error)

	// AccountExists reports whether any account has the given username.
	AccountExists(ctx context.Context, username string) (bool, error)

	// InsertStudent persists a new student.
	// The student.ID field will be populated by the store.
	InsertStudent(ctx context.Context, student *models.Student) error

	// ListStudents returns every student in insertion order.
	ListStudents(ctx context.Context) ([]*models.Student, error)

	// GetStudent retrieves a student by ID.
	// Returns nil and no error if the student does not exist.
	GetStudent(ctx context.Context, id int64) (*models.Student, error)

	// DeleteStudent removes a student by ID and reports whether a row was removed.
	DeleteStudent(ctx context.Context, id int64) (bool, error)

	// SchemaVersion returns the version of the persisted schema.
	SchemaVersion(ctx context.Context) (int, error)

	// Close releases any resources held by the store.
	Close() error
}
