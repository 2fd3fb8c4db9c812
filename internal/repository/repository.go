// Package repository exposes the typed account and student operations callers use,
// delegating each one to a storage.Store.
//
// The repository performs no business validation. Its only rules are the ones the
// store cannot enforce by itself: passwords cross this boundary as plaintext and are
// persisted as bcrypt hashes, and student ids are always store-assigned.
package repository

import (
	"context"
	"errors"

	"github.com/mmynk/studentbook/internal/auth"
	"github.com/mmynk/studentbook/internal/models"
	"github.com/mmynk/studentbook/internal/storage"
)

// Repository is a thin façade over storage.Store.
type Repository struct {
	store  storage.Store
	hasher *auth.PasswordHasher
}

// New creates a repository backed by store, hashing passwords with hasher.
func New(store storage.Store, hasher *auth.PasswordHasher) *Repository {
	return &Repository{store: store, hasher: hasher}
}

// Register stores a new account. Returns storage.ErrDuplicate if the username is taken.
func (r *Repository) Register(ctx context.Context, username, phone, password string) error {
	hash, err := r.hasher.Hash(password)
	if err != nil {
		return err
	}
	return r.store.InsertAccount(ctx, &models.Account{
		Username:     username,
		Phone:        phone,
		PasswordHash: hash,
	})
}

// Login reports whether an account exists with exactly this username and password.
// A missing account and a wrong password both return false.
func (r *Repository) Login(ctx context.Context, username, password string) (bool, error) {
	account, err := r.store.GetAccount(ctx, username)
	if err != nil {
		return false, err
	}
	if account == nil {
		_ = r.hasher.CheckMissing(password)
		return false, nil
	}

	err = r.hasher.Check(password, account.PasswordHash)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// IsUserExists reports whether the username is registered.
func (r *Repository) IsUserExists(ctx context.Context, username string) (bool, error) {
	return r.store.AccountExists(ctx, username)
}

// AddStudent stores a copy of student and returns it with the store-assigned ID.
// The caller's value is not modified and its ID is ignored.
func (r *Repository) AddStudent(ctx context.Context, student *models.Student) (*models.Student, error) {
	record := student.Clone()
	record.ID = 0
	if err := r.store.InsertStudent(ctx, record); err != nil {
		return nil, err
	}
	return record.Clone(), nil
}

// GetStudentByID returns the student with id, or nil if there is none.
func (r *Repository) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	return r.store.GetStudent(ctx, id)
}

// GetAllStudents returns every student in insertion order.
func (r *Repository) GetAllStudents(ctx context.Context) ([]*models.Student, error) {
	return r.store.ListStudents(ctx)
}

// DeleteStudent removes the student with id and reports whether one was removed.
func (r *Repository) DeleteStudent(ctx context.Context, id int64) (bool, error) {
	return r.store.DeleteStudent(ctx, id)
}
