package records

import (
	"context"
	"errors"
	"strings"

	"github.com/mmynk/studentbook/internal/auth"
	"github.com/mmynk/studentbook/internal/storage"
)

const (
	reasonFillAllFields      = "Please fill all fields"
	reasonUserExists         = "User already exists"
	reasonRegistrationFailed = "Registration failed"
	reasonInvalidCredentials = "Invalid credentials"
	reasonLoginFailed        = "Login failed"
	reasonPasswordTooLong    = "Password must be at most 72 bytes"
)

// AccountRepository is the subset of the repository the account rules need.
type AccountRepository interface {
	Register(ctx context.Context, username, phone, password string) error
	Login(ctx context.Context, username, password string) (bool, error)
	IsUserExists(ctx context.Context, username string) (bool, error)
}

// Registration is the input to Accounts.Register.
type Registration struct {
	Username string
	Phone    string
	Password string
}

// Accounts applies the registration and login rules.
type Accounts struct {
	repo AccountRepository
}

// NewAccounts creates the account rules over repo.
func NewAccounts(repo AccountRepository) *Accounts {
	return &Accounts{repo: repo}
}

// Register creates an account.
//
// The existence check before the insert is advisory: two concurrent registrations
// of one username can both pass it. The store's primary key decides, and its
// duplicate error is reported the same way as a failed pre-check.
func (a *Accounts) Register(ctx context.Context, reg Registration) error {
	if isBlank(reg.Username) || isBlank(reg.Password) {
		return validationError(reasonFillAllFields)
	}
	if len(reg.Password) > auth.MaxPasswordBytes {
		return validationError(reasonPasswordTooLong)
	}

	exists, err := a.repo.IsUserExists(ctx, reg.Username)
	if err != nil {
		return storageError(reasonRegistrationFailed, err)
	}
	if exists {
		return &Error{Kind: ErrDuplicate, Reason: reasonUserExists}
	}

	err = a.repo.Register(ctx, reg.Username, reg.Phone, reg.Password)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrDuplicate):
		return &Error{Kind: ErrDuplicate, Reason: reasonUserExists, Err: err}
	case errors.Is(err, auth.ErrPasswordTooLong):
		return &Error{Kind: ErrValidation, Reason: reasonPasswordTooLong, Err: err}
	default:
		return storageError(reasonRegistrationFailed, err)
	}
}

// Login checks credentials. Unknown usernames and wrong passwords produce the
// same error, which matches auth.ErrInvalidCredentials.
func (a *Accounts) Login(ctx context.Context, username, password string) error {
	if isBlank(username) || isBlank(password) {
		return validationError(reasonFillAllFields)
	}

	ok, err := a.repo.Login(ctx, username, password)
	if err != nil {
		return storageError(reasonLoginFailed, err)
	}
	if !ok {
		return &Error{Kind: ErrValidation, Reason: reasonInvalidCredentials, Err: auth.ErrInvalidCredentials}
	}
	return nil
}

// Exists reports whether username is registered.
func (a *Accounts) Exists(ctx context.Context, username string) (bool, error) {
	if isBlank(username) {
		return false, validationError(reasonFillAllFields)
	}
	exists, err := a.repo.IsUserExists(ctx, username)
	if err != nil {
		return false, storageError("Lookup failed", err)
	}
	return exists, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
