package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordBytes is bcrypt's input limit.
const MaxPasswordBytes = 72

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPasswordTooLong    = errors.New("password exceeds maximum length of 72 bytes")
)

// PasswordHasher hashes and verifies passwords with bcrypt.
type PasswordHasher struct {
	cost int

	// dummy is compared against when an account does not exist, so a miss
	// costs the same bcrypt work as a wrong password.
	dummyMu sync.Mutex
	dummy   []byte

	generate func(password []byte, cost int) ([]byte, error)
}

// NewPasswordHasher creates a hasher with the given bcrypt cost.
// Costs outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost, generate: bcrypt.GenerateFromPassword}
}

// ValidateCredential checks that the password can be hashed.
func (h *PasswordHasher) ValidateCredential(password string) error {
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// Hash returns the salted bcrypt encoding of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if err := h.ValidateCredential(password); err != nil {
		return "", err
	}
	hashed, err := h.generate([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Check compares password with hash in constant time.
// Returns ErrInvalidCredentials on mismatch.
func (h *PasswordHasher) Check(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidCredentials
	}
	return fmt.Errorf("failed to compare password: %w", err)
}

// CheckMissing burns one bcrypt operation for a username that has no account
// and always returns ErrInvalidCredentials.
func (h *PasswordHasher) CheckMissing(password string) error {
	if dummy := h.dummyHash(); dummy != nil {
		_ = bcrypt.CompareHashAndPassword(dummy, []byte(password))
	} else {
		// Hashing costs the same as comparing at this cost.
		_, _ = h.generate([]byte(password), h.cost)
	}
	return ErrInvalidCredentials
}

// dummyHash returns the cached dummy hash, generating it on first use.
// A failed generation is logged and retried on the next call.
func (h *PasswordHasher) dummyHash() []byte {
	h.dummyMu.Lock()
	defer h.dummyMu.Unlock()
	if h.dummy != nil {
		return h.dummy
	}
	dummy, err := h.generate([]byte("studentbook-missing-account"), h.cost)
	if err != nil {
		slog.Warn("Failed to generate dummy password hash", "error", err)
		return nil
	}
	h.dummy = dummy
	return h.dummy
}
