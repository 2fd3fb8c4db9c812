package viewstate

import (
	"context"
	"sync"

	"github.com/mmynk/studentbook/internal/records"
)

const reasonPasswordMismatch = "Passwords do not match"

// AccountRules is the lifecycle contract the auth model drives.
type AccountRules interface {
	Register(ctx context.Context, reg records.Registration) error
	Login(ctx context.Context, username, password string) error
}

// AuthModel holds login and registration state for a display layer.
type AuthModel struct {
	accounts AccountRules
	login    *Operation
	register *Operation

	mu       sync.RWMutex
	username string
}

// NewAuthModel creates an auth model over accounts.
func NewAuthModel(accounts AccountRules) *AuthModel {
	return &AuthModel{
		accounts: accounts,
		login:    NewOperation(),
		register: NewOperation(),
	}
}

// LoginState is the login operation.
func (m *AuthModel) LoginState() *Operation { return m.login }

// RegisterState is the registration operation.
func (m *AuthModel) RegisterState() *Operation { return m.register }

// CurrentUser returns the username of the last successful login, or "".
func (m *AuthModel) CurrentUser() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.username
}

// Login submits credentials.
func (m *AuthModel) Login(ctx context.Context, username, password string) (State, error) {
	return m.login.Run(ctx, func(ctx context.Context) error {
		if err := m.accounts.Login(ctx, username, password); err != nil {
			return err
		}
		m.mu.Lock()
		m.username = username
		m.mu.Unlock()
		return nil
	})
}

// Register submits a registration. confirm must equal reg.Password; the check
// happens here and the mismatch is never sent to the lifecycle layer.
func (m *AuthModel) Register(ctx context.Context, reg records.Registration, confirm string) (State, error) {
	if reg.Password != confirm {
		return m.register.fail(reasonPasswordMismatch)
	}
	return m.register.Run(ctx, func(ctx context.Context) error {
		return m.accounts.Register(ctx, reg)
	})
}

// Logout forgets the logged-in user and resets both operations.
func (m *AuthModel) Logout() {
	m.mu.Lock()
	m.username = ""
	m.mu.Unlock()
	m.ResetState()
}

// ResetState returns both operations to Idle.
func (m *AuthModel) ResetState() {
	m.login.Reset()
	m.register.Reset()
}
