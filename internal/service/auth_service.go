package service

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/studentbook/internal/auth"
	"github.com/mmynk/studentbook/internal/middleware"
	"github.com/mmynk/studentbook/internal/records"
)

const reasonPasswordMismatch = "Passwords do not match"

// AccountRules is the account lifecycle the auth service drives.
type AccountRules interface {
	Register(ctx context.Context, reg records.Registration) error
	Login(ctx context.Context, username, password string) error
	Exists(ctx context.Context, username string) (bool, error)
}

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	accounts   AccountRules
	jwtManager *auth.JWTManager
	logger     *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(accounts AccountRules, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		accounts:   accounts,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// Register creates an account and signs the caller in.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error) {
	s.logger.Info("Register request", "username", req.Msg.Username)

	if req.Msg.Password != req.Msg.ConfirmPassword {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New(reasonPasswordMismatch))
	}

	err := s.accounts.Register(ctx, records.Registration{
		Username: req.Msg.Username,
		Phone:    req.Msg.Phone,
		Password: req.Msg.Password,
	})
	if err != nil {
		s.logger.Warn("Registration failed", "username", req.Msg.Username, "error", err)
		return nil, toConnectError(err)
	}

	token, err := s.jwtManager.Generate(req.Msg.Username)
	if err != nil {
		s.logger.Error("Failed to generate token", "username", req.Msg.Username, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("Account registered", "username", req.Msg.Username)
	return connect.NewResponse(&RegisterResponse{Username: req.Msg.Username, Token: token}), nil
}

// Login authenticates an account and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error) {
	s.logger.Info("Login request", "username", req.Msg.Username)

	if err := s.accounts.Login(ctx, req.Msg.Username, req.Msg.Password); err != nil {
		s.logger.Warn("Login failed", "username", req.Msg.Username, "error", err)
		return nil, toConnectError(err)
	}

	token, err := s.jwtManager.Generate(req.Msg.Username)
	if err != nil {
		s.logger.Error("Failed to generate token", "username", req.Msg.Username, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("Login successful", "username", req.Msg.Username)
	return connect.NewResponse(&LoginResponse{Username: req.Msg.Username, Token: token}), nil
}

// Logout ends a session. Tokens are stateless, so the client discards its copy.
func (s *AuthService) Logout(ctx context.Context, req *connect.Request[LogoutRequest]) (*connect.Response[LogoutResponse], error) {
	s.logger.Info("Logout request", "username", middleware.GetUsername(ctx))
	return connect.NewResponse(&LogoutResponse{}), nil
}

// CheckUsername reports whether a username is taken.
func (s *AuthService) CheckUsername(ctx context.Context, req *connect.Request[CheckUsernameRequest]) (*connect.Response[CheckUsernameResponse], error) {
	exists, err := s.accounts.Exists(ctx, req.Msg.Username)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&CheckUsernameResponse{Exists: exists}), nil
}
