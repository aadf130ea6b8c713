package services

import (
	"context"
	"errors"
	"log/slog"

	"loginaudit/internal/auth"
	"loginaudit/internal/models"
	pkgauth "loginaudit/pkg/auth"
)

// UserDirectory resolves operator accounts for authentication
type UserDirectory interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// FailedLoginRecorder consumes failed authentication events. The
// authentication path holds a typed reference instead of publishing to an
// ambient hook registry.
type FailedLoginRecorder interface {
	RecordFailedLogin(ctx context.Context, login, remoteAddr string) error
}

// LoginResult is returned on successful authentication
type LoginResult struct {
	Token string
	User  *models.User
}

// AuthService handles operator authentication
type AuthService struct {
	users    UserDirectory
	tokens   *auth.TokenManager
	recorder FailedLoginRecorder
	logger   *slog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users UserDirectory, tokens *auth.TokenManager, recorder FailedLoginRecorder, logger *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		recorder: recorder,
		logger:   logger,
	}
}

// Login authenticates an operator by username or email. Every failure
// path raises a failed-login event before returning; a recorder failure
// is logged and never alters the authentication outcome.
func (s *AuthService) Login(ctx context.Context, login, password, remoteAddr string) (*LoginResult, error) {
	var user *models.User
	var err error

	if isEmail(login) {
		user, err = s.users.GetByEmail(ctx, login)
	} else {
		user, err = s.users.GetByUsername(ctx, login)
	}

	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.dispatchFailure(ctx, login, remoteAddr)
			return nil, models.ErrUnauthorized
		}
		return nil, err
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		s.dispatchFailure(ctx, login, remoteAddr)
		return nil, models.ErrUnauthorized
	}

	token, err := s.tokens.GenerateSessionToken(user)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, User: user}, nil
}

// dispatchFailure hands the event to the recorder. A dropped audit record
// is preferable to blocking the login pipeline, so errors stop here.
func (s *AuthService) dispatchFailure(ctx context.Context, login, remoteAddr string) {
	if err := s.recorder.RecordFailedLogin(ctx, login, remoteAddr); err != nil {
		s.logger.ErrorContext(ctx, "failed to record login attempt",
			slog.Any("error", err),
		)
	}
}
