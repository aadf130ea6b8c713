package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"loginaudit/internal/models"
	pkghttp "loginaudit/pkg/http"
	pkglogger "loginaudit/pkg/logger"

	"github.com/go-playground/validator/v10"
)

// emailCheck classifies login identifiers the same way the login form
// accepts them: anything that parses as an email is looked up by email,
// everything else by username.
var emailCheck = validator.New()

func isEmail(login string) bool {
	return emailCheck.Var(login, "email") == nil
}

// AttemptStore defines the persistence contract for login attempt records
type AttemptStore interface {
	Insert(ctx context.Context, attempt *models.LoginAttempt) (int64, error)
	ListAll(ctx context.Context) ([]*models.LoginAttempt, error)
	GetByID(ctx context.Context, id int64) (*models.LoginAttempt, error)
	DeleteByID(ctx context.Context, id int64) (bool, error)
}

// UserLookup resolves login identifiers to known accounts
type UserLookup interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// RecordingPolicy exposes the log-unknown-logins flag
type RecordingPolicy interface {
	LogUnknownLogins(ctx context.Context) (bool, error)
}

// AuditService records failed login attempts and serves the admin
// query/delete operations. Dual-write pattern: every recorded attempt is
// emitted to slog immediately and persisted to the store.
type AuditService struct {
	attempts AttemptStore
	users    UserLookup
	policy   RecordingPolicy
	logger   *slog.Logger
	audit    *pkglogger.AuditLogger
	now      func() time.Time
}

// NewAuditService creates a new AuditService
func NewAuditService(attempts AttemptStore, users UserLookup, policy RecordingPolicy, logger *slog.Logger) *AuditService {
	return &AuditService{
		attempts: attempts,
		users:    users,
		policy:   policy,
		logger:   logger,
		audit:    pkglogger.NewAuditLogger(logger),
		now:      time.Now,
	}
}

// SetClock overrides the time source. Test use only.
func (s *AuditService) SetClock(now func() time.Time) {
	s.now = now
}

// ShouldLog decides whether a failed attempt for the given login should be
// persisted. When the policy flag is on, everything is logged; otherwise
// only attempts against existing accounts are, which keeps automated
// scans against made-up usernames out of the table.
func (s *AuditService) ShouldLog(ctx context.Context, login string) (bool, error) {
	logAll, err := s.policy.LogUnknownLogins(ctx)
	if err != nil {
		return false, err
	}
	if logAll {
		return true, nil
	}

	if isEmail(login) {
		_, err = s.users.GetByEmail(ctx, login)
	} else {
		_, err = s.users.GetByUsername(ctx, login)
	}
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up user for %q: %w", login, err)
	}

	return true, nil
}

// RecordFailedLogin handles a failed authentication event: applies the
// policy, resolves the source address and current time, and appends a
// record. Storage failures propagate to the caller; the caller is
// expected to log and continue rather than block the login pipeline.
func (s *AuditService) RecordFailedLogin(ctx context.Context, login, remoteAddr string) error {
	shouldLog, err := s.ShouldLog(ctx, login)
	if err != nil {
		return err
	}
	if !shouldLog {
		return nil
	}

	if len(login) > models.MaxLoginLength {
		login = login[:models.MaxLoginLength]
	}

	attempt := &models.LoginAttempt{
		Login: login,
		IP:    pkghttp.ResolveAddress(remoteAddr),
		Time:  s.now().Truncate(time.Second),
	}

	s.audit.LogAuthAttempt(pkglogger.AuditEvent{
		EventType:     "login_failed",
		Login:         login,
		IPAddress:     attempt.IP,
		Success:       false,
		FailureReason: "invalid credentials",
	})

	if _, err := s.attempts.Insert(ctx, attempt); err != nil {
		return fmt.Errorf("failed to record login attempt: %w", err)
	}

	return nil
}

// ListAttempts returns all recorded attempts
func (s *AuditService) ListAttempts(ctx context.Context) ([]*models.LoginAttempt, error) {
	attempts, err := s.attempts.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list login attempts: %w", err)
	}
	return attempts, nil
}

// GetAttempt returns a single attempt by id, or models.ErrNotFound
func (s *AuditService) GetAttempt(ctx context.Context, id int64) (*models.LoginAttempt, error) {
	return s.attempts.GetByID(ctx, id)
}

// DeleteAttempt removes an attempt by id. Returns whether a record
// actually existed; deleting a missing id is a normal outcome.
func (s *AuditService) DeleteAttempt(ctx context.Context, id int64) (bool, error) {
	existed, err := s.attempts.DeleteByID(ctx, id)
	if err != nil {
		return false, err
	}

	s.logger.InfoContext(ctx, "login attempt deleted",
		slog.Int64("id", id),
		slog.Bool("existed", existed),
	)

	return existed, nil
}
