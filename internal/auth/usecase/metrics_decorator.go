package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/meditrack/trustcore/internal/auth/domain"
	"github.com/meditrack/trustcore/internal/metrics"
)

// sessionUseCaseWithMetrics decorates SessionUseCase with metrics instrumentation.
type sessionUseCaseWithMetrics struct {
	next    SessionUseCase
	metrics metrics.BusinessMetrics
}

// NewSessionUseCaseWithMetrics wraps a SessionUseCase with metrics recording.
func NewSessionUseCaseWithMetrics(useCase SessionUseCase, m metrics.BusinessMetrics) SessionUseCase {
	return &sessionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Create records metrics for session creation operations.
func (s *sessionUseCaseWithMetrics) Create(
	ctx context.Context,
	staffID uuid.UUID,
	ipAddress *string,
	userAgent *string,
) (*authDomain.Session, error) {
	start := time.Now()
	session, err := s.next.Create(ctx, staffID, ipAddress, userAgent)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "auth", "session_create", status)
	s.metrics.RecordDuration(ctx, "auth", "session_create", time.Since(start), status)

	return session, err
}

// Validate records metrics for session validation operations.
func (s *sessionUseCaseWithMetrics) Validate(ctx context.Context, token string) (*authDomain.Session, error) {
	start := time.Now()
	session, err := s.next.Validate(ctx, token)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "auth", "session_validate", status)
	s.metrics.RecordDuration(ctx, "auth", "session_validate", time.Since(start), status)

	return session, err
}

// Get records metrics for session retrieval operations.
func (s *sessionUseCaseWithMetrics) Get(ctx context.Context, token string) (*authDomain.Session, error) {
	start := time.Now()
	session, err := s.next.Get(ctx, token)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "auth", "session_get", status)
	s.metrics.RecordDuration(ctx, "auth", "session_get", time.Since(start), status)

	return session, err
}

// Delete records metrics for session revocation operations.
func (s *sessionUseCaseWithMetrics) Delete(ctx context.Context, token string) error {
	start := time.Now()
	err := s.next.Delete(ctx, token)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "auth", "session_delete", status)
	s.metrics.RecordDuration(ctx, "auth", "session_delete", time.Since(start), status)

	return err
}

// DeleteAllForStaff records metrics for bulk session revocation operations.
func (s *sessionUseCaseWithMetrics) DeleteAllForStaff(ctx context.Context, staffID uuid.UUID) (int64, error) {
	start := time.Now()
	count, err := s.next.DeleteAllForStaff(ctx, staffID)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "auth", "session_delete_all", status)
	s.metrics.RecordDuration(ctx, "auth", "session_delete_all", time.Since(start), status)

	return count, err
}

// SweepExpired records metrics for session sweep operations.
func (s *sessionUseCaseWithMetrics) SweepExpired(ctx context.Context, dryRun bool) (int64, error) {
	start := time.Now()
	count, err := s.next.SweepExpired(ctx, dryRun)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "auth", "session_sweep", status)
	s.metrics.RecordDuration(ctx, "auth", "session_sweep", time.Since(start), status)

	return count, err
}

// ListActive records metrics for session list operations.
func (s *sessionUseCaseWithMetrics) ListActive(ctx context.Context, staffID uuid.UUID) ([]*authDomain.Session, error) {
	start := time.Now()
	sessions, err := s.next.ListActive(ctx, staffID)

	status := "success"
	if err != nil {
		status = "error"
	}

	s.metrics.RecordOperation(ctx, "auth", "session_list", status)
	s.metrics.RecordDuration(ctx, "auth", "session_list", time.Since(start), status)

	return sessions, err
}

// loginUseCaseWithMetrics decorates LoginUseCase with metrics instrumentation.
type loginUseCaseWithMetrics struct {
	next    LoginUseCase
	metrics metrics.BusinessMetrics
}

// NewLoginUseCaseWithMetrics wraps a LoginUseCase with metrics recording.
func NewLoginUseCaseWithMetrics(useCase LoginUseCase, m metrics.BusinessMetrics) LoginUseCase {
	return &loginUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Login records metrics for login operations.
func (l *loginUseCaseWithMetrics) Login(
	ctx context.Context,
	email string,
	password string,
	ipAddress *string,
	userAgent *string,
) (*authDomain.LoginOutput, error) {
	start := time.Now()
	output, err := l.next.Login(ctx, email, password, ipAddress, userAgent)

	status := "success"
	if err != nil {
		status = "error"
	}

	l.metrics.RecordOperation(ctx, "auth", "login", status)
	l.metrics.RecordDuration(ctx, "auth", "login", time.Since(start), status)

	return output, err
}

// Logout records metrics for logout operations.
func (l *loginUseCaseWithMetrics) Logout(ctx context.Context, token string) error {
	start := time.Now()
	err := l.next.Logout(ctx, token)

	status := "success"
	if err != nil {
		status = "error"
	}

	l.metrics.RecordOperation(ctx, "auth", "logout", status)
	l.metrics.RecordDuration(ctx, "auth", "logout", time.Since(start), status)

	return err
}

// LogoutEverywhere records metrics for logout-everywhere operations.
func (l *loginUseCaseWithMetrics) LogoutEverywhere(ctx context.Context, staffID uuid.UUID) (int64, error) {
	start := time.Now()
	count, err := l.next.LogoutEverywhere(ctx, staffID)

	status := "success"
	if err != nil {
		status = "error"
	}

	l.metrics.RecordOperation(ctx, "auth", "logout_everywhere", status)
	l.metrics.RecordDuration(ctx, "auth", "logout_everywhere", time.Since(start), status)

	return count, err
}
