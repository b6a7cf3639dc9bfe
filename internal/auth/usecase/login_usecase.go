package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	authDomain "github.com/meditrack/trustcore/internal/auth/domain"
	authService "github.com/meditrack/trustcore/internal/auth/service"
)

// loginUseCase implements LoginUseCase for the interactive login flow.
//
// Failed attempts are throttled per email with a token bucket: maxAttempts
// failures drain the bucket, after which one attempt is refunded per lockout
// period. Successful logins do not consume attempts. The buckets are held in
// memory, so the lockout resets on process restart.
type loginUseCase struct {
	staffDirectory    StaffDirectory
	credentialService authService.CredentialService
	claimsService     authService.ClaimsService
	sessionUseCase    SessionUseCase
	logger            *slog.Logger

	maxAttempts int
	lockout     time.Duration

	mu       sync.Mutex
	attempts map[string]*rate.Limiter
}

// limiter returns the failed-attempt bucket for an email, creating it on
// first use.
func (l *loginUseCase) limiter(email string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.attempts[email]
	if !ok {
		lim = rate.NewLimiter(rate.Every(l.lockout), l.maxAttempts)
		l.attempts[email] = lim
	}
	return lim
}

// Login authenticates a staff member and opens a session.
//
// Unknown emails, inactive accounts and wrong passwords all fail with
// ErrInvalidCredentials so callers cannot enumerate the staff directory.
// Each such failure consumes an attempt; once the bucket is empty the email
// fails with ErrLoginLocked without touching the directory or the hasher.
func (l *loginUseCase) Login(
	ctx context.Context,
	email string,
	password string,
	ipAddress *string,
	userAgent *string,
) (*authDomain.LoginOutput, error) {
	lim := l.limiter(strings.ToLower(email))
	if lim.Tokens() < 1 {
		l.logger.Warn("login locked", slog.String("email", email))
		return nil, authDomain.ErrLoginLocked
	}

	staff, err := l.staffDirectory.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, authDomain.ErrStaffNotFound) {
			lim.Allow()
			return nil, authDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !staff.IsActive {
		lim.Allow()
		return nil, authDomain.ErrInvalidCredentials
	}

	if !l.credentialService.ComparePassword(password, staff.PasswordHash) {
		lim.Allow()
		l.logger.Warn("failed login attempt", slog.String("email", email))
		return nil, authDomain.ErrInvalidCredentials
	}

	token, err := l.claimsService.Issue(staff.ID, staff.Email, staff.Role)
	if err != nil {
		return nil, err
	}

	session, err := l.sessionUseCase.Create(ctx, staff.ID, ipAddress, userAgent)
	if err != nil {
		return nil, err
	}

	l.logger.Info("staff logged in", slog.String("staff_id", staff.ID.String()))
	return &authDomain.LoginOutput{
		Token:   token,
		Session: session,
	}, nil
}

// Logout revokes the session with the given bearer token.
func (l *loginUseCase) Logout(ctx context.Context, token string) error {
	return l.sessionUseCase.Delete(ctx, token)
}

// LogoutEverywhere revokes every session for a staff member.
func (l *loginUseCase) LogoutEverywhere(ctx context.Context, staffID uuid.UUID) (int64, error) {
	return l.sessionUseCase.DeleteAllForStaff(ctx, staffID)
}

// NewLoginUseCase creates a new LoginUseCase with the provided dependencies.
func NewLoginUseCase(
	staffDirectory StaffDirectory,
	credentialService authService.CredentialService,
	claimsService authService.ClaimsService,
	sessionUseCase SessionUseCase,
	maxAttempts int,
	lockout time.Duration,
	logger *slog.Logger,
) LoginUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &loginUseCase{
		staffDirectory:    staffDirectory,
		credentialService: credentialService,
		claimsService:     claimsService,
		sessionUseCase:    sessionUseCase,
		logger:            logger,
		maxAttempts:       maxAttempts,
		lockout:           lockout,
		attempts:          make(map[string]*rate.Limiter),
	}
}
