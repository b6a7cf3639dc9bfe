package usecase

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/meditrack/trustcore/internal/auth/domain"
)

// mockSessionRepository is a mock implementation of SessionRepository for testing.
type mockSessionRepository struct {
	mock.Mock
}

func (m *mockSessionRepository) Create(ctx context.Context, session *authDomain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *mockSessionRepository) GetByToken(ctx context.Context, token string) (*authDomain.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Session), args.Error(1)
}

func (m *mockSessionRepository) UpdateLastActivity(ctx context.Context, token string, at time.Time) (int64, error) {
	args := m.Called(ctx, token, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *mockSessionRepository) DeleteByStaff(ctx context.Context, staffID uuid.UUID) (int64, error) {
	args := m.Called(ctx, staffID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSessionRepository) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSessionRepository) ListActiveByStaff(
	ctx context.Context,
	staffID uuid.UUID,
	now time.Time,
) ([]*authDomain.Session, error) {
	args := m.Called(ctx, staffID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*authDomain.Session), args.Error(1)
}

// mockBearerService is a mock implementation of BearerService for testing.
type mockBearerService struct {
	mock.Mock
}

func (m *mockBearerService) GenerateToken() (string, error) {
	args := m.Called()
	return args.String(0), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func liveSession(token string) *authDomain.Session {
	now := time.Now().UTC()
	return &authDomain.Session{
		ID:             uuid.Must(uuid.NewV7()),
		StaffID:        uuid.Must(uuid.NewV7()),
		Token:          token,
		ExpiresAt:      now.Add(authDomain.SessionDuration),
		LastActivityAt: now,
		CreatedAt:      now,
	}
}

func TestSessionUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := &mockSessionRepository{}
		mockBearer := &mockBearerService{}
		staffID := uuid.Must(uuid.NewV7())
		ip := "192.168.10.20"

		mockBearer.On("GenerateToken").Return("fresh-bearer-token", nil)
		mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Session")).Return(nil)

		useCase := NewSessionUseCase(mockRepo, mockBearer, discardLogger())
		session, err := useCase.Create(ctx, staffID, &ip, nil)

		require.NoError(t, err)
		assert.Equal(t, staffID, session.StaffID)
		assert.Equal(t, "fresh-bearer-token", session.Token)
		require.NotNil(t, session.IPAddress)
		assert.Equal(t, ip, *session.IPAddress)
		assert.Nil(t, session.UserAgent)
		assert.WithinDuration(t, time.Now().UTC().Add(authDomain.SessionDuration), session.ExpiresAt, time.Second)
		assert.WithinDuration(t, time.Now().UTC(), session.LastActivityAt, time.Second)

		mockRepo.AssertExpectations(t)
		mockBearer.AssertExpectations(t)
	})

	t.Run("Error_BearerGenerationFails", func(t *testing.T) {
		mockRepo := &mockSessionRepository{}
		mockBearer := &mockBearerService{}

		mockBearer.On("GenerateToken").Return("", errors.New("entropy exhausted"))

		useCase := NewSessionUseCase(mockRepo, mockBearer, discardLogger())
		session, err := useCase.Create(ctx, uuid.Must(uuid.NewV7()), nil, nil)

		assert.Error(t, err)
		assert.Nil(t, session)
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Error_RepositoryFails", func(t *testing.T) {
		mockRepo := &mockSessionRepository{}
		mockBearer := &mockBearerService{}

		mockBearer.On("GenerateToken").Return("fresh-bearer-token", nil)
		mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.Session")).Return(errors.New("db down"))

		useCase := NewSessionUseCase(mockRepo, mockBearer, discardLogger())
		session, err := useCase.Create(ctx, uuid.Must(uuid.NewV7()), nil, nil)

		assert.Error(t, err)
		assert.Nil(t, session)
	})
}

func TestSessionUseCase_Validate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_BumpsActivity", func(t *testing.T) {
		mockRepo := &mockSessionRepository{}
		session := liveSession("live-token")
		earlier := session.LastActivityAt.Add(-10 * time.Minute)
		session.LastActivityAt = earlier

		mockRepo.On("GetByToken", ctx, "live-token").Return(session, nil)
		mockRepo.On("UpdateLastActivity", ctx, "live-token", mock.AnythingOfType("time.Time")).
			Return(int64(1), nil)

		useCase := NewSessionUseCase(mockRepo, &mockBearerService{}, discardLogger())
		validated, err := useCase.Validate(ctx, "live-token")

		require.NoError(t, err)
		assert.True(t, validated.LastActivityAt.After(earlier))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Error_UnknownToken", func(t *testing.T) {
		mockRepo := &mockSessionRepository{}
		mockRepo.On("GetByToken", ctx, "unknown-token").Return(nil, authDomain.ErrSessionNotFound)

		useCase := NewSessionUseCase(mockRepo, &mockBearerService{}, discardLogger())
		validated, err := useCase.Validate(ctx, "unknown-token")

		assert.Nil(t, validated)
		assert.ErrorIs(t, err, authDomain.ErrSessionInvalid)
		mockRepo.AssertNotCalled(t, "DeleteByToken")
	})

	t.Run("Error_HardExpiredDeletesOnSight", func(t *testing.T) {
		mockRepo := &mockSessionRepository{}
		session := liveSession("stale-token")
		session.ExpiresAt = time.Now().UTC().Add(-time.Minute)

		mockRepo.On("GetByToken", ctx, "stale-token").Return(session, nil)
		mockRepo.On("DeleteByToken", ctx, "stale-token").Return(nil)

		useCase := NewSessionUseCase(mockRepo, &mockBearerService{}, discardLogger())
		validated, err := useCase.Validate(ctx, "stale-token")

		assert.Nil(t, validated)
		assert.ErrorIs(t, err, authDomain.ErrSessionExpired)
		mockRepo.AssertExpectations(t)
		mockRepo.AssertNotCalled(t, "UpdateLastActivity")
	})

	t.Run("Error_IdleTimeoutDeletesOnSight", func(t *testing.T) {
		mockRepo := &mockSessionRepository{}
		session := liveSession("idle-token")
		session.LastActivityAt = time.Now().UTC().Add(-authDomain.SessionIdleTimeout - time.Minute)

		mockRepo.On("GetByToken", ctx, "idle-token").Return(session, nil)
		mockRepo.On("DeleteByToken", ctx, "idle-token").Return(nil)

		useCase := NewSessionUseCase(mockRepo, &mockBearerService{}, discardLogger())
		validated, err := useCase.Validate(ctx, "idle-token")

		assert.Nil(t, validated)
		assert.ErrorIs(t, err, authDomain.ErrSessionIdleTimeout)
		mockRepo.AssertNotCalled(t, "UpdateLastActivity")
	})

	t.Run("Error_ConcurrentlyRevoked", func(t *testing.T) {
		// Session deleted between the expiry check and the activity bump,
		// for example by a logout-everywhere. Treated as session gone, not a
		// hard error.
		mockRepo := &mockSessionRepository{}
		session := liveSession("racing-token")

		mockRepo.On("GetByToken", ctx, "racing-token").Return(session, nil)
		mockRepo.On("UpdateLastActivity", ctx, "racing-token", mock.AnythingOfType("time.Time")).
			Return(int64(0), nil)

		useCase := NewSessionUseCase(mockRepo, &mockBearerService{}, discardLogger())
		validated, err := useCase.Validate(ctx, "racing-token")

		assert.Nil(t, validated)
		assert.ErrorIs(t, err, authDomain.ErrSessionInvalid)
	})

	t.Run("Error_RepositoryFailurePropagates", func(t *testing.T) {
		mockRepo := &mockSessionRepository{}
		mockRepo.On("GetByToken", ctx, "some-token").Return(nil, errors.New("db down"))

		useCase := NewSessionUseCase(mockRepo, &mockBearerService{}, discardLogger())
		_, err := useCase.Validate(ctx, "some-token")

		require.Error(t, err)
		assert.NotErrorIs(t, err, authDomain.ErrSessionInvalid)
	})
}

func TestSessionUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	mockRepo := &mockSessionRepository{}
	mockRepo.On("DeleteByToken", ctx, "some-token").Return(nil)

	useCase := NewSessionUseCase(mockRepo, &mockBearerService{}, discardLogger())

	assert.NoError(t, useCase.Delete(ctx, "some-token"))
	mockRepo.AssertExpectations(t)
}

func TestSessionUseCase_DeleteAllForStaff(t *testing.T) {
	ctx := context.Background()
	staffID := uuid.Must(uuid.NewV7())

	mockRepo := &mockSessionRepository{}
	mockRepo.On("DeleteByStaff", ctx, staffID).Return(int64(3), nil)

	useCase := NewSessionUseCase(mockRepo, &mockBearerService{}, discardLogger())
	count, err := useCase.DeleteAllForStaff(ctx, staffID)

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestSessionUseCase_SweepExpired(t *testing.T) {
	ctx := context.Background()

	t.Run("DeletesExpired", func(t *testing.T) {
		mockRepo := &mockSessionRepository{}
		mockRepo.On("DeleteExpired", ctx, mock.AnythingOfType("time.Time")).Return(int64(7), nil)

		useCase := NewSessionUseCase(mockRepo, &mockBearerService{}, discardLogger())
		count, err := useCase.SweepExpired(ctx, false)

		require.NoError(t, err)
		assert.Equal(t, int64(7), count)
		mockRepo.AssertNotCalled(t, "CountExpired")
	})

	t.Run("DryRunOnlyCounts", func(t *testing.T) {
		mockRepo := &mockSessionRepository{}
		mockRepo.On("CountExpired", ctx, mock.AnythingOfType("time.Time")).Return(int64(4), nil)

		useCase := NewSessionUseCase(mockRepo, &mockBearerService{}, discardLogger())
		count, err := useCase.SweepExpired(ctx, true)

		require.NoError(t, err)
		assert.Equal(t, int64(4), count)
		mockRepo.AssertNotCalled(t, "DeleteExpired")
	})
}

func TestSessionUseCase_ListActive(t *testing.T) {
	ctx := context.Background()
	staffID := uuid.Must(uuid.NewV7())
	sessions := []*authDomain.Session{liveSession("token-a"), liveSession("token-b")}

	mockRepo := &mockSessionRepository{}
	mockRepo.On("ListActiveByStaff", ctx, staffID, mock.AnythingOfType("time.Time")).
		Return(sessions, nil)

	useCase := NewSessionUseCase(mockRepo, &mockBearerService{}, discardLogger())
	got, err := useCase.ListActive(ctx, staffID)

	require.NoError(t, err)
	assert.Equal(t, sessions, got)
}
