package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authDomain "github.com/meditrack/trustcore/internal/auth/domain"
)

func TestMySQLSessionRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	session := testSession()
	mock.ExpectExec("INSERT INTO sessions").
		WithArgs(
			session.ID.String(),
			session.StaffID.String(),
			session.Token,
			session.IPAddress,
			session.UserAgent,
			session.ExpiresAt,
			session.LastActivityAt,
			session.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewMySQLSessionRepository(db)
	err = repo.Create(context.Background(), session)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLSessionRepository_GetByToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	session := testSession()
	rows := sqlmock.NewRows(sessionColumns).AddRow(
		session.ID.String(),
		session.StaffID.String(),
		session.Token,
		nil,
		nil,
		session.ExpiresAt,
		session.LastActivityAt,
		session.CreatedAt,
	)
	mock.ExpectQuery("SELECT (.+) FROM sessions WHERE token").
		WithArgs(session.Token).
		WillReturnRows(rows)

	repo := NewMySQLSessionRepository(db)
	got, err := repo.GetByToken(context.Background(), session.Token)

	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, session.StaffID, got.StaffID)
	assert.Nil(t, got.IPAddress)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLSessionRepository_GetByToken_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM sessions WHERE token").
		WillReturnRows(sqlmock.NewRows(sessionColumns))

	repo := NewMySQLSessionRepository(db)
	got, err := repo.GetByToken(context.Background(), "missing-token")

	assert.Nil(t, got)
	assert.ErrorIs(t, err, authDomain.ErrSessionNotFound)
}

func TestMySQLSessionRepository_UpdateLastActivity(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Now().UTC()
	mock.ExpectExec("UPDATE sessions SET last_activity_at").
		WithArgs(at, "some-token").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewMySQLSessionRepository(db)
	affected, err := repo.UpdateLastActivity(context.Background(), "some-token", at)

	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMySQLSessionRepository_DeleteExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectExec("DELETE FROM sessions WHERE expires_at").
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 2))

	repo := NewMySQLSessionRepository(db)
	deleted, err := repo.DeleteExpired(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}

func TestMySQLSessionRepository_ListActiveByStaff(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	staffID := uuid.Must(uuid.NewV7())
	now := time.Now().UTC()
	session := testSession()
	session.StaffID = staffID

	rows := sqlmock.NewRows(sessionColumns).AddRow(
		session.ID.String(), staffID.String(), session.Token, nil, nil,
		session.ExpiresAt, session.LastActivityAt, session.CreatedAt,
	)
	mock.ExpectQuery("SELECT (.+) FROM sessions WHERE staff_id").
		WithArgs(staffID.String(), now).
		WillReturnRows(rows)

	repo := NewMySQLSessionRepository(db)
	sessions, err := repo.ListActiveByStaff(context.Background(), staffID, now)

	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, session.ID, sessions[0].ID)
	assert.Equal(t, staffID, sessions[0].StaffID)
}
