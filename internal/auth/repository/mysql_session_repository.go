package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	authDomain "github.com/meditrack/trustcore/internal/auth/domain"
	"github.com/meditrack/trustcore/internal/database"
	apperrors "github.com/meditrack/trustcore/internal/errors"
)

// MySQLSessionRepository implements Session persistence for MySQL.
// Stores UUIDs as CHAR(36) strings with transaction support via
// database.GetTx().
type MySQLSessionRepository struct {
	db *sql.DB
}

// Create inserts a new Session into the MySQL database.
func (m *MySQLSessionRepository) Create(ctx context.Context, session *authDomain.Session) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO sessions (id, staff_id, token, ip_address, user_agent, expires_at, last_activity_at, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		session.ID.String(),
		session.StaffID.String(),
		session.Token,
		session.IPAddress,
		session.UserAgent,
		session.ExpiresAt,
		session.LastActivityAt,
		session.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create session")
	}
	return nil
}

// GetByToken retrieves a Session by its bearer token. Returns
// ErrSessionNotFound if no session exists for the token.
func (m *MySQLSessionRepository) GetByToken(ctx context.Context, token string) (*authDomain.Session, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, staff_id, token, ip_address, user_agent, expires_at, last_activity_at, created_at
			  FROM sessions WHERE token = ?`

	var (
		session authDomain.Session
		id      string
		staffID string
	)

	err := querier.QueryRowContext(ctx, query, token).Scan(
		&id,
		&staffID,
		&session.Token,
		&session.IPAddress,
		&session.UserAgent,
		&session.ExpiresAt,
		&session.LastActivityAt,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authDomain.ErrSessionNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get session")
	}

	if session.ID, err = uuid.Parse(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse session id")
	}
	if session.StaffID, err = uuid.Parse(staffID); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse staff id")
	}

	return &session, nil
}

// UpdateLastActivity bumps last_activity_at for the session with the given
// token. Returns the number of rows affected; zero means the session was
// deleted between lookup and update.
func (m *MySQLSessionRepository) UpdateLastActivity(ctx context.Context, token string, at time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE sessions SET last_activity_at = ? WHERE token = ?`

	result, err := querier.ExecContext(ctx, query, at, token)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to update session activity")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read affected rows")
	}
	return affected, nil
}

// DeleteByToken removes the session with the given bearer token. Deleting a
// missing session is not an error.
func (m *MySQLSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM sessions WHERE token = ?`

	if _, err := querier.ExecContext(ctx, query, token); err != nil {
		return apperrors.Wrap(err, "failed to delete session")
	}
	return nil
}

// DeleteByStaff removes every session for the given staff member and returns
// how many were deleted.
func (m *MySQLSessionRepository) DeleteByStaff(ctx context.Context, staffID uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM sessions WHERE staff_id = ?`

	result, err := querier.ExecContext(ctx, query, staffID.String())
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete staff sessions")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read affected rows")
	}
	return affected, nil
}

// DeleteExpired removes every session whose absolute expiry is before now and
// returns how many were deleted.
func (m *MySQLSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM sessions WHERE expires_at < ?`

	result, err := querier.ExecContext(ctx, query, now)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired sessions")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to read affected rows")
	}
	return affected, nil
}

// CountExpired returns how many sessions are past their absolute expiry
// without deleting them.
func (m *MySQLSessionRepository) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*) FROM sessions WHERE expires_at < ?`

	var count int64
	if err := querier.QueryRowContext(ctx, query, now).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired sessions")
	}
	return count, nil
}

// ListActiveByStaff returns the sessions for a staff member whose absolute
// expiry has not yet passed, newest first.
func (m *MySQLSessionRepository) ListActiveByStaff(ctx context.Context, staffID uuid.UUID, now time.Time) ([]*authDomain.Session, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, staff_id, token, ip_address, user_agent, expires_at, last_activity_at, created_at
			  FROM sessions WHERE staff_id = ? AND expires_at >= ?
			  ORDER BY created_at DESC`

	rows, err := querier.QueryContext(ctx, query, staffID.String(), now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list sessions")
	}
	defer func() { _ = rows.Close() }()

	var sessions []*authDomain.Session
	for rows.Next() {
		var (
			session authDomain.Session
			id      string
			sid     string
		)
		err := rows.Scan(
			&id,
			&sid,
			&session.Token,
			&session.IPAddress,
			&session.UserAgent,
			&session.ExpiresAt,
			&session.LastActivityAt,
			&session.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan session")
		}
		if session.ID, err = uuid.Parse(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to parse session id")
		}
		if session.StaffID, err = uuid.Parse(sid); err != nil {
			return nil, apperrors.Wrap(err, "failed to parse staff id")
		}
		sessions = append(sessions, &session)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate sessions")
	}

	return sessions, nil
}

// NewMySQLSessionRepository creates a new MySQL Session repository.
func NewMySQLSessionRepository(db *sql.DB) *MySQLSessionRepository {
	return &MySQLSessionRepository{db: db}
}
