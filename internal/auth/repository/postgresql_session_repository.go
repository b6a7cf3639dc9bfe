// Package repository implements session persistence for PostgreSQL and MySQL.
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

// PostgreSQLSessionRepository implements Session persistence for PostgreSQL.
// Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLSessionRepository struct {
	db *sql.DB
}

// Create inserts a new Session into the PostgreSQL database.
func (p *PostgreSQLSessionRepository) Create(ctx context.Context, session *authDomain.Session) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO sessions (id, staff_id, token, ip_address, user_agent, expires_at, last_activity_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		session.ID,
		session.StaffID,
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
func (p *PostgreSQLSessionRepository) GetByToken(ctx context.Context, token string) (*authDomain.Session, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, staff_id, token, ip_address, user_agent, expires_at, last_activity_at, created_at
			  FROM sessions WHERE token = $1`

	var session authDomain.Session

	err := querier.QueryRowContext(ctx, query, token).Scan(
		&session.ID,
		&session.StaffID,
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

	return &session, nil
}

// UpdateLastActivity bumps last_activity_at for the session with the given
// token. Returns the number of rows affected; zero means the session was
// deleted between lookup and update.
func (p *PostgreSQLSessionRepository) UpdateLastActivity(ctx context.Context, token string, at time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE sessions SET last_activity_at = $1 WHERE token = $2`

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
func (p *PostgreSQLSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM sessions WHERE token = $1`

	if _, err := querier.ExecContext(ctx, query, token); err != nil {
		return apperrors.Wrap(err, "failed to delete session")
	}
	return nil
}

// DeleteByStaff removes every session for the given staff member and returns
// how many were deleted.
func (p *PostgreSQLSessionRepository) DeleteByStaff(ctx context.Context, staffID uuid.UUID) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM sessions WHERE staff_id = $1`

	result, err := querier.ExecContext(ctx, query, staffID)
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
func (p *PostgreSQLSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM sessions WHERE expires_at < $1`

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
func (p *PostgreSQLSessionRepository) CountExpired(ctx context.Context, now time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM sessions WHERE expires_at < $1`

	var count int64
	if err := querier.QueryRowContext(ctx, query, now).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count expired sessions")
	}
	return count, nil
}

// ListActiveByStaff returns the sessions for a staff member whose absolute
// expiry has not yet passed, newest first.
func (p *PostgreSQLSessionRepository) ListActiveByStaff(ctx context.Context, staffID uuid.UUID, now time.Time) ([]*authDomain.Session, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, staff_id, token, ip_address, user_agent, expires_at, last_activity_at, created_at
			  FROM sessions WHERE staff_id = $1 AND expires_at >= $2
			  ORDER BY created_at DESC`

	rows, err := querier.QueryContext(ctx, query, staffID, now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list sessions")
	}
	defer func() { _ = rows.Close() }()

	var sessions []*authDomain.Session
	for rows.Next() {
		var session authDomain.Session
		err := rows.Scan(
			&session.ID,
			&session.StaffID,
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
		sessions = append(sessions, &session)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate sessions")
	}

	return sessions, nil
}

// NewPostgreSQLSessionRepository creates a new PostgreSQL Session repository.
func NewPostgreSQLSessionRepository(db *sql.DB) *PostgreSQLSessionRepository {
	return &PostgreSQLSessionRepository{db: db}
}
