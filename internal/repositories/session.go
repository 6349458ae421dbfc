package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/walkerbrain/internal/models"
	"github.com/desertthunder/walkerbrain/internal/shared"
)

const sessionColumns = "id, sequence, role, user_agent, created_at, updated_at, expires_at"

// SessionRepository implements [models.Repository] for [models.Session] persistence.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session with a generated ID and sequence
func (r *SessionRepository) Create(session *models.Session) error {
	return withTx(r.db, func(tx *sql.Tx) error {
		sequence, err := nextSequence(tx, "sessions")
		if err != nil {
			return err
		}

		session.SetID(shared.GenerateID())
		session.SetSequence(sequence)

		if err := session.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		_, err = tx.Exec(
			"INSERT INTO sessions ("+sessionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
			session.ID(), sequence, session.Role().String(), session.UserAgent(),
			session.CreatedAt().UTC(), session.UpdatedAt().UTC(), session.ExpiresAt().UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert session: %w", err)
		}
		return nil
	})
}

// Get retrieves a session by ID. Expired sessions are still returned; callers decide what to do with them.
func (r *SessionRepository) Get(id string) (*models.Session, error) {
	row := r.db.QueryRow("SELECT "+sessionColumns+" FROM sessions WHERE id = ?", id)

	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	return session, nil
}

// Update writes the session's role, last-seen time and expiry
func (r *SessionRepository) Update(session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		UPDATE sessions
		SET role = ?, user_agent = ?, updated_at = ?, expires_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		session.Role().String(), session.UserAgent(), session.UpdatedAt().UTC(), session.ExpiresAt().UTC(), session.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	return requireRow(result, session.ID())
}

// Touch slides the expiry of session id forward from now.
func (r *SessionRepository) Touch(id string, now time.Time, idle time.Duration) error {
	now = now.UTC()
	result, err := r.db.Exec(
		"UPDATE sessions SET updated_at = ?, expires_at = ? WHERE id = ?",
		now, now.Add(idle), id,
	)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}

	return requireRow(result, id)
}

// Delete removes a session by ID
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return requireRow(result, id)
}

// DeleteExpired removes every session whose expiry is at or before now and returns how many were removed.
func (r *SessionRepository) DeleteExpired(now time.Time) (int64, error) {
	result, err := r.db.Exec("DELETE FROM sessions WHERE expires_at <= ?", now.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return n, nil
}

// List retrieves sessions matching criteria.
//
// Supported criteria: "role" ([models.Role]) and "active_at" ([time.Time], excludes sessions expired at that instant).
func (r *SessionRepository) List(criteria map[string]any) ([]*models.Session, error) {
	query := "SELECT " + sessionColumns + " FROM sessions WHERE 1 = 1"
	args := []any{}

	if role, ok := criteria["role"].(models.Role); ok && role != models.RoleNone {
		query += " AND role = ?"
		args = append(args, role.String())
	}

	if at, ok := criteria["active_at"].(time.Time); ok {
		query += " AND expires_at > ?"
		args = append(args, at.UTC())
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return sessions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(s scanner) (*models.Session, error) {
	var (
		id        string
		sequence  int
		role      string
		userAgent string
		createdAt time.Time
		updatedAt time.Time
		expiresAt time.Time
	)

	if err := s.Scan(&id, &sequence, &role, &userAgent, &createdAt, &updatedAt, &expiresAt); err != nil {
		return nil, err
	}

	parsed, err := models.ParseRole(role)
	if err != nil {
		return nil, err
	}

	session := models.NewSession(parsed, userAgent, 0)
	session.SetID(id)
	session.SetSequence(sequence)
	session.SetCreatedAt(createdAt)
	session.SetUpdatedAt(updatedAt)
	session.SetExpiresAt(expiresAt)

	return session, nil
}

func requireRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}
	return nil
}
