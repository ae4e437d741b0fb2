package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/burbla/burbla-backend/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionRepository defines the interface for session persistence. Creation
// is an idempotent upsert guarded by the primary key, so "ensure session
// exists" is safe across processes.
type SessionRepository interface {
	UpsertSession(ctx context.Context, session *entity.Session) error
	GetSessionByID(ctx context.Context, id string) (*entity.Session, error)
	ListSessionsForUser(ctx context.Context, userID string) ([]*entity.Session, error)
	UpdateSession(ctx context.Context, id string, name *string, memberIDs []string) (*entity.Session, error)
	TouchSession(ctx context.Context, id string, at time.Time) error
	DeleteSession(ctx context.Context, id string) error
}

var _ SessionRepository = &SessionPostgres{}

// SessionPostgres implements SessionRepository using PostgreSQL
type SessionPostgres struct {
	db *pgxpool.Pool
}

func NewSessionPostgres(db *pgxpool.Pool) *SessionPostgres {
	return &SessionPostgres{db: db}
}

func (r *SessionPostgres) UpsertSession(ctx context.Context, session *entity.Session) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO sessions (session_id, session_name, owner_id, member_ids)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id) DO NOTHING`,
		session.ID, session.Name, session.OwnerID, session.MemberIDs,
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	return nil
}

func (r *SessionPostgres) GetSessionByID(ctx context.Context, id string) (*entity.Session, error) {
	var session entity.Session
	err := r.db.QueryRow(ctx, `
		SELECT session_id, session_name, owner_id, member_ids, last_updated, created_date
		FROM sessions
		WHERE session_id = $1`,
		id,
	).Scan(&session.ID, &session.Name, &session.OwnerID, &session.MemberIDs, &session.LastUpdated, &session.CreatedDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	return &session, nil
}

func (r *SessionPostgres) ListSessionsForUser(ctx context.Context, userID string) ([]*entity.Session, error) {
	rows, err := r.db.Query(ctx, `
		SELECT session_id, session_name, owner_id, member_ids, last_updated, created_date
		FROM sessions
		WHERE $1 = ANY(member_ids)
		ORDER BY last_updated DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sessions for user: %w", err)
	}
	defer rows.Close()

	sessions := make([]*entity.Session, 0)
	for rows.Next() {
		var session entity.Session
		if err := rows.Scan(
			&session.ID, &session.Name, &session.OwnerID,
			&session.MemberIDs, &session.LastUpdated, &session.CreatedDate,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, &session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

func (r *SessionPostgres) UpdateSession(
	ctx context.Context, id string, name *string, memberIDs []string,
) (*entity.Session, error) {
	var session entity.Session
	err := r.db.QueryRow(ctx, `
		UPDATE sessions
		SET session_name = COALESCE($2, session_name),
		    member_ids   = COALESCE($3, member_ids),
		    last_updated = now()
		WHERE session_id = $1
		RETURNING session_id, session_name, owner_id, member_ids, last_updated, created_date`,
		id, name, memberIDs,
	).Scan(&session.ID, &session.Name, &session.OwnerID, &session.MemberIDs, &session.LastUpdated, &session.CreatedDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, entity.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	return &session, nil
}

func (r *SessionPostgres) TouchSession(ctx context.Context, id string, at time.Time) error {
	if _, err := r.db.Exec(ctx, `UPDATE sessions SET last_updated = $2 WHERE session_id = $1`, id, at); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}

	return nil
}

func (r *SessionPostgres) DeleteSession(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE session_id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}
