package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/pulse-server/internal/model"
)

var _ model.SessionStore = (*SessionRepository)(nil)

// SessionRepository keeps the refresh token digest on the user row.
type SessionRepository struct {
	db *Connection
}

func NewSessionRepository(db *Connection) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Get(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	const query = `SELECT refresh_token_hash FROM users WHERE id = $1`

	var digest []byte
	err := r.db.QueryRow(ctx, query, userID).Scan(&digest)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return digest, nil
}

func (r *SessionRepository) Set(ctx context.Context, userID uuid.UUID, digest []byte) error {
	const query = `
        UPDATE users SET refresh_token_hash = $2, updated_at = NOW()
        WHERE id = $1
    `
	tag, err := r.db.Exec(ctx, query, userID, digest)
	if err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *SessionRepository) Swap(ctx context.Context, userID uuid.UUID, expected, next []byte) error {
	const query = `
        UPDATE users SET refresh_token_hash = $3, updated_at = NOW()
        WHERE id = $1 AND refresh_token_hash = $2
    `
	tag, err := r.db.Exec(ctx, query, userID, expected, next)
	if err != nil {
		return fmt.Errorf("failed to rotate session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSessionMismatch
	}
	return nil
}

func (r *SessionRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	const query = `
        UPDATE users SET refresh_token_hash = NULL, updated_at = NOW()
        WHERE id = $1 AND refresh_token_hash IS NOT NULL
    `
	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
