package model

import (
	"context"

	"github.com/google/uuid"
)

// SessionStore persists at most one refresh token digest per principal.
//
// Get returns a nil digest when the principal is logged out and ErrNotFound
// when the principal does not exist.
type SessionStore interface {
	Get(ctx context.Context, userID uuid.UUID) ([]byte, error)
	Set(ctx context.Context, userID uuid.UUID, digest []byte) error
	// Swap replaces the digest only if the stored one equals expected.
	// It returns ErrSessionMismatch otherwise.
	Swap(ctx context.Context, userID uuid.UUID, expected, next []byte) error
	Clear(ctx context.Context, userID uuid.UUID) error
}
