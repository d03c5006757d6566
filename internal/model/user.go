package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultPlan is assigned to principals created through signup.
const DefaultPlan = "Free Tier"

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
}

// User represents a stored principal with authentication material.
type User struct {
	ID           uuid.UUID
	FullName     string
	Email        string
	PasswordHash string
	Role         Role
	Plan         string
	Company      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal returns the identity claims of u.
func (u User) Principal() Principal {
	return Principal{ID: u.ID, Email: u.Email, Role: u.Role}
}

// PasswordHasher hashes and verifies principal secrets.
type PasswordHasher interface {
	Hash(secret string) (string, error)
	Compare(hash, secret string) error
}

// SignupParams is the profile submitted to create a principal.
type SignupParams struct {
	FullName           string
	Email              string
	Company            string
	Secret             string
	SecretConfirmation string
}
