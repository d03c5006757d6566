// Package seed inserts demo principals for local development.
package seed

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/pulse-server/internal/logger"
	"github.com/dtroode/pulse-server/internal/model"
)

const (
	AdminEmail    = "admin@pulse.com"
	AdminPassword = "admin123"
	UserPassword  = "password123"
)

const insertUser = `INSERT INTO users (id, full_name, email, password_hash, role, plan, company, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (email) DO NOTHING`

// Account is a demo principal to create.
type Account struct {
	FullName string
	Email    string
	Role     model.Role
	Plan     string
	Company  string
}

// DefaultAccounts is the admin followed by the regular demo users.
var DefaultAccounts = []Account{
	{FullName: "Pulse Admin", Email: AdminEmail, Role: model.RoleAdmin, Plan: "Enterprise", Company: "Pulse Inc"},
	{FullName: "John Doe", Email: "john@example.com", Role: model.RoleUser, Plan: "Pro Plan", Company: "Acme Corporation"},
	{FullName: "Jane Smith", Email: "jane@example.com", Role: model.RoleUser, Plan: model.DefaultPlan, Company: "Tech Startup"},
	{FullName: "Bob Wilson", Email: "bob@example.com", Role: model.RoleUser, Plan: "Enterprise", Company: "Global Corp"},
	{FullName: "Alice Johnson", Email: "alice@example.com", Role: model.RoleUser, Plan: "Pro Plan", Company: "Design Studio"},
	{FullName: "Charlie Brown", Email: "charlie@example.com", Role: model.RoleUser, Plan: model.DefaultPlan, Company: "Freelance"},
}

// Seeder writes demo accounts. Existing emails are left untouched, so running
// it twice is harmless.
type Seeder struct {
	db     *sql.DB
	hasher model.PasswordHasher
	logger *logger.Logger
	now    func() time.Time
}

func NewSeeder(db *sql.DB, hasher model.PasswordHasher, logger *logger.Logger) *Seeder {
	return &Seeder{db: db, hasher: hasher, logger: logger, now: time.Now}
}

// Seed inserts accounts in one transaction and returns how many were created.
// Admins get AdminPassword, everyone else UserPassword.
func (s *Seeder) Seed(ctx context.Context, accounts []Account) (int, error) {
	adminHash, err := s.hasher.Hash(AdminPassword)
	if err != nil {
		return 0, fmt.Errorf("failed to hash admin password: %w", err)
	}
	userHash, err := s.hasher.Hash(UserPassword)
	if err != nil {
		return 0, fmt.Errorf("failed to hash user password: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := s.now().UTC()
	created := 0
	for _, a := range accounts {
		hash := userHash
		if a.Role == model.RoleAdmin {
			hash = adminHash
		}

		res, err := tx.ExecContext(ctx, insertUser,
			uuid.New(), a.FullName, a.Email, hash, string(a.Role), a.Plan, a.Company, now, now)
		if err != nil {
			return 0, fmt.Errorf("failed to insert %s: %w", a.Email, err)
		}

		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read affected rows: %w", err)
		}
		if n == 0 {
			s.logger.Info("Seeder: account exists, skipping", "email", a.Email)
			continue
		}
		created++
		s.logger.Info("Seeder: account created", "email", a.Email, "role", a.Role)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}

	return created, nil
}
