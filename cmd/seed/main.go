// seed inserts the demo admin and users. Accounts whose email already exists
// are skipped, so it can be run repeatedly.
package main

import (
	"context"
	"database/sql"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dtroode/pulse-server/database"
	"github.com/dtroode/pulse-server/internal/config"
	"github.com/dtroode/pulse-server/internal/logger"
	"github.com/dtroode/pulse-server/internal/security"
	"github.com/dtroode/pulse-server/internal/seed"
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to open database", "error", err)
	}
	defer db.Close()

	if err := database.MigrateDB(ctx, db); err != nil {
		logger.Fatal("failed to migrate database", "error", err)
	}

	seeder := seed.NewSeeder(db, security.NewHasher(cfg.BcryptCost), logger)
	created, err := seeder.Seed(ctx, seed.DefaultAccounts)
	if err != nil {
		logger.Fatal("failed to seed database", "error", err)
	}

	logger.Info("seed complete", "created", created, "admin", seed.AdminEmail)
}
