package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dtroode/pulse-server/internal/api/http/cookie"
	httpctx "github.com/dtroode/pulse-server/internal/api/http/context"
	"github.com/dtroode/pulse-server/internal/api/http/router"
	"github.com/dtroode/pulse-server/internal/config"
	"github.com/dtroode/pulse-server/internal/logger"
	"github.com/dtroode/pulse-server/internal/model"
	"github.com/dtroode/pulse-server/internal/repository/postgres"
	"github.com/dtroode/pulse-server/internal/repository/redis"
	"github.com/dtroode/pulse-server/internal/security"
	"github.com/dtroode/pulse-server/internal/server"
	"github.com/dtroode/pulse-server/internal/service"
	"github.com/dtroode/pulse-server/internal/token"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize storage", "error", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	sessions, closeSessions := newSessionStore(ctx, cfg, db, userRepo, logger)
	defer closeSessions()

	codec := token.NewJWT(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	hasher := security.NewHasher(cfg.BcryptCost)

	sessionService := service.NewSession(userRepo, sessions, codec, hasher, logger)
	authenticator := service.NewAuthenticator(codec, sessions, logger)

	cookies := cookie.Options{
		Secure:     cfg.Cookie.Secure,
		AccessTTL:  codec.AccessTTL(),
		RefreshTTL: codec.RefreshTTL(),
	}
	r := router.New(sessionService, authenticator, db, httpctx.NewManager(), cookies, logger)

	httpServer := server.NewHTTPServer(r.Register(), cfg.HTTP.Address, server.Timeouts{
		Read:  cfg.HTTP.ReadTimeout,
		Write: cfg.HTTP.WriteTimeout,
		Idle:  cfg.HTTP.IdleTimeout,
	})

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address())
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
}

// newSessionStore picks the session backend named by the config. The returned
// func releases backend resources.
func newSessionStore(ctx context.Context, cfg *config.Config, db *postgres.Connection, users model.UserStore, logger *logger.Logger) (model.SessionStore, func()) {
	if cfg.SessionBackend != config.SessionBackendRedis {
		return postgres.NewSessionRepository(db), func() {}
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to redis", "error", err, "address", cfg.Redis.Addr)
	}
	logger.Info("using redis session backend", "address", cfg.Redis.Addr)

	return redis.NewSessionStore(client, cfg.JWT.RefreshTTL, redis.WithUsers(users)), func() { _ = client.Close() }
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
