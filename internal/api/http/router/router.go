package router

import (
	"github.com/gin-gonic/gin"

	"github.com/dtroode/pulse-server/internal/api/http/cookie"
	"github.com/dtroode/pulse-server/internal/api/http/handler"
	"github.com/dtroode/pulse-server/internal/api/http/middleware"
	"github.com/dtroode/pulse-server/internal/logger"
	"github.com/dtroode/pulse-server/internal/model"
)

// Router wires HTTP handlers and middleware for the dashboard API.
type Router struct {
	sessionService handler.SessionService
	authenticator  middleware.Authenticator
	pinger         handler.Pinger
	contextManager model.ContextManager
	cookies        cookie.Options
	logger         *logger.Logger
}

// New creates a new Router instance.
func New(
	sessionService handler.SessionService,
	authenticator middleware.Authenticator,
	pinger handler.Pinger,
	contextManager model.ContextManager,
	cookies cookie.Options,
	logger *logger.Logger,
) *Router {
	return &Router{
		sessionService: sessionService,
		authenticator:  authenticator,
		pinger:         pinger,
		contextManager: contextManager,
		cookies:        cookies,
		logger:         logger,
	}
}

// Register builds the gin engine with request logging, the /auth endpoints
// and the guarded API routes.
func (r *Router) Register() *gin.Engine {
	logging := middleware.NewLogging(r.logger)
	guard := middleware.NewGuard(r.authenticator, r.contextManager, r.cookies, r.logger)

	e := gin.New()
	e.Use(gin.Recovery(), logging.Handle)

	e.GET("/health", handler.NewHealth(r.pinger, r.logger).Check)

	r.registerAuthRoutes(e, guard)
	r.registerAPIRoutes(e, guard)

	return e
}

func (r *Router) registerAuthRoutes(e *gin.Engine, guard *middleware.Guard) {
	authHandler := handler.NewAuth(r.sessionService, r.contextManager, r.cookies, r.logger)

	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/refresh", authHandler.Refresh)
	auth.GET("/me", guard.RequireAuth(), authHandler.Me)
}

func (r *Router) registerAPIRoutes(e *gin.Engine, guard *middleware.Guard) {
	ping := handler.NewPing(r.contextManager, r.logger)

	api := e.Group("/api")
	api.GET("/user/ping", guard.RequireAuth(), ping.Handle)
	api.GET("/admin/ping", guard.RequireRole(model.RoleAdmin), ping.Handle)
}
