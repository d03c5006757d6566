package middleware

import (
	"context"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/pulse-server/internal/api/http/cookie"
	"github.com/dtroode/pulse-server/internal/api/http/handler"
	"github.com/dtroode/pulse-server/internal/logger"
	"github.com/dtroode/pulse-server/internal/model"
)

// Authenticator resolves request credentials into a principal.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken, refreshToken string) (model.AuthResult, error)
}

// Guard protects routes behind cookie authentication and optional roles.
type Guard struct {
	authenticator  Authenticator
	contextManager model.ContextManager
	cookies        cookie.Options
	logger         *logger.Logger
}

// NewGuard creates a new Guard middleware.
func NewGuard(authenticator Authenticator, contextManager model.ContextManager, cookies cookie.Options, logger *logger.Logger) *Guard {
	return &Guard{
		authenticator:  authenticator,
		contextManager: contextManager,
		cookies:        cookies,
		logger:         logger,
	}
}

// RequireAuth admits any authenticated principal.
func (g *Guard) RequireAuth() gin.HandlerFunc {
	return g.RequireRole()
}

// RequireRole admits authenticated principals whose role is one of roles.
// With no roles it behaves like RequireAuth.
func (g *Guard) RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := g.authenticate(c)
		if !ok {
			return
		}

		if len(roles) > 0 && !slices.Contains(roles, principal.Role) {
			g.logger.Info("Guard: role not allowed",
				"user_id", principal.ID,
				"role", principal.Role,
				"path", c.FullPath())
			handler.RespondError(c, g.logger, model.ErrForbidden)
			return
		}

		c.Next()
	}
}

// authenticate resolves the principal and attaches it to the request. A
// renewed access token is written to the response right away so it reaches
// the client whatever the handler answers.
func (g *Guard) authenticate(c *gin.Context) (model.Principal, bool) {
	accessToken := cookie.Read(c.Request, cookie.AccessName)
	refreshToken := cookie.Read(c.Request, cookie.RefreshName)

	res, err := g.authenticator.Authenticate(c.Request.Context(), accessToken, refreshToken)
	if err != nil {
		handler.RespondError(c, g.logger, err)
		return model.Principal{}, false
	}

	if res.RenewedAccessToken != "" {
		cookie.SetAccess(c.Writer, res.RenewedAccessToken, g.cookies)
	}

	c.Request = c.Request.WithContext(g.contextManager.SetPrincipalToContext(c.Request.Context(), res.Principal))

	return res.Principal, true
}
