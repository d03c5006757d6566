package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/pulse-server/internal/api/http/cookie"
	"github.com/dtroode/pulse-server/internal/logger"
	"github.com/dtroode/pulse-server/internal/model"
)

// SessionService defines credential issuance, rotation and revocation.
type SessionService interface {
	Login(ctx context.Context, identifier, secret string) (model.Principal, model.CredentialPair, error)
	Signup(ctx context.Context, params model.SignupParams) (model.Principal, model.CredentialPair, error)
	Refresh(ctx context.Context, refreshToken string) (model.Principal, model.CredentialPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

// Auth handles the /auth endpoints.
type Auth struct {
	sessionService SessionService
	contextManager model.ContextManager
	cookies        cookie.Options
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(sessionService SessionService, contextManager model.ContextManager, cookies cookie.Options, logger *logger.Logger) *Auth {
	return &Auth{
		sessionService: sessionService,
		contextManager: contextManager,
		cookies:        cookies,
		logger:         logger,
	}
}

// PrincipalResponse wraps the principal returned by auth endpoints.
type PrincipalResponse struct {
	Principal model.Principal `json:"principal"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

type loginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Secret     string `json:"secret" binding:"required"`
}

type signupRequest struct {
	FullName           string `json:"fullName"`
	Email              string `json:"email"`
	Secret             string `json:"secret"`
	SecretConfirmation string `json:"secretConfirmation"`
	Company            string `json:"company"`
}

// Login authenticates by identifier and secret and sets credential cookies.
func (h *Auth) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "please provide identifier and secret"})
		return
	}

	h.logger.Debug("Auth handler: processing login request", "login", req.Identifier)

	principal, pair, err := h.sessionService.Login(c.Request.Context(), req.Identifier, req.Secret)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	cookie.SetPair(c.Writer, pair.AccessToken, pair.RefreshToken, h.cookies)

	h.logger.Info("Auth handler: login completed", "user_id", principal.ID)

	c.JSON(http.StatusOK, PrincipalResponse{Principal: principal})
}

// Signup registers a new principal and sets credential cookies.
func (h *Auth) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	h.logger.Debug("Auth handler: processing signup request", "login", req.Email)

	principal, pair, err := h.sessionService.Signup(c.Request.Context(), model.SignupParams{
		FullName:           req.FullName,
		Email:              req.Email,
		Company:            req.Company,
		Secret:             req.Secret,
		SecretConfirmation: req.SecretConfirmation,
	})
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	cookie.SetPair(c.Writer, pair.AccessToken, pair.RefreshToken, h.cookies)

	h.logger.Info("Auth handler: signup completed", "user_id", principal.ID)

	c.JSON(http.StatusCreated, PrincipalResponse{Principal: principal})
}

// Logout revokes the session named by the refresh cookie and clears both
// cookies. It succeeds without credentials.
func (h *Auth) Logout(c *gin.Context) {
	refreshToken := cookie.Read(c.Request, cookie.RefreshName)

	if err := h.sessionService.Logout(c.Request.Context(), refreshToken); err != nil {
		RespondError(c, h.logger, err)
		return
	}

	cookie.Clear(c.Writer, h.cookies)

	c.JSON(http.StatusOK, MessageResponse{Message: "logged out successfully"})
}

// Refresh rotates the credential pair named by the refresh cookie.
func (h *Auth) Refresh(c *gin.Context) {
	refreshToken := cookie.Read(c.Request, cookie.RefreshName)
	if refreshToken == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	principal, pair, err := h.sessionService.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		RespondError(c, h.logger, err)
		return
	}

	cookie.SetPair(c.Writer, pair.AccessToken, pair.RefreshToken, h.cookies)

	h.logger.Info("Auth handler: token refresh successful", "user_id", principal.ID)

	c.JSON(http.StatusOK, PrincipalResponse{Principal: principal})
}

// Me returns the principal attached by the auth guard.
func (h *Auth) Me(c *gin.Context) {
	principal, ok := h.contextManager.GetPrincipalFromContext(c.Request.Context())
	if !ok {
		RespondError(c, h.logger, model.ErrUnauthenticated)
		return
	}

	c.JSON(http.StatusOK, PrincipalResponse{Principal: principal})
}
