package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/pulse-server/internal/logger"
	"github.com/dtroode/pulse-server/internal/model"
)

// Ping answers guarded check routes with the caller's identity.
type Ping struct {
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewPing(contextManager model.ContextManager, logger *logger.Logger) *Ping {
	return &Ping{contextManager: contextManager, logger: logger}
}

// Handle responds with the principal's id and role.
func (h *Ping) Handle(c *gin.Context) {
	principal, ok := h.contextManager.GetPrincipalFromContext(c.Request.Context())
	if !ok {
		RespondError(c, h.logger, model.ErrUnauthenticated)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "id": principal.ID, "role": principal.Role})
}
