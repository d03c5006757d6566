package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/pulse-server/internal/logger"
	"github.com/dtroode/pulse-server/internal/model"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RespondError aborts the request with the status and message err maps to.
// Unexpected errors are answered with a generic 500 and attached to the
// context for the logging middleware; the detail never reaches the client.
func RespondError(c *gin.Context, logger *logger.Logger, err error) {
	status, message := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	} else {
		logger.Debug("HTTP handler: request rejected",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, model.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, model.ErrUnauthenticated),
		errors.Is(err, model.ErrTokenInvalid),
		errors.Is(err, model.ErrSessionMismatch):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest, validationMessage(err)
	case errors.Is(err, model.ErrEmailTaken):
		return http.StatusConflict, "user already exists with this email"
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, "not found"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), model.ErrValidation.Error()+": ")
	if msg == "" || msg == model.ErrValidation.Error() {
		return "invalid request"
	}
	return msg
}
