package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/dtroode/pulse-server/internal/api/http/handler"
	"github.com/dtroode/pulse-server/internal/logger"
	"github.com/dtroode/pulse-server/internal/model"
)

func TestLogging_Handle(t *testing.T) {
	tests := []struct {
		name       string
		handler    gin.HandlerFunc
		wantStatus int
		wantLogged []string
	}{
		{
			name:       "success path",
			handler:    func(c *gin.Context) { c.Status(http.StatusOK) },
			wantStatus: http.StatusOK,
			wantLogged: []string{"HTTP request started", "HTTP request completed", "status=200"},
		},
		{
			name:       "client error",
			handler:    func(c *gin.Context) { c.AbortWithStatus(http.StatusUnauthorized) },
			wantStatus: http.StatusUnauthorized,
			wantLogged: []string{"HTTP request completed", "status=401"},
		},
		{
			name: "handler error recorded",
			handler: func(c *gin.Context) {
				_ = c.Error(errors.New("boom"))
				c.Status(http.StatusInternalServerError)
			},
			wantStatus: http.StatusInternalServerError,
			wantLogged: []string{"HTTP request failed", "boom", "status=500"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			lg := NewLogging(logger.NewWithWriter(&buf, 0))

			e := gin.New()
			e.Use(lg.Handle)
			e.GET("/widgets", tt.handler)

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/widgets", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			for _, s := range tt.wantLogged {
				assert.Contains(t, buf.String(), s)
			}
			assert.Contains(t, buf.String(), "path=/widgets")
		})
	}
}

func TestLogging_Handle_InternalErrorFromHandler(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.NewWithWriter(&buf, 0)

	e := gin.New()
	e.Use(NewLogging(lg).Handle)
	e.GET("/widgets", func(c *gin.Context) {
		handler.RespondError(c, lg, fmt.Errorf("failed to load session: %w", errors.New("connection refused")))
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/widgets", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
	assert.Contains(t, buf.String(), "HTTP request failed")
	assert.Contains(t, buf.String(), "connection refused")
}

func TestLogging_Handle_ClientErrorFromHandler(t *testing.T) {
	var buf bytes.Buffer
	lg := logger.NewWithWriter(&buf, 0)

	e := gin.New()
	e.Use(NewLogging(lg).Handle)
	e.GET("/widgets", func(c *gin.Context) {
		handler.RespondError(c, lg, model.ErrInvalidCredentials)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/widgets", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotContains(t, buf.String(), "HTTP request failed")
}
