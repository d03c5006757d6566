package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	httpctx "github.com/dtroode/pulse-server/internal/api/http/context"
	"github.com/dtroode/pulse-server/internal/testutil"
)

func TestPing_Handle(t *testing.T) {
	p := testPrincipal()
	cm := httpctx.NewManager()
	h := NewPing(cm, testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	req := httptest.NewRequest(http.MethodGet, "/api/user/ping", nil)
	c.Request = req.WithContext(cm.SetPrincipalToContext(req.Context(), p))

	h.Handle(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"id":"`+p.ID.String()+`","role":"user"}`, rec.Body.String())
}

func TestPing_Handle_WithoutPrincipal(t *testing.T) {
	h := NewPing(httpctx.NewManager(), testutil.MakeNoopLogger())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/user/ping", nil)

	h.Handle(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
