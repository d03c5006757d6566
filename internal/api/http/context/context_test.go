package context

import (
	stdctx "context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dtroode/pulse-server/internal/model"
)

func TestManager_SetAndGetPrincipal(t *testing.T) {
	m := NewManager()
	p := model.Principal{ID: uuid.New(), Email: "user@example.com", Role: model.RoleUser}
	ctx := m.SetPrincipalToContext(stdctx.Background(), p)

	got, ok := m.GetPrincipalFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, p, got)
}

func TestManager_GetPrincipal_NotFound(t *testing.T) {
	m := NewManager()
	_, ok := m.GetPrincipalFromContext(stdctx.Background())
	assert.False(t, ok)
}

func TestManager_SetPrincipal_Overrides(t *testing.T) {
	m := NewManager()
	first := model.Principal{ID: uuid.New(), Role: model.RoleUser}
	second := model.Principal{ID: uuid.New(), Role: model.RoleAdmin}

	ctx := m.SetPrincipalToContext(m.SetPrincipalToContext(stdctx.Background(), first), second)
	got, ok := m.GetPrincipalFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, second, got)
}

func TestManager_ForeignValueIgnored(t *testing.T) {
	type otherKey struct{}
	m := NewManager()
	ctx := stdctx.WithValue(stdctx.Background(), otherKey{}, model.Principal{ID: uuid.New()})

	_, ok := m.GetPrincipalFromContext(ctx)
	assert.False(t, ok)
}
