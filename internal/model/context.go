package model

import "context"

// ContextManager stores and loads the authenticated principal of a request.
type ContextManager interface {
	SetPrincipalToContext(ctx context.Context, p Principal) context.Context
	GetPrincipalFromContext(ctx context.Context) (Principal, bool)
}
