package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/pulse-server/internal/logger"
	"github.com/dtroode/pulse-server/internal/model"
)

// Authenticator resolves request credentials into a principal.
type Authenticator struct {
	codec    model.TokenCodec
	sessions model.SessionStore
	logger   *logger.Logger
}

func NewAuthenticator(codec model.TokenCodec, sessions model.SessionStore, logger *logger.Logger) *Authenticator {
	return &Authenticator{codec: codec, sessions: sessions, logger: logger}
}

// Authenticate trusts a valid access token as is. Otherwise a refresh token
// that matches the stored session yields a new access token; the refresh token
// and the stored session stay untouched.
//
// Credential failures wrap model.ErrUnauthenticated; any other error is a
// store or signing failure.
func (a *Authenticator) Authenticate(ctx context.Context, accessToken, refreshToken string) (model.AuthResult, error) {
	claims, accessErr := a.codec.VerifyAccessToken(accessToken)
	if accessErr == nil {
		return model.AuthResult{Principal: claims.Principal}, nil
	}

	if refreshToken == "" {
		return model.AuthResult{}, fmt.Errorf("%w: %w", model.ErrUnauthenticated, accessErr)
	}

	refreshClaims, _, err := verifySession(ctx, a.codec, a.sessions, refreshToken)
	if err != nil {
		if errors.Is(err, model.ErrTokenInvalid) || errors.Is(err, model.ErrSessionMismatch) {
			a.logger.Debug("Authenticator: refresh fallback rejected", "error", err.Error())
			return model.AuthResult{}, fmt.Errorf("%w: %w", model.ErrUnauthenticated, err)
		}
		return model.AuthResult{}, err
	}

	access, err := a.codec.IssueAccessToken(refreshClaims.Principal)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("failed to renew access token: %w", err)
	}

	a.logger.Debug("Authenticator: access token renewed", "user_id", refreshClaims.ID)

	return model.AuthResult{Principal: refreshClaims.Principal, RenewedAccessToken: access}, nil
}
