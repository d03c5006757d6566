package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/pulse-server/internal/model"
)

const (
	// DefaultAccessTTL is the access token lifetime when none is configured.
	DefaultAccessTTL = 15 * time.Minute
	// DefaultRefreshTTL is the refresh token lifetime when none is configured.
	DefaultRefreshTTL = 7 * 24 * time.Hour

	typeAccess  = "access"
	typeRefresh = "refresh"
)

// Claims represents JWT claims with token type and principal identity.
type Claims struct {
	jwt.RegisteredClaims
	Email     string     `json:"email"`
	Role      model.Role `json:"role"`
	TokenType string     `json:"typ"`
}

// Option configures a JWT codec.
type Option func(*JWT)

// WithClock overrides the time source used for issuing and verifying tokens.
func WithClock(now func() time.Time) Option {
	return func(j *JWT) {
		j.now = now
	}
}

// JWT implements model.TokenCodec with HMAC-signed tokens. Access and refresh
// tokens are signed with independent secrets.
type JWT struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

var _ model.TokenCodec = (*JWT)(nil)

// NewJWT creates a new token codec. Non-positive TTLs fall back to the defaults.
func NewJWT(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration, opts ...Option) *JWT {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}

	j := &JWT{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}

	return j
}

// AccessTTL returns the configured access token lifetime.
func (j *JWT) AccessTTL() time.Duration { return j.accessTTL }

// RefreshTTL returns the configured refresh token lifetime.
func (j *JWT) RefreshTTL() time.Duration { return j.refreshTTL }

// IssueAccessToken creates a short-lived access token for p.
func (j *JWT) IssueAccessToken(p model.Principal) (string, error) {
	tokenString, err := j.sign(p, typeAccess, j.accessTTL, j.accessSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// IssueRefreshToken creates a long-lived refresh token for p.
func (j *JWT) IssueRefreshToken(p model.Principal) (string, error) {
	tokenString, err := j.sign(p, typeRefresh, j.refreshTTL, j.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return tokenString, nil
}

// VerifyAccessToken validates an access token and returns its claims.
func (j *JWT) VerifyAccessToken(tokenString string) (model.Claims, error) {
	return j.verify(tokenString, typeAccess, j.accessSecret)
}

// VerifyRefreshToken validates a refresh token and returns its claims.
func (j *JWT) VerifyRefreshToken(tokenString string) (model.Claims, error) {
	return j.verify(tokenString, typeRefresh, j.refreshSecret)
}

func (j *JWT) sign(p model.Principal, tokenType string, ttl time.Duration, secret []byte) (string, error) {
	if p.ID == uuid.Nil {
		return "", errors.New("principal id is empty")
	}

	now := j.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   p.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:     p.Email,
		Role:      p.Role,
		TokenType: tokenType,
	})

	return token.SignedString(secret)
}

func (j *JWT) verify(tokenString, tokenType string, secret []byte) (model.Claims, error) {
	if tokenString == "" {
		return model.Claims{}, fmt.Errorf("%w: empty %s token", model.ErrTokenInvalid, tokenType)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return model.Claims{}, fmt.Errorf("%w: failed to parse %s token: %v", model.ErrTokenInvalid, tokenType, err)
	}
	if !token.Valid {
		return model.Claims{}, fmt.Errorf("%w: %s token is invalid", model.ErrTokenInvalid, tokenType)
	}
	if claims.TokenType != tokenType {
		return model.Claims{}, fmt.Errorf("%w: token type mismatch: %s", model.ErrTokenInvalid, claims.TokenType)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return model.Claims{}, fmt.Errorf("%w: bad subject %q", model.ErrTokenInvalid, claims.Subject)
	}
	if !claims.Role.Valid() {
		return model.Claims{}, fmt.Errorf("%w: unknown role %q", model.ErrTokenInvalid, claims.Role)
	}

	out := model.Claims{
		Principal: model.Principal{ID: userID, Email: claims.Email, Role: claims.Role},
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}

	return out, nil
}
