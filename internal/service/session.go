package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/pulse-server/internal/logger"
	"github.com/dtroode/pulse-server/internal/model"
)

const (
	minSecretLength = 8
	// maxSecretBytes is the longest input bcrypt accepts.
	maxSecretBytes = 72
)

// timingSecret is hashed once and compared against when a login names an
// unknown identifier.
const timingSecret = "pulse-unknown-principal"

// Session issues, rotates and revokes credential pairs. Each principal has at
// most one live refresh token; issuing a new one replaces the previous.
type Session struct {
	users    model.UserStore
	sessions model.SessionStore
	codec    model.TokenCodec
	hasher   model.PasswordHasher
	logger   *logger.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewSession(
	users model.UserStore,
	sessions model.SessionStore,
	codec model.TokenCodec,
	hasher model.PasswordHasher,
	logger *logger.Logger,
) *Session {
	return &Session{
		users:    users,
		sessions: sessions,
		codec:    codec,
		hasher:   hasher,
		logger:   logger,
	}
}

// Login checks identifier and secret and issues a fresh credential pair.
// Unknown identifiers and wrong secrets both yield model.ErrInvalidCredentials.
func (s *Session) Login(ctx context.Context, identifier, secret string) (model.Principal, model.CredentialPair, error) {
	identifier = normalizeEmail(identifier)
	s.logger.Debug("Session service: login attempt", "login", identifier)

	user, err := s.users.GetByEmail(ctx, identifier)
	if errors.Is(err, model.ErrNotFound) {
		s.spendCompare(secret)
		s.logger.Info("Session service: login rejected", "login", identifier, "reason", "unknown identifier")
		return model.Principal{}, model.CredentialPair{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.Principal{}, model.CredentialPair{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, secret); err != nil {
		s.logger.Info("Session service: login rejected", "login", identifier, "reason", "secret mismatch")
		return model.Principal{}, model.CredentialPair{}, model.ErrInvalidCredentials
	}

	principal := user.Principal()
	pair, err := s.issue(ctx, principal)
	if err != nil {
		return model.Principal{}, model.CredentialPair{}, err
	}

	s.logger.Info("Session service: login succeeded", "user_id", principal.ID)

	return principal, pair, nil
}

// Signup creates a principal with role user and logs it in.
func (s *Session) Signup(ctx context.Context, params model.SignupParams) (model.Principal, model.CredentialPair, error) {
	params.Email = normalizeEmail(params.Email)
	params.FullName = strings.TrimSpace(params.FullName)
	params.Company = strings.TrimSpace(params.Company)

	if err := validateSignup(params); err != nil {
		return model.Principal{}, model.CredentialPair{}, err
	}

	_, err := s.users.GetByEmail(ctx, params.Email)
	if err == nil {
		s.logger.Info("Session service: user already exists", "login", params.Email)
		return model.Principal{}, model.CredentialPair{}, model.ErrEmailTaken
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.Principal{}, model.CredentialPair{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := s.hasher.Hash(params.Secret)
	if err != nil {
		return model.Principal{}, model.CredentialPair{}, fmt.Errorf("failed to hash secret: %w", err)
	}

	now := time.Now()
	user, err := s.users.Create(ctx, model.User{
		ID:           uuid.New(),
		FullName:     params.FullName,
		Email:        params.Email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		Plan:         model.DefaultPlan,
		Company:      params.Company,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, model.ErrEmailTaken) {
			return model.Principal{}, model.CredentialPair{}, err
		}
		s.logger.Error("Session service: failed to create user", "login", params.Email, "error", err.Error())
		return model.Principal{}, model.CredentialPair{}, fmt.Errorf("failed to create user: %w", err)
	}

	principal := user.Principal()
	pair, err := s.issue(ctx, principal)
	if err != nil {
		return model.Principal{}, model.CredentialPair{}, err
	}

	s.logger.Info("Session service: signup completed", "user_id", principal.ID)

	return principal, pair, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token must be
// the one currently stored for its principal; rotated-away or logged-out
// tokens fail with model.ErrSessionMismatch.
func (s *Session) Refresh(ctx context.Context, refreshToken string) (model.Principal, model.CredentialPair, error) {
	claims, presented, err := verifySession(ctx, s.codec, s.sessions, refreshToken)
	if err != nil {
		s.logger.Info("Session service: refresh rejected", "error", err.Error())
		return model.Principal{}, model.CredentialPair{}, err
	}

	// Rotation reissues from the stored record so email and role changes
	// take effect here.
	user, err := s.users.GetByID(ctx, claims.ID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Principal{}, model.CredentialPair{}, model.ErrSessionMismatch
	}
	if err != nil {
		return model.Principal{}, model.CredentialPair{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	principal := user.Principal()
	pair, err := s.sign(principal)
	if err != nil {
		return model.Principal{}, model.CredentialPair{}, err
	}

	if err := s.sessions.Swap(ctx, principal.ID, presented, digest(pair.RefreshToken)); err != nil {
		if errors.Is(err, model.ErrSessionMismatch) {
			s.logger.Info("Session service: concurrent rotation lost", "user_id", principal.ID)
			return model.Principal{}, model.CredentialPair{}, err
		}
		return model.Principal{}, model.CredentialPair{}, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	s.logger.Info("Session service: refresh token rotated", "user_id", principal.ID)

	return principal, pair, nil
}

// Logout clears the session of the principal named by refreshToken. Missing,
// invalid and already revoked tokens are not errors.
func (s *Session) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	claims, err := s.codec.VerifyRefreshToken(refreshToken)
	if err != nil {
		s.logger.Debug("Session service: logout with undecodable token", "error", err.Error())
		return nil
	}

	if err := s.sessions.Clear(ctx, claims.ID); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	s.logger.Info("Session service: logged out", "user_id", claims.ID)

	return nil
}

func (s *Session) sign(p model.Principal) (model.CredentialPair, error) {
	access, err := s.codec.IssueAccessToken(p)
	if err != nil {
		return model.CredentialPair{}, fmt.Errorf("issue access: %w", err)
	}

	refresh, err := s.codec.IssueRefreshToken(p)
	if err != nil {
		return model.CredentialPair{}, fmt.Errorf("issue refresh: %w", err)
	}

	return model.CredentialPair{AccessToken: access, RefreshToken: refresh}, nil
}

// issue signs a pair and makes its refresh token the principal's only one.
func (s *Session) issue(ctx context.Context, p model.Principal) (model.CredentialPair, error) {
	pair, err := s.sign(p)
	if err != nil {
		return model.CredentialPair{}, err
	}

	if err := s.sessions.Set(ctx, p.ID, digest(pair.RefreshToken)); err != nil {
		return model.CredentialPair{}, fmt.Errorf("persist refresh: %w", err)
	}

	return pair, nil
}

func (s *Session) spendCompare(secret string) {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(timingSecret)
		if err != nil {
			s.logger.Warn("Session service: failed to prepare timing hash", "error", err.Error())
			return
		}
		s.dummyHash = hash
	})
	if s.dummyHash != "" {
		_ = s.hasher.Compare(s.dummyHash, secret)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateSignup(p model.SignupParams) error {
	if p.FullName == "" || p.Email == "" || p.Secret == "" || p.SecretConfirmation == "" {
		return fmt.Errorf("%w: please provide all required fields", model.ErrValidation)
	}
	if addr, err := mail.ParseAddress(p.Email); err != nil || addr.Address != p.Email {
		return fmt.Errorf("%w: email address is malformed", model.ErrValidation)
	}
	if p.Secret != p.SecretConfirmation {
		return fmt.Errorf("%w: passwords do not match", model.ErrValidation)
	}
	if len(p.Secret) < minSecretLength {
		return fmt.Errorf("%w: password must be at least %d characters", model.ErrValidation, minSecretLength)
	}
	if len(p.Secret) > maxSecretBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", model.ErrValidation, maxSecretBytes)
	}
	return nil
}

// verifySession decodes a refresh token and checks it against the stored
// session. It returns the presented token's digest for a later swap.
func verifySession(ctx context.Context, codec model.TokenCodec, sessions model.SessionStore, refreshToken string) (model.Claims, []byte, error) {
	claims, err := codec.VerifyRefreshToken(refreshToken)
	if err != nil {
		return model.Claims{}, nil, err
	}

	stored, err := sessions.Get(ctx, claims.ID)
	if errors.Is(err, model.ErrNotFound) {
		return model.Claims{}, nil, model.ErrSessionMismatch
	}
	if err != nil {
		return model.Claims{}, nil, fmt.Errorf("failed to load session: %w", err)
	}

	presented := digest(refreshToken)
	if !equalDigest(stored, presented) {
		return model.Claims{}, nil, model.ErrSessionMismatch
	}

	return claims, presented, nil
}
