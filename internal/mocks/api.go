package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dtroode/pulse-server/internal/model"
)

// Authenticator is a mock of the request authenticator used by the guard.
type Authenticator struct {
	mock.Mock
}

func NewAuthenticator(t testingT) *Authenticator {
	m := &Authenticator{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Authenticator) Authenticate(ctx context.Context, accessToken, refreshToken string) (model.AuthResult, error) {
	ret := m.Called(ctx, accessToken, refreshToken)
	return ret.Get(0).(model.AuthResult), ret.Error(1)
}

// SessionService is a mock of the session manager used by the auth handler.
type SessionService struct {
	mock.Mock
}

func NewSessionService(t testingT) *SessionService {
	m := &SessionService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *SessionService) Login(ctx context.Context, identifier, secret string) (model.Principal, model.CredentialPair, error) {
	ret := m.Called(ctx, identifier, secret)
	return ret.Get(0).(model.Principal), ret.Get(1).(model.CredentialPair), ret.Error(2)
}

func (m *SessionService) Signup(ctx context.Context, params model.SignupParams) (model.Principal, model.CredentialPair, error) {
	ret := m.Called(ctx, params)
	return ret.Get(0).(model.Principal), ret.Get(1).(model.CredentialPair), ret.Error(2)
}

func (m *SessionService) Refresh(ctx context.Context, refreshToken string) (model.Principal, model.CredentialPair, error) {
	ret := m.Called(ctx, refreshToken)
	return ret.Get(0).(model.Principal), ret.Get(1).(model.CredentialPair), ret.Error(2)
}

func (m *SessionService) Logout(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

// Pinger is a mock of a database health check.
type Pinger struct {
	mock.Mock
}

func NewPinger(t testingT) *Pinger {
	m := &Pinger{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Pinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
