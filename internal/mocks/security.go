package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/pulse-server/internal/model"
)

// TokenCodec is a mock of model.TokenCodec.
type TokenCodec struct {
	mock.Mock
}

func NewTokenCodec(t testingT) *TokenCodec {
	m := &TokenCodec{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *TokenCodec) IssueAccessToken(p model.Principal) (string, error) {
	ret := m.Called(p)
	return ret.String(0), ret.Error(1)
}

func (m *TokenCodec) IssueRefreshToken(p model.Principal) (string, error) {
	ret := m.Called(p)
	return ret.String(0), ret.Error(1)
}

func (m *TokenCodec) VerifyAccessToken(token string) (model.Claims, error) {
	ret := m.Called(token)
	return ret.Get(0).(model.Claims), ret.Error(1)
}

func (m *TokenCodec) VerifyRefreshToken(token string) (model.Claims, error) {
	ret := m.Called(token)
	return ret.Get(0).(model.Claims), ret.Error(1)
}

// PasswordHasher is a mock of model.PasswordHasher.
type PasswordHasher struct {
	mock.Mock
}

func NewPasswordHasher(t testingT) *PasswordHasher {
	m := &PasswordHasher{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *PasswordHasher) Hash(secret string) (string, error) {
	ret := m.Called(secret)
	return ret.String(0), ret.Error(1)
}

func (m *PasswordHasher) Compare(hash, secret string) error {
	return m.Called(hash, secret).Error(0)
}
