package testutil

import (
	"bytes"
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/dtroode/pulse-server/internal/model"
)

var (
	_ model.UserStore    = (*MemoryStore)(nil)
	_ model.SessionStore = (*MemoryStore)(nil)
)

// MemoryStore is an in-memory user and session store for tests. Like the
// Postgres adapter, the session digest lives on the user record.
type MemoryStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]model.User
	sessions map[uuid.UUID][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[uuid.UUID]model.User),
		sessions: make(map[uuid.UUID][]byte),
	}
}

// Digest returns the stored session digest of userID.
func (s *MemoryStore) Digest(userID uuid.UUID) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bytes.Clone(s.sessions[userID])
}

// UpdateRole changes the stored role of userID.
func (s *MemoryStore) UpdateRole(userID uuid.UUID, role model.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[userID]
	u.Role = role
	s.users[userID] = u
}

func (s *MemoryStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (s *MemoryStore) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) Create(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return model.User{}, model.ErrEmailTaken
		}
	}
	s.users[user.ID] = user
	return user, nil
}

func (s *MemoryStore) Get(_ context.Context, userID uuid.UUID) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return nil, model.ErrNotFound
	}
	return bytes.Clone(s.sessions[userID]), nil
}

func (s *MemoryStore) Set(_ context.Context, userID uuid.UUID, digest []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return model.ErrNotFound
	}
	s.sessions[userID] = bytes.Clone(digest)
	return nil
}

func (s *MemoryStore) Swap(_ context.Context, userID uuid.UUID, expected, next []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.sessions[userID]
	if !ok || len(current) == 0 || !bytes.Equal(current, expected) {
		return model.ErrSessionMismatch
	}
	s.sessions[userID] = bytes.Clone(next)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}
