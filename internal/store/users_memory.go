package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryUserStore is a development and test implementation.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]User // id -> user
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[string]User)}
}

func (s *InMemoryUserStore) Create(_ context.Context, p CreateUserParams) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(p.Email))
	for _, u := range s.users {
		if u.Email == email {
			return User{}, ErrConflict
		}
	}

	u := User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: p.PasswordHash,
		DisplayName:  p.DisplayName,
		RegisteredAt: time.Now().UTC(),
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (s *InMemoryUserStore) GetByID(_ context.Context, id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *InMemoryUserStore) ProfilesByIDs(_ context.Context, ids []string) (map[string]Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profiles := make(map[string]Profile, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			profiles[id] = Profile{ID: u.ID, DisplayName: u.DisplayName, AvatarURL: u.AvatarURL}
		}
	}
	return profiles, nil
}
