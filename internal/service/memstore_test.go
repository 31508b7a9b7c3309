package service

import (
	"context"
	"sync"

	"megamind_api/internal/domain"
	"megamind_api/internal/repository"
)

// memStore is an in-memory stand-in for the durable user store. Records are
// copied on the way in and out so tests observe real persistence behavior.
type memStore struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]*domain.User)}
}

func (m *memStore) Create(ctx context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return repository.ErrAlreadyExists
		}
	}
	if _, ok := m.users[u.ID]; ok {
		return repository.ErrAlreadyExists
	}
	m.users[u.ID] = copyUser(u)
	return nil
}

func (m *memStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyUser(u), nil
}

func (m *memStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) WithUser(ctx context.Context, id string, fn func(*domain.User) error) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	work := copyUser(u)
	if err := fn(work); err != nil {
		return nil, err
	}
	m.users[id] = copyUser(work)
	return work, nil
}

func copyUser(u *domain.User) *domain.User {
	cp := *u
	cp.CompletedTasks = append([]string(nil), u.CompletedTasks...)
	return &cp
}
