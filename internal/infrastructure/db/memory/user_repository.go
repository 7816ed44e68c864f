// Package memory provides the default in-process user store. Writes are
// serialized under a single mutex so concurrent registrations with the same
// username yield exactly one success and one conflict.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/sentiserve/ml-api/internal/core/domain"
	"github.com/sentiserve/ml-api/internal/core/ports"
)

type UserRepository struct {
	mu         sync.RWMutex
	byID       map[string]*domain.User
	byUsername map[string]string // username → id
	byEmail    map[string]string // email → id
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:       make(map[string]*domain.User),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
	}
}

// Create assigns a fresh ID and inserts the record. The uniqueness check and
// the insert happen under the same write lock; a concurrent duplicate sees
// the conflict, never a second success.
func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byUsername[user.Username]; taken {
		return nil, domain.ErrUsernameTaken
	}
	if _, taken := r.byEmail[user.Email]; taken {
		return nil, domain.ErrEmailTaken
	}

	stored := clone(user)
	stored.ID = uuid.NewString()

	r.byID[stored.ID] = stored
	r.byUsername[stored.Username] = stored.ID
	r.byEmail[stored.Email] = stored.ID

	return clone(stored), nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *UserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return clone(user), nil
}

// Update applies mutate atomically under the write lock. ID, username, and
// email are immutable; any change to them by the mutator is discarded.
func (r *UserRepository) Update(_ context.Context, id string, mutate ports.UserMutator) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}

	updated := clone(user)
	mutate(updated)
	updated.ID = user.ID
	updated.Username = user.Username
	updated.Email = user.Email

	r.byID[id] = updated
	return clone(updated), nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	delete(r.byUsername, user.Username)
	delete(r.byEmail, user.Email)
	return nil
}

func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		users = append(users, clone(u))
	}
	return users, nil
}

// clone keeps callers from mutating stored records through shared pointers.
func clone(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	copy := *u
	return &copy
}
