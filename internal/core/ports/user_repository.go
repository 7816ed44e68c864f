package ports

import (
	"context"

	"github.com/sentiserve/ml-api/internal/core/domain"
)

// UserMutator applies a field-level change to a user record. Implementations
// of UserRepository run it atomically with respect to concurrent reads.
type UserMutator func(*domain.User)

// UserRepository is keyed storage of user records. It enforces uniqueness of
// username and email at creation time and has no notion of authority; role
// checks belong to the service layer.
type UserRepository interface {
	// Create persists a new user, assigning a fresh unique ID. Returns
	// domain.ErrUsernameTaken or domain.ErrEmailTaken on conflict.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// Update applies mutate to the stored record. Returns domain.ErrUserNotFound
	// if the id is absent.
	Update(ctx context.Context, id string, mutate UserMutator) (*domain.User, error)
	// Delete removes the record permanently. Returns domain.ErrUserNotFound if
	// the id is absent; there is no silent success on a missing id.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.User, error)
}
