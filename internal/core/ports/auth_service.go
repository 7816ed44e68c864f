package ports

import (
	"context"

	"github.com/sentiserve/ml-api/internal/core/domain"
)

// RegisterInput carries self-service registration data. Any role supplied by
// the caller is ignored: self-registered accounts are always plain users.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// CreateUserInput carries admin-originated account creation data, where the
// role is assignable.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     domain.Role
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string
	ExpiresIn int64 // seconds until token expiry
	User      *domain.User
}

// SeedUser describes a bootstrap account inserted before the server accepts
// external requests.
type SeedUser struct {
	Username string
	Email    string
	FullName string
	Password string
	Role     domain.Role
}

// AuthService orchestrates registration, login, and per-request
// authentication/authorization. It is the only layer that translates
// component errors into caller-facing outcomes.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	// Login authenticates by username or email. Unknown identity and wrong
	// password surface the same domain.ErrInvalidCredentials.
	Login(ctx context.Context, identifier, password string) (*LoginResult, error)
	Authenticate(ctx context.Context, token string) (*domain.Claims, error)
	Authorize(claims *domain.Claims, action domain.Action) error
	ChangePassword(ctx context.Context, claims *domain.Claims, oldPassword, newPassword string) error
	CurrentUser(ctx context.Context, claims *domain.Claims) (*domain.User, error)

	// Admin operations. Callers must have passed Authorize with
	// domain.ActionAdminManageUsers.
	CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, claims *domain.Claims, id string) error
	ListUsers(ctx context.Context) ([]*domain.User, error)
}
