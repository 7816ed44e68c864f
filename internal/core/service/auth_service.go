package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sentiserve/ml-api/internal/core/domain"
	"github.com/sentiserve/ml-api/internal/core/policy"
	"github.com/sentiserve/ml-api/internal/core/ports"
	"github.com/sentiserve/ml-api/internal/pkg/password"
)

// dummyDigest is compared against when login targets an unknown identity so
// that "no such user" and "wrong password" take comparable time.
const dummyDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService composes the password hasher, user store, token service, and
// authorization policy into the request-facing auth gateway.
type AuthService struct {
	users  ports.UserRepository
	hasher *password.Hasher
	tokens ports.TokenService
	audit  ports.AuditDispatcher
	logger zerolog.Logger
}

func NewAuthService(users ports.UserRepository, hasher *password.Hasher, tokens ports.TokenService, audit ports.AuditDispatcher, logger zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		audit:  audit,
		logger: logger,
	}
}

// Register creates a self-service account. The role is always forced to
// User, regardless of anything the caller supplied upstream.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	user, err := s.createUser(ctx, in.Username, in.Email, in.Password, in.FullName, domain.RoleUser)
	if err != nil {
		return nil, err
	}

	s.record(ports.AuditEvent{Kind: ports.AuditUserRegistered, Username: user.Username})
	s.logger.Info().Str("username", user.Username).Msg("user registered")
	return user, nil
}

// Login authenticates by username or email and issues a session token.
// Unknown identity, wrong password, and inactive account all surface the
// same ErrInvalidCredentials so callers cannot enumerate users.
func (s *AuthService) Login(ctx context.Context, identifier, plaintext string) (*ports.LoginResult, error) {
	identifier = strings.TrimSpace(identifier)

	user, err := s.users.FindByUsername(ctx, identifier)
	if err != nil && strings.Contains(identifier, "@") {
		user, err = s.users.FindByEmail(ctx, identifier)
	}
	if err != nil {
		// Burn a comparison anyway to keep timing level with the
		// wrong-password path.
		s.hasher.Verify(plaintext, dummyDigest)
		s.record(ports.AuditEvent{Kind: ports.AuditLoginFailure, Username: identifier, Detail: "unknown identity"})
		return nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(plaintext, user.PasswordHash) {
		s.record(ports.AuditEvent{Kind: ports.AuditLoginFailure, Username: user.Username, Detail: "password mismatch"})
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		s.record(ports.AuditEvent{Kind: ports.AuditLoginFailure, Username: user.Username, Detail: "inactive account"})
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	s.record(ports.AuditEvent{Kind: ports.AuditLoginSuccess, Username: user.Username, ActorID: user.ID})
	s.logger.Info().Str("username", user.Username).Str("role", string(user.Role)).Msg("login succeeded")

	return &ports.LoginResult{
		Token:     token,
		ExpiresIn: int64(time.Until(expiresAt).Round(time.Second).Seconds()),
		User:      user,
	}, nil
}

// Authenticate validates a bearer token and returns its claims.
func (s *AuthService) Authenticate(_ context.Context, token string) (*domain.Claims, error) {
	return s.tokens.Validate(token)
}

// Authorize checks the claims' role against the policy table. Absent claims
// count as Guest, so only public actions pass.
func (s *AuthService) Authorize(claims *domain.Claims, action domain.Action) error {
	role := domain.RoleGuest
	if claims != nil {
		role = claims.Role
	}
	if !policy.IsAllowed(role, action) {
		return domain.ErrForbidden
	}
	return nil
}

// CurrentUser resolves the claims' subject against the store.
func (s *AuthService) CurrentUser(ctx context.Context, claims *domain.Claims) (*domain.User, error) {
	return s.users.FindByID(ctx, claims.UserID)
}

// ChangePassword re-verifies the old password before accepting the new one.
// The claims already prove identity, but the extra check defends against
// password takeover with a stolen token.
func (s *AuthService) ChangePassword(ctx context.Context, claims *domain.Claims, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(oldPassword, user.PasswordHash) {
		s.record(ports.AuditEvent{Kind: ports.AuditLoginFailure, Username: user.Username, Detail: "password change rejected"})
		return domain.ErrInvalidCredentials
	}

	if err := password.ValidatePolicy(newPassword); err != nil {
		return err
	}
	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if _, err := s.users.Update(ctx, user.ID, func(u *domain.User) {
		u.PasswordHash = digest
		u.UpdatedAt = time.Now().UTC()
	}); err != nil {
		return err
	}

	s.record(ports.AuditEvent{Kind: ports.AuditPasswordChanged, Username: user.Username, ActorID: user.ID})
	return nil
}

// CreateUser creates an account with an assignable role. Authorization for
// admin-manage-users must already have succeeded at the gateway.
func (s *AuthService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, domain.NewValidationError("role", "unknown role")
	}

	user, err := s.createUser(ctx, in.Username, in.Email, in.Password, in.FullName, role)
	if err != nil {
		return nil, err
	}

	s.record(ports.AuditEvent{Kind: ports.AuditUserCreated, Username: user.Username})
	s.logger.Info().Str("username", user.Username).Str("role", string(role)).Msg("user created by admin")
	return user, nil
}

// DeleteUser removes a user record permanently. An admin deleting its own
// account is refused so it cannot lock itself out.
func (s *AuthService) DeleteUser(ctx context.Context, claims *domain.Claims, id string) error {
	id = strings.TrimSpace(id)
	if claims != nil && id == claims.UserID {
		return domain.ErrSelfDelete
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	event := ports.AuditEvent{Kind: ports.AuditUserDeleted, Detail: "deleted user " + id}
	if claims != nil {
		event.ActorID = claims.UserID
		event.Username = claims.Username
	}
	s.record(event)
	return nil
}

// ListUsers returns every user record.
func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// Bootstrap inserts the seed accounts, skipping any whose username already
// exists. Called once at startup before the server listens.
func (s *AuthService) Bootstrap(ctx context.Context, seeds []ports.SeedUser) error {
	for _, seed := range seeds {
		if _, err := s.users.FindByUsername(ctx, seed.Username); err == nil {
			continue
		}
		if _, err := s.createUser(ctx, seed.Username, seed.Email, seed.Password, seed.FullName, seed.Role); err != nil {
			return err
		}
		s.logger.Info().Str("username", seed.Username).Str("role", string(seed.Role)).Msg("bootstrap user created")
	}
	return nil
}

func (s *AuthService) createUser(ctx context.Context, username, email, plaintext, fullName string, role domain.Role) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return nil, domain.NewValidationError("username", "is required")
	}
	if email == "" {
		return nil, domain.NewValidationError("email", "is required")
	}
	if err := password.ValidatePolicy(plaintext); err != nil {
		return nil, err
	}

	digest, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return s.users.Create(ctx, &domain.User{
		Username:     username,
		Email:        email,
		FullName:     fullName,
		PasswordHash: digest,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
}

// record forwards an audit event when a dispatcher is configured.
func (s *AuthService) record(ev ports.AuditEvent) {
	if s.audit == nil {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now().UTC()
	}
	s.audit.Enqueue(ev)
}
