package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/sentiserve/ml-api/internal/core/domain"
	"github.com/sentiserve/ml-api/internal/core/ports"
	"github.com/sentiserve/ml-api/internal/pkg/password"
)

// stubUserRepo is a minimal in-test UserRepository.
type stubUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[string]*domain.User // id → user
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	r.nextID++
	stored := cloneUser(user)
	stored.ID = fmt.Sprintf("id-%d", r.nextID)
	r.users[stored.ID] = stored
	return cloneUser(stored), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) Update(_ context.Context, id string, mutate ports.UserMutator) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	updated := cloneUser(u)
	mutate(updated)
	r.users[id] = updated
	return cloneUser(updated), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func newTestAuthService(repo ports.UserRepository) *AuthService {
	hasher := password.NewHasher(bcrypt.MinCost)
	tokens := NewTokenService("test-secret", time.Hour)
	return NewAuthService(repo, hasher, tokens, nil, zerolog.Nop())
}

func TestAuthService_Register_Success(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "newuser",
		Email:    "n@example.com",
		Password: "SecurePass123!",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("role = %s, want user", user.Role)
	}
	if !user.IsActive {
		t.Fatalf("new user should be active")
	}
	if user.PasswordHash == "SecurePass123!" || user.PasswordHash == "" {
		t.Fatalf("password not hashed: %q", user.PasswordHash)
	}
	if user.ID == "" {
		t.Fatalf("expected assigned id")
	}
}

func TestAuthService_Register_WeakPasswordNeverStored(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	// 7 characters: must fail validation before any store write.
	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "shorty",
		Email:    "s@example.com",
		Password: "short1A",
	})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(repo.users) != 0 {
		t.Fatalf("store written despite validation failure")
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	in := ports.RegisterInput{Username: "bob", Email: "bob@example.com", Password: "SecurePass123"}
	if _, err := svc.Register(context.Background(), in); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, err := svc.Register(context.Background(), in)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "carol", Email: "carol@example.com", Password: "SecurePass123",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	result, err := svc.Login(context.Background(), "carol", "SecurePass123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("expected token")
	}
	if result.ExpiresIn <= 0 {
		t.Fatalf("expires_in = %d, want > 0", result.ExpiresIn)
	}

	// Round-trip law: the token's claims equal the issuing user's identity.
	claims, err := svc.Authenticate(context.Background(), result.Token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if claims.UserID != result.User.ID || claims.Username != "carol" || claims.Role != domain.RoleUser {
		t.Fatalf("claims do not match issuing user: %+v", claims)
	}
}

func TestAuthService_Login_WithEmail(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "dave", Email: "dave@example.com", Password: "SecurePass123",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, err := svc.Login(context.Background(), "dave@example.com", "SecurePass123"); err != nil {
		t.Fatalf("login by email failed: %v", err)
	}
}

func TestAuthService_Login_UniformFailure(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "erin", Email: "erin@example.com", Password: "SecurePass123",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Wrong password and unknown user must be indistinguishable.
	_, wrongPw := svc.Login(context.Background(), "erin", "WrongPass123")
	_, unknown := svc.Login(context.Background(), "ghost", "WrongPass123")

	if !errors.Is(wrongPw, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPw)
	}
	if !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", unknown)
	}
	if wrongPw.Error() != unknown.Error() {
		t.Fatalf("failure messages differ: %q vs %q", wrongPw, unknown)
	}
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "frank", Email: "frank@example.com", Password: "SecurePass123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := repo.Update(context.Background(), user.ID, func(u *domain.User) {
		u.IsActive = false
	}); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	if _, err := svc.Login(context.Background(), "frank", "SecurePass123"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for inactive user, got %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "gina", Email: "gina@example.com", Password: "OldPass1234",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	claims := &domain.Claims{UserID: user.ID, Username: user.Username, Role: user.Role}

	// Wrong old password is rejected even with valid claims.
	err = svc.ChangePassword(context.Background(), claims, "WrongOld123", "NewPass1234")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if err := svc.ChangePassword(context.Background(), claims, "OldPass1234", "NewPass1234"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	if _, err := svc.Login(context.Background(), "gina", "OldPass1234"); err == nil {
		t.Fatalf("old password still accepted")
	}
	if _, err := svc.Login(context.Background(), "gina", "NewPass1234"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}

func TestAuthService_CreateUser_AssignsRole(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	user, err := svc.CreateUser(context.Background(), ports.CreateUserInput{
		Username: "root2", Email: "root2@example.com", Password: "AdminPass123", Role: domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("role = %s, want admin", user.Role)
	}

	if _, err := svc.CreateUser(context.Background(), ports.CreateUserInput{
		Username: "bad", Email: "bad@example.com", Password: "AdminPass123", Role: "owner",
	}); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestAuthService_DeleteUser_SelfDeleteRefused(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	admin, err := svc.CreateUser(context.Background(), ports.CreateUserInput{
		Username: "root", Email: "root@example.com", Password: "AdminPass123", Role: domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	claims := &domain.Claims{UserID: admin.ID, Username: admin.Username, Role: admin.Role}

	if err := svc.DeleteUser(context.Background(), claims, admin.ID); !errors.Is(err, domain.ErrSelfDelete) {
		t.Fatalf("expected ErrSelfDelete, got %v", err)
	}
	if _, err := repo.FindByID(context.Background(), admin.ID); err != nil {
		t.Fatalf("record should remain after refused self-delete: %v", err)
	}

	if err := svc.DeleteUser(context.Background(), claims, "missing-id"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

type captureDispatcher struct {
	mu     sync.Mutex
	events []ports.AuditEvent
}

func (d *captureDispatcher) Enqueue(event ports.AuditEvent) {
	d.mu.Lock()
	d.events = append(d.events, event)
	d.mu.Unlock()
}

func (d *captureDispatcher) last(t *testing.T) ports.AuditEvent {
	t.Helper()
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.events) == 0 {
		t.Fatalf("no audit events recorded")
	}
	return d.events[len(d.events)-1]
}

func TestAuthService_DeleteUser_AuditAttribution(t *testing.T) {
	repo := newStubUserRepo()
	audit := &captureDispatcher{}
	svc := NewAuthService(repo, password.NewHasher(bcrypt.MinCost), NewTokenService("test-secret", time.Hour), audit, zerolog.Nop())

	target, err := svc.CreateUser(context.Background(), ports.CreateUserInput{
		Username: "victim", Email: "victim@example.com", Password: "UserPass123",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	claims := &domain.Claims{UserID: "admin-1", Username: "root", Role: domain.RoleAdmin}

	if err := svc.DeleteUser(context.Background(), claims, target.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	event := audit.last(t)
	if event.Kind != ports.AuditUserDeleted {
		t.Fatalf("kind = %q", event.Kind)
	}
	// The actor is the caller, not the deleted account.
	if event.ActorID != "admin-1" || event.Username != "root" {
		t.Fatalf("actor misattributed: %+v", event)
	}
	if !strings.Contains(event.Detail, target.ID) {
		t.Fatalf("detail %q does not name the deleted id", event.Detail)
	}
}

func TestAuthService_Authorize(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	userClaims := &domain.Claims{UserID: "u1", Username: "u", Role: domain.RoleUser}
	if err := svc.Authorize(userClaims, domain.ActionPredict); err != nil {
		t.Fatalf("user should predict: %v", err)
	}
	if err := svc.Authorize(userClaims, domain.ActionAdminManageUsers); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	// nil claims behave as guest.
	if err := svc.Authorize(nil, domain.ActionPublic); err != nil {
		t.Fatalf("guest should access public: %v", err)
	}
	if err := svc.Authorize(nil, domain.ActionPredict); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for guest predict, got %v", err)
	}
}

func TestAuthService_Bootstrap_Idempotent(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAuthService(repo)

	seeds := []ports.SeedUser{
		{Username: "admin", Email: "admin@example.com", Password: "Admin123!", Role: domain.RoleAdmin},
		{Username: "testuser", Email: "user@example.com", Password: "User123!", Role: domain.RoleUser},
	}
	if err := svc.Bootstrap(context.Background(), seeds); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	if err := svc.Bootstrap(context.Background(), seeds); err != nil {
		t.Fatalf("second bootstrap failed: %v", err)
	}

	users, _ := svc.ListUsers(context.Background())
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}

	result, err := svc.Login(context.Background(), "admin", "Admin123!")
	if err != nil {
		t.Fatalf("bootstrap admin login failed: %v", err)
	}
	if result.User.Role != domain.RoleAdmin {
		t.Fatalf("bootstrap admin role = %s", result.User.Role)
	}
}
