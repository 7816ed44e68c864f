package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sentiserve/ml-api/internal/api"
	"github.com/sentiserve/ml-api/internal/api/handler"
	"github.com/sentiserve/ml-api/internal/core/domain"
	"github.com/sentiserve/ml-api/internal/core/ports"
	"github.com/sentiserve/ml-api/pkg/logger"
)

// stubAuthService lets each test pin down only the methods it exercises.
type stubAuthService struct {
	registerFn       func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn          func(ctx context.Context, identifier, password string) (*ports.LoginResult, error)
	authenticateFn   func(ctx context.Context, token string) (*domain.Claims, error)
	authorizeFn      func(claims *domain.Claims, action domain.Action) error
	changePasswordFn func(ctx context.Context, claims *domain.Claims, oldPassword, newPassword string) error
	currentUserFn    func(ctx context.Context, claims *domain.Claims) (*domain.User, error)
	createUserFn     func(ctx context.Context, in ports.CreateUserInput) (*domain.User, error)
	deleteUserFn     func(ctx context.Context, claims *domain.Claims, id string) error
	listUsersFn      func(ctx context.Context) ([]*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, identifier, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, identifier, password)
}

func (s *stubAuthService) Authenticate(ctx context.Context, token string) (*domain.Claims, error) {
	return s.authenticateFn(ctx, token)
}

func (s *stubAuthService) Authorize(claims *domain.Claims, action domain.Action) error {
	return s.authorizeFn(claims, action)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, claims *domain.Claims, oldPassword, newPassword string) error {
	return s.changePasswordFn(ctx, claims, oldPassword, newPassword)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, claims *domain.Claims) (*domain.User, error) {
	return s.currentUserFn(ctx, claims)
}

func (s *stubAuthService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	return s.createUserFn(ctx, in)
}

func (s *stubAuthService) DeleteUser(ctx context.Context, claims *domain.Claims, id string) error {
	return s.deleteUserFn(ctx, claims, id)
}

func (s *stubAuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.listUsersFn(ctx)
}

func newEcho() *echo.Echo {
	logger.Reset()
	log := logger.Init(logger.Options{Level: "error"})
	e := echo.New()
	e.HTTPErrorHandler = api.NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()
	return e
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func sampleUser() *domain.User {
	return &domain.User{
		ID:        "id-1",
		Username:  "alice",
		Email:     "alice@example.com",
		FullName:  "Alice Doe",
		Role:      domain.RoleUser,
		IsActive:  true,
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRegister_Created(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Username != "alice" || in.Email != "alice@example.com" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return sampleUser(), nil
		},
	}
	e.POST("/auth/register", handler.NewAuthHandler(stub).Register)

	rec := doJSON(e, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"Secret123","full_name":"Alice Doe"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got["username"] != "alice" || got["role"] != "user" {
		t.Fatalf("unexpected body: %v", got)
	}
	if _, leaked := got["password_hash"]; leaked {
		t.Fatalf("password hash leaked in response")
	}
}

func TestRegister_InvalidPayload(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("service must not be reached on invalid payload")
			return nil, nil
		},
	}
	e.POST("/auth/register", handler.NewAuthHandler(stub).Register)

	cases := []string{
		`{"username":"al","email":"alice@example.com","password":"Secret123"}`,
		`{"username":"alice","email":"not-an-email","password":"Secret123"}`,
		`{"username":"alice","email":"alice@example.com"}`,
		`{not json`,
	}
	for _, body := range cases {
		rec := doJSON(e, http.MethodPost, "/auth/register", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("payload %s: expected 400, got %d", body, rec.Code)
		}
	}
}

func TestRegister_Conflict(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUsernameTaken
		},
	}
	e.POST("/auth/register", handler.NewAuthHandler(stub).Register)

	rec := doJSON(e, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"Secret123"}`)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRegister_WeakPassword(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			return nil, domain.NewValidationError("password", "must contain an uppercase letter")
		},
	}
	e.POST("/auth/register", handler.NewAuthHandler(stub).Register)

	rec := doJSON(e, http.MethodPost, "/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"secret123"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "uppercase") {
		t.Fatalf("expected validation detail in body, got %s", rec.Body.String())
	}
}

func TestLogin_Success(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(_ context.Context, identifier, password string) (*ports.LoginResult, error) {
			if identifier != "alice" || password != "Secret123" {
				t.Fatalf("unexpected credentials: %q %q", identifier, password)
			}
			return &ports.LoginResult{Token: "signed.jwt.token", ExpiresIn: 1800, User: sampleUser()}, nil
		},
	}
	e.POST("/auth/login", handler.NewAuthHandler(stub).Login)

	rec := doJSON(e, http.MethodPost, "/auth/login", `{"username":"alice","password":"Secret123"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var got struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.AccessToken != "signed.jwt.token" {
		t.Fatalf("access_token = %q", got.AccessToken)
	}
	if got.TokenType != "bearer" {
		t.Fatalf("token_type = %q, want bearer", got.TokenType)
	}
	if got.ExpiresIn != 1800 {
		t.Fatalf("expires_in = %d, want 1800", got.ExpiresIn)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	e.POST("/auth/login", handler.NewAuthHandler(stub).Login)

	rec := doJSON(e, http.MethodPost, "/auth/login", `{"username":"alice","password":"wrong"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "incorrect username or password") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestLogin_MissingFields(t *testing.T) {
	e := newEcho()
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			t.Fatalf("service must not be reached on invalid payload")
			return nil, nil
		},
	}
	e.POST("/auth/login", handler.NewAuthHandler(stub).Login)

	rec := doJSON(e, http.MethodPost, "/auth/login", `{"username":"alice"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
