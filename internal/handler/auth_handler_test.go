package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/meridianbank/banking/internal/command"
	"github.com/meridianbank/banking/internal/domain"
)

type mockAuthenticator struct {
	loginFn   func(ctx context.Context, username, password string) (string, *domain.User, error)
	refreshFn func(ctx context.Context, tokenString string) (string, error)
	meFn      func(ctx context.Context, userID int64) (*domain.User, error)
}

func (m *mockAuthenticator) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return m.loginFn(ctx, username, password)
}

func (m *mockAuthenticator) RefreshToken(ctx context.Context, tokenString string) (string, error) {
	return m.refreshFn(ctx, tokenString)
}

func (m *mockAuthenticator) Me(ctx context.Context, userID int64) (*domain.User, error) {
	return m.meFn(ctx, userID)
}

type mockUserCommander struct {
	registerFn       func(ctx context.Context, params command.RegisterUserParams) (*domain.User, error)
	changePasswordFn func(ctx context.Context, userID int64, currentPassword, newPassword string) error
}

func (m *mockUserCommander) Register(ctx context.Context, params command.RegisterUserParams) (*domain.User, error) {
	return m.registerFn(ctx, params)
}

func (m *mockUserCommander) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	return m.changePasswordFn(ctx, userID, currentPassword, newPassword)
}

// asUser injects the identity normally set by the auth middleware.
func asUser(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userId", userID)
		c.Next()
	}
}

func TestAuthHandlerLogin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		body       any
		loginErr   error
		wantStatus int
	}{
		{
			name:       "success",
			body:       LoginRequest{Username: "teller", Password: "teller123"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "bad credentials",
			body:       LoginRequest{Username: "teller", Password: "wrong"},
			loginErr:   domain.ErrInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing password",
			body:       map[string]any{"username": "teller"},
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &mockAuthenticator{
				loginFn: func(ctx context.Context, username, password string) (string, *domain.User, error) {
					if tt.loginErr != nil {
						return "", nil, tt.loginErr
					}
					return "token-123", &domain.User{ID: 1, Username: username, Role: domain.RoleTeller}, nil
				},
			}
			h := NewAuthHandler(auth, &mockUserCommander{})
			router := gin.New()
			router.POST("/auth/login", h.Login)

			w := performRequest(router, http.MethodPost, "/auth/login", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestAuthHandlerRegister(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		body        any
		registerErr error
		wantStatus  int
	}{
		{
			name:       "success",
			body:       RegisterRequest{Username: "newteller", Password: "longenough1", Role: domain.RoleTeller},
			wantStatus: http.StatusCreated,
		},
		{
			name:        "username taken",
			body:        RegisterRequest{Username: "teller", Password: "longenough1"},
			registerErr: domain.ErrUsernameTaken,
			wantStatus:  http.StatusConflict,
		},
		{
			name:       "short password",
			body:       RegisterRequest{Username: "newteller", Password: "short"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown role",
			body:       map[string]any{"username": "newteller", "password": "longenough1", "role": "root"},
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &mockUserCommander{
				registerFn: func(ctx context.Context, params command.RegisterUserParams) (*domain.User, error) {
					if tt.registerErr != nil {
						return nil, tt.registerErr
					}
					return &domain.User{ID: 2, Username: params.Username, Role: params.Role, IsActive: true}, nil
				},
			}
			h := NewAuthHandler(&mockAuthenticator{}, users)
			router := gin.New()
			router.POST("/auth/register", h.Register)

			w := performRequest(router, http.MethodPost, "/auth/register", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestAuthHandlerMe(t *testing.T) {
	gin.SetMode(gin.TestMode)

	auth := &mockAuthenticator{
		meFn: func(ctx context.Context, userID int64) (*domain.User, error) {
			if userID != 5 {
				return nil, domain.ErrUserNotFound
			}
			return &domain.User{ID: 5, Username: "teller", Role: domain.RoleTeller}, nil
		},
	}
	h := NewAuthHandler(auth, &mockUserCommander{})

	router := gin.New()
	router.GET("/auth/me", asUser(5), h.Me)
	if w := performRequest(router, http.MethodGet, "/auth/me", nil); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	// No identity in the context: the middleware never ran.
	bare := gin.New()
	bare.GET("/auth/me", h.Me)
	if w := performRequest(bare, http.MethodGet, "/auth/me", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 without identity", w.Code)
	}
}

func TestAuthHandlerChangePassword(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		body       any
		changeErr  error
		wantStatus int
	}{
		{
			name:       "success",
			body:       ChangePasswordRequest{CurrentPassword: "teller123", NewPassword: "longenough1"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong current password",
			body:       ChangePasswordRequest{CurrentPassword: "wrong", NewPassword: "longenough1"},
			changeErr:  domain.ErrInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "short new password",
			body:       ChangePasswordRequest{CurrentPassword: "teller123", NewPassword: "short"},
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID int64
			users := &mockUserCommander{
				changePasswordFn: func(ctx context.Context, userID int64, currentPassword, newPassword string) error {
					gotUserID = userID
					return tt.changeErr
				},
			}
			h := NewAuthHandler(&mockAuthenticator{}, users)
			router := gin.New()
			router.PUT("/auth/change-password", asUser(5), h.ChangePassword)

			w := performRequest(router, http.MethodPut, "/auth/change-password", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusBadRequest && gotUserID != 5 {
				t.Errorf("service got user id %d, want 5", gotUserID)
			}
		})
	}
}
