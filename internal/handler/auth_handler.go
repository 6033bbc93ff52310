package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meridianbank/banking/internal/command"
	"github.com/meridianbank/banking/internal/domain"
	"github.com/meridianbank/banking/internal/middleware"
)

type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	RefreshToken(ctx context.Context, tokenString string) (string, error)
	Me(ctx context.Context, userID int64) (*domain.User, error)
}

type UserCommander interface {
	Register(ctx context.Context, params command.RegisterUserParams) (*domain.User, error)
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
}

type AuthHandler struct {
	auth  Authenticator
	users UserCommander
}

func NewAuthHandler(auth Authenticator, users UserCommander) *AuthHandler {
	return &AuthHandler{auth: auth, users: users}
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	Token string `json:"token" validate:"required"`
}

type RegisterRequest struct {
	Username   string `json:"username" validate:"required,min=3,max=50"`
	Password   string `json:"password" validate:"required,min=8"`
	Role       string `json:"role" validate:"omitempty,oneof=customer teller admin"`
	CustomerID *int64 `json:"customerId" validate:"omitempty,gt=0"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

type refreshResponse struct {
	Token string `json:"token"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}
	token, user, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, loginResponse{Token: token, User: user}, "Login successful")
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}
	token, err := h.auth.RefreshToken(c.Request.Context(), req.Token)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, refreshResponse{Token: token}, "Token refreshed")
}

// Register creates a login user. The route is admin-guarded; an open signup
// endpoint has no place in a back-office banking API.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}
	user, err := h.users.Register(c.Request.Context(), command.RegisterUserParams{
		Username:   req.Username,
		Password:   req.Password,
		Role:       req.Role,
		CustomerID: req.CustomerID,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, user, "User registered")
}

// Me returns the authenticated caller's own user record.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}
	user, err := h.auth.Me(c.Request.Context(), userID)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, user, "")
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		middleware.RespondWithError(c, http.StatusUnauthorized, "Not authorized to access this route")
		return
	}
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}
	if err := h.users.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondDomainError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, nil, "Password changed")
}
