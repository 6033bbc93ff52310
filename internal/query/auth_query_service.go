package query

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/meridianbank/banking/internal/domain"
	"github.com/meridianbank/banking/internal/middleware"
	"github.com/meridianbank/banking/internal/repository"
	"github.com/meridianbank/banking/internal/utils"
)

// AuthQueryService handles login, token refresh and current-user lookup.
// User mutations (registration, password change) live in the command layer.
type AuthQueryService struct {
	users  *repository.UserRepository
	secret []byte
	ttl    time.Duration
}

func NewAuthQueryService(users *repository.UserRepository, secret []byte, ttl time.Duration) *AuthQueryService {
	return &AuthQueryService{users: users, secret: secret, ttl: ttl}
}

func (s *AuthQueryService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if !utils.CheckPassword(password, user.PasswordHash) {
		return "", nil, domain.ErrInvalidCredentials
	}
	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Me returns the authenticated caller's own user record.
func (s *AuthQueryService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthQueryService) RefreshToken(ctx context.Context, tokenString string) (string, error) {
	claims := &middleware.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", domain.ErrInvalidCredentials
	}
	user, err := s.users.GetByUsername(ctx, claims.Username)
	if err != nil {
		return "", domain.ErrInvalidCredentials
	}
	return s.generateToken(user)
}

func (s *AuthQueryService) generateToken(user *domain.User) (string, error) {
	claims := middleware.Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
