package command

import (
	"context"
	"errors"

	"github.com/meridianbank/banking/internal/domain"
	"github.com/meridianbank/banking/internal/repository"
	"github.com/meridianbank/banking/internal/utils"
)

// UserCommandService creates login users and changes their passwords.
type UserCommandService struct {
	users *repository.UserRepository
}

func NewUserCommandService(users *repository.UserRepository) *UserCommandService {
	return &UserCommandService{users: users}
}

type RegisterUserParams struct {
	Username   string
	Password   string
	Role       string
	CustomerID *int64
}

// Register creates a login user. An existing username fails with
// domain.ErrUsernameTaken; an empty role defaults to customer.
func (s *UserCommandService) Register(ctx context.Context, params RegisterUserParams) (*domain.User, error) {
	if params.Role == "" {
		params.Role = domain.RoleCustomer
	}

	_, err := s.users.GetByUsername(ctx, params.Username)
	if err == nil {
		return nil, domain.ErrUsernameTaken
	}
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		return nil, err
	}

	hash, err := utils.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Username:     params.Username,
		PasswordHash: hash,
		Role:         params.Role,
		CustomerID:   params.CustomerID,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword verifies the caller's current password before storing the
// new hash. A wrong current password fails with domain.ErrInvalidCredentials.
func (s *UserCommandService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !utils.CheckPassword(currentPassword, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}
