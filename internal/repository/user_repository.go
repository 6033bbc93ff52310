package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/meridianbank/banking/internal/domain"
)

// UserRepository persists login users. Only active users may authenticate.
type UserRepository struct {
	q dbtx
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{q: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (customer_id, username, password_hash, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.q.QueryRowContext(ctx, query,
		user.CustomerID, user.Username, user.PasswordHash, user.Role, user.IsActive,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*domain.User, error) {
	query := `
		SELECT id, customer_id, username, password_hash, role, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	var (
		user       domain.User
		customerID sql.NullInt64
	)
	err := r.q.QueryRowContext(ctx, query, userID).Scan(
		&user.ID, &customerID, &user.Username, &user.PasswordHash,
		&user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if customerID.Valid {
		id := customerID.Int64
		user.CustomerID = &id
	}
	return &user, nil
}

// UpdatePassword replaces the stored hash. The caller verifies the current
// password first.
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	result, err := r.q.ExecContext(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
		userID, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// GetByUsername finds an active login user. Missing and inactive users both
// report ErrInvalidCredentials so login never reveals which usernames exist.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT id, customer_id, username, password_hash, role, is_active, created_at, updated_at
		FROM users
		WHERE username = $1 AND is_active = true
	`
	var (
		user       domain.User
		customerID sql.NullInt64
	)
	err := r.q.QueryRowContext(ctx, query, username).Scan(
		&user.ID, &customerID, &user.Username, &user.PasswordHash,
		&user.Role, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if customerID.Valid {
		id := customerID.Int64
		user.CustomerID = &id
	}
	return &user, nil
}
