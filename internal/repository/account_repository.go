package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/meridianbank/banking/internal/domain"
	"github.com/meridianbank/banking/internal/pagination"
)

const accountColumns = `id, account_number, customer_id, account_type, balance, status, interest_rate, created_at, updated_at`

// AccountRepository persists account records. It is the only code that
// writes the accounts table.
type AccountRepository struct {
	q dbtx
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{q: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (account_number, customer_id, account_type, balance, status, interest_rate)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.q.QueryRowContext(ctx, query,
		account.AccountNumber, account.CustomerID, account.AccountType,
		account.Balance, account.Status, account.InterestRate,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *AccountRepository) Get(ctx context.Context, accountID int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, accountID))
}

func (r *AccountRepository) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, accountNumber))
}

// AdjustBalance applies delta as one guarded UPDATE so the balance change is
// atomic relative to the current stored value; the WHERE clause enforces the
// active-status gate and the non-negative invariant in the same statement.
func (r *AccountRepository) AdjustBalance(ctx context.Context, accountID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $2, updated_at = NOW()
		WHERE id = $1 AND status = $3 AND balance + $2 >= 0
		RETURNING balance
	`
	var newBalance decimal.Decimal
	err := r.q.QueryRowContext(ctx, query, accountID, delta, domain.StatusActive).Scan(&newBalance)
	if err == sql.ErrNoRows {
		return decimal.Zero, r.classifyAdjustFailure(ctx, accountID)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to adjust balance: %w", err)
	}
	return newBalance, nil
}

// classifyAdjustFailure decides which invariant rejected the guarded update.
func (r *AccountRepository) classifyAdjustFailure(ctx context.Context, accountID int64) error {
	account, err := r.Get(ctx, accountID)
	if err != nil {
		return err
	}
	if account.Status != domain.StatusActive {
		return domain.ErrAccountNotActive
	}
	return domain.ErrInsufficientFunds
}

func (r *AccountRepository) SetStatus(ctx context.Context, accountID int64, status string) (*domain.Account, error) {
	query := `
		UPDATE accounts
		SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + accountColumns
	return r.scanOne(r.q.QueryRowContext(ctx, query, accountID, status))
}

// ListByCustomer returns all of a customer's accounts, newest first. The
// result is unpaginated; one customer holds a handful of accounts at most.
func (r *AccountRepository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE customer_id = $1 ORDER BY created_at DESC, id DESC`
	rows, err := r.q.QueryContext(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(
			&a.ID, &a.AccountNumber, &a.CustomerID, &a.AccountType,
			&a.Balance, &a.Status, &a.InterestRate, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list customer accounts: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepository) List(ctx context.Context, p pagination.Params) (*pagination.Page[domain.Account], error) {
	p = p.Normalize()

	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count accounts: %w", err)
	}

	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.QueryContext(ctx, query, p.PageSize, p.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(
			&a.ID, &a.AccountNumber, &a.CustomerID, &a.AccountType,
			&a.Balance, &a.Status, &a.InterestRate, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return pagination.NewPage(accounts, p, total), nil
}

func (r *AccountRepository) scanOne(row *sql.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID, &a.AccountNumber, &a.CustomerID, &a.AccountType,
		&a.Balance, &a.Status, &a.InterestRate, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &a, nil
}
