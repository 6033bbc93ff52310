package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meridianbank/banking/internal/domain"
	"github.com/meridianbank/banking/internal/pagination"
)

const transactionColumns = `id, transaction_id, account_id, transaction_type, amount, balance_after, description, reference_account_id, created_at`

// TransactionRepository persists the append-only ledger. Records are
// inserted exactly once and never updated or deleted.
type TransactionRepository struct {
	q dbtx
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{q: db}
}

// Append inserts the record, assigning its globally unique transaction id if
// unset, and fills in the storage-assigned sequence id and timestamp.
func (r *TransactionRepository) Append(ctx context.Context, txn *domain.Transaction) error {
	if txn.TransactionID == "" {
		txn.TransactionID = uuid.NewString()
	}
	query := `
		INSERT INTO transactions (transaction_id, account_id, transaction_type, amount, balance_after, description, reference_account_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	err := r.q.QueryRowContext(ctx, query,
		txn.TransactionID, txn.AccountID, txn.Type, txn.Amount,
		txn.BalanceAfter, txn.Description, txn.ReferenceAccountID,
	).Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1`
	row := r.q.QueryRowContext(ctx, query, transactionID)

	txn, err := scanTransactionRow(row)
	if err == sql.ErrNoRows {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

func (r *TransactionRepository) FindByAccount(ctx context.Context, accountID int64, p pagination.Params) (*pagination.Page[domain.Transaction], error) {
	p = p.Normalize()

	var total int
	if err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE account_id = $1`, accountID,
	).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	return r.queryPage(ctx, p, total, query, accountID, p.PageSize, p.Offset())
}

func (r *TransactionRepository) FindByDateRange(ctx context.Context, start, end time.Time, p pagination.Params) (*pagination.Page[domain.Transaction], error) {
	p = p.Normalize()

	var total int
	if err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE created_at BETWEEN $1 AND $2`, start, end,
	).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE created_at BETWEEN $1 AND $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`
	return r.queryPage(ctx, p, total, query, start, end, p.PageSize, p.Offset())
}

func (r *TransactionRepository) FindAll(ctx context.Context, p pagination.Params) (*pagination.Page[domain.Transaction], error) {
	p = p.Normalize()

	var total int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `SELECT ` + transactionColumns + `
		FROM transactions
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`
	return r.queryPage(ctx, p, total, query, p.PageSize, p.Offset())
}

func (r *TransactionRepository) queryPage(ctx context.Context, p pagination.Params, total int, query string, args ...any) (*pagination.Page[domain.Transaction], error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		txn, err := scanTransactionRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return pagination.NewPage(txns, p, total), nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransactionRow(row rowScanner) (*domain.Transaction, error) {
	var (
		txn         domain.Transaction
		description sql.NullString
		reference   sql.NullInt64
	)
	err := row.Scan(
		&txn.ID, &txn.TransactionID, &txn.AccountID, &txn.Type,
		&txn.Amount, &txn.BalanceAfter, &description, &reference, &txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		txn.Description = description.String
	}
	if reference.Valid {
		refID := reference.Int64
		txn.ReferenceAccountID = &refID
	}
	return &txn, nil
}
