// Package ledger is the transaction-processing core: the account balance
// store and append-only ledger contracts, the per-account lock controller,
// and the service that orchestrates deposits, withdrawals and transfers as
// atomic units of work.
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridianbank/banking/internal/domain"
	"github.com/meridianbank/banking/internal/pagination"
)

// AccountStore is durable keyed storage of account records. It is the sole
// writer of the persisted balance and status.
type AccountStore interface {
	// Get returns the account or domain.ErrAccountNotFound.
	Get(ctx context.Context, accountID int64) (*domain.Account, error)

	// AdjustBalance applies delta (positive or negative) to the stored
	// balance as a single atomic read-modify-write against the current
	// persisted value. It fails with domain.ErrAccountNotFound,
	// domain.ErrAccountNotActive or domain.ErrInsufficientFunds without
	// mutating anything; on success the new balance and updated-at
	// timestamp are persisted together and the new balance is returned.
	AdjustBalance(ctx context.Context, accountID int64, delta decimal.Decimal) (decimal.Decimal, error)

	// SetStatus is administrative and never used by money-movement paths.
	SetStatus(ctx context.Context, accountID int64, status string) (*domain.Account, error)
}

// TransactionLedger is durable append-only storage of ledger records.
// Records are never updated or deleted once appended.
type TransactionLedger interface {
	// Append persists the record, assigning its unique transaction id if
	// unset, and fills in storage-assigned fields (sequence id, timestamp).
	Append(ctx context.Context, txn *domain.Transaction) error

	// FindByAccount returns the account's records newest first.
	FindByAccount(ctx context.Context, accountID int64, p pagination.Params) (*pagination.Page[domain.Transaction], error)

	// FindByDateRange returns records created in [start, end], newest first.
	FindByDateRange(ctx context.Context, start, end time.Time, p pagination.Params) (*pagination.Page[domain.Transaction], error)
}

// Store groups the two stores under one transactional boundary. Mutations
// performed inside ExecTx are durably applied together or not at all.
type Store interface {
	Accounts() AccountStore
	Ledger() TransactionLedger

	// ExecTx runs fn against a transaction-scoped view of the store and
	// commits its effects atomically; any error discards them all.
	ExecTx(ctx context.Context, fn func(Store) error) error
}

// Notifier receives after-commit notifications of ledger activity. A nil
// Notifier on the Service disables publishing. Implementations must not
// block the money-movement path on failure.
type Notifier interface {
	TransactionRecorded(ctx context.Context, txn *domain.Transaction)
	BalanceUpdated(ctx context.Context, accountID int64, newBalance, change decimal.Decimal)
}
