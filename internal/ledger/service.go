package ledger

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/meridianbank/banking/internal/domain"
)

// Service orchestrates the three monetary operations. Each one acquires the
// account lock(s), validates against the current persisted state, then
// commits the balance change together with its ledger record in one store
// transaction. A failed operation leaves no balance change and no record.
type Service struct {
	store    Store
	locks    *AccountLocks
	notifier Notifier
	log      *slog.Logger
}

// NewService wires a Service. notifier may be nil to disable event
// publishing (used in tests).
func NewService(store Store, locks *AccountLocks, notifier Notifier) *Service {
	return &Service{
		store:    store,
		locks:    locks,
		notifier: notifier,
		log:      slog.Default(),
	}
}

// Receipt is the outcome of a deposit or withdrawal: the appended ledger
// record and the balance it left behind.
type Receipt struct {
	Transaction *domain.Transaction `json:"transaction"`
	NewBalance  decimal.Decimal     `json:"newBalance"`
}

// TransferReceipt is the outcome of a transfer: the linked record pair and
// both resulting balances.
type TransferReceipt struct {
	FromTransaction *domain.Transaction `json:"fromTransaction"`
	ToTransaction   *domain.Transaction `json:"toTransaction"`
	FromNewBalance  decimal.Decimal     `json:"fromNewBalance"`
	ToNewBalance    decimal.Decimal     `json:"toNewBalance"`
}

// Deposit credits amount to the account and appends a deposit record.
func (s *Service) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal, description string) (*Receipt, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if description == "" {
		description = "Deposit"
	}

	var receipt *Receipt
	err := s.locks.WithAccountLock(ctx, accountID, func() error {
		var err error
		receipt, err = s.applySingle(ctx, accountID, domain.TxDeposit, amount, description)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, receipt.Transaction, amount)
	s.log.InfoContext(ctx, "deposit completed",
		"accountId", accountID, "amount", amount, "newBalance", receipt.NewBalance)
	return receipt, nil
}

// Withdraw debits amount from the account and appends a withdrawal record.
// It fails with domain.ErrInsufficientFunds before any mutation if the
// balance would go negative.
func (s *Service) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal, description string) (*Receipt, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if description == "" {
		description = "Withdrawal"
	}

	var receipt *Receipt
	err := s.locks.WithAccountLock(ctx, accountID, func() error {
		var err error
		receipt, err = s.applySingle(ctx, accountID, domain.TxWithdrawal, amount.Neg(), description)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, receipt.Transaction, amount.Neg())
	s.log.InfoContext(ctx, "withdrawal completed",
		"accountId", accountID, "amount", amount, "newBalance", receipt.NewBalance)
	return receipt, nil
}

// applySingle commits one balance change and its ledger record atomically.
// Caller holds the account lock; delta carries the sign, txType the record
// type, and the record amount is always positive.
func (s *Service) applySingle(ctx context.Context, accountID int64, txType string, delta decimal.Decimal, description string) (*Receipt, error) {
	var receipt *Receipt
	err := s.store.ExecTx(ctx, func(st Store) error {
		account, err := st.Accounts().Get(ctx, accountID)
		if err != nil {
			return err
		}
		if account.Status != domain.StatusActive {
			return domain.ErrAccountNotActive
		}
		if delta.IsNegative() && account.Balance.Add(delta).IsNegative() {
			return domain.ErrInsufficientFunds
		}

		newBalance, err := st.Accounts().AdjustBalance(ctx, accountID, delta)
		if err != nil {
			return err
		}
		txn := &domain.Transaction{
			AccountID:    accountID,
			Type:         txType,
			Amount:       delta.Abs(),
			BalanceAfter: newBalance,
			Description:  description,
		}
		if err := st.Ledger().Append(ctx, txn); err != nil {
			return err
		}
		receipt = &Receipt{Transaction: txn, NewBalance: newBalance}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return receipt, nil
}

// Transfer moves amount between two accounts: both balance changes and both
// linked ledger records succeed together or none persist. Locks are taken in
// a fixed order; the same-account check happens before any lock or I/O.
func (s *Service) Transfer(ctx context.Context, fromID, toID int64, amount decimal.Decimal, description string) (*TransferReceipt, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if fromID == toID {
		return nil, domain.ErrSameAccount
	}
	if description == "" {
		description = "Transfer"
	}

	var receipt *TransferReceipt
	err := s.locks.WithAccountsLock(ctx, fromID, toID, func() error {
		return s.store.ExecTx(ctx, func(st Store) error {
			from, err := st.Accounts().Get(ctx, fromID)
			if err != nil {
				return err
			}
			to, err := st.Accounts().Get(ctx, toID)
			if err != nil {
				return err
			}
			if from.Status != domain.StatusActive || to.Status != domain.StatusActive {
				return domain.ErrAccountNotActive
			}
			if from.Balance.LessThan(amount) {
				return domain.ErrInsufficientFunds
			}

			fromBalance, err := st.Accounts().AdjustBalance(ctx, fromID, amount.Neg())
			if err != nil {
				return err
			}
			toBalance, err := st.Accounts().AdjustBalance(ctx, toID, amount)
			if err != nil {
				return err
			}

			out := &domain.Transaction{
				AccountID:          fromID,
				Type:               domain.TxTransferOut,
				Amount:             amount,
				BalanceAfter:       fromBalance,
				Description:        description,
				ReferenceAccountID: ref(toID),
			}
			if err := st.Ledger().Append(ctx, out); err != nil {
				return err
			}
			in := &domain.Transaction{
				AccountID:          toID,
				Type:               domain.TxTransferIn,
				Amount:             amount,
				BalanceAfter:       toBalance,
				Description:        description,
				ReferenceAccountID: ref(fromID),
			}
			if err := st.Ledger().Append(ctx, in); err != nil {
				return err
			}

			receipt = &TransferReceipt{
				FromTransaction: out,
				ToTransaction:   in,
				FromNewBalance:  fromBalance,
				ToNewBalance:    toBalance,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, receipt.FromTransaction, amount.Neg())
	s.publish(ctx, receipt.ToTransaction, amount)
	s.log.InfoContext(ctx, "transfer completed",
		"fromAccountId", fromID, "toAccountId", toID, "amount", amount,
		"fromNewBalance", receipt.FromNewBalance, "toNewBalance", receipt.ToNewBalance)
	return receipt, nil
}

// publish emits after-commit notifications for one ledger record.
func (s *Service) publish(ctx context.Context, txn *domain.Transaction, change decimal.Decimal) {
	if s.notifier == nil {
		return
	}
	s.notifier.TransactionRecorded(ctx, txn)
	s.notifier.BalanceUpdated(ctx, txn.AccountID, txn.BalanceAfter, change)
}

func ref(id int64) *int64 {
	return &id
}
