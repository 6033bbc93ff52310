package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/meridianbank/banking/internal/domain"
	"github.com/meridianbank/banking/internal/ledger"
	"github.com/meridianbank/banking/internal/pagination"
)

func TestMemStoreAdjustBalance(t *testing.T) {
	store := NewMemStore()
	active := store.CreateAccount(&domain.Account{Balance: decimal.NewFromInt(100)})
	suspended := store.CreateAccount(&domain.Account{Balance: decimal.NewFromInt(100), Status: domain.StatusSuspended})
	ctx := context.Background()

	tests := []struct {
		name      string
		accountID int64
		delta     decimal.Decimal
		want      decimal.Decimal
		wantErr   error
	}{
		{"credit", active.ID, decimal.NewFromInt(50), decimal.NewFromInt(150), nil},
		{"debit", active.ID, decimal.NewFromInt(-150), decimal.Zero, nil},
		{"debit below zero", active.ID, decimal.NewFromInt(-1), decimal.Decimal{}, domain.ErrInsufficientFunds},
		{"unknown account", 99, decimal.NewFromInt(10), decimal.Decimal{}, domain.ErrAccountNotFound},
		{"suspended account", suspended.ID, decimal.NewFromInt(10), decimal.Decimal{}, domain.ErrAccountNotActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Accounts().AdjustBalance(ctx, tt.accountID, tt.delta)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if err == nil && !got.Equal(tt.want) {
				t.Errorf("balance = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMemStoreExecTxRollback(t *testing.T) {
	store := NewMemStore()
	account := store.CreateAccount(&domain.Account{Balance: decimal.NewFromInt(100)})
	ctx := context.Background()

	boom := errors.New("boom")
	err := store.ExecTx(ctx, func(st ledger.Store) error {
		if _, err := st.Accounts().AdjustBalance(ctx, account.ID, decimal.NewFromInt(40)); err != nil {
			return err
		}
		if err := st.Ledger().Append(ctx, &domain.Transaction{
			AccountID:    account.ID,
			Type:         domain.TxDeposit,
			Amount:       decimal.NewFromInt(40),
			BalanceAfter: decimal.NewFromInt(140),
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("ExecTx err = %v, want boom", err)
	}

	got, _ := store.Accounts().Get(ctx, account.ID)
	if !got.Balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("balance = %s, want rolled back 100", got.Balance)
	}
	page, _ := store.Ledger().FindByAccount(ctx, account.ID, pagination.Params{})
	if page.Total != 0 {
		t.Errorf("ledger has %d records, want 0 after rollback", page.Total)
	}
}

func TestMemStoreExecTxCommit(t *testing.T) {
	store := NewMemStore()
	account := store.CreateAccount(&domain.Account{Balance: decimal.NewFromInt(100)})
	ctx := context.Background()

	err := store.ExecTx(ctx, func(st ledger.Store) error {
		if _, err := st.Accounts().AdjustBalance(ctx, account.ID, decimal.NewFromInt(25)); err != nil {
			return err
		}
		return st.Ledger().Append(ctx, &domain.Transaction{
			AccountID:    account.ID,
			Type:         domain.TxDeposit,
			Amount:       decimal.NewFromInt(25),
			BalanceAfter: decimal.NewFromInt(125),
		})
	})
	if err != nil {
		t.Fatalf("ExecTx: %v", err)
	}

	got, _ := store.Accounts().Get(ctx, account.ID)
	if !got.Balance.Equal(decimal.NewFromInt(125)) {
		t.Errorf("balance = %s, want 125", got.Balance)
	}
	page, _ := store.Ledger().FindByAccount(ctx, account.ID, pagination.Params{})
	if page.Total != 1 {
		t.Errorf("ledger total = %d, want 1", page.Total)
	}
	if page.Items[0].TransactionID == "" {
		t.Error("append did not assign a transaction id")
	}
}

func TestMemLedgerPagination(t *testing.T) {
	store := NewMemStore()
	account := store.CreateAccount(&domain.Account{Balance: decimal.NewFromInt(1000)})
	ctx := context.Background()

	for i := 1; i <= 25; i++ {
		if err := store.Ledger().Append(ctx, &domain.Transaction{
			AccountID:    account.ID,
			Type:         domain.TxDeposit,
			Amount:       decimal.NewFromInt(int64(i)),
			BalanceAfter: decimal.NewFromInt(1000 + int64(i)),
		}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	page, err := store.Ledger().FindByAccount(ctx, account.ID, pagination.Params{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("FindByAccount: %v", err)
	}
	if page.Total != 25 || page.TotalPages != 3 {
		t.Errorf("total = %d pages = %d, want 25 and 3", page.Total, page.TotalPages)
	}
	if len(page.Items) != 10 {
		t.Fatalf("page 1 has %d items, want 10", len(page.Items))
	}
	// Newest first: the last appended amount leads the first page.
	if !page.Items[0].Amount.Equal(decimal.NewFromInt(25)) {
		t.Errorf("first item amount = %s, want 25", page.Items[0].Amount)
	}

	last, err := store.Ledger().FindByAccount(ctx, account.ID, pagination.Params{Page: 3, PageSize: 10})
	if err != nil {
		t.Fatalf("FindByAccount page 3: %v", err)
	}
	if len(last.Items) != 5 {
		t.Errorf("page 3 has %d items, want 5", len(last.Items))
	}

	beyond, err := store.Ledger().FindByAccount(ctx, account.ID, pagination.Params{Page: 9, PageSize: 10})
	if err != nil {
		t.Fatalf("FindByAccount page 9: %v", err)
	}
	if len(beyond.Items) != 0 {
		t.Errorf("page beyond range has %d items, want 0", len(beyond.Items))
	}
}

func TestMemLedgerFindByDateRange(t *testing.T) {
	store := NewMemStore()
	account := store.CreateAccount(&domain.Account{Balance: decimal.NewFromInt(1000)})
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Minute)
	for i := 0; i < 3; i++ {
		if err := store.Ledger().Append(ctx, &domain.Transaction{
			AccountID:    account.ID,
			Type:         domain.TxDeposit,
			Amount:       decimal.NewFromInt(10),
			BalanceAfter: decimal.NewFromInt(1010),
		}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	after := time.Now().UTC().Add(time.Minute)

	page, err := store.Ledger().FindByDateRange(ctx, before, after, pagination.Params{})
	if err != nil {
		t.Fatalf("FindByDateRange: %v", err)
	}
	if page.Total != 3 {
		t.Errorf("total = %d, want 3", page.Total)
	}

	empty, err := store.Ledger().FindByDateRange(ctx, after, after.Add(time.Hour), pagination.Params{})
	if err != nil {
		t.Fatalf("FindByDateRange: %v", err)
	}
	if empty.Total != 0 {
		t.Errorf("total = %d, want 0 outside range", empty.Total)
	}
}

func TestMemStoreCreateAccountDefaults(t *testing.T) {
	store := NewMemStore()
	account := store.CreateAccount(&domain.Account{Balance: decimal.NewFromInt(5)})

	if account.ID == 0 {
		t.Error("no id assigned")
	}
	if account.AccountNumber == "" {
		t.Error("no account number assigned")
	}
	if account.Status != domain.StatusActive {
		t.Errorf("status = %q, want active", account.Status)
	}
	if account.CreatedAt.IsZero() || account.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
}
