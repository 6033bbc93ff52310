package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/meridianbank/banking/internal/domain"
	"github.com/meridianbank/banking/internal/ledger"
	"github.com/meridianbank/banking/internal/pagination"
)

// MemStore is an in-memory ledger.Store with the same invariants as the
// PostgreSQL store. ExecTx holds the store mutex for the whole unit of work
// and rolls state back on error, so no partially-applied mutation is ever
// visible to a concurrent reader.
type MemStore struct {
	mu            sync.Mutex
	accounts      map[int64]*domain.Account
	transactions  []domain.Transaction
	nextAccountID int64
	nextSeq       int64
}

func NewMemStore() *MemStore {
	return &MemStore{accounts: make(map[int64]*domain.Account)}
}

// CreateAccount registers an account, assigning its id, account number and
// timestamps. Zero-value status defaults to active.
func (m *MemStore) CreateAccount(account *domain.Account) *domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextAccountID++
	account.ID = m.nextAccountID
	if account.AccountNumber == "" {
		account.AccountNumber = fmt.Sprintf("ACC%010d", account.ID)
	}
	if account.Status == "" {
		account.Status = domain.StatusActive
	}
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	cp := *account
	m.accounts[account.ID] = &cp
	return account
}

func (m *MemStore) Accounts() ledger.AccountStore {
	return &memAccounts{m: m, locking: true}
}

func (m *MemStore) Ledger() ledger.TransactionLedger {
	return &memLedger{m: m, locking: true}
}

// ExecTx serializes the unit of work under the store mutex. State is
// snapshotted up front and restored wholesale if fn fails.
func (m *MemStore) ExecTx(ctx context.Context, fn func(ledger.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make(map[int64]*domain.Account, len(m.accounts))
	for id, a := range m.accounts {
		cp := *a
		snapshot[id] = &cp
	}
	ledgerLen := len(m.transactions)

	if err := fn(&memTx{m: m}); err != nil {
		m.accounts = snapshot
		m.transactions = m.transactions[:ledgerLen]
		return err
	}
	return nil
}

// memTx is the transaction-scoped view handed to ExecTx callbacks. Its
// accessors skip locking because ExecTx already holds the store mutex.
type memTx struct {
	m *MemStore
}

func (t *memTx) Accounts() ledger.AccountStore {
	return &memAccounts{m: t.m}
}

func (t *memTx) Ledger() ledger.TransactionLedger {
	return &memLedger{m: t.m}
}

func (t *memTx) ExecTx(ctx context.Context, fn func(ledger.Store) error) error {
	return fn(t)
}

type memAccounts struct {
	m       *MemStore
	locking bool
}

func (a *memAccounts) Get(ctx context.Context, accountID int64) (*domain.Account, error) {
	if a.locking {
		a.m.mu.Lock()
		defer a.m.mu.Unlock()
	}
	account, ok := a.m.accounts[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cp := *account
	return &cp, nil
}

func (a *memAccounts) AdjustBalance(ctx context.Context, accountID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	if a.locking {
		a.m.mu.Lock()
		defer a.m.mu.Unlock()
	}
	account, ok := a.m.accounts[accountID]
	if !ok {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	if account.Status != domain.StatusActive {
		return decimal.Zero, domain.ErrAccountNotActive
	}
	newBalance := account.Balance.Add(delta)
	if newBalance.IsNegative() {
		return decimal.Zero, domain.ErrInsufficientFunds
	}
	account.Balance = newBalance
	account.UpdatedAt = time.Now().UTC()
	return newBalance, nil
}

func (a *memAccounts) SetStatus(ctx context.Context, accountID int64, status string) (*domain.Account, error) {
	if a.locking {
		a.m.mu.Lock()
		defer a.m.mu.Unlock()
	}
	account, ok := a.m.accounts[accountID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	account.Status = status
	account.UpdatedAt = time.Now().UTC()
	cp := *account
	return &cp, nil
}

type memLedger struct {
	m       *MemStore
	locking bool
}

func (l *memLedger) Append(ctx context.Context, txn *domain.Transaction) error {
	if l.locking {
		l.m.mu.Lock()
		defer l.m.mu.Unlock()
	}
	if txn.TransactionID == "" {
		txn.TransactionID = uuid.NewString()
	}
	l.m.nextSeq++
	txn.ID = l.m.nextSeq
	txn.CreatedAt = time.Now().UTC()
	l.m.transactions = append(l.m.transactions, *txn)
	return nil
}

func (l *memLedger) FindByAccount(ctx context.Context, accountID int64, p pagination.Params) (*pagination.Page[domain.Transaction], error) {
	return l.find(p, func(txn *domain.Transaction) bool {
		return txn.AccountID == accountID
	})
}

func (l *memLedger) FindByDateRange(ctx context.Context, start, end time.Time, p pagination.Params) (*pagination.Page[domain.Transaction], error) {
	return l.find(p, func(txn *domain.Transaction) bool {
		return !txn.CreatedAt.Before(start) && !txn.CreatedAt.After(end)
	})
}

// find returns matching records newest first. Append order is the per-store
// commit order, so reverse iteration yields the newest-first contract.
func (l *memLedger) find(p pagination.Params, match func(*domain.Transaction) bool) (*pagination.Page[domain.Transaction], error) {
	if l.locking {
		l.m.mu.Lock()
		defer l.m.mu.Unlock()
	}
	p = p.Normalize()

	var matched []domain.Transaction
	for i := len(l.m.transactions) - 1; i >= 0; i-- {
		if match(&l.m.transactions[i]) {
			matched = append(matched, l.m.transactions[i])
		}
	}

	total := len(matched)
	offset := p.Offset()
	if offset > total {
		offset = total
	}
	endIdx := offset + p.PageSize
	if endIdx > total {
		endIdx = total
	}
	return pagination.NewPage(matched[offset:endIdx], p, total), nil
}
