package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/meridianbank/banking/internal/domain"
)

// DefaultLockWait bounds how long an operation waits for an account lock
// before failing with domain.ErrLockTimeout.
const DefaultLockWait = 5 * time.Second

// AccountLocks serializes operations that touch the same account. Every
// multi-step mutation (read balance, validate, commit) runs while holding
// the owning account's lock, so the commit path is never raced by another
// operation on that account. Operations on disjoint accounts proceed in
// parallel.
type AccountLocks struct {
	wait  time.Duration
	mu    sync.Mutex
	locks map[int64]chan struct{}
}

// NewAccountLocks creates a lock table. wait <= 0 selects DefaultLockWait.
func NewAccountLocks(wait time.Duration) *AccountLocks {
	if wait <= 0 {
		wait = DefaultLockWait
	}
	return &AccountLocks{
		wait:  wait,
		locks: make(map[int64]chan struct{}),
	}
}

// chanFor returns the semaphore channel for an account, creating it on
// first use. Channels are never removed; the set of accounts is small
// compared to ledger volume.
func (l *AccountLocks) chanFor(accountID int64) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.locks[accountID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.locks[accountID] = ch
	}
	return ch
}

func (l *AccountLocks) acquire(ctx context.Context, accountID int64, deadline <-chan time.Time) error {
	select {
	case l.chanFor(accountID) <- struct{}{}:
		return nil
	case <-deadline:
		return domain.ErrLockTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *AccountLocks) release(accountID int64) {
	<-l.chanFor(accountID)
}

// WithAccountLock runs fn with exclusive access to the account's mutation
// path. The lock is released when fn returns, regardless of its error.
func (l *AccountLocks) WithAccountLock(ctx context.Context, accountID int64, fn func() error) error {
	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	if err := l.acquire(ctx, accountID, timer.C); err != nil {
		return err
	}
	defer l.release(accountID)
	return fn()
}

// WithAccountsLock acquires both account locks for a two-account operation.
// Locks are always taken in ascending account-id order so two transfers
// crossing the same pair in opposite directions cannot deadlock. The bounded
// wait covers both acquisitions together.
func (l *AccountLocks) WithAccountsLock(ctx context.Context, a, b int64, fn func() error) error {
	if a == b {
		return l.WithAccountLock(ctx, a, fn)
	}
	first, second := a, b
	if second < first {
		first, second = second, first
	}

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	if err := l.acquire(ctx, first, timer.C); err != nil {
		return err
	}
	defer l.release(first)

	if err := l.acquire(ctx, second, timer.C); err != nil {
		return err
	}
	defer l.release(second)

	return fn()
}
