// Package query contains the read-side services: Redis-backed view caches
// with PostgreSQL fallback, plus authentication (reads only).
package query

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/meridianbank/banking/internal/cache"
	"github.com/meridianbank/banking/internal/domain"
	"github.com/meridianbank/banking/internal/pagination"
	"github.com/meridianbank/banking/internal/repository"
)

const accountViewKeyPrefix = "account:view:"

// AccountQueryService serves account reads. Single lookups go through the
// Redis view cache with PostgreSQL fallback; lists always hit PostgreSQL.
type AccountQueryService struct {
	accounts *repository.AccountRepository
	cache    *cache.ViewCache[domain.Account]
}

func NewAccountQueryService(accounts *repository.AccountRepository, redisClient *redis.Client) *AccountQueryService {
	return &AccountQueryService{
		accounts: accounts,
		cache:    cache.NewViewCache[domain.Account](redisClient, 0),
	}
}

func (s *AccountQueryService) GetByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	key := accountViewKey(accountID)
	if view, ok := s.cache.Get(ctx, key); ok {
		return view, nil
	}
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, account)
	return account, nil
}

func (s *AccountQueryService) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return s.accounts.GetByNumber(ctx, accountNumber)
}

func (s *AccountQueryService) List(ctx context.Context, p pagination.Params) (*pagination.Page[domain.Account], error) {
	return s.accounts.List(ctx, p)
}

// ListByCustomer returns a customer's accounts, newest first. An unknown
// customer yields an empty list, not an error.
func (s *AccountQueryService) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Account, error) {
	return s.accounts.ListByCustomer(ctx, customerID)
}

// RefreshView re-reads the account from the write store and replaces its
// cached view. Called by the projector on balance.updated events.
func (s *AccountQueryService) RefreshView(ctx context.Context, accountID int64) error {
	account, err := s.accounts.Get(ctx, accountID)
	if err != nil {
		return err
	}
	s.cache.Set(ctx, accountViewKey(accountID), account)
	return nil
}

// CacheView stores an account view directly, warming the cache on writes.
func (s *AccountQueryService) CacheView(ctx context.Context, account *domain.Account) {
	s.cache.Set(ctx, accountViewKey(account.ID), account)
}

func accountViewKey(accountID int64) string {
	return fmt.Sprintf("%s%d", accountViewKeyPrefix, accountID)
}
