package query

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meridianbank/banking/internal/cache"
	"github.com/meridianbank/banking/internal/domain"
	"github.com/meridianbank/banking/internal/pagination"
	"github.com/meridianbank/banking/internal/repository"
)

const transactionViewKeyPrefix = "transaction:view:"

// TransactionQueryService serves ledger reads. Ledger records are immutable,
// so cached views never go stale.
type TransactionQueryService struct {
	transactions *repository.TransactionRepository
	cache        *cache.ViewCache[domain.Transaction]
}

func NewTransactionQueryService(transactions *repository.TransactionRepository, redisClient *redis.Client) *TransactionQueryService {
	return &TransactionQueryService{
		transactions: transactions,
		cache:        cache.NewViewCache[domain.Transaction](redisClient, 0),
	}
}

func (s *TransactionQueryService) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	key := transactionViewKeyPrefix + transactionID
	if view, ok := s.cache.Get(ctx, key); ok {
		return view, nil
	}
	txn, err := s.transactions.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, key, txn)
	return txn, nil
}

func (s *TransactionQueryService) ListByAccount(ctx context.Context, accountID int64, p pagination.Params) (*pagination.Page[domain.Transaction], error) {
	return s.transactions.FindByAccount(ctx, accountID, p)
}

func (s *TransactionQueryService) ListByDateRange(ctx context.Context, start, end time.Time, p pagination.Params) (*pagination.Page[domain.Transaction], error) {
	return s.transactions.FindByDateRange(ctx, start, end, p)
}

func (s *TransactionQueryService) ListAll(ctx context.Context, p pagination.Params) (*pagination.Page[domain.Transaction], error) {
	return s.transactions.FindAll(ctx, p)
}
