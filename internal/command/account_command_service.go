// Package command contains the write-side administrative services. Money
// movement itself lives in the ledger core; these services only create and
// administer the records it operates on.
package command

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/meridianbank/banking/internal/domain"
	"github.com/meridianbank/banking/internal/events"
	"github.com/meridianbank/banking/internal/query"
	"github.com/meridianbank/banking/internal/repository"
	"github.com/meridianbank/banking/internal/utils"
)

// AccountCommandService creates and administers accounts, keeping the read
// view warm and publishing account events. It never adjusts balances after
// creation; that path belongs to the ledger service alone.
type AccountCommandService struct {
	accounts  *repository.AccountRepository
	customers *repository.CustomerRepository
	views     *query.AccountQueryService
	publisher *events.Publisher
}

func NewAccountCommandService(
	accounts *repository.AccountRepository,
	customers *repository.CustomerRepository,
	views *query.AccountQueryService,
	publisher *events.Publisher,
) *AccountCommandService {
	return &AccountCommandService{
		accounts:  accounts,
		customers: customers,
		views:     views,
		publisher: publisher,
	}
}

type CreateAccountParams struct {
	CustomerID     int64
	AccountType    string
	InitialDeposit decimal.Decimal
	InterestRate   decimal.Decimal
}

// CreateAccount opens an account with balance = initial deposit (may be
// zero). The opening balance is part of account creation, not a ledger
// event.
func (s *AccountCommandService) CreateAccount(ctx context.Context, params CreateAccountParams) (*domain.Account, error) {
	if params.InitialDeposit.IsNegative() || params.InterestRate.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}
	if _, err := s.customers.Get(ctx, params.CustomerID); err != nil {
		return nil, err
	}

	account := &domain.Account{
		AccountNumber: utils.GenerateAccountNumber(),
		CustomerID:    params.CustomerID,
		AccountType:   params.AccountType,
		Balance:       params.InitialDeposit,
		Status:        domain.StatusActive,
		InterestRate:  params.InterestRate,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	s.views.CacheView(ctx, account)
	if err := s.publisher.Publish(ctx, events.AccountEventsStream, events.AccountCreated, events.AccountCreatedEvent{
		AccountID:     account.ID,
		AccountNumber: account.AccountNumber,
		CustomerID:    account.CustomerID,
		AccountType:   account.AccountType,
	}); err != nil {
		slog.Warn("failed to publish account.created event", "accountId", account.ID, "error", err)
	}
	return account, nil
}

// CloseAccount transitions the account to closed. The record and its ledger
// history are retained; every later mutation attempt is rejected.
func (s *AccountCommandService) CloseAccount(ctx context.Context, accountID int64) (*domain.Account, error) {
	account, err := s.accounts.SetStatus(ctx, accountID, domain.StatusClosed)
	if err != nil {
		return nil, err
	}

	s.views.CacheView(ctx, account)
	if err := s.publisher.Publish(ctx, events.AccountEventsStream, events.AccountClosed, events.AccountClosedEvent{
		AccountID:     account.ID,
		AccountNumber: account.AccountNumber,
	}); err != nil {
		slog.Warn("failed to publish account.closed event", "accountId", account.ID, "error", err)
	}
	return account, nil
}

// SetAccountStatus is the general administrative status transition.
func (s *AccountCommandService) SetAccountStatus(ctx context.Context, accountID int64, status string) (*domain.Account, error) {
	if status == domain.StatusClosed {
		return s.CloseAccount(ctx, accountID)
	}
	account, err := s.accounts.SetStatus(ctx, accountID, status)
	if err != nil {
		return nil, err
	}
	s.views.CacheView(ctx, account)
	return account, nil
}
