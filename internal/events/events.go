// Package events defines the Redis-stream events emitted by the banking
// backend and the publisher/subscriber machinery around them.
package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types.
const (
	TransactionCompleted = "transaction.completed"
	BalanceUpdated       = "balance.updated"

	AccountCreated = "account.created"
	AccountClosed  = "account.closed"
)

// Stream names.
const (
	TransactionEventsStream = "transaction.events"
	AccountEventsStream     = "account.events"
)

// Event is the wire envelope carried on every stream entry.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// TransactionCompletedEvent is emitted after a ledger record is durably
// committed, one event per record (two for a transfer).
type TransactionCompletedEvent struct {
	TransactionID string          `json:"transactionId"`
	AccountID     int64           `json:"accountId"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
}

// BalanceUpdatedEvent is emitted alongside TransactionCompleted and drives
// the account read-view projector.
type BalanceUpdatedEvent struct {
	AccountID  int64           `json:"accountId"`
	NewBalance decimal.Decimal `json:"newBalance"`
	Change     decimal.Decimal `json:"change"`
}

type AccountCreatedEvent struct {
	AccountID     int64  `json:"accountId"`
	AccountNumber string `json:"accountNumber"`
	CustomerID    int64  `json:"customerId"`
	AccountType   string `json:"accountType"`
}

type AccountClosedEvent struct {
	AccountID     int64  `json:"accountId"`
	AccountNumber string `json:"accountNumber"`
}
