package events

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/meridianbank/banking/internal/domain"
)

// LedgerNotifier bridges the ledger core to the event streams. Publish
// failures are logged and swallowed: the money has already moved, and the
// streams are a downstream projection, not part of the atomic unit.
type LedgerNotifier struct {
	publisher *Publisher
}

func NewLedgerNotifier(publisher *Publisher) *LedgerNotifier {
	return &LedgerNotifier{publisher: publisher}
}

func (n *LedgerNotifier) TransactionRecorded(ctx context.Context, txn *domain.Transaction) {
	err := n.publisher.Publish(ctx, TransactionEventsStream, TransactionCompleted, TransactionCompletedEvent{
		TransactionID: txn.TransactionID,
		AccountID:     txn.AccountID,
		Type:          txn.Type,
		Amount:        txn.Amount,
		BalanceAfter:  txn.BalanceAfter,
	})
	if err != nil {
		slog.Warn("failed to publish transaction.completed event", "transactionId", txn.TransactionID, "error", err)
	}
}

func (n *LedgerNotifier) BalanceUpdated(ctx context.Context, accountID int64, newBalance, change decimal.Decimal) {
	err := n.publisher.Publish(ctx, AccountEventsStream, BalanceUpdated, BalanceUpdatedEvent{
		AccountID:  accountID,
		NewBalance: newBalance,
		Change:     change,
	})
	if err != nil {
		slog.Warn("failed to publish balance.updated event", "accountId", accountID, "error", err)
	}
}
