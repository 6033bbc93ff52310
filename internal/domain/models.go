package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account statuses. Only an active account may have its balance mutated.
const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusSuspended = "suspended"
	StatusClosed    = "closed"
)

// Account categories.
const (
	AccountChecking = "checking"
	AccountSavings  = "savings"
	AccountBusiness = "business"
)

// Ledger record types. A transfer always produces a transfer_out on the
// source account and a transfer_in on the destination account.
const (
	TxDeposit     = "deposit"
	TxWithdrawal  = "withdrawal"
	TxTransferIn  = "transfer_in"
	TxTransferOut = "transfer_out"
)

// User roles.
const (
	RoleCustomer = "customer"
	RoleTeller   = "teller"
	RoleAdmin    = "admin"
)

// ValidAccountStatus reports whether s is one of the known account statuses.
func ValidAccountStatus(s string) bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended, StatusClosed:
		return true
	}
	return false
}

// ValidAccountType reports whether t is one of the known account categories.
func ValidAccountType(t string) bool {
	switch t {
	case AccountChecking, AccountSavings, AccountBusiness:
		return true
	}
	return false
}

type Customer struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	City      string    `json:"city,omitempty"`
	Country   string    `json:"country,omitempty"`
	CreatedAt time.Time `json:"createdTimestamp"`
	UpdatedAt time.Time `json:"updatedTimestamp"`
}

// Account is a balance-bearing entity owned by a customer. The balance is
// never negative and is mutated exclusively through the ledger service.
type Account struct {
	ID            int64           `json:"id"`
	AccountNumber string          `json:"accountNumber"`
	CustomerID    int64           `json:"customerId"`
	AccountType   string          `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"`
	Status        string          `json:"status"`
	InterestRate  decimal.Decimal `json:"interestRate"`
	CreatedAt     time.Time       `json:"createdTimestamp"`
	UpdatedAt     time.Time       `json:"updatedTimestamp"`
}

// Transaction is one immutable, append-only ledger record. ID is the storage
// sequence; TransactionID is the globally unique identifier assigned on
// append. ReferenceAccountID is set only on transfer records and points at
// the counterpart account.
type Transaction struct {
	ID                 int64           `json:"-"`
	TransactionID      string          `json:"transactionId"`
	AccountID          int64           `json:"accountId"`
	Type               string          `json:"type"`
	Amount             decimal.Decimal `json:"amount"`
	BalanceAfter       decimal.Decimal `json:"balanceAfter"`
	Description        string          `json:"description,omitempty"`
	ReferenceAccountID *int64          `json:"referenceAccountId,omitempty"`
	CreatedAt          time.Time       `json:"createdTimestamp"`
}

type User struct {
	ID           int64     `json:"id"`
	CustomerID   *int64    `json:"customerId,omitempty"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdTimestamp"`
	UpdatedAt    time.Time `json:"updatedTimestamp"`
}
