package domain

import "errors"

// Domain errors returned by the ledger core and repositories. Handlers map
// each of these to a distinct HTTP status; none of them is retried internally.
var (
	// ErrAccountNotFound means the account id (or number) is unknown.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidAmount means the requested amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrAccountNotActive means the account status forbids balance mutation.
	ErrAccountNotActive = errors.New("account is not active")

	// ErrInsufficientFunds means the operation would drive the balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSameAccount means a transfer named the same account on both sides.
	ErrSameAccount = errors.New("cannot transfer to the same account")

	// ErrLockTimeout means an account lock could not be acquired in time.
	// No effects are visible when this is returned.
	ErrLockTimeout = errors.New("timed out waiting for account lock")

	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrUsernameTaken       = errors.New("username already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrNoFieldsToUpdate    = errors.New("no fields to update")
)
