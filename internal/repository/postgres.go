// Package repository contains the PostgreSQL storage layer (write store,
// source of truth) plus an in-memory store used by tests and local
// development without a database.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/meridianbank/banking/internal/ledger"
)

// Open connects to PostgreSQL and verifies the connection.
func Open(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx, so the
// same repository code serves both direct and transactional access.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the PostgreSQL-backed ledger.Store. Outside ExecTx its
// repositories run against the pool; inside, against one sql.Tx.
type Store struct {
	db *sql.DB
	q  dbtx
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

func (s *Store) Accounts() ledger.AccountStore {
	return &AccountRepository{q: s.q}
}

func (s *Store) Ledger() ledger.TransactionLedger {
	return &TransactionRepository{q: s.q}
}

// ExecTx runs fn inside a database transaction; any error rolls back every
// mutation fn performed. Nested calls reuse the enclosing transaction.
func (s *Store) ExecTx(ctx context.Context, fn func(ledger.Store) error) error {
	if _, ok := s.q.(*sql.Tx); ok {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(&Store{db: s.db, q: tx}); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
