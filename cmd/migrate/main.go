// Command migrate creates the banking schema and, with -seed, loads a
// development admin user plus demo customer and accounts.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/meridianbank/banking/internal/config"
	"github.com/meridianbank/banking/internal/repository"
	"github.com/meridianbank/banking/internal/utils"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id BIGSERIAL PRIMARY KEY,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		phone VARCHAR(20),
		address VARCHAR(255),
		city VARCHAR(100),
		country VARCHAR(100) DEFAULT 'USA',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS accounts (
		id BIGSERIAL PRIMARY KEY,
		account_number VARCHAR(20) UNIQUE NOT NULL,
		customer_id BIGINT NOT NULL REFERENCES customers(id),
		account_type VARCHAR(20) NOT NULL CHECK (account_type IN ('checking', 'savings', 'business')),
		balance DECIMAL(15,2) NOT NULL DEFAULT 0.00 CHECK (balance >= 0),
		status VARCHAR(20) NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'inactive', 'suspended', 'closed')),
		interest_rate DECIMAL(5,4) NOT NULL DEFAULT 0.0000,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS transactions (
		id BIGSERIAL PRIMARY KEY,
		transaction_id VARCHAR(36) UNIQUE NOT NULL,
		account_id BIGINT NOT NULL REFERENCES accounts(id),
		transaction_type VARCHAR(20) NOT NULL CHECK (transaction_type IN ('deposit', 'withdrawal', 'transfer_in', 'transfer_out')),
		amount DECIMAL(15,2) NOT NULL CHECK (amount > 0),
		balance_after DECIMAL(15,2) NOT NULL,
		description VARCHAR(255),
		reference_account_id BIGINT REFERENCES accounts(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username VARCHAR(50) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'customer' CHECK (role IN ('customer', 'teller', 'admin')),
		customer_id BIGINT REFERENCES customers(id),
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_accounts_customer_id ON accounts(customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_accounts_account_number ON accounts(account_number)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_account_id ON transactions(account_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_transaction_id ON transactions(transaction_id)`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
}

func main() {
	seed := flag.Bool("seed", false, "load development seed data after migrating")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()
	db, err := repository.Open(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			slog.Error("migration statement failed", "error", err)
			os.Exit(1)
		}
	}
	slog.Info("schema migrated")

	if *seed {
		if err := seedData(ctx, db); err != nil {
			slog.Error("seeding failed", "error", err)
			os.Exit(1)
		}
		slog.Info("seed data loaded")
	}
}

func seedData(ctx context.Context, db *sql.DB) error {
	adminHash, err := utils.HashPassword("admin123")
	if err != nil {
		return err
	}
	tellerHash, err := utils.HashPassword("teller123")
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, role)
		VALUES ($1, $2, 'admin'), ($3, $4, 'teller')
		ON CONFLICT (username) DO NOTHING`,
		"admin", adminHash, "teller", tellerHash); err != nil {
		return err
	}

	var customerID int64
	err = db.QueryRowContext(ctx, `
		INSERT INTO customers (first_name, last_name, email, phone, city, country)
		VALUES ('Jordan', 'Avery', 'jordan.avery@example.com', '555-0100', 'Portland', 'USA')
		ON CONFLICT (email) DO UPDATE SET updated_at = NOW()
		RETURNING id`).Scan(&customerID)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO accounts (account_number, customer_id, account_type, balance, interest_rate)
		VALUES
			('ACC0000000001', $1, 'checking', 1000.00, 0.0000),
			('ACC0000000002', $1, 'savings', 500.00, 0.0250)
		ON CONFLICT (account_number) DO NOTHING`, customerID)
	return err
}
