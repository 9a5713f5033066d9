package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 4

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Users, account types and accounts",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS users (
					id TEXT PRIMARY KEY,
					username TEXT UNIQUE NOT NULL,
					email TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS account_types (
					id TEXT PRIMARY KEY,
					name TEXT UNIQUE NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS accounts (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL REFERENCES users(id),
					account_type_id TEXT NOT NULL REFERENCES account_types(id),
					name TEXT NOT NULL,
					currency TEXT NOT NULL,
					balance REAL NOT NULL DEFAULT 0,
					is_active BOOLEAN NOT NULL DEFAULT 1,
					institution TEXT,
					account_number TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_accounts_user ON accounts(user_id)`,
				`CREATE INDEX idx_accounts_active ON accounts(is_active)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}

			// Seed the account type lookup. These are rows, not defaults:
			// creation always requires an explicit account_type_id.
			seed := `INSERT INTO account_types (id, name) VALUES
				('8a3f2c1e-0000-4000-8000-000000000001', 'checking'),
				('8a3f2c1e-0000-4000-8000-000000000002', 'savings'),
				('8a3f2c1e-0000-4000-8000-000000000003', 'credit'),
				('8a3f2c1e-0000-4000-8000-000000000004', 'cash'),
				('8a3f2c1e-0000-4000-8000-000000000005', 'investment')`
			if _, err := tx.Exec(seed); err != nil {
				return fmt.Errorf("failed to seed account types: %w", err)
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Categories, transactions and transfers",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS categories (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL REFERENCES users(id),
					name TEXT NOT NULL,
					description TEXT,
					is_income BOOLEAN NOT NULL DEFAULT 0,
					parent_id TEXT REFERENCES categories(id),
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_categories_user ON categories(user_id)`,

				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL REFERENCES users(id),
					account_id TEXT NOT NULL REFERENCES accounts(id),
					category_id TEXT REFERENCES categories(id),
					amount REAL NOT NULL,
					description TEXT NOT NULL,
					transaction_date DATETIME NOT NULL,
					type TEXT NOT NULL CHECK (type IN ('income', 'expense', 'transfer')),
					status TEXT NOT NULL DEFAULT 'completed'
						CHECK (status IN ('pending', 'completed', 'cancelled')),
					payee TEXT,
					reference TEXT,
					notes TEXT,
					tags TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_transactions_user ON transactions(user_id)`,
				`CREATE INDEX idx_transactions_account ON transactions(account_id)`,
				`CREATE INDEX idx_transactions_date ON transactions(transaction_date)`,

				`CREATE TABLE IF NOT EXISTS transfers (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL REFERENCES users(id),
					from_account_id TEXT NOT NULL REFERENCES accounts(id),
					to_account_id TEXT NOT NULL REFERENCES accounts(id),
					from_transaction_id TEXT NOT NULL REFERENCES transactions(id),
					to_transaction_id TEXT NOT NULL REFERENCES transactions(id),
					amount REAL NOT NULL,
					transfer_date DATETIME NOT NULL,
					description TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					CHECK (from_account_id <> to_account_id)
				)`,
				`CREATE INDEX idx_transfers_user ON transfers(user_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Budgets, budget periods and goals",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS budget_periods (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL REFERENCES users(id),
					name TEXT NOT NULL,
					start_date DATETIME NOT NULL,
					end_date DATETIME NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS budgets (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL REFERENCES users(id),
					period_id TEXT NOT NULL REFERENCES budget_periods(id),
					category_id TEXT NOT NULL REFERENCES categories(id),
					allocated_amount REAL NOT NULL,
					spent_amount REAL NOT NULL DEFAULT 0 CHECK (spent_amount >= 0)
				)`,
				`CREATE INDEX idx_budgets_period ON budgets(period_id)`,
				`CREATE INDEX idx_budgets_category ON budgets(category_id)`,

				`CREATE TABLE IF NOT EXISTS goals (
					id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL REFERENCES users(id),
					name TEXT NOT NULL,
					description TEXT,
					target_amount REAL NOT NULL,
					current_amount REAL NOT NULL DEFAULT 0 CHECK (current_amount >= 0),
					target_date DATETIME,
					priority INTEGER,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_goals_user ON goals(user_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
	{
		Version:     4,
		Description: "Indexes for filtered listing and search",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE INDEX IF NOT EXISTS idx_transactions_type ON transactions(type)`,
				`CREATE INDEX IF NOT EXISTS idx_transactions_status ON transactions(status)`,
				`CREATE INDEX IF NOT EXISTS idx_transactions_category ON transactions(category_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *Store) Migrate(ctx context.Context) error {
	return s.withDB(ctx, func(db *sql.DB) error {
		// Get current version
		var currentVersion int
		err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
		if err != nil {
			return fmt.Errorf("failed to get schema version: %w", err)
		}

		// Apply migrations
		for _, migration := range migrations {
			if migration.Version <= currentVersion {
				continue
			}

			tx, txErr := db.BeginTx(ctx, nil)
			if txErr != nil {
				return fmt.Errorf("failed to begin transaction: %w", txErr)
			}

			if upErr := migration.Up(tx); upErr != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
			}

			// Update version
			if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
				_ = tx.Rollback()
				return fmt.Errorf("failed to update schema version: %w", execErr)
			}

			if commitErr := tx.Commit(); commitErr != nil {
				return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
			}

			slog.Info("Applied migration",
				"version", migration.Version,
				"description", migration.Description)
		}

		// Verify we're at the expected schema version
		var finalVersion int
		err = db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
		if err != nil {
			return fmt.Errorf("failed to verify final schema version: %w", err)
		}

		if finalVersion != ExpectedSchemaVersion {
			return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
		}

		return nil
	})
}
