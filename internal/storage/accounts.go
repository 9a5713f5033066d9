package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pocketledger/pocketledger/internal/model"
)

const accountColumns = `id, user_id, account_type_id, name, currency, balance,
	is_active, institution, account_number, created_at, updated_at`

// CreateAccount inserts a new account row. The account type must reference
// an existing lookup row; nothing is defaulted here.
func (s *Store) CreateAccount(ctx context.Context, account model.Account) error {
	return s.withDB(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx,
			`INSERT INTO accounts (id, user_id, account_type_id, name, currency,
				balance, is_active, institution, account_number)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			account.ID, account.UserID, account.AccountTypeID, account.Name,
			account.Currency, account.Balance, account.IsActive,
			nullable(account.Institution), nullable(account.AccountNumber))
		if err != nil {
			return fmt.Errorf("failed to create account: %w", err)
		}
		slog.Info("created account", "id", account.ID, "name", account.Name)
		return nil
	})
}

// GetAccount returns an account by id, or ErrNotFound.
func (s *Store) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var account *model.Account
	err := s.withDB(ctx, func(db *sql.DB) error {
		row := db.QueryRowContext(ctx,
			`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
		a, scanErr := scanAccount(row)
		if scanErr == sql.ErrNoRows {
			return fmt.Errorf("%w: account %s", ErrNotFound, id)
		}
		if scanErr != nil {
			return fmt.Errorf("failed to scan account: %w", scanErr)
		}
		account = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// ListAccounts returns all of a user's accounts, active first, by name.
func (s *Store) ListAccounts(ctx context.Context, userID string) ([]model.Account, error) {
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	var accounts []model.Account
	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT `+accountColumns+` FROM accounts
			WHERE user_id = ? ORDER BY is_active DESC, name`, userID)
		if err != nil {
			return fmt.Errorf("failed to query accounts: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			a, scanErr := scanAccount(rows)
			if scanErr != nil {
				return fmt.Errorf("failed to scan account: %w", scanErr)
			}
			accounts = append(accounts, *a)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating accounts: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return accounts, nil
}

// UpdateAccount updates an account's metadata. The balance is deliberately
// not touched here; it moves only through committed transactions or
// SetAccountBalance.
func (s *Store) UpdateAccount(ctx context.Context, account model.Account) error {
	return s.withDB(ctx, func(db *sql.DB) error {
		res, err := db.ExecContext(ctx,
			`UPDATE accounts SET name = ?, currency = ?, is_active = ?,
				institution = ?, account_number = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND user_id = ?`,
			account.Name, account.Currency, account.IsActive,
			nullable(account.Institution), nullable(account.AccountNumber),
			account.ID, account.UserID)
		if err != nil {
			return fmt.Errorf("failed to update account: %w", err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return fmt.Errorf("%w: account %s", ErrNotFound, account.ID)
		}
		return nil
	})
}

// SetAccountBalance performs an explicit administrative balance update.
func (s *Store) SetAccountBalance(ctx context.Context, id string, balance float64) error {
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return s.withDB(ctx, func(db *sql.DB) error {
		res, err := db.ExecContext(ctx,
			`UPDATE accounts SET balance = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			balance, id)
		if err != nil {
			return fmt.Errorf("failed to set account balance: %w", err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return fmt.Errorf("%w: account %s", ErrNotFound, id)
		}
		slog.Info("administrative balance update", "account_id", id, "balance", balance)
		return nil
	})
}

// DeactivateAccount soft-deletes an account by clearing its active flag.
func (s *Store) DeactivateAccount(ctx context.Context, id string) error {
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return s.withDB(ctx, func(db *sql.DB) error {
		res, err := db.ExecContext(ctx,
			`UPDATE accounts SET is_active = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to deactivate account: %w", err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return fmt.Errorf("%w: account %s", ErrNotFound, id)
		}
		return nil
	})
}

// GetAccountType returns an account type lookup row by id, or ErrNotFound.
// Unknown types are an error: the ledger core never defaults an account
// type.
func (s *Store) GetAccountType(ctx context.Context, id string) (*model.AccountType, error) {
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var at model.AccountType
	err := s.withDB(ctx, func(db *sql.DB) error {
		err := db.QueryRowContext(ctx,
			`SELECT id, name FROM account_types WHERE id = ?`, id).
			Scan(&at.ID, &at.Name)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: account type %s", ErrNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("failed to query account type: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &at, nil
}

// ListAccountTypes returns all account type lookup rows.
func (s *Store) ListAccountTypes(ctx context.Context) ([]model.AccountType, error) {
	var types []model.AccountType
	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `SELECT id, name FROM account_types ORDER BY name`)
		if err != nil {
			return fmt.Errorf("failed to query account types: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var at model.AccountType
			if err := rows.Scan(&at.ID, &at.Name); err != nil {
				return fmt.Errorf("failed to scan account type: %w", err)
			}
			types = append(types, at)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return types, nil
}

func scanAccount(row scanner) (*model.Account, error) {
	var a model.Account
	var institution, accountNumber sql.NullString
	err := row.Scan(
		&a.ID, &a.UserID, &a.AccountTypeID, &a.Name, &a.Currency, &a.Balance,
		&a.IsActive, &institution, &accountNumber, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.Institution = institution.String
	a.AccountNumber = accountNumber.String
	return &a, nil
}
