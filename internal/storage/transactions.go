package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/pocketledger/pocketledger/internal/model"
)

const transactionColumns = `id, user_id, account_id, category_id, amount, description,
	transaction_date, type, status, payee, reference, notes, tags, created_at, updated_at`

// GetTransaction returns a single transaction by id, or ErrNotFound.
func (s *Store) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var txn *model.Transaction
	err := s.withDB(ctx, func(db *sql.DB) error {
		row := db.QueryRowContext(ctx,
			`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
		t, scanErr := scanTransaction(row)
		if scanErr == sql.ErrNoRows {
			return fmt.Errorf("%w: transaction %s", ErrNotFound, id)
		}
		if scanErr != nil {
			return fmt.Errorf("failed to scan transaction: %w", scanErr)
		}
		txn = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// ListTransactions returns a filtered, paginated page of a user's
// transactions. The total and page data come from the same WHERE clause, so
// the envelope is internally consistent.
func (s *Store) ListTransactions(ctx context.Context, userID string, filter model.QueryFilter) (model.TransactionPage, error) {
	plan, err := buildTransactionQuery(userID, filter)
	if err != nil {
		return model.TransactionPage{}, err
	}

	var page model.TransactionPage
	err = s.withDB(ctx, func(db *sql.DB) error {
		countQuery := `SELECT COUNT(*) FROM transactions WHERE ` + plan.where
		if err := db.QueryRowContext(ctx, countQuery, plan.args...).Scan(&page.Total); err != nil {
			return &QueryError{Query: countQuery, Args: plan.args, Err: err}
		}

		listQuery := fmt.Sprintf(
			`SELECT %s FROM transactions WHERE %s ORDER BY %s LIMIT ? OFFSET ?`,
			transactionColumns, plan.where, plan.orderBy)
		listArgs := append(append([]any{}, plan.args...), plan.limit, plan.offset)

		rows, err := db.QueryContext(ctx, listQuery, listArgs...)
		if err != nil {
			return &QueryError{Query: listQuery, Args: listArgs, Err: err}
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			t, scanErr := scanTransaction(rows)
			if scanErr != nil {
				return fmt.Errorf("failed to scan transaction: %w", scanErr)
			}
			page.Data = append(page.Data, *t)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating transactions: %w", err)
		}
		return nil
	})
	if err != nil {
		return model.TransactionPage{}, err
	}

	page.Page = plan.offset/plan.limit + 1
	page.TotalPages = (page.Total + plan.limit - 1) / plan.limit
	slog.Debug("listed transactions", "user_id", userID, "total", page.Total, "returned", len(page.Data))
	return page, nil
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*model.Transaction, error) {
	var t model.Transaction
	var categoryID, payee, reference, notes, tagsJSON sql.NullString

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.AccountID,
		&categoryID,
		&t.Amount,
		&t.Description,
		&t.Date,
		&t.Type,
		&t.Status,
		&payee,
		&reference,
		&notes,
		&tagsJSON,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		t.CategoryID = &categoryID.String
	}
	t.Payee = payee.String
	t.Reference = reference.String
	t.Notes = notes.String

	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &t.Tags); err != nil {
			// Log but don't fail on JSON parse error
			slog.Warn("Failed to parse tags JSON", "error", err, "json", tagsJSON.String)
		}
	}
	return &t, nil
}

// nullable returns nil for empty strings so optional columns store NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableRef(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func tagsValue(tags []string) any {
	if len(tags) == 0 {
		return nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil
	}
	return string(b)
}

// InsertTransactionStmt builds the insert statement for a transaction, for
// composition into an atomic multi-statement run.
func InsertTransactionStmt(t model.Transaction) Statement {
	return Statement{
		SQL: `INSERT INTO transactions (
			id, user_id, account_id, category_id, amount, description,
			transaction_date, type, status, payee, reference, notes, tags
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		Args: []any{
			t.ID, t.UserID, t.AccountID, nullableRef(t.CategoryID), t.Amount,
			t.Description, t.Date, t.Type, t.Status, nullable(t.Payee),
			nullable(t.Reference), nullable(t.Notes), tagsValue(t.Tags),
		},
	}
}

// UpdateTransactionStmt builds the update statement for a transaction's
// mutable fields.
func UpdateTransactionStmt(t model.Transaction) Statement {
	return Statement{
		SQL: `UPDATE transactions SET
			account_id = ?, category_id = ?, amount = ?, description = ?,
			transaction_date = ?, type = ?, status = ?, payee = ?,
			reference = ?, notes = ?, tags = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?`,
		Args: []any{
			t.AccountID, nullableRef(t.CategoryID), t.Amount, t.Description,
			t.Date, t.Type, t.Status, nullable(t.Payee), nullable(t.Reference),
			nullable(t.Notes), tagsValue(t.Tags), t.ID, t.UserID,
		},
	}
}

// DeleteTransactionStmt builds the delete statement for a transaction.
func DeleteTransactionStmt(id string) Statement {
	return Statement{
		SQL:  `DELETE FROM transactions WHERE id = ?`,
		Args: []any{id},
	}
}

// AdjustAccountBalanceStmt builds the statement applying a signed delta to
// an account's running balance. Balances are only ever mutated through
// statements like this inside a committed transaction.
func AdjustAccountBalanceStmt(accountID string, delta float64) Statement {
	return Statement{
		SQL:  `UPDATE accounts SET balance = balance + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		Args: []any{delta, accountID},
	}
}

// AdjustBudgetSpentStmt builds the statement applying a delta to the spent
// amount of any budget covering the category on the given date. The floor at
// zero keeps spent_amount non-negative when a transaction is reverted.
func AdjustBudgetSpentStmt(userID, categoryID string, date time.Time, delta float64) Statement {
	return Statement{
		SQL: `UPDATE budgets SET spent_amount = MAX(0, spent_amount + ?)
			WHERE user_id = ? AND category_id = ?
			AND period_id IN (
				SELECT id FROM budget_periods WHERE ? >= start_date AND ? <= end_date
			)`,
		Args: []any{delta, userID, categoryID, date, date},
	}
}
