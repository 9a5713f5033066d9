package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pocketledger/pocketledger/internal/model"
)

const transferColumns = `id, user_id, from_account_id, to_account_id,
	from_transaction_id, to_transaction_id, amount, transfer_date, description, created_at`

// GetTransfer returns a transfer by id, or ErrNotFound.
func (s *Store) GetTransfer(ctx context.Context, id string) (*model.Transfer, error) {
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var transfer *model.Transfer
	err := s.withDB(ctx, func(db *sql.DB) error {
		row := db.QueryRowContext(ctx,
			`SELECT `+transferColumns+` FROM transfers WHERE id = ?`, id)
		t, scanErr := scanTransfer(row)
		if scanErr == sql.ErrNoRows {
			return fmt.Errorf("%w: transfer %s", ErrNotFound, id)
		}
		if scanErr != nil {
			return fmt.Errorf("failed to scan transfer: %w", scanErr)
		}
		transfer = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// ListTransfers returns a user's transfers, most recent first.
func (s *Store) ListTransfers(ctx context.Context, userID string) ([]model.Transfer, error) {
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	var transfers []model.Transfer
	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT `+transferColumns+` FROM transfers
			WHERE user_id = ? ORDER BY transfer_date DESC, id DESC`, userID)
		if err != nil {
			return fmt.Errorf("failed to query transfers: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			t, scanErr := scanTransfer(rows)
			if scanErr != nil {
				return fmt.Errorf("failed to scan transfer: %w", scanErr)
			}
			transfers = append(transfers, *t)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating transfers: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transfers, nil
}

// InsertTransferStmt builds the insert statement for the transfer row that
// links its two transaction legs.
func InsertTransferStmt(t model.Transfer) Statement {
	return Statement{
		SQL: `INSERT INTO transfers (
			id, user_id, from_account_id, to_account_id,
			from_transaction_id, to_transaction_id, amount, transfer_date, description
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		Args: []any{
			t.ID, t.UserID, t.FromAccountID, t.ToAccountID,
			t.FromTransactionID, t.ToTransactionID, t.Amount, t.Date,
			nullable(t.Description),
		},
	}
}

// DeleteTransferStmt builds the delete statement for a transfer row.
func DeleteTransferStmt(id string) Statement {
	return Statement{
		SQL:  `DELETE FROM transfers WHERE id = ?`,
		Args: []any{id},
	}
}

func scanTransfer(row scanner) (*model.Transfer, error) {
	var t model.Transfer
	var description sql.NullString
	err := row.Scan(
		&t.ID, &t.UserID, &t.FromAccountID, &t.ToAccountID,
		&t.FromTransactionID, &t.ToTransactionID, &t.Amount, &t.Date,
		&description, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.Description = description.String
	return &t, nil
}
