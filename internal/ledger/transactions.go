package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/storage"
	"github.com/pocketledger/pocketledger/internal/validation"
)

// CreateTransaction validates and records a transaction. The insert, the
// account balance adjustment and any budget spent bump happen in one atomic
// run; a failure leaves no trace of any step.
func (s *Service) CreateTransaction(ctx context.Context, req validation.CreateTransactionRequest) (*model.Transaction, error) {
	if result := validation.ValidateCreateTransactionRequest(req); !result.IsValid {
		return nil, validationError(result)
	}

	if _, err := s.activeAccount(ctx, req.AccountID); err != nil {
		return nil, err
	}

	date, err := validation.ParseDateTime(req.Date)
	if err != nil {
		return nil, &CommandError{Message: "invalid transaction date", Code: CodeValidationFailed, Err: err}
	}

	status := req.Status
	if status == "" {
		status = model.StatusCompleted
	}

	txn := model.Transaction{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Description: validation.SanitizeString(req.Description),
		Date:        date,
		Type:        req.Type,
		Status:      status,
		Payee:       validation.SanitizeString(req.Payee),
		Reference:   validation.SanitizeString(req.Reference),
		Notes:       validation.SanitizeString(req.Notes),
		Tags:        req.Tags,
	}

	stmts := []storage.Statement{storage.InsertTransactionStmt(txn)}
	stmts = append(stmts, effectStmts(txn, +1)...)

	if _, err := s.store.RunTransaction(ctx, stmts); err != nil {
		return nil, storageError("failed to record transaction", err)
	}
	slog.Info("recorded transaction", "id", txn.ID, "type", txn.Type, "amount", txn.Amount)
	return &txn, nil
}

// UpdateTransaction replaces a transaction's fields and atomically moves the
// balance and budget effects from the old version to the new one.
func (s *Service) UpdateTransaction(ctx context.Context, id string, req validation.CreateTransactionRequest) (*model.Transaction, error) {
	if result := validation.ValidateCreateTransactionRequest(req); !result.IsValid {
		return nil, validationError(result)
	}

	old, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, storageError("failed to load transaction", err)
	}
	if req.UserID != old.UserID {
		return nil, storageError("failed to load transaction",
			fmt.Errorf("%w: transaction %s", storage.ErrNotFound, id))
	}
	if _, err := s.activeAccount(ctx, req.AccountID); err != nil {
		return nil, err
	}

	date, err := validation.ParseDateTime(req.Date)
	if err != nil {
		return nil, &CommandError{Message: "invalid transaction date", Code: CodeValidationFailed, Err: err}
	}

	status := req.Status
	if status == "" {
		status = old.Status
	}

	updated := model.Transaction{
		ID:          old.ID,
		UserID:      old.UserID,
		AccountID:   req.AccountID,
		CategoryID:  req.CategoryID,
		Amount:      req.Amount,
		Description: validation.SanitizeString(req.Description),
		Date:        date,
		Type:        req.Type,
		Status:      status,
		Payee:       validation.SanitizeString(req.Payee),
		Reference:   validation.SanitizeString(req.Reference),
		Notes:       validation.SanitizeString(req.Notes),
		Tags:        req.Tags,
	}

	stmts := []storage.Statement{storage.UpdateTransactionStmt(updated)}
	stmts = append(stmts, effectStmts(*old, -1)...)
	stmts = append(stmts, effectStmts(updated, +1)...)

	if _, err := s.store.RunTransaction(ctx, stmts); err != nil {
		return nil, storageError("failed to update transaction", err)
	}
	return &updated, nil
}

// DeleteTransaction removes a transaction and atomically reverts its balance
// and budget effects.
func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	txn, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return storageError("failed to load transaction", err)
	}

	stmts := []storage.Statement{storage.DeleteTransactionStmt(id)}
	stmts = append(stmts, effectStmts(*txn, -1)...)

	if _, err := s.store.RunTransaction(ctx, stmts); err != nil {
		return storageError("failed to delete transaction", err)
	}
	return nil
}

// DeleteTransactions removes a set of transactions in one atomic run,
// reverting every balance and budget effect. Either all of them disappear or
// none do.
func (s *Service) DeleteTransactions(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return &CommandError{Message: "no transaction ids given", Code: CodeValidationFailed}
	}

	// A repeated id must not build its revert statements twice; the second
	// DELETE would affect zero rows while the balance adjustment still ran.
	seen := make(map[string]bool, len(ids))

	var stmts []storage.Statement
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		txn, err := s.store.GetTransaction(ctx, id)
		if err != nil {
			return storageError("failed to load transaction", err)
		}
		if txn.UserID != userID {
			return storageError("failed to load transaction",
				fmt.Errorf("%w: transaction %s", storage.ErrNotFound, id))
		}
		stmts = append(stmts, storage.DeleteTransactionStmt(id))
		stmts = append(stmts, effectStmts(*txn, -1)...)
	}

	if _, err := s.store.RunTransaction(ctx, stmts); err != nil {
		return storageError("failed to delete transactions", err)
	}
	slog.Info("bulk deleted transactions", "user_id", userID, "count", len(seen))
	return nil
}

// GetTransaction returns a transaction by id.
func (s *Service) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	txn, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		return nil, storageError("failed to load transaction", err)
	}
	return txn, nil
}

// ListTransactions returns a filtered, paginated listing.
func (s *Service) ListTransactions(ctx context.Context, userID string, filter model.QueryFilter) (model.TransactionPage, error) {
	page, err := s.store.ListTransactions(ctx, userID, filter)
	if err != nil {
		return model.TransactionPage{}, storageError("failed to list transactions", err)
	}
	return page, nil
}

// Statistics computes aggregates over the same filtered set a listing with
// this filter would return.
func (s *Service) Statistics(ctx context.Context, userID string, filter model.QueryFilter) (model.Statistics, error) {
	stats, err := s.store.TransactionStatistics(ctx, userID, filter)
	if err != nil {
		return model.Statistics{}, storageError("failed to compute statistics", err)
	}
	return stats, nil
}

// effectStmts builds the side-effect statements a transaction implies:
// the account balance delta, and the budget spent delta for completed
// categorized expenses. sign is +1 to apply the effects and -1 to revert
// them. Pending and cancelled transactions have no effects.
func effectStmts(txn model.Transaction, sign float64) []storage.Statement {
	if txn.Status != model.StatusCompleted {
		return nil
	}

	stmts := []storage.Statement{
		storage.AdjustAccountBalanceStmt(txn.AccountID, sign*txn.SignedAmount()),
	}
	if txn.Type == model.TypeExpense && txn.CategoryID != nil {
		stmts = append(stmts,
			storage.AdjustBudgetSpentStmt(txn.UserID, *txn.CategoryID, txn.Date, sign*txn.Amount))
	}
	return stmts
}
