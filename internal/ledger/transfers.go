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

// CreateTransfer validates and executes a transfer: two transaction legs
// netting to zero, two balance updates, and the linking transfer row, all in
// one atomic run.
func (s *Service) CreateTransfer(ctx context.Context, req validation.CreateTransferRequest) (*model.Transfer, error) {
	if result := validation.ValidateCreateTransferRequest(req); !result.IsValid {
		return nil, validationError(result)
	}

	if _, err := s.activeAccount(ctx, req.FromAccountID); err != nil {
		return nil, err
	}
	if _, err := s.activeAccount(ctx, req.ToAccountID); err != nil {
		return nil, err
	}

	date, err := validation.ParseDateTime(req.Date)
	if err != nil {
		return nil, &CommandError{Message: "invalid transfer date", Code: CodeValidationFailed, Err: err}
	}

	description := validation.SanitizeString(req.Description)

	fromLeg := model.Transaction{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		AccountID:   req.FromAccountID,
		Amount:      -req.Amount,
		Description: description,
		Date:        date,
		Type:        model.TypeTransfer,
		Status:      model.StatusCompleted,
	}
	toLeg := model.Transaction{
		ID:          uuid.New().String(),
		UserID:      req.UserID,
		AccountID:   req.ToAccountID,
		Amount:      req.Amount,
		Description: description,
		Date:        date,
		Type:        model.TypeTransfer,
		Status:      model.StatusCompleted,
	}

	transfer := model.Transfer{
		ID:                uuid.New().String(),
		UserID:            req.UserID,
		FromAccountID:     req.FromAccountID,
		ToAccountID:       req.ToAccountID,
		FromTransactionID: fromLeg.ID,
		ToTransactionID:   toLeg.ID,
		Amount:            req.Amount,
		Date:              date,
		Description:       description,
	}

	stmts := []storage.Statement{
		storage.InsertTransactionStmt(fromLeg),
		storage.InsertTransactionStmt(toLeg),
		storage.AdjustAccountBalanceStmt(req.FromAccountID, -req.Amount),
		storage.AdjustAccountBalanceStmt(req.ToAccountID, req.Amount),
		storage.InsertTransferStmt(transfer),
	}

	if _, err := s.store.RunTransaction(ctx, stmts); err != nil {
		return nil, storageError("failed to execute transfer", err)
	}
	slog.Info("executed transfer",
		"id", transfer.ID, "from", req.FromAccountID, "to", req.ToAccountID, "amount", req.Amount)
	return &transfer, nil
}

// GetTransfer returns a transfer by id.
func (s *Service) GetTransfer(ctx context.Context, id string) (*model.Transfer, error) {
	transfer, err := s.store.GetTransfer(ctx, id)
	if err != nil {
		return nil, storageError("failed to load transfer", err)
	}
	return transfer, nil
}

// ListTransfers returns a user's transfers.
func (s *Service) ListTransfers(ctx context.Context, userID string) ([]model.Transfer, error) {
	transfers, err := s.store.ListTransfers(ctx, userID)
	if err != nil {
		return nil, storageError("failed to list transfers", err)
	}
	return transfers, nil
}

// DeleteTransfer removes a transfer and both of its legs, restoring both
// account balances, in one atomic run.
func (s *Service) DeleteTransfer(ctx context.Context, id string) error {
	transfer, err := s.store.GetTransfer(ctx, id)
	if err != nil {
		return storageError("failed to load transfer", err)
	}

	stmts := []storage.Statement{
		storage.DeleteTransferStmt(transfer.ID),
		storage.DeleteTransactionStmt(transfer.FromTransactionID),
		storage.DeleteTransactionStmt(transfer.ToTransactionID),
		storage.AdjustAccountBalanceStmt(transfer.FromAccountID, transfer.Amount),
		storage.AdjustAccountBalanceStmt(transfer.ToAccountID, -transfer.Amount),
	}

	if _, err := s.store.RunTransaction(ctx, stmts); err != nil {
		return storageError("failed to delete transfer", err)
	}
	return nil
}

// verifyTransferLegs re-reads both legs of a transfer and confirms they net
// to zero, the invariant every committed transfer maintains.
func (s *Service) verifyTransferLegs(ctx context.Context, transfer *model.Transfer) error {
	from, err := s.store.GetTransaction(ctx, transfer.FromTransactionID)
	if err != nil {
		return storageError("failed to load transfer leg", err)
	}
	to, err := s.store.GetTransaction(ctx, transfer.ToTransactionID)
	if err != nil {
		return storageError("failed to load transfer leg", err)
	}
	if from.Amount+to.Amount != 0 {
		return fmt.Errorf("transfer %s legs do not net to zero: %f + %f",
			transfer.ID, from.Amount, to.Amount)
	}
	return nil
}
