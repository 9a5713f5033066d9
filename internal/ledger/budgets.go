package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/storage"
	"github.com/pocketledger/pocketledger/internal/validation"
)

// CreateBudgetPeriod creates a named date range for budget allocations.
func (s *Service) CreateBudgetPeriod(ctx context.Context, userID, name string, start, end time.Time) (*model.BudgetPeriod, error) {
	var errs []validation.Error
	errs = append(errs, validation.ValidateUUID(userID, "user_id")...)
	errs = append(errs, validation.ValidateString(name, "name", 1, 100, true)...)
	if !end.After(start) {
		errs = append(errs, validation.Error{
			Field:   "end_date",
			Code:    validation.CodeInvalidRange,
			Message: "end date must be after start date",
		})
	}
	if len(errs) > 0 {
		return nil, validationError(validation.Result{Errors: errs})
	}

	period := model.BudgetPeriod{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      validation.SanitizeString(name),
		StartDate: start,
		EndDate:   end,
	}
	if err := s.store.CreateBudgetPeriod(ctx, period); err != nil {
		return nil, storageError("failed to create budget period", err)
	}
	return &period, nil
}

// GetBudgetPeriod returns a budget period by id.
func (s *Service) GetBudgetPeriod(ctx context.Context, id string) (*model.BudgetPeriod, error) {
	period, err := s.store.GetBudgetPeriod(ctx, id)
	if err != nil {
		return nil, storageError("failed to load budget period", err)
	}
	return period, nil
}

// CreateBudget validates and creates a budget allocation. SpentAmount starts
// at zero and is only moved by transaction-writing operations.
func (s *Service) CreateBudget(ctx context.Context, req validation.CreateBudgetRequest) (*model.Budget, error) {
	if result := validation.ValidateCreateBudgetRequest(req); !result.IsValid {
		return nil, validationError(result)
	}

	budget := model.Budget{
		ID:              uuid.New().String(),
		UserID:          req.UserID,
		PeriodID:        req.PeriodID,
		CategoryID:      req.CategoryID,
		AllocatedAmount: req.AllocatedAmount,
	}
	if err := s.store.CreateBudget(ctx, budget); err != nil {
		return nil, storageError("failed to create budget", err)
	}
	return &budget, nil
}

// GetBudget returns a budget by id.
func (s *Service) GetBudget(ctx context.Context, id string) (*model.Budget, error) {
	budget, err := s.store.GetBudget(ctx, id)
	if err != nil {
		return nil, storageError("failed to load budget", err)
	}
	return budget, nil
}

// ListBudgets returns the budgets of a period.
func (s *Service) ListBudgets(ctx context.Context, userID, periodID string) ([]model.Budget, error) {
	budgets, err := s.store.ListBudgets(ctx, userID, periodID)
	if err != nil {
		return nil, storageError("failed to list budgets", err)
	}
	return budgets, nil
}

// CreateGoal validates and creates a savings goal.
func (s *Service) CreateGoal(ctx context.Context, req validation.CreateGoalRequest) (*model.Goal, error) {
	if result := validation.ValidateCreateGoalRequest(req); !result.IsValid {
		return nil, validationError(result)
	}

	goal := model.Goal{
		ID:           uuid.New().String(),
		UserID:       req.UserID,
		Name:         validation.SanitizeString(req.Name),
		Description:  validation.SanitizeString(req.Description),
		TargetAmount: req.TargetAmount,
		Priority:     req.Priority,
	}
	if req.TargetDate != "" {
		date, err := time.Parse("2006-01-02", req.TargetDate)
		if err != nil {
			return nil, &CommandError{Message: "invalid target date", Code: CodeValidationFailed, Err: err}
		}
		goal.TargetDate = &date
	}

	if err := s.store.CreateGoal(ctx, goal); err != nil {
		return nil, storageError("failed to create goal", err)
	}
	return &goal, nil
}

// GetGoal returns a goal by id.
func (s *Service) GetGoal(ctx context.Context, id string) (*model.Goal, error) {
	goal, err := s.store.GetGoal(ctx, id)
	if err != nil {
		return nil, storageError("failed to load goal", err)
	}
	return goal, nil
}

// ListGoals returns a user's goals.
func (s *Service) ListGoals(ctx context.Context, userID string) ([]model.Goal, error) {
	goals, err := s.store.ListGoals(ctx, userID)
	if err != nil {
		return nil, storageError("failed to list goals", err)
	}
	return goals, nil
}

// DeleteGoal removes a goal.
func (s *Service) DeleteGoal(ctx context.Context, id string) error {
	if err := s.store.DeleteGoal(ctx, id); err != nil {
		return storageError("failed to delete goal", err)
	}
	return nil
}

// ContributeToGoal records an expense transaction on the funding account and
// raises the goal's current amount, atomically. Goal progress only ever
// moves through transaction writes like this one.
func (s *Service) ContributeToGoal(ctx context.Context, goalID, accountID string, amount float64, date time.Time) (*model.Transaction, error) {
	if errs := validation.ValidateAmount(amount, "amount", false, false); len(errs) > 0 {
		return nil, validationError(validation.Result{Errors: errs})
	}

	goal, err := s.store.GetGoal(ctx, goalID)
	if err != nil {
		return nil, storageError("failed to load goal", err)
	}
	if _, err := s.activeAccount(ctx, accountID); err != nil {
		return nil, err
	}

	txn := model.Transaction{
		ID:          uuid.New().String(),
		UserID:      goal.UserID,
		AccountID:   accountID,
		Amount:      amount,
		Description: "Contribution to goal: " + goal.Name,
		Date:        date,
		Type:        model.TypeExpense,
		Status:      model.StatusCompleted,
	}

	stmts := []storage.Statement{
		storage.InsertTransactionStmt(txn),
		storage.AdjustAccountBalanceStmt(accountID, txn.SignedAmount()),
		storage.RaiseGoalAmountStmt(goalID, amount),
	}

	if _, err := s.store.RunTransaction(ctx, stmts); err != nil {
		return nil, storageError("failed to record goal contribution", err)
	}
	return &txn, nil
}
