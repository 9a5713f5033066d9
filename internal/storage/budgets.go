package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pocketledger/pocketledger/internal/model"
)

// CreateBudgetPeriod inserts a new budget period.
func (s *Store) CreateBudgetPeriod(ctx context.Context, period model.BudgetPeriod) error {
	return s.withDB(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx,
			`INSERT INTO budget_periods (id, user_id, name, start_date, end_date)
			VALUES (?, ?, ?, ?, ?)`,
			period.ID, period.UserID, period.Name, period.StartDate, period.EndDate)
		if err != nil {
			return fmt.Errorf("failed to create budget period: %w", err)
		}
		return nil
	})
}

// GetBudgetPeriod returns a budget period by id, or ErrNotFound.
func (s *Store) GetBudgetPeriod(ctx context.Context, id string) (*model.BudgetPeriod, error) {
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var period model.BudgetPeriod
	err := s.withDB(ctx, func(db *sql.DB) error {
		err := db.QueryRowContext(ctx,
			`SELECT id, user_id, name, start_date, end_date FROM budget_periods WHERE id = ?`, id).
			Scan(&period.ID, &period.UserID, &period.Name, &period.StartDate, &period.EndDate)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: budget period %s", ErrNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("failed to query budget period: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &period, nil
}

// CreateBudget inserts a new budget allocation.
func (s *Store) CreateBudget(ctx context.Context, budget model.Budget) error {
	return s.withDB(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx,
			`INSERT INTO budgets (id, user_id, period_id, category_id, allocated_amount, spent_amount)
			VALUES (?, ?, ?, ?, ?, ?)`,
			budget.ID, budget.UserID, budget.PeriodID, budget.CategoryID,
			budget.AllocatedAmount, budget.SpentAmount)
		if err != nil {
			return fmt.Errorf("failed to create budget: %w", err)
		}
		return nil
	})
}

// GetBudget returns a budget by id, or ErrNotFound.
func (s *Store) GetBudget(ctx context.Context, id string) (*model.Budget, error) {
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var budget model.Budget
	err := s.withDB(ctx, func(db *sql.DB) error {
		err := db.QueryRowContext(ctx,
			`SELECT id, user_id, period_id, category_id, allocated_amount, spent_amount
			FROM budgets WHERE id = ?`, id).
			Scan(&budget.ID, &budget.UserID, &budget.PeriodID, &budget.CategoryID,
				&budget.AllocatedAmount, &budget.SpentAmount)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: budget %s", ErrNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("failed to query budget: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// ListBudgets returns all budgets for a period.
func (s *Store) ListBudgets(ctx context.Context, userID, periodID string) ([]model.Budget, error) {
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateString(periodID, "periodID"); err != nil {
		return nil, err
	}

	var budgets []model.Budget
	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT id, user_id, period_id, category_id, allocated_amount, spent_amount
			FROM budgets WHERE user_id = ? AND period_id = ?`, userID, periodID)
		if err != nil {
			return fmt.Errorf("failed to query budgets: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var b model.Budget
			if err := rows.Scan(&b.ID, &b.UserID, &b.PeriodID, &b.CategoryID,
				&b.AllocatedAmount, &b.SpentAmount); err != nil {
				return fmt.Errorf("failed to scan budget: %w", err)
			}
			budgets = append(budgets, b)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return budgets, nil
}
