package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pocketledger/pocketledger/internal/model"
)

const goalColumns = `id, user_id, name, description, target_amount,
	current_amount, target_date, priority, created_at`

// CreateGoal inserts a new savings goal.
func (s *Store) CreateGoal(ctx context.Context, goal model.Goal) error {
	return s.withDB(ctx, func(db *sql.DB) error {
		var priority any
		if goal.Priority != 0 {
			priority = goal.Priority
		}
		_, err := db.ExecContext(ctx,
			`INSERT INTO goals (id, user_id, name, description, target_amount,
				current_amount, target_date, priority)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			goal.ID, goal.UserID, goal.Name, nullable(goal.Description),
			goal.TargetAmount, goal.CurrentAmount, goal.TargetDate, priority)
		if err != nil {
			return fmt.Errorf("failed to create goal: %w", err)
		}
		return nil
	})
}

// GetGoal returns a goal by id, or ErrNotFound.
func (s *Store) GetGoal(ctx context.Context, id string) (*model.Goal, error) {
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var goal *model.Goal
	err := s.withDB(ctx, func(db *sql.DB) error {
		row := db.QueryRowContext(ctx,
			`SELECT `+goalColumns+` FROM goals WHERE id = ?`, id)
		g, scanErr := scanGoal(row)
		if scanErr == sql.ErrNoRows {
			return fmt.Errorf("%w: goal %s", ErrNotFound, id)
		}
		if scanErr != nil {
			return fmt.Errorf("failed to scan goal: %w", scanErr)
		}
		goal = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// ListGoals returns a user's goals, highest priority first.
func (s *Store) ListGoals(ctx context.Context, userID string) ([]model.Goal, error) {
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	var goals []model.Goal
	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT `+goalColumns+` FROM goals
			WHERE user_id = ? ORDER BY priority IS NULL, priority, name`, userID)
		if err != nil {
			return fmt.Errorf("failed to query goals: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			g, scanErr := scanGoal(rows)
			if scanErr != nil {
				return fmt.Errorf("failed to scan goal: %w", scanErr)
			}
			goals = append(goals, *g)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return goals, nil
}

// DeleteGoal removes a goal.
func (s *Store) DeleteGoal(ctx context.Context, id string) error {
	if err := validateString(id, "id"); err != nil {
		return err
	}
	return s.withDB(ctx, func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete goal: %w", err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return fmt.Errorf("%w: goal %s", ErrNotFound, id)
		}
		return nil
	})
}

// RaiseGoalAmountStmt builds the statement raising a goal's current amount.
// Goal progress is monotonically non-decreasing; only transaction-writing
// operations use this.
func RaiseGoalAmountStmt(goalID string, amount float64) Statement {
	return Statement{
		SQL:  `UPDATE goals SET current_amount = current_amount + ? WHERE id = ?`,
		Args: []any{amount, goalID},
	}
}

func scanGoal(row scanner) (*model.Goal, error) {
	var g model.Goal
	var description sql.NullString
	var targetDate sql.NullTime
	var priority sql.NullInt64
	err := row.Scan(&g.ID, &g.UserID, &g.Name, &description, &g.TargetAmount,
		&g.CurrentAmount, &targetDate, &priority, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	g.Description = description.String
	if targetDate.Valid {
		t := targetDate.Time
		g.TargetDate = &t
	}
	g.Priority = int(priority.Int64)
	return &g, nil
}
