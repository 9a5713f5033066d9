package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pocketledger/pocketledger/internal/model"
)

// TransactionStatistics computes derived aggregates over the filtered set.
// The WHERE clause is the same one ListTransactions uses, so statistics and
// listings are always consistent for identical filters.
func (s *Store) TransactionStatistics(ctx context.Context, userID string, filter model.QueryFilter) (model.Statistics, error) {
	plan, err := buildTransactionQuery(userID, filter)
	if err != nil {
		return model.Statistics{}, err
	}

	stats := model.Statistics{
		TransactionsByType:   make(map[string]int),
		TransactionsByStatus: make(map[string]int),
	}

	err = s.withDB(ctx, func(db *sql.DB) error {
		totalsQuery := `SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0),
			COALESCE(AVG(amount), 0),
			COALESCE(MAX(CASE WHEN type = 'income' THEN amount END), 0),
			COALESCE(MAX(CASE WHEN type = 'expense' THEN amount END), 0)
		FROM transactions WHERE ` + plan.where

		err := db.QueryRowContext(ctx, totalsQuery, plan.args...).Scan(
			&stats.TotalTransactions,
			&stats.TotalIncome,
			&stats.TotalExpenses,
			&stats.AverageAmount,
			&stats.LargestIncome,
			&stats.LargestExpense,
		)
		if err != nil {
			return &QueryError{Query: totalsQuery, Args: plan.args, Err: err}
		}

		byType := `SELECT type, COUNT(*) FROM transactions WHERE ` + plan.where + ` GROUP BY type`
		if err := scanHistogram(ctx, db, byType, plan.args, stats.TransactionsByType); err != nil {
			return err
		}

		byStatus := `SELECT status, COUNT(*) FROM transactions WHERE ` + plan.where + ` GROUP BY status`
		return scanHistogram(ctx, db, byStatus, plan.args, stats.TransactionsByStatus)
	})
	if err != nil {
		return model.Statistics{}, err
	}

	stats.NetIncome = stats.TotalIncome - stats.TotalExpenses
	return stats, nil
}

func scanHistogram(ctx context.Context, db *sql.DB, query string, args []any, dest map[string]int) error {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return &QueryError{Query: query, Args: args, Err: err}
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("failed to scan histogram row: %w", err)
		}
		dest[key] = count
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating histogram: %w", err)
	}
	return nil
}
