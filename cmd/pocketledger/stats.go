package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pocketledger/pocketledger/internal/ledger"
	"github.com/pocketledger/pocketledger/internal/model"
	"github.com/pocketledger/pocketledger/internal/storage"
)

func statsCmd() *cobra.Command {
	var (
		userID    string
		accountID string
		txnType   string
		status    string
		search    string
		from      string
		to        string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show transaction statistics for a filtered set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := storage.New(databasePath())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			filter := model.QueryFilter{
				AccountID: accountID,
				Type:      txnType,
				Status:    status,
				Search:    search,
			}
			if from != "" {
				t, err := time.Parse("2006-01-02", from)
				if err != nil {
					return fmt.Errorf("invalid --from date: %w", err)
				}
				filter.StartDate = &t
			}
			if to != "" {
				t, err := time.Parse("2006-01-02", to)
				if err != nil {
					return fmt.Errorf("invalid --to date: %w", err)
				}
				filter.EndDate = &t
			}

			svc := ledger.NewService(store)
			stats, err := svc.Statistics(cmd.Context(), userID, filter)
			if err != nil {
				return err
			}

			cmd.Printf("Transactions: %d\n", stats.TotalTransactions)
			cmd.Printf("Income:       %.2f\n", stats.TotalIncome)
			cmd.Printf("Expenses:     %.2f\n", stats.TotalExpenses)
			cmd.Printf("Net:          %.2f\n", stats.NetIncome)
			cmd.Printf("Average:      %.2f\n", stats.AverageAmount)
			for t, n := range stats.TransactionsByType {
				cmd.Printf("  by type   %-10s %d\n", t, n)
			}
			for s, n := range stats.TransactionsByStatus {
				cmd.Printf("  by status %-10s %d\n", s, n)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (required)")
	cmd.Flags().StringVar(&accountID, "account", "", "filter by account id")
	cmd.Flags().StringVar(&txnType, "type", "", "filter by type (income, expense, transfer)")
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	cmd.Flags().StringVar(&search, "search", "", "free-text search")
	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func exportCmd() *cobra.Command {
	var (
		userID string
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export [transaction-id...]",
		Short: "Export transactions to CSV or JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.New(databasePath())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			out := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer func() { _ = f.Close() }()
				out = f
			}

			svc := ledger.NewService(store)
			return svc.ExportTransactions(cmd.Context(), userID, args, format, out)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id (required)")
	cmd.Flags().StringVar(&format, "format", ledger.FormatCSV, "export format (csv, json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
