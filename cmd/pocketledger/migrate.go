package main

import (
	"github.com/spf13/cobra"

	"github.com/pocketledger/pocketledger/internal/common"
	"github.com/pocketledger/pocketledger/internal/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := storage.New(databasePath())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(cmd.Context()); err != nil {
				return common.NewUserError("migration failed", err)
			}

			cmd.Printf("Database at schema version %d\n", store.SchemaVersion(cmd.Context()))
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report database health and schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := storage.New(databasePath())
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ctx := cmd.Context()
			if store.HealthCheck(ctx) {
				cmd.Printf("Database: OK (schema version %d)\n", store.SchemaVersion(ctx))
			} else {
				cmd.Println("Database: UNAVAILABLE")
			}
			return nil
		},
	}
}
