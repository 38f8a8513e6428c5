package main

import (
	"fmt"

	"github.com/Veraticus/statement-reconciler/internal/cli"
	"github.com/spf13/cobra"
)

func importsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "imports",
		Short: "Review past statement imports",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List import batches for a user, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			userID, _ := cmd.Flags().GetString("user")

			store, err := initStorage(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			batches, err := store.ListImportBatches(cmd.Context(), userID)
			if err != nil {
				return fmt.Errorf("failed to list imports: %w", err)
			}
			return cli.RenderImportBatches(cmd.OutOrStdout(), batches)
		},
	}
	list.Flags().StringP("user", "u", "", "ledger user id (required)")
	_ = list.MarkFlagRequired("user")

	show := &cobra.Command{
		Use:   "show IMPORT_ID",
		Short: "Show the staged bank transactions of one import",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			batch, err := store.GetImportBatch(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to load import %s: %w", args[0], err)
			}
			records, err := store.GetBankTransactions(cmd.Context(), batch.ID)
			if err != nil {
				return fmt.Errorf("failed to load bank transactions: %w", err)
			}
			return cli.RenderBankTransactions(cmd.OutOrStdout(), batch, records)
		},
	}

	cmd.AddCommand(list)
	cmd.AddCommand(show)
	return cmd
}
