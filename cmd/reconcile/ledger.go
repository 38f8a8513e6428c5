package main

import (
	"fmt"
	"time"

	"github.com/Veraticus/statement-reconciler/internal/cli"
	"github.com/Veraticus/statement-reconciler/internal/model"
	"github.com/Veraticus/statement-reconciler/internal/service"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const dateFlagLayout = "2006-01-02"

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Manage the transactions statements are matched against",
	}

	cmd.AddCommand(ledgerAddCmd())
	cmd.AddCommand(ledgerListCmd())

	return cmd
}

func ledgerAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a ledger transaction",
		Long: `Record a transaction in a user's ledger so later imports can match it.

Example:
  reconcile ledger add --user alice --date 2024-01-15 --description "STARBUCKS #4521" --amount 4.50`,
		Args: cobra.NoArgs,
		RunE: runLedgerAdd,
	}

	cmd.Flags().StringP("user", "u", "", "ledger user id (required)")
	cmd.Flags().String("id", "", "transaction id (default: generated)")
	cmd.Flags().String("date", "", "transaction date, YYYY-MM-DD (required)")
	cmd.Flags().String("description", "", "transaction description (required)")
	cmd.Flags().Float64("amount", 0, "transaction amount (required)")
	cmd.Flags().String("type", string(model.TypeDebit), "transaction type: credit or debit")
	cmd.Flags().String("reference", "", "optional reference")

	for _, name := range []string{"user", "date", "description", "amount"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func runLedgerAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	userID, _ := cmd.Flags().GetString("user")
	id, _ := cmd.Flags().GetString("id")
	rawDate, _ := cmd.Flags().GetString("date")
	description, _ := cmd.Flags().GetString("description")
	amount, _ := cmd.Flags().GetFloat64("amount")
	rawType, _ := cmd.Flags().GetString("type")
	reference, _ := cmd.Flags().GetString("reference")

	date, err := time.Parse(dateFlagLayout, rawDate)
	if err != nil {
		return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", rawDate)
	}
	kind, err := model.ParseTransactionType(rawType)
	if err != nil {
		return err
	}
	if id == "" {
		id = uuid.NewString()
	}
	if amount < 0 {
		amount = -amount
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	txn := model.ExistingTransaction{
		ID:          id,
		UserID:      userID,
		Date:        date,
		Description: description,
		Amount:      amount,
		Type:        kind,
		Reference:   reference,
	}
	if err := store.SaveLedgerTransactions(ctx, []model.ExistingTransaction{txn}); err != nil {
		return fmt.Errorf("failed to save ledger transaction: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Recorded %s (%s)", description, id)))
	return nil
}

func ledgerListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ledger transactions",
		Args:  cobra.NoArgs,
		RunE:  runLedgerList,
	}

	cmd.Flags().StringP("user", "u", "", "ledger user id (required)")
	cmd.Flags().String("from", "", "earliest date, YYYY-MM-DD")
	cmd.Flags().String("to", "", "latest date, YYYY-MM-DD")
	cmd.Flags().Int("limit", 0, "maximum number of transactions")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runLedgerList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	userID, _ := cmd.Flags().GetString("user")
	limit, _ := cmd.Flags().GetInt("limit")

	filter := service.TransactionFilter{Limit: limit}
	for flag, target := range map[string]**time.Time{"from": &filter.StartDate, "to": &filter.EndDate} {
		raw, _ := cmd.Flags().GetString(flag)
		if raw == "" {
			continue
		}
		t, err := time.Parse(dateFlagLayout, raw)
		if err != nil {
			return fmt.Errorf("invalid --%s %q: expected YYYY-MM-DD", flag, raw)
		}
		*target = &t
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	txns, err := store.ListExistingTransactions(ctx, userID, filter)
	if err != nil {
		return fmt.Errorf("failed to list ledger: %w", err)
	}

	return cli.RenderLedger(cmd.OutOrStdout(), txns)
}
