package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/statement-reconciler/internal/cli"
	"github.com/Veraticus/statement-reconciler/internal/common"
	"github.com/Veraticus/statement-reconciler/internal/config"
	"github.com/Veraticus/statement-reconciler/internal/importer"
	"github.com/Veraticus/statement-reconciler/internal/matcher"
	"github.com/Veraticus/statement-reconciler/internal/model"
	"github.com/Veraticus/statement-reconciler/internal/statement"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errImportFailed signals a failed import whose messages were already rendered.
var errImportFailed = errors.New("import failed")

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a bank statement and match it against the ledger",
		Long: `Import a CSV, OFX or QFX bank statement. Every statement line is scored
against the user's ledger using the configured matching rules, and the
whole batch is staged for review.

At least one matching rule is required, from --rules or matching.rules in
config.yaml, unless matching.allow_empty_rules is set. With no rules every
line is imported unmatched.

Examples:
  # Import a CSV export with the rules from config.yaml
  reconcile import --user alice --account checking ~/Downloads/jan.csv

  # Preview an OFX import with a separate rules file
  reconcile import --user alice --account visa --rules rules.yaml --dry-run card.qfx

  # A headerless CSV with day-first dates
  reconcile import --user alice --account savings --no-header --date-format DD/MM/YYYY export.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().StringP("user", "u", "", "ledger user id (required)")
	cmd.Flags().StringP("account", "a", "", "bank account id (required)")
	cmd.Flags().StringP("format", "f", "", "statement format: csv, ofx, qfx (default: from file extension)")
	cmd.Flags().String("rules", "", "matching rules file (default: matching.rules from config)")
	cmd.Flags().BoolP("dry-run", "d", false, "parse and match without saving")
	cmd.Flags().Bool("json", false, "print the import result as JSON")
	cmd.Flags().BoolP("verbose", "v", false, "dump every transaction after matching")

	cmd.Flags().Bool("no-header", false, "the CSV has no header row")
	cmd.Flags().String("date-column", "", "CSV date column name or index")
	cmd.Flags().String("description-column", "", "CSV description column name or index")
	cmd.Flags().String("amount-column", "", "CSV amount column name or index")
	cmd.Flags().String("type-column", "", "CSV type column name or index")
	cmd.Flags().String("reference-column", "", "CSV reference column name or index")
	cmd.Flags().String("date-format", "", "CSV date format, e.g. DD/MM/YYYY")

	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("account")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := config.ExpandPath(args[0])
	userID, _ := cmd.Flags().GetString("user")
	accountID, _ := cmd.Flags().GetString("account")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	asJSON, _ := cmd.Flags().GetBool("json")
	verbose, _ := cmd.Flags().GetBool("verbose")

	fileType, err := resolveFileType(cmd, path)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read statement: %w", err)
	}

	matching, err := config.LoadMatching(viper.GetViper())
	if err != nil {
		return err
	}
	rules := matching.Rules
	if rulesFile, _ := cmd.Flags().GetString("rules"); rulesFile != "" {
		if rules, err = config.LoadRules(config.ExpandPath(rulesFile)); err != nil {
			return err
		}
	}

	matcherCfg, err := matching.MatcherConfig()
	if err != nil {
		return err
	}
	if !asJSON {
		matcherCfg.Progress = cli.NewMatchProgress(os.Stderr).Update
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	slog.Info("Importing statement",
		"file", filepath.Base(path),
		"format", fileType,
		"rules", len(rules),
		"aggregation", matcherCfg.Aggregator.Name(),
		"dry_run", dryRun)
	slog.Debug("Matching rules", "rules", ruleSummary(rules))

	svc := importer.NewService(store, matcher.NewMatcher(store, matcherCfg), importer.Config{
		DefaultCategory: config.LoadImport(viper.GetViper()).DefaultCategory,
		DryRun:          dryRun,
	})

	result := svc.ProcessImport(ctx, importer.Request{
		FileContent:   string(content),
		FileType:      fileType,
		UserID:        userID,
		BankAccountID: accountID,
		Rules:         rules,
		CSVOptions:    csvOptionsFromFlags(cmd),
	})

	if verbose {
		pp.Fprintln(cmd.ErrOrStderr(), result.Transactions)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	} else if err := cli.RenderImportResult(out, result); err != nil {
		return err
	}

	if !result.Success {
		return common.NewUserError(fmt.Sprintf("Import of %s failed", filepath.Base(path)), errImportFailed)
	}
	return nil
}

func resolveFileType(cmd *cobra.Command, path string) (statement.FileType, error) {
	if format, _ := cmd.Flags().GetString("format"); format != "" {
		return statement.ParseFileType(format)
	}
	return statement.DetectFileType(path)
}

func csvOptionsFromFlags(cmd *cobra.Command) statement.CSVOptions {
	get := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}

	opts := statement.CSVOptions{
		DateColumn:        get("date-column"),
		DescriptionColumn: get("description-column"),
		AmountColumn:      get("amount-column"),
		TypeColumn:        get("type-column"),
		ReferenceColumn:   get("reference-column"),
		DateFormat:        get("date-format"),
	}
	if noHeader, _ := cmd.Flags().GetBool("no-header"); noHeader {
		opts = opts.WithHeader(false)
	}
	return opts
}

func ruleSummary(rules []model.MatchingRule) []string {
	out := make([]string, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.String())
	}
	return out
}
