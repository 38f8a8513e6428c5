// Package importer runs a statement upload through parsing, matching and persistence.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/statement-reconciler/internal/common"
	"github.com/Veraticus/statement-reconciler/internal/model"
	"github.com/Veraticus/statement-reconciler/internal/service"
	"github.com/Veraticus/statement-reconciler/internal/statement"
	"github.com/google/uuid"
)

// DefaultCategory is assigned to staged bank transactions when none is configured.
const DefaultCategory = "Uncategorized"

// TransactionMatcher annotates imported transactions with their best ledger match.
type TransactionMatcher interface {
	MatchTransactions(ctx context.Context, imported []model.ImportedTransaction, userID string, rules []model.MatchingRule) ([]model.ImportedTransaction, error)
}

// Config controls import behavior.
type Config struct {
	NewID           func() string
	DefaultCategory string
	DryRun          bool // Parse and match without writing anything
}

// Request describes one uploaded statement.
type Request struct {
	FileContent   string
	FileType      statement.FileType
	UserID        string
	BankAccountID string
	Rules         []model.MatchingRule
	CSVOptions    statement.CSVOptions
}

// Service sequences parser, matcher and store for a single import.
type Service struct {
	store   service.BankTransactionStore
	matcher TransactionMatcher
	parser  *statement.Parser
	cfg     Config
}

// NewService creates an import service.
func NewService(store service.BankTransactionStore, m TransactionMatcher, cfg Config) *Service {
	if cfg.DefaultCategory == "" {
		cfg.DefaultCategory = DefaultCategory
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}

	return &Service{
		store:   store,
		matcher: m,
		parser:  statement.NewParserWithIDs(cfg.NewID),
		cfg:     cfg,
	}
}

// ProcessImport parses, matches and persists one statement.
//
// It never returns an error value. Every failure produces a result with
// Success false, a message in Errors and zeroed counts. Nothing is written
// unless parsing and matching both completed.
func (s *Service) ProcessImport(ctx context.Context, req Request) *model.ImportResult {
	if req.UserID == "" {
		return model.FailedImport("User ID is required")
	}
	if req.BankAccountID == "" {
		return model.FailedImport("Bank account ID is required")
	}

	parsed, err := s.parser.Parse(req.FileContent, req.FileType, req.CSVOptions)
	if err != nil {
		return model.FailedImport(fmt.Sprintf("Failed to parse statement: %v", err))
	}

	rowErrors := parsed.ErrorMessages()
	if len(parsed.Transactions) == 0 {
		if len(rowErrors) == 0 {
			rowErrors = []string{"No transactions found"}
		}
		slog.Warn("Statement produced no transactions",
			"file_type", req.FileType,
			"row_errors", len(rowErrors),
			"error", common.ErrNoTransactions)
		return model.FailedImport(rowErrors...)
	}

	matched, err := s.matcher.MatchTransactions(ctx, parsed.Transactions, req.UserID, req.Rules)
	if err != nil {
		slog.Error("Matching failed", "user_id", req.UserID, "error", err)
		return model.FailedImport(fmt.Sprintf("Failed to match transactions: %v", err))
	}

	result := &model.ImportResult{
		Transactions: matched,
		Errors:       rowErrors,
		Summary:      Summarize(matched),
		Success:      true,
	}
	for i := range matched {
		if matched[i].IsMatched() {
			result.MatchedCount++
		}
	}
	result.UnmatchedCount = len(matched) - result.MatchedCount

	if s.cfg.DryRun {
		slog.Info("Dry run, skipping persistence", "transactions", len(matched))
		return result
	}

	importID, err := s.persist(ctx, req, result)
	if err != nil {
		slog.Error("Failed to save import", "user_id", req.UserID, "error", err)
		return model.FailedImport(fmt.Sprintf("Failed to save transactions: %v", err))
	}
	result.ImportID = importID

	slog.Info("Import completed",
		"import_id", importID,
		"total", result.Summary.Total,
		"matched", result.MatchedCount,
		"unmatched", result.UnmatchedCount,
		"row_errors", len(rowErrors))

	return result
}

// persist writes the batch row and every staged record in one store call.
func (s *Service) persist(ctx context.Context, req Request, result *model.ImportResult) (string, error) {
	now := time.Now().UTC()
	batch := &model.ImportBatch{
		ID:             s.cfg.NewID(),
		UserID:         req.UserID,
		BankAccountID:  req.BankAccountID,
		FileType:       string(req.FileType),
		Total:          result.Summary.Total,
		MatchedCount:   result.MatchedCount,
		UnmatchedCount: result.UnmatchedCount,
		CreatedAt:      now,
	}

	records := make([]model.BankTransaction, 0, len(result.Transactions))
	for _, txn := range result.Transactions {
		record := model.NewBankTransaction(txn, batch.ID, req.UserID, req.BankAccountID, s.cfg.DefaultCategory)
		record.CreatedAt = now
		records = append(records, record)
	}

	if err := s.store.SaveImport(ctx, batch, records); err != nil {
		return "", err
	}
	return batch.ID, nil
}
