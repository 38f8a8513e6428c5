// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/statement-reconciler/internal/model"
)

// TransactionFilter defines filtering options for ledger queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

// LedgerReader lists the transactions already recorded in a user's books.
type LedgerReader interface {
	ListExistingTransactions(ctx context.Context, userID string, filter TransactionFilter) ([]model.ExistingTransaction, error)
}

// BankTransactionStore persists an import batch and its staged bank transactions.
// Implementations must write the batch and every record atomically.
type BankTransactionStore interface {
	SaveImport(ctx context.Context, batch *model.ImportBatch, records []model.BankTransaction) error
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	LedgerReader
	BankTransactionStore

	// Ledger operations
	SaveLedgerTransactions(ctx context.Context, transactions []model.ExistingTransaction) error

	// Import operations
	GetImportBatch(ctx context.Context, id string) (*model.ImportBatch, error)
	ListImportBatches(ctx context.Context, userID string) ([]model.ImportBatch, error)
	GetBankTransactions(ctx context.Context, importID string) ([]model.BankTransaction, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
