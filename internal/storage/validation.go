// Package storage provides the SQLite persistence layer for the ledger and staged imports.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/statement-reconciler/internal/common"
	"github.com/Veraticus/statement-reconciler/internal/model"
	"github.com/Veraticus/statement-reconciler/internal/service"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidDateRange   = errors.New("start date must be before end date")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidBatch       = errors.New("invalid import batch")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateFilter(filter service.TransactionFilter) error {
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return fmt.Errorf("%w: end date %v is before start date %v", ErrInvalidDateRange, *filter.EndDate, *filter.StartDate)
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return fmt.Errorf("%w: limit and offset must be non-negative", common.ErrInvalidArgument)
	}
	return nil
}

func validateLedgerTransactions(transactions []model.ExistingTransaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	for i := range transactions {
		txn := &transactions[i]
		if err := validateEntry(txn.ID, txn.UserID, txn.Description, txn.Type, txn.Amount, txn.Date.IsZero()); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

func validateImportBatch(batch *model.ImportBatch) error {
	if batch == nil {
		return fmt.Errorf("%w: batch", ErrNilParameter)
	}
	if batch.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidBatch)
	}
	if batch.UserID == "" {
		return fmt.Errorf("%w: missing user ID", ErrInvalidBatch)
	}
	if batch.BankAccountID == "" {
		return fmt.Errorf("%w: missing bank account ID", ErrInvalidBatch)
	}
	if batch.MatchedCount+batch.UnmatchedCount != batch.Total {
		return fmt.Errorf("%w: matched %d + unmatched %d != total %d",
			ErrInvalidBatch, batch.MatchedCount, batch.UnmatchedCount, batch.Total)
	}
	return nil
}

func validateBankTransactions(batch *model.ImportBatch, records []model.BankTransaction) error {
	if len(records) == 0 {
		return fmt.Errorf("%w: records", ErrEmptySlice)
	}

	for i := range records {
		rec := &records[i]
		if rec.ImportID != batch.ID {
			return fmt.Errorf("record at index %d: %w: import ID %q does not match batch %q",
				i, ErrInvalidTransaction, rec.ImportID, batch.ID)
		}
		if err := validateEntry(rec.ID, rec.UserID, rec.Description, rec.Type, rec.Amount, rec.Date.IsZero()); err != nil {
			return fmt.Errorf("record at index %d: %w", i, err)
		}
		matched := rec.MatchedTransactionID != nil && *rec.MatchedTransactionID != ""
		if rec.IsReconciled != matched {
			return fmt.Errorf("record at index %d: %w: reconciled flag disagrees with match", i, ErrInvalidTransaction)
		}
		if rec.Confidence < 0 || rec.Confidence > 1 {
			return fmt.Errorf("record at index %d: %w: confidence must be between 0 and 1", i, ErrInvalidTransaction)
		}
	}
	return nil
}

func validateEntry(id, userID, description string, kind model.TransactionType, amount float64, zeroDate bool) error {
	switch {
	case id == "":
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	case userID == "":
		return fmt.Errorf("%w: missing user ID", ErrInvalidTransaction)
	case zeroDate:
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	case description == "":
		return fmt.Errorf("%w: missing description", ErrInvalidTransaction)
	case !kind.IsValid():
		return fmt.Errorf("%w: type %q", ErrInvalidTransaction, kind)
	case amount < 0:
		return fmt.Errorf("%w: negative amount", ErrInvalidTransaction)
	}
	return nil
}
