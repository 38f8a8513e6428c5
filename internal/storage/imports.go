package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/statement-reconciler/internal/common"
	"github.com/Veraticus/statement-reconciler/internal/model"
)

// SaveImport writes the batch row and every staged record in one transaction.
// Either all of them are stored or none are.
func (s *SQLiteStorage) SaveImport(ctx context.Context, batch *model.ImportBatch, records []model.BankTransaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateImportBatch(batch); err != nil {
		return err
	}
	if err := validateBankTransactions(batch, records); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapSQLiteError(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO import_batches (
			id, user_id, bank_account_id, file_type, total,
			matched_count, unmatched_count, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		batch.ID,
		batch.UserID,
		batch.BankAccountID,
		batch.FileType,
		batch.Total,
		batch.MatchedCount,
		batch.UnmatchedCount,
		batch.CreatedAt.UTC(),
	)
	if err != nil {
		return mapSQLiteError(fmt.Errorf("failed to save import batch: %w", err))
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO bank_transactions (
			id, import_id, user_id, bank_account_id, date, description,
			amount, type, reference, category, matched_transaction_id,
			confidence, is_reconciled, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, rec := range records {
		var matchedID sql.NullString
		if rec.MatchedTransactionID != nil {
			matchedID = sql.NullString{String: *rec.MatchedTransactionID, Valid: true}
		}

		_, err = stmt.ExecContext(ctx,
			rec.ID,
			rec.ImportID,
			rec.UserID,
			rec.BankAccountID,
			rec.Date.UTC(),
			rec.Description,
			rec.Amount,
			string(rec.Type),
			rec.Reference,
			rec.Category,
			matchedID,
			rec.Confidence,
			rec.IsReconciled,
			rec.CreatedAt.UTC(),
		)
		if err != nil {
			return mapSQLiteError(fmt.Errorf("failed to save bank transaction %s: %w", rec.ID, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return mapSQLiteError(fmt.Errorf("failed to commit import: %w", err))
	}

	slog.Debug("Saved import batch",
		"import_id", batch.ID,
		"records", len(records))
	return nil
}

// GetImportBatch returns the batch with the given id or common.ErrNotFound.
func (s *SQLiteStorage) GetImportBatch(ctx context.Context, id string) (*model.ImportBatch, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, bank_account_id, file_type, total,
		       matched_count, unmatched_count, created_at
		FROM import_batches
		WHERE id = ?
	`, id)

	batch, err := scanImportBatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get import batch: %w", err)
	}
	return batch, nil
}

// ListImportBatches returns a user's imports, newest first.
func (s *SQLiteStorage) ListImportBatches(ctx context.Context, userID string) ([]model.ImportBatch, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, bank_account_id, file_type, total,
		       matched_count, unmatched_count, created_at
		FROM import_batches
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, userID)
	if err != nil {
		return nil, mapSQLiteError(fmt.Errorf("failed to query import batches: %w", err))
	}
	defer func() { _ = rows.Close() }()

	batches := []model.ImportBatch{}
	for rows.Next() {
		batch, err := scanImportBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan import batch: %w", err)
		}
		batches = append(batches, *batch)
	}
	return batches, rows.Err()
}

// GetBankTransactions returns the records staged by one import in file order.
func (s *SQLiteStorage) GetBankTransactions(ctx context.Context, importID string) ([]model.BankTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(importID, "importID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, import_id, user_id, bank_account_id, date, description,
		       amount, type, reference, category, matched_transaction_id,
		       confidence, is_reconciled, created_at
		FROM bank_transactions
		WHERE import_id = ?
		ORDER BY rowid
	`, importID)
	if err != nil {
		return nil, mapSQLiteError(fmt.Errorf("failed to query bank transactions: %w", err))
	}
	defer func() { _ = rows.Close() }()

	records := []model.BankTransaction{}
	for rows.Next() {
		var rec model.BankTransaction
		var kind string
		var reference, matchedID sql.NullString

		if err := rows.Scan(
			&rec.ID,
			&rec.ImportID,
			&rec.UserID,
			&rec.BankAccountID,
			&rec.Date,
			&rec.Description,
			&rec.Amount,
			&kind,
			&reference,
			&rec.Category,
			&matchedID,
			&rec.Confidence,
			&rec.IsReconciled,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bank transaction: %w", err)
		}

		rec.Date = rec.Date.UTC()
		rec.CreatedAt = rec.CreatedAt.UTC()
		rec.Type = model.TransactionType(kind)
		rec.Reference = reference.String
		if matchedID.Valid {
			id := matchedID.String
			rec.MatchedTransactionID = &id
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImportBatch(row rowScanner) (*model.ImportBatch, error) {
	var batch model.ImportBatch
	if err := row.Scan(
		&batch.ID,
		&batch.UserID,
		&batch.BankAccountID,
		&batch.FileType,
		&batch.Total,
		&batch.MatchedCount,
		&batch.UnmatchedCount,
		&batch.CreatedAt,
	); err != nil {
		return nil, err
	}
	batch.CreatedAt = batch.CreatedAt.UTC()
	return &batch, nil
}
