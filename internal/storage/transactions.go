package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Veraticus/statement-reconciler/internal/model"
	"github.com/Veraticus/statement-reconciler/internal/service"
)

// SaveLedgerTransactions records transactions in the user's books.
// Existing rows with the same id are replaced.
func (s *SQLiteStorage) SaveLedgerTransactions(ctx context.Context, transactions []model.ExistingTransaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateLedgerTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapSQLiteError(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO ledger_transactions (
			id, user_id, date, description, amount, type, reference
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, txn := range transactions {
		_, err = stmt.ExecContext(ctx,
			txn.ID,
			txn.UserID,
			txn.Date.UTC(),
			txn.Description,
			txn.Amount,
			string(txn.Type),
			txn.Reference,
		)
		if err != nil {
			return mapSQLiteError(fmt.Errorf("failed to save transaction %s: %w", txn.ID, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return mapSQLiteError(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}

// ListExistingTransactions returns a user's ledger transactions ordered by date.
func (s *SQLiteStorage) ListExistingTransactions(ctx context.Context, userID string, filter service.TransactionFilter) ([]model.ExistingTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	return s.listExistingTransactions(ctx, s.db, userID, filter)
}

func (s *SQLiteStorage) listExistingTransactions(ctx context.Context, q queryable, userID string, filter service.TransactionFilter) ([]model.ExistingTransaction, error) {
	var query strings.Builder
	query.WriteString(`
		SELECT id, user_id, date, description, amount, type, reference
		FROM ledger_transactions
		WHERE user_id = ?`)
	args := []any{userID}

	if filter.StartDate != nil {
		query.WriteString(" AND date >= ?")
		args = append(args, filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		query.WriteString(" AND date <= ?")
		args = append(args, filter.EndDate.UTC())
	}
	query.WriteString(" ORDER BY date, rowid")
	if filter.Limit > 0 {
		query.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := q.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, mapSQLiteError(fmt.Errorf("failed to query ledger transactions: %w", err))
	}
	defer func() { _ = rows.Close() }()

	transactions := []model.ExistingTransaction{}
	for rows.Next() {
		var txn model.ExistingTransaction
		var kind string
		var reference sql.NullString

		if err := rows.Scan(
			&txn.ID,
			&txn.UserID,
			&txn.Date,
			&txn.Description,
			&txn.Amount,
			&kind,
			&reference,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger transaction: %w", err)
		}

		txn.Date = txn.Date.UTC()
		txn.Type = model.TransactionType(kind)
		txn.Reference = reference.String
		transactions = append(transactions, txn)
	}

	return transactions, rows.Err()
}
