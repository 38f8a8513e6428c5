package storage

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/statement-reconciler/internal/common"
	"github.com/Veraticus/statement-reconciler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImport(id string, createdAt time.Time) (*model.ImportBatch, []model.BankTransaction) {
	ledgerID := "alice-ledger-1"
	imported := []model.ImportedTransaction{
		{ID: id + "-txn-1", Date: day(1), Description: "COFFEE SHOP", Amount: 4.5, Type: model.TypeDebit, MatchedTransactionID: &ledgerID, Confidence: 0.82},
		{ID: id + "-txn-2", Date: day(2), Description: "PAYROLL DEPOSIT", Amount: 2000, Type: model.TypeCredit, Reference: "FIT-77"},
	}

	batch := &model.ImportBatch{
		ID:             id,
		UserID:         "alice",
		BankAccountID:  "checking",
		FileType:       "csv",
		Total:          2,
		MatchedCount:   1,
		UnmatchedCount: 1,
		CreatedAt:      createdAt,
	}

	records := make([]model.BankTransaction, 0, len(imported))
	for _, txn := range imported {
		rec := model.NewBankTransaction(txn, id, "alice", "checking", "Uncategorized")
		rec.CreatedAt = createdAt
		records = append(records, rec)
	}
	return batch, records
}

func TestSQLiteStorage_SaveImport(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	createdAt := time.Date(2024, time.February, 1, 9, 30, 0, 0, time.UTC)
	batch, records := testImport("import-1", createdAt)
	require.NoError(t, store.SaveImport(ctx, batch, records))

	gotBatch, err := store.GetImportBatch(ctx, "import-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", gotBatch.UserID)
	assert.Equal(t, "checking", gotBatch.BankAccountID)
	assert.Equal(t, "csv", gotBatch.FileType)
	assert.Equal(t, 2, gotBatch.Total)
	assert.Equal(t, 1, gotBatch.MatchedCount)
	assert.Equal(t, 1, gotBatch.UnmatchedCount)
	assert.True(t, createdAt.Equal(gotBatch.CreatedAt))

	got, err := store.GetBankTransactions(ctx, "import-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	matched := got[0]
	assert.Equal(t, "import-1-txn-1", matched.ID)
	assert.True(t, matched.IsReconciled)
	require.NotNil(t, matched.MatchedTransactionID)
	assert.Equal(t, "alice-ledger-1", *matched.MatchedTransactionID)
	assert.InDelta(t, 0.82, matched.Confidence, 1e-9)
	assert.Equal(t, model.TypeDebit, matched.Type)
	assert.True(t, day(1).Equal(matched.Date))
	assert.Equal(t, "Uncategorized", matched.Category)

	unmatched := got[1]
	assert.False(t, unmatched.IsReconciled)
	assert.Nil(t, unmatched.MatchedTransactionID)
	assert.Equal(t, "FIT-77", unmatched.Reference)
	assert.Equal(t, model.TypeCredit, unmatched.Type)
	assert.InDelta(t, 2000.0, unmatched.Amount, 1e-9)
}

func TestSQLiteStorage_SaveImportRollsBack(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	batch, records := testImport("import-1", time.Now())
	records[1].ID = records[0].ID // second insert violates the primary key

	err := store.SaveImport(ctx, batch, records)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)

	_, err = store.GetImportBatch(ctx, "import-1")
	assert.ErrorIs(t, err, common.ErrNotFound)

	got, err := store.GetBankTransactions(ctx, "import-1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteStorage_SaveImportDuplicateBatch(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	batch, records := testImport("import-1", time.Now())
	require.NoError(t, store.SaveImport(ctx, batch, records))

	// Same batch id with fresh record ids
	_, fresh := testImport("import-1", time.Now())
	for i := range fresh {
		fresh[i].ID += "-retry"
	}
	err := store.SaveImport(ctx, batch, fresh)
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)

	got, err := store.GetBankTransactions(ctx, "import-1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSQLiteStorage_SaveImportValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		mutate  func(*model.ImportBatch, []model.BankTransaction) []model.BankTransaction
		wantErr error
		name    string
	}{
		{
			name: "no records",
			mutate: func(_ *model.ImportBatch, _ []model.BankTransaction) []model.BankTransaction {
				return nil
			},
			wantErr: ErrEmptySlice,
		},
		{
			name: "counts disagree",
			mutate: func(b *model.ImportBatch, r []model.BankTransaction) []model.BankTransaction {
				b.MatchedCount = 2
				return r
			},
			wantErr: ErrInvalidBatch,
		},
		{
			name: "record from another batch",
			mutate: func(_ *model.ImportBatch, r []model.BankTransaction) []model.BankTransaction {
				r[0].ImportID = "other"
				return r
			},
			wantErr: ErrInvalidTransaction,
		},
		{
			name: "reconciled without match",
			mutate: func(_ *model.ImportBatch, r []model.BankTransaction) []model.BankTransaction {
				r[1].IsReconciled = true
				return r
			},
			wantErr: ErrInvalidTransaction,
		},
		{
			name: "confidence out of range",
			mutate: func(_ *model.ImportBatch, r []model.BankTransaction) []model.BankTransaction {
				r[0].Confidence = 1.5
				return r
			},
			wantErr: ErrInvalidTransaction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, records := testImport("import-v", time.Now())
			records = tt.mutate(batch, records)

			err := store.SaveImport(ctx, batch, records)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.ErrorIs(t, store.SaveImport(ctx, nil, nil), ErrNilParameter)
}

func TestSQLiteStorage_ListImportBatches(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	older := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	newer := older.Add(48 * time.Hour)

	b1, r1 := testImport("import-old", older)
	require.NoError(t, store.SaveImport(ctx, b1, r1))
	b2, r2 := testImport("import-new", newer)
	require.NoError(t, store.SaveImport(ctx, b2, r2))

	batches, err := store.ListImportBatches(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, "import-new", batches[0].ID)
	assert.Equal(t, "import-old", batches[1].ID)

	none, err := store.ListImportBatches(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = store.GetImportBatch(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}
