package importer_test

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/statement-reconciler/internal/importer"
	"github.com/Veraticus/statement-reconciler/internal/matcher"
	"github.com/Veraticus/statement-reconciler/internal/model"
	"github.com/Veraticus/statement-reconciler/internal/statement"
	"github.com/Veraticus/statement-reconciler/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessImport_SQLite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	coffee := testutil.LedgerEntry("user-1", "STARBUCKS #4521", 4.50, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	otherUser := testutil.LedgerEntry("user-2", "PAYROLL DEPOSIT", 2000, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC))
	db.SeedLedger(coffee, otherUser)

	m := matcher.NewMatcher(db.Storage, matcher.Config{Aggregator: matcher.WeightedMeanAggregator{}, DateWindowDays: 7})
	svc := importer.NewService(db.Storage, m, importer.Config{})

	result := svc.ProcessImport(ctx, importer.Request{
		FileContent:   "Date,Description,Amount\n01/15/2024,STARBUCKS COFFEE,-4.50\n01/16/2024,PAYROLL DEPOSIT,2000.00",
		FileType:      statement.FileTypeCSV,
		UserID:        "user-1",
		BankAccountID: "checking",
		Rules: []model.MatchingRule{
			{Field: model.FieldDescription, Operator: model.OperatorFuzzy, Weight: 0.6},
			{Field: model.FieldAmount, Operator: model.OperatorExact, Weight: 0.4},
		},
	})

	require.True(t, result.Success, result.Errors)
	require.NotEmpty(t, result.ImportID)
	assert.Equal(t, 1, result.MatchedCount, "other users' ledger entries are never candidates")
	assert.Equal(t, 1, result.UnmatchedCount)

	batch, err := db.Storage.GetImportBatch(ctx, result.ImportID)
	require.NoError(t, err)
	assert.Equal(t, 2, batch.Total)
	assert.Equal(t, 1, batch.MatchedCount)

	records, err := db.Storage.GetBankTransactions(ctx, result.ImportID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].IsReconciled)
	require.NotNil(t, records[0].MatchedTransactionID)
	assert.Equal(t, coffee.ID, *records[0].MatchedTransactionID)
	assert.False(t, records[1].IsReconciled)

	batches, err := db.Storage.ListImportBatches(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, batches, 1)
}
