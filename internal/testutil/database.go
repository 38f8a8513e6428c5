// Package testutil provides shared fixtures for tests that need a real ledger database.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/statement-reconciler/internal/model"
	"github.com/Veraticus/statement-reconciler/internal/service"
	"github.com/Veraticus/statement-reconciler/internal/storage"
)

// TestDB represents a migrated in-memory database.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	db.SeedLedger(testutil.LedgerEntry("user-1", "Rent", 1500, day))
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// SeedLedger saves transactions into the ledger or fails the test.
func (db *TestDB) SeedLedger(txns ...model.ExistingTransaction) {
	db.t.Helper()
	if err := db.Storage.SaveLedgerTransactions(context.Background(), txns); err != nil {
		db.t.Fatalf("failed to seed ledger: %v", err)
	}
}

var ledgerSeq int

// LedgerEntry builds a debit ledger transaction with a unique id.
func LedgerEntry(userID, description string, amount float64, date time.Time) model.ExistingTransaction {
	ledgerSeq++
	return model.ExistingTransaction{
		ID:          fmt.Sprintf("ledger-%d", ledgerSeq),
		UserID:      userID,
		Date:        date,
		Description: description,
		Amount:      amount,
		Type:        model.TypeDebit,
	}
}
