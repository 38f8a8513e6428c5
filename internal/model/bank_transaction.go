package model

import "time"

// BankTransaction is a statement line staged in the ledger after an import.
type BankTransaction struct {
	Date                 time.Time
	CreatedAt            time.Time
	MatchedTransactionID *string
	ID                   string
	ImportID             string
	UserID               string
	BankAccountID        string
	Description          string
	Type                 TransactionType
	Reference            string
	Category             string
	Amount               float64
	Confidence           float64
	IsReconciled         bool
}

// ImportBatch records one statement upload.
type ImportBatch struct {
	CreatedAt      time.Time
	ID             string
	UserID         string
	BankAccountID  string
	FileType       string
	Total          int
	MatchedCount   int
	UnmatchedCount int
}

// NewBankTransaction stages an imported transaction for persistence.
// The record is reconciled if and only if it carries a matched ledger id.
func NewBankTransaction(txn ImportedTransaction, importID, userID, bankAccountID, category string) BankTransaction {
	return BankTransaction{
		ID:                   txn.ID,
		ImportID:             importID,
		UserID:               userID,
		BankAccountID:        bankAccountID,
		Date:                 txn.Date,
		Description:          txn.Description,
		Amount:               txn.Amount,
		Type:                 txn.Type,
		Reference:            txn.Reference,
		Category:             category,
		MatchedTransactionID: txn.MatchedTransactionID,
		Confidence:           txn.Confidence,
		IsReconciled:         txn.IsMatched(),
	}
}
