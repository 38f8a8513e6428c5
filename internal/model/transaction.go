// Package model defines the core data structures for statement reconciliation.
package model

import (
	"fmt"
	"time"
)

// TransactionType is the direction of money movement.
type TransactionType string

// Transaction type constants.
const (
	TypeCredit TransactionType = "credit"
	TypeDebit  TransactionType = "debit"
)

// IsValid reports whether t is a known transaction type.
func (t TransactionType) IsValid() bool {
	return t == TypeCredit || t == TypeDebit
}

// ParseTransactionType converts a stored or user-supplied string to a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid transaction type %q", s)
	}
	return t, nil
}

// ImportedTransaction is a normalized record parsed from a bank statement.
// It lives only for the duration of one import run.
type ImportedTransaction struct {
	Date                 time.Time       `json:"date"`
	MatchedTransactionID *string         `json:"matchedTransactionId,omitempty"`
	ID                   string          `json:"id"`
	Description          string          `json:"description"`
	Type                 TransactionType `json:"type"`
	Reference            string          `json:"reference,omitempty"`
	Amount               float64         `json:"amount"` // Always >= 0, sign lives in Type
	Confidence           float64         `json:"confidence"`
}

// IsMatched reports whether the matcher linked this transaction to a ledger entry.
func (t *ImportedTransaction) IsMatched() bool {
	return t.MatchedTransactionID != nil && *t.MatchedTransactionID != ""
}

// SignedAmount returns the amount with debits negative.
func (t *ImportedTransaction) SignedAmount() float64 {
	if t.Type == TypeDebit {
		return -t.Amount
	}
	return t.Amount
}

// ExistingTransaction is a read-only projection of a transaction already in the user's ledger.
type ExistingTransaction struct {
	Date        time.Time       `json:"date"`
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Description string          `json:"description"`
	Type        TransactionType `json:"type"`
	Reference   string          `json:"reference,omitempty"`
	Amount      float64         `json:"amount"`
}
