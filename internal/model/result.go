package model

import "time"

// DateRange is the span of transaction dates in an import.
type DateRange struct {
	From *time.Time `json:"from"`
	To   *time.Time `json:"to"`
}

// Summary aggregates counts for an import run.
type Summary struct {
	DateRange    DateRange `json:"dateRange"`
	Total        int       `json:"total"`
	Credits      int       `json:"credits"`
	Debits       int       `json:"debits"`
	TotalCredits float64   `json:"totalCredits"`
	TotalDebits  float64   `json:"totalDebits"`
}

// ImportResult is the terminal artifact of one import run.
// It is built once and not modified after it is returned.
type ImportResult struct {
	ImportID       string                `json:"importId,omitempty"`
	Transactions   []ImportedTransaction `json:"transactions"`
	Errors         []string              `json:"errors"`
	Summary        Summary               `json:"summary"`
	MatchedCount   int                   `json:"matchedCount"`
	UnmatchedCount int                   `json:"unmatchedCount"`
	Success        bool                  `json:"success"`
}

// FailedImport returns a result for a run that stopped before completion.
// Counts and summary are zeroed so callers can render a consistent failed state.
func FailedImport(errs ...string) *ImportResult {
	return &ImportResult{
		Success:      false,
		Transactions: []ImportedTransaction{},
		Errors:       append([]string{}, errs...),
	}
}
