package statement

import (
	"fmt"
	"strings"

	"github.com/Veraticus/statement-reconciler/internal/model"
)

// RowError describes a statement row that was excluded from the batch.
type RowError struct {
	Label  string // "Row" for CSV lines, "Transaction" for OFX entries
	Reason string
	// Row is the physical line number for CSV (the header is line 1) and the
	// 1-based position among <STMTTRN> blocks for OFX.
	Row int
}

func (e RowError) Error() string {
	return fmt.Sprintf("%s %d: %s", e.Label, e.Row, e.Reason)
}

// ParseResult carries both the rows that parsed and the ones that did not.
//
// Success is false whenever any row failed, yet Transactions still holds every
// row that parsed. Strict callers check IsFullyClean; lenient callers use
// Transactions and report Errors.
type ParseResult struct {
	Transactions []model.ImportedTransaction
	Errors       []RowError
	Error        string
	Success      bool
	fatal        string
}

func newParseResult() *ParseResult {
	return &ParseResult{Transactions: []model.ImportedTransaction{}}
}

// IsFullyClean reports whether every row parsed and the document was readable.
func (r *ParseResult) IsFullyClean() bool {
	return r.Success && len(r.Errors) == 0
}

// Failed reports whether the document itself could not be read.
func (r *ParseResult) Failed() bool {
	return r.fatal != ""
}

// ErrorMessages returns the document-level error, if any, followed by row errors.
func (r *ParseResult) ErrorMessages() []string {
	messages := make([]string, 0, len(r.Errors)+1)
	if r.fatal != "" {
		messages = append(messages, r.fatal)
	}
	for _, e := range r.Errors {
		messages = append(messages, e.Error())
	}
	return messages
}

func (r *ParseResult) addRowError(label string, row int, reason string) {
	r.Errors = append(r.Errors, RowError{Label: label, Row: row, Reason: reason})
}

func (r *ParseResult) fail(msg string) *ParseResult {
	r.fatal = msg
	return r.finish()
}

func (r *ParseResult) finish() *ParseResult {
	r.Success = r.fatal == "" && len(r.Errors) == 0
	r.Error = strings.Join(r.ErrorMessages(), "; ")
	return r
}
