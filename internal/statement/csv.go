package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Veraticus/statement-reconciler/internal/model"
)

const rowLabel = "Row"

// csvColumns holds resolved column indexes; -1 means the column is absent.
type csvColumns struct {
	date        int
	description int
	amount      int
	kind        int
	reference   int
}

// ParseCSV converts CSV statement content into imported transactions.
// Each row is parsed independently: a bad row is reported and skipped, never
// aborting the rest of the batch.
func (p *Parser) ParseCSV(content string, opts CSVOptions) *ParseResult {
	opts = opts.withDefaults()
	result := newParseResult()

	reader := csv.NewReader(strings.NewReader(strings.TrimPrefix(content, "\ufeff")))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	var cols csvColumns
	if opts.headerRow() {
		header, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return result.finish()
		}
		if err != nil {
			return result.fail(fmt.Sprintf("Invalid CSV header: %v", err))
		}

		cols, err = resolveHeaderColumns(header, opts)
		if err != nil {
			return result.fail(err.Error())
		}
	} else {
		cols = resolvePositionalColumns(opts)
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return result.fail(fmt.Sprintf("Invalid CSV content: %v", err))
			}
			result.addRowError(rowLabel, parseErr.StartLine, parseErr.Err.Error())
			continue
		}

		if blankRecord(record) {
			continue
		}

		line, _ := reader.FieldPos(0)

		txn, reason := p.parseCSVRecord(record, cols, opts)
		if reason != "" {
			slog.Debug("Skipping statement row", "row", line, "reason", reason)
			result.addRowError(rowLabel, line, reason)
			continue
		}
		result.Transactions = append(result.Transactions, txn)
	}

	slog.Info("Parsed CSV statement",
		"transactions", len(result.Transactions),
		"row_errors", len(result.Errors))

	return result.finish()
}

// parseCSVRecord converts one row. A non-empty reason means the row is rejected.
func (p *Parser) parseCSVRecord(record []string, cols csvColumns, opts CSVOptions) (txn model.ImportedTransaction, reason string) {
	defer func() {
		if r := recover(); r != nil {
			reason = fmt.Sprintf("%v", r)
		}
	}()

	date, err := parseDate(field(record, cols.date), opts.DateFormat)
	if err != nil {
		return txn, "Invalid date format"
	}

	raw, err := parseAmount(field(record, cols.amount))
	if err != nil {
		return txn, "Invalid amount"
	}

	description := field(record, cols.description)
	if description == "" {
		description = DefaultDescription
	}

	return model.ImportedTransaction{
		ID:          p.newID(),
		Date:        date,
		Description: description,
		Amount:      raw.Abs().InexactFloat64(),
		Type:        resolveType(field(record, cols.kind), cols.kind >= 0, raw.IsPositive()),
		Reference:   field(record, cols.reference),
	}, ""
}

// resolveType classifies a row as credit when its type text says credit or
// deposit, or when the raw amount is positive. Anything else is a debit.
func resolveType(typeText string, hasTypeColumn, positive bool) model.TransactionType {
	if hasTypeColumn {
		lower := strings.ToLower(typeText)
		if strings.Contains(lower, "credit") || strings.Contains(lower, "deposit") {
			return model.TypeCredit
		}
	}
	if positive {
		return model.TypeCredit
	}
	return model.TypeDebit
}

func resolveHeaderColumns(header []string, opts CSVOptions) (csvColumns, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, exists := index[key]; !exists {
			index[key] = i
		}
	}

	lookup := func(name string) int {
		if i, ok := index[strings.ToLower(strings.TrimSpace(name))]; ok {
			return i
		}
		if i, err := strconv.Atoi(name); err == nil && i >= 0 && i < len(header) {
			return i
		}
		return -1
	}

	cols := csvColumns{
		date:        lookup(opts.DateColumn),
		description: lookup(opts.DescriptionColumn),
		amount:      lookup(opts.AmountColumn),
		kind:        lookup(opts.TypeColumn),
		reference:   lookup(opts.ReferenceColumn),
	}

	if cols.date < 0 {
		return cols, fmt.Errorf("missing required column %q", opts.DateColumn)
	}
	if cols.amount < 0 {
		return cols, fmt.Errorf("missing required column %q", opts.AmountColumn)
	}
	return cols, nil
}

func resolvePositionalColumns(opts CSVOptions) csvColumns {
	position := func(name string, fallback int) int {
		if i, err := strconv.Atoi(strings.TrimSpace(name)); err == nil && i >= 0 {
			return i
		}
		return fallback
	}

	return csvColumns{
		date:        position(opts.DateColumn, 0),
		description: position(opts.DescriptionColumn, 1),
		amount:      position(opts.AmountColumn, 2),
		kind:        position(opts.TypeColumn, 3),
		reference:   position(opts.ReferenceColumn, 4),
	}
}

// blankRecord reports whether every field is empty after trimming, as with
// whitespace-only lines or trailing ",,," rows.
func blankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
