package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/statement-reconciler/internal/model"
	"github.com/charmbracelet/lipgloss"
)

const dateLayout = "2006-01-02"

// table lays out rows in fixed-width columns sized to their widest cell.
func table(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	renderRow := func(cells []string, style lipgloss.Style) string {
		rendered := make([]string, len(cells))
		for i, cell := range cells {
			rendered[i] = cellStyle.Width(widths[i] + 2).Render(cell)
		}
		return style.Render(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}

	lines := []string{renderRow(headers, headerStyle)}
	for _, row := range rows {
		lines = append(lines, renderRow(row, lipgloss.NewStyle()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func signedAmount(amount float64, kind model.TransactionType) string {
	if kind == model.TypeDebit {
		return DebitStyle.Render(fmt.Sprintf("-%.2f", amount))
	}
	return CreditStyle.Render(fmt.Sprintf("%.2f", amount))
}

// RenderImportResult writes a styled summary of one import run.
func RenderImportResult(w io.Writer, result *model.ImportResult) error {
	var b strings.Builder

	if !result.Success {
		b.WriteString(FormatError("Import failed") + "\n")
		for _, msg := range result.Errors {
			b.WriteString("  " + FailureStyle.Render(msg) + "\n")
		}
		_, err := fmt.Fprint(w, b.String())
		return err
	}

	rows := make([][]string, 0, len(result.Transactions))
	for i := range result.Transactions {
		txn := &result.Transactions[i]
		match := MutedStyle.Render("-")
		if txn.IsMatched() {
			match = ConfidenceStyle(txn.Confidence).Render(fmt.Sprintf("%s %s (%.0f%%)", LinkIcon, *txn.MatchedTransactionID, txn.Confidence*100))
		}
		rows = append(rows, []string{
			txn.Date.Format(dateLayout),
			txn.Description,
			signedAmount(txn.Amount, txn.Type),
			match,
		})
	}
	b.WriteString(table([]string{"Date", "Description", "Amount", "Match"}, rows))
	b.WriteString("\n\n")

	s := result.Summary
	summary := fmt.Sprintf("  • Transactions: %d\n", s.Total) +
		fmt.Sprintf("  • Matched: %s\n", MatchedStyle.Render(fmt.Sprint(result.MatchedCount))) +
		fmt.Sprintf("  • Unmatched: %s\n", PendingStyle.Render(fmt.Sprint(result.UnmatchedCount))) +
		fmt.Sprintf("  • Credits: %d (%.2f)\n", s.Credits, s.TotalCredits) +
		fmt.Sprintf("  • Debits: %d (%.2f)", s.Debits, s.TotalDebits)
	if s.DateRange.From != nil && s.DateRange.To != nil {
		summary += fmt.Sprintf("\n  • Period: %s to %s", s.DateRange.From.Format(dateLayout), s.DateRange.To.Format(dateLayout))
	}
	if result.ImportID != "" {
		summary += "\n  • Import ID: " + BoldStyle.Render(result.ImportID)
	}
	b.WriteString(RenderBox("Import Complete", summary))
	b.WriteString("\n")

	if len(result.Errors) > 0 {
		b.WriteString(FormatWarning(fmt.Sprintf("%d statement lines were skipped", len(result.Errors))) + "\n")
		for _, msg := range result.Errors {
			b.WriteString("  " + PendingStyle.Render(msg) + "\n")
		}
	}

	_, err := fmt.Fprint(w, b.String())
	return err
}

// RenderLedger writes existing ledger transactions as a table.
func RenderLedger(w io.Writer, txns []model.ExistingTransaction) error {
	if len(txns) == 0 {
		_, err := fmt.Fprintln(w, FormatMuted("No ledger transactions"))
		return err
	}

	rows := make([][]string, 0, len(txns))
	for _, txn := range txns {
		rows = append(rows, []string{
			txn.ID,
			txn.Date.Format(dateLayout),
			txn.Description,
			signedAmount(txn.Amount, txn.Type),
			txn.Reference,
		})
	}
	_, err := fmt.Fprintln(w, table([]string{"ID", "Date", "Description", "Amount", "Reference"}, rows))
	return err
}

// RenderImportBatches writes a user's import history.
func RenderImportBatches(w io.Writer, batches []model.ImportBatch) error {
	if len(batches) == 0 {
		_, err := fmt.Fprintln(w, FormatMuted("No imports yet"))
		return err
	}

	rows := make([][]string, 0, len(batches))
	for _, batch := range batches {
		rows = append(rows, []string{
			batch.ID,
			batch.CreatedAt.Local().Format("2006-01-02 15:04"),
			batch.BankAccountID,
			strings.ToUpper(batch.FileType),
			fmt.Sprintf("%d/%d", batch.MatchedCount, batch.Total),
		})
	}
	_, err := fmt.Fprintln(w, table([]string{"Import", "Created", "Account", "Format", "Matched"}, rows))
	return err
}

// RenderBankTransactions writes the records staged by one import.
func RenderBankTransactions(w io.Writer, batch *model.ImportBatch, records []model.BankTransaction) error {
	rows := make([][]string, 0, len(records))
	for i := range records {
		rec := &records[i]
		status := PendingStyle.Render("unreconciled")
		if rec.IsReconciled && rec.MatchedTransactionID != nil {
			status = MatchedStyle.Render(fmt.Sprintf("%s %s", MatchedIcon, *rec.MatchedTransactionID))
		}
		rows = append(rows, []string{
			rec.Date.Format(dateLayout),
			rec.Description,
			signedAmount(rec.Amount, rec.Type),
			rec.Category,
			status,
		})
	}

	header := FormatTitle(fmt.Sprintf("Import %s (%s, %s)", batch.ID, batch.BankAccountID, strings.ToUpper(batch.FileType)))
	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left,
		header,
		table([]string{"Date", "Description", "Amount", "Category", "Status"}, rows)))
	return err
}
