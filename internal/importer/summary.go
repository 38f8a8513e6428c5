package importer

import (
	"github.com/Veraticus/statement-reconciler/internal/model"
	"github.com/shopspring/decimal"
)

// Summarize counts transactions by type, totals their amounts and finds the
// date span. Totals are accumulated in decimal to avoid float drift.
func Summarize(txns []model.ImportedTransaction) model.Summary {
	summary := model.Summary{Total: len(txns)}
	credits, debits := decimal.Zero, decimal.Zero

	for i := range txns {
		txn := &txns[i]
		amount := decimal.NewFromFloat(txn.Amount)

		switch txn.Type {
		case model.TypeCredit:
			summary.Credits++
			credits = credits.Add(amount)
		default:
			summary.Debits++
			debits = debits.Add(amount)
		}

		if summary.DateRange.From == nil || txn.Date.Before(*summary.DateRange.From) {
			from := txn.Date
			summary.DateRange.From = &from
		}
		if summary.DateRange.To == nil || txn.Date.After(*summary.DateRange.To) {
			to := txn.Date
			summary.DateRange.To = &to
		}
	}

	summary.TotalCredits = credits.InexactFloat64()
	summary.TotalDebits = debits.InexactFloat64()
	return summary
}
