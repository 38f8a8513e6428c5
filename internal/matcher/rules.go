package matcher

import (
	"math"
	"strings"
	"time"

	"github.com/Veraticus/statement-reconciler/internal/model"
	"github.com/Veraticus/statement-reconciler/internal/similarity"
)

// amountEpsilon is the tolerance for exact amount comparison.
const amountEpsilon = 0.01

// ruleScore returns rule.Weight (or a fraction of it for fuzzy rules) when the
// pair satisfies the rule, and 0 otherwise.
func ruleScore(imported model.ImportedTransaction, existing model.ExistingTransaction, rule model.MatchingRule) float64 {
	switch rule.Field {
	case model.FieldDescription:
		return descriptionScore(imported.Description, existing.Description, rule)
	case model.FieldAmount:
		return amountScore(imported.Amount, existing.Amount, rule)
	case model.FieldDate:
		return dateScore(imported.Date, existing.Date, rule)
	}
	return 0
}

func descriptionScore(a, b string, rule model.MatchingRule) float64 {
	switch rule.Operator {
	case model.OperatorContains:
		la, lb := strings.ToLower(a), strings.ToLower(b)
		if strings.Contains(la, lb) || strings.Contains(lb, la) {
			return rule.Weight
		}
	case model.OperatorFuzzy:
		return similarity.CalculateSimilarity(a, b) * rule.Weight
	}
	return 0
}

// amountScore compares magnitudes; direction is carried by the transaction type.
func amountScore(a, b float64, rule model.MatchingRule) float64 {
	diff := math.Abs(math.Abs(a) - math.Abs(b))

	switch rule.Operator {
	case model.OperatorExact:
		if diff < amountEpsilon {
			return rule.Weight
		}
	case model.OperatorRange:
		if diff <= rule.Value {
			return rule.Weight
		}
	}
	return 0
}

func dateScore(a, b time.Time, rule model.MatchingRule) float64 {
	switch rule.Operator {
	case model.OperatorExact:
		if a.Equal(b) {
			return rule.Weight
		}
	case model.OperatorRange:
		days := math.Abs(a.Sub(b).Hours()) / 24
		if days <= rule.Value {
			return rule.Weight
		}
	}
	return 0
}
