// Package matcher links imported statement transactions to existing ledger transactions.
package matcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/statement-reconciler/internal/common"
	"github.com/Veraticus/statement-reconciler/internal/model"
	"github.com/Veraticus/statement-reconciler/internal/service"
)

// DefaultThreshold is the confidence a candidate must exceed to be accepted.
const DefaultThreshold = 0.7

// Config controls how candidates are scored and accepted.
type Config struct {
	Aggregator Aggregator
	// Progress, if set, is called after each imported transaction is scored.
	Progress func(done, total int)
	Retry    service.RetryOptions
	// Threshold outside (0,1] falls back to DefaultThreshold.
	Threshold float64
	// DateWindowDays > 0 limits the ledger fetch to the batch's date span
	// widened by this many days on each side.
	DateWindowDays int
	// Exclusive lets each ledger transaction match at most one imported
	// transaction per call. Earlier imported transactions claim first.
	Exclusive bool
	// AllowEmptyRules accepts an empty rule list; every pair then scores 0.
	AllowEmptyRules bool
}

// DefaultConfig returns the matcher configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{
		Aggregator: AverageAggregator{},
		Threshold:  DefaultThreshold,
		Retry:      common.DefaultRetryOptions(),
	}
}

// Matcher scores imported transactions against a user's ledger.
type Matcher struct {
	ledger service.LedgerReader
	cfg    Config
}

// NewMatcher creates a matcher reading existing transactions from ledger.
func NewMatcher(ledger service.LedgerReader, cfg Config) *Matcher {
	if cfg.Aggregator == nil {
		cfg.Aggregator = AverageAggregator{}
	}
	if cfg.Threshold <= 0 || cfg.Threshold > 1 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = common.DefaultRetryOptions()
	}

	return &Matcher{ledger: ledger, cfg: cfg}
}

// MatchTransactions returns a copy of imported where each transaction carries
// the id and confidence of its best ledger candidate, or no id and zero
// confidence when nothing scored above the threshold.
//
// The ledger is read once per call. Any error aborts the whole pass and no
// partial results are returned.
func (m *Matcher) MatchTransactions(ctx context.Context, imported []model.ImportedTransaction, userID string, rules []model.MatchingRule) ([]model.ImportedTransaction, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", common.ErrInvalidArgument)
	}
	if err := m.validateRules(rules); err != nil {
		return nil, err
	}

	matched := make([]model.ImportedTransaction, 0, len(imported))
	if len(imported) == 0 {
		return matched, nil
	}

	existing, err := m.fetchLedger(ctx, userID, imported)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing transactions: %w", err)
	}

	slog.Debug("Matching imported transactions",
		"imported", len(imported),
		"existing", len(existing),
		"rules", len(rules),
		"aggregation", m.cfg.Aggregator.Name())

	claimed := make(map[string]bool)
	matchedCount := 0

	for i, txn := range imported {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		txn.MatchedTransactionID = nil
		txn.Confidence = 0

		if best, confidence := m.bestCandidate(txn, existing, rules, claimed); best != nil {
			id := best.ID
			txn.MatchedTransactionID = &id
			txn.Confidence = clamp(confidence)
			if m.cfg.Exclusive {
				claimed[id] = true
			}
			matchedCount++
		}

		matched = append(matched, txn)

		if m.cfg.Progress != nil {
			m.cfg.Progress(i+1, len(imported))
		}
	}

	slog.Info("Matched imported transactions",
		"user_id", userID,
		"total", len(matched),
		"matched", matchedCount,
		"unmatched", len(matched)-matchedCount)

	return matched, nil
}

// Score returns the aggregated confidence for one pair, clamped to [0,1].
func (m *Matcher) Score(imported model.ImportedTransaction, existing model.ExistingTransaction, rules []model.MatchingRule) float64 {
	return clamp(m.score(imported, existing, rules))
}

func (m *Matcher) score(imported model.ImportedTransaction, existing model.ExistingTransaction, rules []model.MatchingRule) float64 {
	if len(rules) == 0 {
		return 0
	}

	scores := make([]float64, len(rules))
	for i, rule := range rules {
		scores[i] = ruleScore(imported, existing, rule)
	}
	return m.cfg.Aggregator.Aggregate(scores, rules)
}

// bestCandidate returns the highest scoring candidate above the threshold.
// Ties keep the candidate seen first.
func (m *Matcher) bestCandidate(txn model.ImportedTransaction, existing []model.ExistingTransaction, rules []model.MatchingRule, claimed map[string]bool) (*model.ExistingTransaction, float64) {
	var best *model.ExistingTransaction
	bestScore := 0.0

	for i := range existing {
		candidate := &existing[i]
		if claimed[candidate.ID] {
			continue
		}

		s := m.score(txn, *candidate, rules)
		if s <= m.cfg.Threshold {
			continue
		}
		if best == nil || s > bestScore {
			best = candidate
			bestScore = s
		}
	}

	return best, bestScore
}

func (m *Matcher) validateRules(rules []model.MatchingRule) error {
	if len(rules) == 0 {
		if m.cfg.AllowEmptyRules {
			return nil
		}
		return fmt.Errorf("%w: at least one matching rule is required", common.ErrInvalidArgument)
	}

	for i, rule := range rules {
		if err := rule.Validate(); err != nil {
			return fmt.Errorf("%w: rule %d: %w", common.ErrInvalidArgument, i+1, err)
		}
	}
	return nil
}

func (m *Matcher) fetchLedger(ctx context.Context, userID string, imported []model.ImportedTransaction) ([]model.ExistingTransaction, error) {
	filter := m.ledgerFilter(imported)

	var existing []model.ExistingTransaction
	err := common.WithRetry(ctx, func() error {
		var err error
		existing, err = m.ledger.ListExistingTransactions(ctx, userID, filter)
		return err
	}, m.cfg.Retry)

	return existing, err
}

// ledgerFilter narrows the fetch to the batch's date span when a window is configured.
func (m *Matcher) ledgerFilter(imported []model.ImportedTransaction) service.TransactionFilter {
	var filter service.TransactionFilter
	if m.cfg.DateWindowDays <= 0 {
		return filter
	}

	earliest, latest := imported[0].Date, imported[0].Date
	for _, txn := range imported[1:] {
		if txn.Date.Before(earliest) {
			earliest = txn.Date
		}
		if txn.Date.After(latest) {
			latest = txn.Date
		}
	}

	window := time.Duration(m.cfg.DateWindowDays) * 24 * time.Hour
	start := earliest.Add(-window)
	end := latest.Add(window)
	filter.StartDate = &start
	filter.EndDate = &end
	return filter
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
