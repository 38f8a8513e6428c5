package matcher

import (
	"fmt"
	"strings"

	"github.com/Veraticus/statement-reconciler/internal/common"
	"github.com/Veraticus/statement-reconciler/internal/model"
)

// Aggregator folds per-rule scores into one pair confidence.
// scores[i] is the score produced by rules[i].
type Aggregator interface {
	Aggregate(scores []float64, rules []model.MatchingRule) float64
	Name() string
}

// Aggregator names accepted in configuration.
const (
	AggregationAverage  = "average"
	AggregationMax      = "max"
	AggregationWeighted = "weighted"
)

// AverageAggregator divides the summed scores by the number of rules.
// A rule's weight caps its own contribution but is not renormalized.
type AverageAggregator struct{}

// Aggregate implements Aggregator.
func (AverageAggregator) Aggregate(scores []float64, _ []model.MatchingRule) float64 {
	if len(scores) == 0 {
		return 0
	}
	return sum(scores) / float64(len(scores))
}

// Name implements Aggregator.
func (AverageAggregator) Name() string { return AggregationAverage }

// MaxAggregator keeps the single strongest rule score.
type MaxAggregator struct{}

// Aggregate implements Aggregator.
func (MaxAggregator) Aggregate(scores []float64, _ []model.MatchingRule) float64 {
	best := 0.0
	for _, s := range scores {
		if s > best {
			best = s
		}
	}
	return best
}

// Name implements Aggregator.
func (MaxAggregator) Name() string { return AggregationMax }

// WeightedMeanAggregator divides the summed scores by the summed rule weights,
// so a pair satisfying every rule fully scores 1.
type WeightedMeanAggregator struct{}

// Aggregate implements Aggregator.
func (WeightedMeanAggregator) Aggregate(scores []float64, rules []model.MatchingRule) float64 {
	totalWeight := 0.0
	for _, r := range rules {
		totalWeight += r.Weight
	}
	if totalWeight <= 0 {
		return 0
	}
	return sum(scores) / totalWeight
}

// Name implements Aggregator.
func (WeightedMeanAggregator) Name() string { return AggregationWeighted }

// AggregatorByName resolves a configured aggregation name. Empty means average.
func AggregatorByName(name string) (Aggregator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", AggregationAverage:
		return AverageAggregator{}, nil
	case AggregationMax:
		return MaxAggregator{}, nil
	case AggregationWeighted, "weighted_mean":
		return WeightedMeanAggregator{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown aggregation %q", common.ErrInvalidConfig, name)
	}
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
