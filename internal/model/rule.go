package model

import (
	"errors"
	"fmt"
)

// RuleField is the transaction attribute a matching rule compares.
type RuleField string

// Rule field constants.
const (
	FieldDescription RuleField = "description"
	FieldAmount      RuleField = "amount"
	FieldDate        RuleField = "date"
)

// RuleOperator is the comparison a matching rule applies.
type RuleOperator string

// Rule operator constants.
const (
	OperatorContains RuleOperator = "contains"
	OperatorExact    RuleOperator = "exact"
	OperatorFuzzy    RuleOperator = "fuzzy"
	OperatorRange    RuleOperator = "range"
)

// ErrInvalidRule is returned when a matching rule cannot be evaluated.
var ErrInvalidRule = errors.New("invalid matching rule")

// MatchingRule scores one field of a candidate pair.
// Value is the tolerance for amount ranges and the day count for date ranges;
// description rules ignore it.
type MatchingRule struct {
	Field    RuleField    `json:"field" yaml:"field" mapstructure:"field"`
	Operator RuleOperator `json:"operator" yaml:"operator" mapstructure:"operator"`
	Value    float64      `json:"value,omitempty" yaml:"value,omitempty" mapstructure:"value"`
	Weight   float64      `json:"weight" yaml:"weight" mapstructure:"weight"`
}

var supportedOperators = map[RuleField][]RuleOperator{
	FieldDescription: {OperatorContains, OperatorFuzzy},
	FieldAmount:      {OperatorExact, OperatorRange},
	FieldDate:        {OperatorExact, OperatorRange},
}

// Validate checks that the rule names a supported field/operator pair with a usable weight.
func (r MatchingRule) Validate() error {
	ops, ok := supportedOperators[r.Field]
	if !ok {
		return fmt.Errorf("%w: unknown field %q", ErrInvalidRule, r.Field)
	}

	supported := false
	for _, op := range ops {
		if op == r.Operator {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("%w: operator %q is not supported for field %q", ErrInvalidRule, r.Operator, r.Field)
	}

	if r.Weight <= 0 {
		return fmt.Errorf("%w: weight must be positive, got %v", ErrInvalidRule, r.Weight)
	}
	if r.Operator == OperatorRange && r.Value < 0 {
		return fmt.Errorf("%w: range value must be non-negative, got %v", ErrInvalidRule, r.Value)
	}
	return nil
}

func (r MatchingRule) String() string {
	if r.Operator == OperatorRange {
		return fmt.Sprintf("%s %s %v (weight %.2f)", r.Field, r.Operator, r.Value, r.Weight)
	}
	return fmt.Sprintf("%s %s (weight %.2f)", r.Field, r.Operator, r.Weight)
}
