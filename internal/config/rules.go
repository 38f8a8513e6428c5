package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/Veraticus/statement-reconciler/internal/common"
	"github.com/Veraticus/statement-reconciler/internal/model"
	"gopkg.in/yaml.v3"
)

// RulesFile is the on-disk layout of a standalone rules file.
//
//	rules:
//	  - field: description
//	    operator: fuzzy
//	    weight: 0.6
//	  - field: amount
//	    operator: exact
//	    weight: 0.4
type RulesFile struct {
	Rules []model.MatchingRule `yaml:"rules"`
}

// LoadRules reads and validates a YAML rules file. A bare list of rules is
// accepted as well as the RulesFile layout.
func LoadRules(path string) ([]model.MatchingRule, error) {
	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: rules file %s", common.ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	return ParseRules(data)
}

// ParseRules decodes rules from YAML and validates each one.
func ParseRules(data []byte) ([]model.MatchingRule, error) {
	var rules []model.MatchingRule

	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("-")) {
		if err := yaml.Unmarshal(data, &rules); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
		}
	} else {
		var file RulesFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
		}
		rules = file.Rules
	}

	if err := ValidateRules(rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// ValidateRules checks every rule and reports the first invalid one by position.
func ValidateRules(rules []model.MatchingRule) error {
	for i, rule := range rules {
		if err := rule.Validate(); err != nil {
			return fmt.Errorf("%w: rule %d: %w", common.ErrInvalidConfig, i+1, err)
		}
	}
	return nil
}
