package config

import (
	"fmt"

	"github.com/Veraticus/statement-reconciler/internal/common"
	"github.com/Veraticus/statement-reconciler/internal/matcher"
	"github.com/Veraticus/statement-reconciler/internal/model"
	"github.com/spf13/viper"
)

// MatchingConfig mirrors the matching section of config.yaml.
type MatchingConfig struct {
	Aggregation     string               `mapstructure:"aggregation"`
	Rules           []model.MatchingRule `mapstructure:"rules"`
	Threshold       float64              `mapstructure:"threshold"`
	DateWindowDays  int                  `mapstructure:"date_window_days"`
	Exclusive       bool                 `mapstructure:"exclusive"`
	AllowEmptyRules bool                 `mapstructure:"allow_empty_rules"`
}

// ImportConfig mirrors the import section of config.yaml.
type ImportConfig struct {
	DefaultCategory string `mapstructure:"default_category"`
}

// SetDefaults registers default values for every key the application reads.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath())
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("matching.threshold", matcher.DefaultThreshold)
	v.SetDefault("matching.aggregation", matcher.AggregationAverage)
	v.SetDefault("matching.exclusive", false)
	v.SetDefault("matching.allow_empty_rules", false)
	v.SetDefault("matching.date_window_days", 0)
	v.SetDefault("import.default_category", "Uncategorized")
}

// LoadMatching reads and validates the matching section. Keys are read one by
// one so defaults still apply when config.yaml sets only part of the section.
func LoadMatching(v *viper.Viper) (MatchingConfig, error) {
	cfg := MatchingConfig{
		Aggregation:     v.GetString("matching.aggregation"),
		Threshold:       v.GetFloat64("matching.threshold"),
		DateWindowDays:  v.GetInt("matching.date_window_days"),
		Exclusive:       v.GetBool("matching.exclusive"),
		AllowEmptyRules: v.GetBool("matching.allow_empty_rules"),
	}
	if err := v.UnmarshalKey("matching.rules", &cfg.Rules); err != nil {
		return cfg, fmt.Errorf("%w: matching.rules: %w", common.ErrInvalidConfig, err)
	}

	if cfg.Threshold <= 0 || cfg.Threshold > 1 {
		return cfg, fmt.Errorf("%w: matching.threshold must be in (0, 1], got %v", common.ErrInvalidConfig, cfg.Threshold)
	}
	if cfg.DateWindowDays < 0 {
		return cfg, fmt.Errorf("%w: matching.date_window_days must be non-negative", common.ErrInvalidConfig)
	}
	if err := ValidateRules(cfg.Rules); err != nil {
		return cfg, err
	}
	if _, err := matcher.AggregatorByName(cfg.Aggregation); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadImport reads the import section.
func LoadImport(v *viper.Viper) ImportConfig {
	return ImportConfig{DefaultCategory: v.GetString("import.default_category")}
}

// MatcherConfig converts the matching section into matcher settings.
func (c MatchingConfig) MatcherConfig() (matcher.Config, error) {
	agg, err := matcher.AggregatorByName(c.Aggregation)
	if err != nil {
		return matcher.Config{}, err
	}

	cfg := matcher.DefaultConfig()
	cfg.Aggregator = agg
	cfg.Threshold = c.Threshold
	cfg.Exclusive = c.Exclusive
	cfg.AllowEmptyRules = c.AllowEmptyRules
	cfg.DateWindowDays = c.DateWindowDays
	return cfg, nil
}
