package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/statement-reconciler/internal/common"
	"github.com/Veraticus/statement-reconciler/internal/matcher"
	"github.com/Veraticus/statement-reconciler/internal/model"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("RECONCILE_TEST_DIR", "/tmp/reconcile")

	tests := []struct {
		input string
		want  string
	}{
		{input: "", want: ""},
		{input: "~", want: home},
		{input: "~/ledger.db", want: filepath.Join(home, "ledger.db")},
		{input: "$RECONCILE_TEST_DIR/ledger.db", want: "/tmp/reconcile/ledger.db"},
		{input: "/var/lib/ledger.db", want: "/var/lib/ledger.db"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.input))
		})
	}

	assert.True(t, strings.HasSuffix(DefaultDatabasePath(), filepath.Join(".local", "share", "reconcile", "reconcile.db")))
}

func TestParseRules(t *testing.T) {
	t.Run("rules key", func(t *testing.T) {
		rules, err := ParseRules([]byte(`
rules:
  - field: description
    operator: fuzzy
    weight: 0.6
  - field: amount
    operator: exact
    weight: 0.4
  - field: date
    operator: range
    value: 3
    weight: 1
`))
		require.NoError(t, err)
		require.Len(t, rules, 3)
		assert.Equal(t, model.MatchingRule{Field: model.FieldDescription, Operator: model.OperatorFuzzy, Weight: 0.6}, rules[0])
		assert.Equal(t, model.MatchingRule{Field: model.FieldDate, Operator: model.OperatorRange, Value: 3, Weight: 1}, rules[2])
	})

	t.Run("bare list", func(t *testing.T) {
		rules, err := ParseRules([]byte("- field: description\n  operator: contains\n  weight: 1\n"))
		require.NoError(t, err)
		require.Len(t, rules, 1)
		assert.Equal(t, model.OperatorContains, rules[0].Operator)
	})

	t.Run("invalid rule", func(t *testing.T) {
		_, err := ParseRules([]byte("rules:\n  - field: amount\n    operator: fuzzy\n    weight: 1\n"))
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
		assert.ErrorIs(t, err, model.ErrInvalidRule)
		assert.Contains(t, err.Error(), "rule 1")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := ParseRules([]byte("rules: [field: {"))
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("rules:\n  - field: amount\n    operator: range\n    value: 0.5\n    weight: 1\n"), 0600))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.InDelta(t, 0.5, rules[0].Value, 1e-9)

	_, err = LoadRules(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func newViper(t *testing.T, yamlConfig string) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(yamlConfig)))
	return v
}

func TestLoadMatching(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadMatching(newViper(t, "{}"))
		require.NoError(t, err)
		assert.InDelta(t, matcher.DefaultThreshold, cfg.Threshold, 1e-9)
		assert.Equal(t, matcher.AggregationAverage, cfg.Aggregation)
		assert.Empty(t, cfg.Rules)

		mc, err := cfg.MatcherConfig()
		require.NoError(t, err)
		assert.Equal(t, matcher.AggregationAverage, mc.Aggregator.Name())
		assert.False(t, mc.Exclusive)
	})

	t.Run("configured", func(t *testing.T) {
		cfg, err := LoadMatching(newViper(t, `
matching:
  threshold: 0.8
  aggregation: weighted
  exclusive: true
  date_window_days: 5
  rules:
    - field: description
      operator: fuzzy
      weight: 0.6
    - field: amount
      operator: exact
      weight: 0.4
`))
		require.NoError(t, err)
		require.Len(t, cfg.Rules, 2)
		assert.Equal(t, model.FieldAmount, cfg.Rules[1].Field)

		mc, err := cfg.MatcherConfig()
		require.NoError(t, err)
		assert.Equal(t, matcher.AggregationWeighted, mc.Aggregator.Name())
		assert.InDelta(t, 0.8, mc.Threshold, 1e-9)
		assert.True(t, mc.Exclusive)
		assert.Equal(t, 5, mc.DateWindowDays)
	})

	tests := []struct {
		name   string
		config string
	}{
		{name: "threshold above one", config: "matching:\n  threshold: 1.5\n"},
		{name: "unknown aggregation", config: "matching:\n  aggregation: median\n"},
		{name: "zero threshold", config: "matching:\n  threshold: 0\n"},
		{name: "negative window", config: "matching:\n  date_window_days: -1\n"},
		{name: "invalid rule", config: "matching:\n  rules:\n    - field: date\n      operator: contains\n      weight: 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadMatching(newViper(t, tt.config))
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
		})
	}
}

func TestLoadImport(t *testing.T) {
	assert.Equal(t, "Uncategorized", LoadImport(newViper(t, "{}")).DefaultCategory)
	assert.Equal(t, "Suspense", LoadImport(newViper(t, "import:\n  default_category: Suspense\n")).DefaultCategory)
}
