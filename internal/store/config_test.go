package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-risk-assistant/internal/types"
)

const validYAML = `
hard_stops:
  max_consecutive_losses: 3
  max_daily_loss_percent: 5
  min_sleep_hours: 5
  psychology_min_score: 3
  require_clear_bias: true
scoring:
  weights: {psychology: 25, market_conditions: 30, technical_confluence: 45}
  thresholds: {no_trade: 50, risk_2_percent: 70, risk_3_percent: 100}
questions:
  psychology:
    - {id: mental_state, question: "Mental state?", weight: 0.6, type: scale, min: 1, max: 5}
    - {id: sleep_hours, question: "Sleep?", weight: 0.4, type: numeric, min: 0, max: 9}
  market_conditions:
    - {id: clear_bias, question: "Clear bias?", weight: 1.0, type: boolean}
  technical_confluence:
    - {id: structure_clear, question: "Structure?", weight: 0.5, type: boolean}
    - {id: revenge, question: "Revenge?", weight: 0.5, type: boolean, reverse_score: true}
`

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	assert.Equal(t, "sleep_hours", cfg.HardStops.SleepQuestion)
	assert.Equal(t, "clear_bias", cfg.HardStops.BiasQuestion)
	assert.Equal(t, 2.0, cfg.Scoring.RiskPercent.For(types.TierRisk2))
	assert.Equal(t, 3.0, cfg.Scoring.RiskPercent.For(types.TierRisk3))
	assert.Zero(t, cfg.Scoring.RiskPercent.For(types.TierNoTrade))
	assert.Equal(t, 10.0, cfg.LotCalculation.DefaultPipValue)
	assert.Equal(t, 0.01, cfg.LotCalculation.MinLotSize)
	assert.Equal(t, 100.0, cfg.LotCalculation.MaxLotSize)
	assert.Equal(t, 0.01, cfg.LotCalculation.LotStep)
	assert.Equal(t, 3, cfg.Coach.DaysInactiveWarning)

	q, cat, ok := cfg.FindQuestion("revenge")
	require.True(t, ok)
	assert.Equal(t, types.CategoryTechnicalConfluence, cat)
	assert.True(t, q.ReverseScore)
}

func TestLoadConfigSampleFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "config.yaml"))
	require.NoError(t, err)
	for _, cat := range types.Categories {
		assert.NotEmpty(t, cfg.Questions[cat], cat)
	}
	assert.Equal(t, 1.0, cfg.LotCalculation.PipValue("xauusd"))
	assert.Equal(t, 10.0, cfg.LotCalculation.PipValue("AUDNZD"))
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name  string
		from  string
		to    string
		field string
	}{
		{"weights off by more than tolerance", "technical_confluence: 45}", "technical_confluence: 45.02}", "scoring.weights"},
		{"thresholds not increasing", "risk_2_percent: 70,", "risk_2_percent: 40,", "scoring.thresholds"},
		{"threshold above 100", "risk_3_percent: 100}", "risk_3_percent: 101}", "scoring.thresholds.risk_3_percent"},
		{"question weights off", "weight: 0.6, type: scale", "weight: 0.7, type: scale", "questions.psychology"},
		{"unknown type", "type: numeric", "type: slider", "questions.psychology[1].type"},
		{"min not below max", "min: 0, max: 9", "min: 9, max: 9", "questions.psychology[1]"},
		{"duplicate id", "id: structure_clear", "id: clear_bias", "questions.technical_confluence[0].id"},
		{"reverse on scale", "type: scale, min: 1, max: 5}", "type: scale, min: 1, max: 5, reverse_score: true}", "questions.psychology[0].reverse_score"},
		{"unknown category", "  market_conditions:\n", "  vibes:\n    - {id: v, question: v, weight: 1, type: boolean}\n  market_conditions:\n", "questions.vibes"},
		{"consecutive losses unset", "  max_consecutive_losses: 3\n", "", "hard_stops.max_consecutive_losses"},
		{"consecutive losses zero", "max_consecutive_losses: 3", "max_consecutive_losses: 0", "hard_stops.max_consecutive_losses"},
		{"daily loss unset", "  max_daily_loss_percent: 5\n", "", "hard_stops.max_daily_loss_percent"},
		{"daily loss negative", "max_daily_loss_percent: 5", "max_daily_loss_percent: -1", "hard_stops.max_daily_loss_percent"},
		{"psychology minimum negative", "psychology_min_score: 3", "psychology_min_score: -1", "hard_stops.psychology_min_score"},
		{"nan category weight", "psychology: 25,", "psychology: .nan,", "scoring.weights.psychology"},
		{"infinite threshold", "risk_3_percent: 100}", "risk_3_percent: .inf}", "scoring.thresholds.risk_3_percent"},
		{"nan daily loss", "max_daily_loss_percent: 5", "max_daily_loss_percent: .nan", "hard_stops.max_daily_loss_percent"},
		{"nan sleep minimum", "min_sleep_hours: 5", "min_sleep_hours: .nan", "hard_stops.min_sleep_hours"},
		{"nan question weight", "weight: 0.6, type: scale", "weight: .nan, type: scale", "questions.psychology[0].weight"},
		{"infinite question max", "min: 0, max: 9", "min: 0, max: .inf", "questions.psychology[1].max"},
		{"undeclared bias question", "require_clear_bias: true", "require_clear_bias: true\n  bias_question: has_bias", "hard_stops.bias_question"},
		{"bias question not boolean", "require_clear_bias: true", "require_clear_bias: true\n  bias_question: mental_state", "hard_stops.bias_question"},
		{"undeclared sleep question", "min_sleep_hours: 5", "min_sleep_hours: 5\n  sleep_question: hours_slept", "hard_stops.sleep_question"},
		{"sleep question boolean", "min_sleep_hours: 5", "min_sleep_hours: 5\n  sleep_question: clear_bias", "hard_stops.sleep_question"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := strings.Replace(validYAML, tt.from, tt.to, 1)
			require.NotEqual(t, validYAML, src, "fixture replacement did not apply")

			_, err := Parse([]byte(src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config validation failed")

			var cve *ConfigValidationError
			require.True(t, errors.As(err, &cve))
			assert.Equal(t, tt.field, cve.Field)
		})
	}
}

func TestValidateWeightsWithinTolerance(t *testing.T) {
	src := strings.Replace(validYAML, "technical_confluence: 45}", "technical_confluence: 45.005}", 1)
	_, err := Parse([]byte(src))
	assert.NoError(t, err)

	src = strings.Replace(validYAML, "weight: 0.6, type: scale", "weight: 0.6005, type: scale", 1)
	_, err = Parse([]byte(src))
	assert.NoError(t, err)
}

func TestValidateMissingCategory(t *testing.T) {
	src := validYAML[:strings.Index(validYAML, "  technical_confluence:")]
	_, err := Parse([]byte(src))
	var cve *ConfigValidationError
	require.True(t, errors.As(err, &cve))
	assert.Equal(t, "questions.technical_confluence", cve.Field)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestValidateRejectsNonFiniteLotCalculation(t *testing.T) {
	for field, block := range map[string]string{
		"lot_calculation.min_lot_size":      "lot_calculation:\n  min_lot_size: .nan\n",
		"lot_calculation.lot_step":          "lot_calculation:\n  lot_step: .inf\n",
		"lot_calculation.pip_values.EURUSD": "lot_calculation:\n  pip_values: {EURUSD: .nan}\n",
	} {
		t.Run(field, func(t *testing.T) {
			_, err := Parse([]byte(validYAML + block))
			var cve *ConfigValidationError
			require.True(t, errors.As(err, &cve), "got %v", err)
			assert.Equal(t, field, cve.Field)
		})
	}
}

func TestValidateMissingHardStopsSection(t *testing.T) {
	src := validYAML[strings.Index(validYAML, "scoring:"):]
	_, err := Parse([]byte(src))
	var cve *ConfigValidationError
	require.True(t, errors.As(err, &cve))
	assert.Equal(t, "hard_stops.max_consecutive_losses", cve.Field)
}

func TestValidateIgnoresQuestionsOfDisabledRules(t *testing.T) {
	src := strings.Replace(validYAML, "require_clear_bias: true", "require_clear_bias: false\n  bias_question: has_bias", 1)
	src = strings.Replace(src, "min_sleep_hours: 5", "min_sleep_hours: 0\n  sleep_question: hours_slept", 1)
	cfg, err := Parse([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, "has_bias", cfg.HardStops.BiasQuestion)
}

func TestScaleQuestions(t *testing.T) {
	cfg, err := Parse([]byte(validYAML))
	require.NoError(t, err)

	qs := cfg.ScaleQuestions(types.CategoryPsychology)
	require.Len(t, qs, 1)
	assert.Equal(t, "mental_state", qs[0].ID)
	assert.Empty(t, cfg.ScaleQuestions(types.CategoryTechnicalConfluence))
}
