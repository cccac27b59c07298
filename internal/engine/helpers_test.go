package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"trading-risk-assistant/internal/store"
	"trading-risk-assistant/internal/types"
)

const testRulesYAML = `
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
    - {id: mental_state, question: "Mental state?", weight: 0.35, type: scale, min: 1, max: 5}
    - {id: emotional_control, question: "Emotional control?", weight: 0.25, type: scale, min: 1, max: 5}
    - {id: sleep_hours, question: "Sleep?", weight: 0.25, type: numeric, min: 0, max: 9}
    - {id: revenge_trading, question: "Revenge urge?", weight: 0.15, type: boolean, reverse_score: true}
  market_conditions:
    - {id: clear_bias, question: "Clear bias?", weight: 0.4, type: boolean}
    - {id: volatility_normal, question: "Normal volatility?", weight: 0.3, type: boolean}
    - {id: session_quality, question: "Session quality?", weight: 0.3, type: scale, min: 1, max: 5}
  technical_confluence:
    - {id: structure_clear, question: "Structure clear?", weight: 0.25, type: boolean}
    - {id: htf_alignment, question: "HTF aligned?", weight: 0.25, type: boolean}
    - {id: poi_reaction, question: "POI reaction?", weight: 0.2, type: boolean}
    - {id: risk_reward, question: "Risk/reward?", weight: 0.3, type: numeric, min: 1, max: 4}
lot_calculation:
  pip_values: {XAUUSD: 1}
`

var fixedTime = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func testRules(t *testing.T) *store.Config {
	t.Helper()
	cfg, err := store.Parse([]byte(testRulesYAML))
	require.NoError(t, err)
	return cfg
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	return New(store.Static(testRules(t)),
		WithClock(func() time.Time { return fixedTime }),
		WithIDGenerator(func() string { return "dec-1" }),
	)
}

// goodAnswers scores psychology 93.75, market 92.5, technical 70.
func goodAnswers() types.Answers {
	return types.Answers{
		"mental_state":      5,
		"emotional_control": 4,
		"sleep_hours":       9,
		"revenge_trading":   false,
		"clear_bias":        true,
		"volatility_normal": true,
		"session_quality":   4,
		"structure_clear":   true,
		"htf_alignment":     true,
		"poi_reaction":      false,
		"risk_reward":       3,
	}
}

// weakAnswers pass every hard stop but score below the no-trade threshold.
func weakAnswers() types.Answers {
	return types.Answers{
		"mental_state":      3,
		"emotional_control": 3,
		"sleep_hours":       5,
		"revenge_trading":   true,
		"clear_bias":        true,
		"volatility_normal": false,
		"session_quality":   1,
		"structure_clear":   false,
		"htf_alignment":     false,
		"poi_reaction":      false,
		"risk_reward":       1,
	}
}
