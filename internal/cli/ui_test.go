package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-risk-assistant/internal/types"
)

func TestFormatDecisionTradeable(t *testing.T) {
	lot := 0.15
	d := types.Decision{
		ID:                 "dec-1",
		ShouldTrade:        true,
		HardStopViolations: []string{},
		CategoryScores: map[string]float64{
			types.CategoryPsychology:          93.75,
			types.CategoryMarketConditions:    92.5,
			types.CategoryTechnicalConfluence: 70,
		},
		FinalScore:  82.69,
		RiskTier:    types.TierRisk3,
		RiskPercent: 3,
		LotSize:     &lot,
		Inputs: types.InputSnapshot{
			Answers: types.Answers{"sleep_quality": 4},
			Stats:   types.Stats{ConsecutiveLosses: 1, DailyLossPercent: 0.5},
			Trade:   &types.TradeInputs{Balance: 1000, SLPips: 20, Pair: "EURUSD"},
		},
		CreatedAt: time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC),
	}

	out := FormatDecision(d)
	for _, want := range []string{
		"GO: trade allowed",
		"dec-1",
		"2026-05-10T09:00:00Z",
		"Hard stops: none",
		"psychology",
		"93.75/100",
		"82.69/100",
		"RISK 3% (risk_3_percent)",
		"3%",
		"0.15",
		"EURUSD",
		"sleep_quality",
	} {
		assert.Contains(t, out, want)
	}
}

func TestFormatDecisionHardStopped(t *testing.T) {
	d := types.Decision{
		ID:                 "dec-2",
		HardStopViolations: []string{"max_consecutive_losses", "max_daily_loss_percent"},
		CategoryScores:     map[string]float64{},
		RiskTier:           types.TierNoTrade,
		Warnings:           []string{"balance must be positive"},
	}

	out := FormatDecision(d)
	assert.Contains(t, out, "NO-GO")
	assert.Contains(t, out, "max_consecutive_losses")
	assert.Contains(t, out, "max_daily_loss_percent")
	assert.Contains(t, out, "not scored")
	assert.Contains(t, out, "n/a")
	assert.Contains(t, out, "warning: balance must be positive")
}

func TestFormatEntries(t *testing.T) {
	assert.Contains(t, FormatEntries(nil), "No journal entries")

	out := FormatEntries([]types.JournalEntry{{
		Decision: types.Decision{
			HardStopViolations: []string{"require_clear_bias"},
			RiskTier:           types.TierNoTrade,
		},
		Notes: "skipped NFP",
	}})
	assert.Contains(t, out, "stops=require_clear_bias")
	assert.Contains(t, out, "skipped NFP")
}

func TestFormatInsights(t *testing.T) {
	out := FormatInsights(types.Insights{DailyMotivation: "Stay patient."})
	assert.Contains(t, out, "Stay patient.")
	assert.Contains(t, out, "Everything looks fine")

	out = FormatInsights(types.Insights{DailyMotivation: "Go.", HardStops: "Hard stops are triggering often."})
	assert.Contains(t, out, "Hard stops are triggering often.")
	assert.NotContains(t, out, "Everything looks fine")
}

func TestLoadRequestFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "answers.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
answers:
  sleep_quality: 4
  clear_bias: true
  spread_pips: 1.2
stats:
  consecutive_losses: 2
  daily_loss_percent: 1.5
trade:
  balance: 1000
  sl_pips: 20
  pair: EURUSD
`), 0o644))

	req, err := LoadRequestFile(p)
	require.NoError(t, err)
	assert.Equal(t, 4, req.Answers["sleep_quality"])
	assert.Equal(t, true, req.Answers["clear_bias"])
	assert.Equal(t, 1.2, req.Answers["spread_pips"])
	assert.Equal(t, types.Stats{ConsecutiveLosses: 2, DailyLossPercent: 1.5}, req.Stats)
	require.NotNil(t, req.Trade)
	assert.Equal(t, "EURUSD", req.Trade.Pair)
}

func TestLoadRequestFileWithoutAnswers(t *testing.T) {
	p := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(p, []byte("stats:\n  consecutive_losses: 0\n"), 0o644))

	req, err := LoadRequestFile(p)
	require.NoError(t, err)
	assert.NotNil(t, req.Answers)
	assert.Nil(t, req.Trade)
}

func TestLoadRequestFileInvalid(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(p, []byte("answers: [1, 2"), 0o644))

	_, err := LoadRequestFile(p)
	assert.ErrorContains(t, err, "parse answers file")
}
