package engine

import (
	"fmt"
	"math"

	"trading-risk-assistant/internal/store"
	"trading-risk-assistant/internal/types"
)

// Hard-stop rule identifiers, reported in this order.
const (
	RuleMaxConsecutiveLosses = "max_consecutive_losses"
	RuleMaxDailyLossPercent  = "max_daily_loss_percent"
	RuleMinSleepHours        = "min_sleep_hours"
	RulePsychologyMinScore   = "psychology_min_score"
	RuleRequireClearBias     = "require_clear_bias"
)

// ValidateStats rejects stats the loss rules cannot be compared against.
// A negative daily loss is allowed; the rule looks at its magnitude.
func ValidateStats(stats types.Stats) error {
	if stats.ConsecutiveLosses < 0 {
		return &InvalidStatsError{Field: "consecutive_losses", Reason: fmt.Sprintf("must be >= 0, got %d", stats.ConsecutiveLosses)}
	}
	if math.IsNaN(stats.DailyLossPercent) || math.IsInf(stats.DailyLossPercent, 0) {
		return &InvalidStatsError{Field: "daily_loss_percent", Reason: "must be a finite number"}
	}
	return nil
}

// EvaluateHardStops returns the identifiers of every violated rule, or an
// empty slice. It never fails: a rule whose input is absent is skipped,
// except the clear-bias rule where a missing bias counts as no bias.
func EvaluateHardStops(stats types.Stats, answers types.Answers, cfg *store.Config) []string {
	hs := cfg.HardStops
	violations := []string{}

	if stats.ConsecutiveLosses >= hs.MaxConsecutiveLosses {
		violations = append(violations, RuleMaxConsecutiveLosses)
	}

	if math.Abs(stats.DailyLossPercent) >= hs.MaxDailyLossPercent {
		violations = append(violations, RuleMaxDailyLossPercent)
	}

	if sleep, ok := types.Number(answers[hs.SleepQuestion]); ok && sleep < hs.MinSleepHours {
		violations = append(violations, RuleMinSleepHours)
	}

	if avg, ok := psychologyRawScore(answers, cfg); ok && avg < hs.PsychologyMinScore {
		violations = append(violations, RulePsychologyMinScore)
	}

	if hs.RequireClearBias {
		if bias, ok := answers[hs.BiasQuestion].(bool); !ok || !bias {
			violations = append(violations, RuleRequireClearBias)
		}
	}

	return violations
}

// psychologyRawScore averages the raw values of the psychology scale
// questions, before any normalization or weighting.
func psychologyRawScore(answers types.Answers, cfg *store.Config) (float64, bool) {
	var sum float64
	var n int
	for _, q := range cfg.ScaleQuestions(types.CategoryPsychology) {
		v, ok := types.Number(answers[q.ID])
		if !ok {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
