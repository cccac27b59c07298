package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trading-risk-assistant/internal/interfaces"
	"trading-risk-assistant/internal/logger"
	"trading-risk-assistant/internal/types"
)

// Engine is the decision engine. It holds no per-call state and is safe for
// concurrent use; each call reads one rules snapshot up front.
type Engine struct {
	rules interfaces.RulesProvider
	now   func() time.Time
	newID func() string
}

var _ interfaces.Evaluator = (*Engine)(nil)

// Evaluate runs the pipeline: stats check, hard stops, answer validation and
// scoring, tier resolution and, when trade inputs are given and the tier
// allows trading, position sizing.
func (e *Engine) Evaluate(ctx context.Context, req types.EvaluationRequest) (types.Decision, error) {
	cfg := e.rules.Current()
	if cfg == nil {
		return types.Decision{}, errors.New("no rules loaded")
	}

	if err := ValidateStats(req.Stats); err != nil {
		return types.Decision{}, err
	}

	id := e.newID()
	createdAt := e.now()

	// A hard stop ends the call before any answer is validated or scored.
	if violations := EvaluateHardStops(req.Stats, req.Answers, cfg); len(violations) > 0 {
		logger.Debug(ctx, "Hard stops violated, skipping scoring",
			"decision_id", id,
			"violations", violations,
		)
		return assembleDecision(id, createdAt, req, outcome{
			violations: violations,
			tier:       types.TierNoTrade,
		}), nil
	}

	scores, err := ComputeScores(req.Answers, cfg)
	if err != nil {
		return types.Decision{}, err
	}
	logger.Debug(ctx, "Scores computed",
		"decision_id", id,
		"category_scores", scores.CategoryScores,
		"final_score", scores.FinalScore,
	)

	out := outcome{
		scores: scores,
		tier:   ResolveTier(scores.FinalScore, cfg.Scoring.Thresholds),
	}
	out.riskPercent = cfg.Scoring.RiskPercent.For(out.tier)

	if out.tier != types.TierNoTrade && req.Trade != nil {
		t := req.Trade
		lot, err := SizePosition(t.Balance, out.riskPercent, t.SLPips, t.Pair, cfg.LotCalculation)
		if err != nil {
			var posErr *InvalidPositionInputError
			if !errors.As(err, &posErr) {
				return types.Decision{}, fmt.Errorf("size position: %w", err)
			}
			logger.Warn(ctx, "Position not sized",
				"decision_id", id,
				"field", posErr.Field,
				"value", posErr.Value,
			)
			out.warnings = append(out.warnings, "invalid_position_input: "+posErr.Field+" must be > 0")
		} else {
			out.lotSize = &lot
		}
	}

	return assembleDecision(id, createdAt, req, out), nil
}
