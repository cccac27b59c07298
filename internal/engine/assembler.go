package engine

import (
	"maps"
	"slices"
	"time"

	"trading-risk-assistant/internal/types"
)

// outcome collects what the pipeline stages produced for one call.
type outcome struct {
	violations  []string
	scores      ScoreResult
	tier        types.RiskTier
	riskPercent float64
	lotSize     *float64
	warnings    []string
}

// assembleDecision builds the Decision record. Every map and slice is freshly
// allocated so the record shares nothing with the caller's inputs.
func assembleDecision(id string, createdAt time.Time, req types.EvaluationRequest, out outcome) types.Decision {
	violations := slices.Clone(out.violations)
	if violations == nil {
		violations = []string{}
	}
	categoryScores := maps.Clone(out.scores.CategoryScores)
	if categoryScores == nil {
		categoryScores = map[string]float64{}
	}

	d := types.Decision{
		ID:                 id,
		HardStopViolations: violations,
		CategoryScores:     categoryScores,
		QuestionScores:     slices.Clone(out.scores.QuestionScores),
		FinalScore:         out.scores.FinalScore,
		RiskTier:           out.tier,
		RiskPercent:        out.riskPercent,
		Warnings:           slices.Clone(out.warnings),
		Inputs:             snapshot(req),
		CreatedAt:          createdAt,
	}
	if out.lotSize != nil {
		lot := *out.lotSize
		d.LotSize = &lot
	}

	if len(violations) > 0 {
		d.ShouldTrade = false
		d.RiskTier = types.TierNoTrade
		d.RiskPercent = 0
		d.LotSize = nil
	} else {
		d.ShouldTrade = d.RiskTier != types.TierNoTrade
	}
	return d
}

func snapshot(req types.EvaluationRequest) types.InputSnapshot {
	s := types.InputSnapshot{
		Answers: req.Answers.Clone(),
		Stats:   req.Stats,
	}
	if req.Trade != nil {
		trade := *req.Trade
		s.Trade = &trade
	}
	return s
}
