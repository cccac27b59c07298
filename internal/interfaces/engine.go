package interfaces

import (
	"context"

	"trading-risk-assistant/internal/store"
	"trading-risk-assistant/internal/types"
)

// Evaluator turns one set of answers, stats and optional trade inputs into a
// Decision. Implementations hold no per-call state.
type Evaluator interface {
	Evaluate(ctx context.Context, req types.EvaluationRequest) (types.Decision, error)
}

// RulesProvider hands out the active, validated rule set.
type RulesProvider interface {
	Current() *store.Config
}
