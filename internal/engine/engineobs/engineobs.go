package engineobs

import (
	"context"
	"errors"
	"time"

	"trading-risk-assistant/internal/engine"
	"trading-risk-assistant/internal/interfaces"
	"trading-risk-assistant/internal/logger"
	"trading-risk-assistant/internal/metrics"
	"trading-risk-assistant/internal/trace"
	"trading-risk-assistant/internal/types"
)

type observableEvaluator struct {
	evaluator interfaces.Evaluator
}

var _ interfaces.Evaluator = (*observableEvaluator)(nil)

func Wrap(ev interfaces.Evaluator) interfaces.Evaluator {
	return &observableEvaluator{
		evaluator: ev,
	}
}

func (oe *observableEvaluator) Evaluate(ctx context.Context, req types.EvaluationRequest) (types.Decision, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Evaluate")
	defer span.End()

	start := time.Now()

	logger.DebugSkip(ctx, 1, "Starting evaluation",
		"answers", len(req.Answers),
		"consecutive_losses", req.Stats.ConsecutiveLosses,
		"daily_loss_percent", req.Stats.DailyLossPercent,
		"has_trade_inputs", req.Trade != nil,
	)

	d, err := oe.evaluator.Evaluate(ctx, req)
	if err != nil {
		metrics.EvaluationErrorsTotal.WithLabelValues(errorKind(err)).Inc()
		logger.ErrorWithErrSkip(ctx, 1, "Evaluation failed", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return types.Decision{}, err
	}

	metrics.DecisionsTotal.WithLabelValues(string(d.RiskTier)).Inc()
	for _, rule := range d.HardStopViolations {
		metrics.HardStopsTotal.WithLabelValues(rule).Inc()
	}
	if d.HardStopped() {
		logger.HardStop(ctx, d.ID, d.HardStopViolations)
	} else {
		metrics.FinalScore.Observe(d.FinalScore)
	}
	if len(d.Warnings) > 0 {
		metrics.PositionWarningsTotal.Inc()
	}

	fields := []any{
		"risk_percent", d.RiskPercent,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if d.LotSize != nil {
		fields = append(fields, "lot_size", *d.LotSize)
	}
	if len(d.Warnings) > 0 {
		fields = append(fields, "warnings", d.Warnings)
	}
	logger.Decision(ctx, d.ID, string(d.RiskTier), d.ShouldTrade, d.FinalScore, fields...)

	return d, nil
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, engine.ErrMissingAnswer):
		return "missing_answer"
	case errors.Is(err, engine.ErrInvalidAnswer):
		return "invalid_answer"
	case errors.Is(err, engine.ErrInvalidStats):
		return "invalid_stats"
	default:
		return "internal"
	}
}
