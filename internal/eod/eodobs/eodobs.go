package eodobs

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	oteltrace "go.opentelemetry.io/otel/trace"

	"trading-risk-assistant/internal/interfaces"
	"trading-risk-assistant/internal/logger"
	"trading-risk-assistant/internal/metrics"
	"trading-risk-assistant/internal/trace"
)

type observableEodSummarizer struct {
	summarizer interfaces.EodSummarizer
}

var _ interfaces.EodSummarizer = (*observableEodSummarizer)(nil)

func Wrap(summarizer interfaces.EodSummarizer) interfaces.EodSummarizer {
	return &observableEodSummarizer{
		summarizer: summarizer,
	}
}

func (oes *observableEodSummarizer) SummarizeDay(t time.Time) (string, error) {
	date := t.Format("2006-01-02")
	ctx, span := trace.StartSpan(context.Background(), "eod.SummarizeDay",
		oteltrace.WithAttributes(attribute.String("eod.date", date)))
	defer span.End()

	logger.DebugSkip(ctx, 1, "Summarizing journalled decisions", "date", date)

	csvPath, err := oes.summarizer.SummarizeDay(t)
	record(ctx, span, csvPath, err, "date", date)
	return csvPath, err
}

func (oes *observableEodSummarizer) SummarizeToday() (string, error) {
	ctx, span := trace.StartSpan(context.Background(), "eod.SummarizeToday")
	defer span.End()

	csvPath, err := oes.summarizer.SummarizeToday()
	record(ctx, span, csvPath, err)
	return csvPath, err
}

func (oes *observableEodSummarizer) ShouldRunNow() (bool, string) {
	ctx, span := trace.StartSpan(context.Background(), "eod.ShouldRunNow")
	defer span.End()

	shouldRun, csvPath := oes.summarizer.ShouldRunNow()
	span.SetAttributes(attribute.Bool("eod.should_run", shouldRun))

	logger.DebugSkip(ctx, 1, "EOD cutoff checked",
		"should_run", shouldRun,
		"csv_path", csvPath,
	)
	return shouldRun, csvPath
}

// record counts the run by result and tags the span. An empty path means the
// day had no journalled decisions.
func record(ctx context.Context, span oteltrace.Span, csvPath string, err error, kv ...any) {
	switch {
	case err != nil:
		metrics.EODSummariesTotal.WithLabelValues("error").Inc()
		logger.ErrorWithErrSkip(ctx, 2, "EOD decision summary failed", err, kv...)
	case csvPath == "":
		metrics.EODSummariesTotal.WithLabelValues("empty").Inc()
		logger.InfoSkip(ctx, 2, "No decisions journalled for EOD summary", kv...)
	default:
		metrics.EODSummariesTotal.WithLabelValues("written").Inc()
		span.SetAttributes(attribute.String("eod.csv_path", csvPath))
		logger.InfoSkip(ctx, 2, "EOD decision summary written", append(kv, "csv_path", csvPath)...)
	}
}
