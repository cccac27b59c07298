package scheduler

import (
	"context"

	"go.uber.org/zap"

	"trading-risk-assistant/internal/interfaces"
)

const (
	// RetentionSpec runs log retention daily at 00:05.
	RetentionSpec = "0 5 0 * * *"
	// EODCheckSpec polls the EOD cutoff every minute.
	EODCheckSpec = "0 * * * * *"
)

// Compressor is satisfied by the journal.
type Compressor interface {
	CompressOlder(retentionDays int) error
}

// RetentionJob gzips journal files older than retentionDays.
func RetentionJob(c Compressor, retentionDays int, logger *zap.Logger) func(context.Context) {
	return func(ctx context.Context) {
		if retentionDays <= 0 {
			return
		}
		if err := c.CompressOlder(retentionDays); err != nil {
			logger.Warn("journal retention failed", zap.Error(err))
			return
		}
		logger.Debug("journal retention done", zap.Int("retention_days", retentionDays))
	}
}

// EODJob writes the day's summary once the cutoff has passed.
func EODJob(s interfaces.EodSummarizer, logger *zap.Logger) func(context.Context) {
	return func(ctx context.Context) {
		ok, _ := s.ShouldRunNow()
		if !ok {
			return
		}
		p, err := s.SummarizeToday()
		if err != nil {
			logger.Warn("eod summary failed", zap.Error(err))
			return
		}
		if p != "" {
			logger.Info("eod summary written", zap.String("path", p))
		}
	}
}
