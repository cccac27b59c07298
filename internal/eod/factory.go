package eod

import (
	"time"

	"trading-risk-assistant/internal/interfaces"
	"trading-risk-assistant/internal/types"
)

// DayReader is the part of the journal the summarizer needs.
type DayReader interface {
	Day(t time.Time) ([]types.JournalEntry, error)
	Root() string
}

type Option func(*eodSummarizer)

func WithClock(now func() time.Time) Option {
	return func(s *eodSummarizer) {
		s.now = now
	}
}

// WithCutoff sets the local time after which ShouldRunNow reports true.
func WithCutoff(hour, minute int) Option {
	return func(s *eodSummarizer) {
		s.cutoffHour = hour
		s.cutoffMinute = minute
	}
}

// NewSummarizer builds a summarizer over j. The cutoff defaults to
// RISK_EOD_CUTOFF, or 22:00 when unset or malformed.
func NewSummarizer(j DayReader, opts ...Option) interfaces.EodSummarizer {
	h, m, err := cutoffFromEnv()
	if err != nil {
		h, m, _ = parseCutoff(defaultCutoff)
	}
	s := &eodSummarizer{
		journal:      j,
		now:          time.Now,
		cutoffHour:   h,
		cutoffMinute: m,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
