package eodobs

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"trading-risk-assistant/internal/metrics"
)

type stubSummarizer struct {
	path      string
	err       error
	shouldRun bool
	days      []time.Time
}

func (s *stubSummarizer) SummarizeDay(t time.Time) (string, error) {
	s.days = append(s.days, t)
	return s.path, s.err
}

func (s *stubSummarizer) SummarizeToday() (string, error) {
	return s.path, s.err
}

func (s *stubSummarizer) ShouldRunNow() (bool, string) {
	return s.shouldRun, s.path
}

func TestWrapCountsResults(t *testing.T) {
	day := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		stub   *stubSummarizer
		result string
	}{
		{"written", &stubSummarizer{path: "logs/eod/2026-05-10.csv"}, "written"},
		{"no decisions", &stubSummarizer{}, "empty"},
		{"failure", &stubSummarizer{err: errors.New("disk full")}, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(metrics.EODSummariesTotal.WithLabelValues(tt.result))

			p, err := Wrap(tt.stub).SummarizeDay(day)
			assert.Equal(t, tt.stub.path, p)
			assert.Equal(t, tt.stub.err, err)
			assert.Equal(t, []time.Time{day}, tt.stub.days)
			assert.Equal(t, before+1, testutil.ToFloat64(metrics.EODSummariesTotal.WithLabelValues(tt.result)))
		})
	}
}

func TestWrapSummarizeTodayAndCutoff(t *testing.T) {
	stub := &stubSummarizer{path: "logs/eod/today.csv", shouldRun: true}
	s := Wrap(stub)

	before := testutil.ToFloat64(metrics.EODSummariesTotal.WithLabelValues("written"))
	p, err := s.SummarizeToday()
	assert.NoError(t, err)
	assert.Equal(t, stub.path, p)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.EODSummariesTotal.WithLabelValues("written")))

	run, p := s.ShouldRunNow()
	assert.True(t, run)
	assert.Equal(t, stub.path, p)
}
