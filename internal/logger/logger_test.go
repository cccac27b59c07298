package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureJSON(t *testing.T, detailed bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, InitWithConfig(LogConfig{
		Level:           "DEBUG",
		Format:          "json",
		DetailedLogging: detailed,
		Output:          &buf,
	}))
	t.Cleanup(func() { _ = InitWithConfig(LogConfig{Level: "INFO"}) })
	return &buf
}

func lines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if l == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(l), &m))
		out = append(out, m)
	}
	return out
}

func TestDecisionFields(t *testing.T) {
	buf := captureJSON(t, false)
	Decision(context.Background(), "dec-1", "risk_3_percent", true, 82.5, "pair", "EURUSD")

	got := lines(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "INFO", got[0]["level"])
	assert.Equal(t, "DECISION", got[0]["type"])
	assert.Equal(t, "dec-1", got[0]["decision_id"])
	assert.Equal(t, "risk_3_percent", got[0]["risk_tier"])
	assert.Equal(t, true, got[0]["should_trade"])
	assert.Equal(t, 82.5, got[0]["final_score"])
	assert.Equal(t, "EURUSD", got[0]["pair"])
}

func TestHardStopIsWarning(t *testing.T) {
	buf := captureJSON(t, false)
	HardStop(context.Background(), "dec-2", []string{"max_consecutive_losses"})

	got := lines(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "WARN", got[0]["level"])
	assert.Equal(t, "HARD_STOP", got[0]["type"])
	assert.Equal(t, []any{"max_consecutive_losses"}, got[0]["violations"])
}

func TestDebugNeedsDetailedLogging(t *testing.T) {
	buf := captureJSON(t, false)
	Debug(context.Background(), "hidden")
	assert.Empty(t, buf.String())
	assert.False(t, IsDebugEnabled())

	buf = captureJSON(t, true)
	Debug(context.Background(), "shown")
	got := lines(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "shown", got[0]["msg"])
	assert.Contains(t, got[0], "source")
}

func TestErrorWithErr(t *testing.T) {
	buf := captureJSON(t, false)
	ErrorWithErr(context.Background(), "journal write failed", errors.New("disk full"), "decision_id", "dec-3")

	got := lines(t, buf)
	require.Len(t, got, 1)
	assert.Equal(t, "disk full", got[0]["error"])
	assert.Equal(t, "dec-3", got[0]["decision_id"])
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLogLevel("debug").String())
	assert.Equal(t, "WARN", parseLogLevel("WARN").String())
	assert.Equal(t, "INFO", parseLogLevel("verbose").String())
}

func TestNewZap(t *testing.T) {
	l, err := NewZap(LogConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(-1))
	assert.True(t, l.Core().Enabled(1))
}
