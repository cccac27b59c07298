package trace

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDisabled(t *testing.T) {
	t.Setenv("LOG_TRACING_ENABLED", "")
	require.NoError(t, Init())
	assert.False(t, Enabled())

	ctx, span := StartSpan(context.Background(), "engine.Evaluate")
	span.End()
	_, _, ok := GetTraceFields(ctx)
	assert.False(t, ok)
}

func TestSpansWrittenToWriter(t *testing.T) {
	t.Setenv("LOG_TRACING_ENABLED", "true")
	var buf bytes.Buffer
	require.NoError(t, Init(WithWriter(&buf), WithCompactOutput()))
	require.True(t, Enabled())

	ctx, span := StartSpan(context.Background(), "engine.Evaluate")
	traceID, spanID, ok := GetTraceFields(ctx)
	require.True(t, ok)
	assert.Len(t, traceID, 32)
	assert.Len(t, spanID, 16)
	span.End()

	require.NoError(t, Shutdown(context.Background()))
	assert.False(t, Enabled())
	assert.Contains(t, buf.String(), `"Name":"engine.Evaluate"`)
	assert.Contains(t, buf.String(), serviceName)
}

func TestSpansWrittenToFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "spans.jsonl")
	t.Setenv("LOG_TRACING_ENABLED", "true")
	t.Setenv("LOG_TRACING_OUTPUT", out)
	require.NoError(t, Init(WithCompactOutput()))

	_, span := StartSpan(context.Background(), "journal.Append")
	span.End()
	require.NoError(t, Shutdown(context.Background()))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "journal.Append")
}

func TestInitBadOutputDisablesTracing(t *testing.T) {
	t.Setenv("LOG_TRACING_ENABLED", "true")
	t.Setenv("LOG_TRACING_OUTPUT", filepath.Join(t.TempDir(), "missing", "spans.jsonl"))
	require.Error(t, Init())
	assert.False(t, Enabled())
}
