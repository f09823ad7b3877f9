package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriterEmitsServiceField(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("sc-auth", "info", &buf)

	log.Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "sc-auth", entry["service"])
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("sc-auth", "warn", &buf)

	log.Info("dropped")
	assert.Empty(t, buf.Bytes())

	log.Warn("kept")
	assert.NotEmpty(t, buf.Bytes())
}

func TestCorrelationIDRoundTrip(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "corr-123")
	assert.Equal(t, "corr-123", CorrelationIDFromContext(ctx))
	assert.Empty(t, CorrelationIDFromContext(context.Background()))
}

func TestWithContextEnrichment(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("sc-auth", "info", &buf)

	ctx := WithCorrelationID(context.Background(), "corr-123")
	ctx = WithUserID(ctx, "0f8fad5bd9cb469fa1656e8eacf2b1a4")

	WithContext(ctx, log).Info("enriched")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "corr-123", entry["correlation_id"])
	assert.Equal(t, "0f8fad5bd9cb469fa1656e8eacf2b1a4", entry["user_id"])
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	var buf bytes.Buffer
	log := NewWithWriter("sc-auth", "info", &buf)
	ctx := NewContext(context.Background(), log)
	assert.Equal(t, log, FromContext(ctx))
}
