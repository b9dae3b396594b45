package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesJSONWithRequestID(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "debug", Encoding: "json", Output: &buf})
	require.NoError(t, err)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	WithRequestID(ctx, log).Debug("hello")
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Contains(t, entry, "timestamp")
}

func TestNewFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "verbose", Output: &buf})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("shown")
	require.NoError(t, log.Sync())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestWithRequestIDWithoutID(t *testing.T) {
	assert.NotNil(t, WithRequestID(context.Background(), nil))
	assert.Empty(t, RequestID(context.Background()))
}
