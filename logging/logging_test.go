package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InjectsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, FormatJSON, slog.LevelInfo)
	require.NoError(t, err)

	ctx := WithRequestID(context.Background(), "req-123")
	log.With("component", "test").InfoContext(ctx, "hello", "n", 1)
	log.DebugContext(ctx, "dropped")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "req-123", rec["request_id"])
	assert.Equal(t, "test", rec["component"])
	assert.NotContains(t, buf.String(), "dropped")
}

func TestNew_TextAndInvalid(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, FormatText, slog.LevelDebug)
	require.NoError(t, err)
	log.Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")

	_, err = New(&buf, "xml", slog.LevelInfo)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{"debug": slog.LevelDebug, "INFO": slog.LevelInfo, "warn": slog.LevelWarn, "error": slog.LevelError} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}
