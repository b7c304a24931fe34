package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"taskapi/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfoContext_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger.SetDefault(logger.New(&buf, "json", "debug"))

	ctx := logger.ContextWithRequestID(context.Background(), "req-42")
	logger.InfoContext(ctx, "task created", "task_id", "t1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "task created", entry["msg"])
	assert.Equal(t, "req-42", entry["request_id"])
	assert.Equal(t, "t1", entry["task_id"])
}

func TestDebugContext_FilteredByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger.SetDefault(logger.New(&buf, "text", "info"))

	logger.DebugContext(context.Background(), "hidden")

	assert.Empty(t, buf.String())
}

func TestGetRequestID_Missing(t *testing.T) {
	assert.Equal(t, "", logger.GetRequestID(context.Background()))
}

func TestNew_RequestIDSurvivesWith(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New(&buf, "json", "info").With("component", "store")

	ctx := logger.ContextWithRequestID(context.Background(), "req-7")
	l.WarnContext(ctx, "slow query")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "store", entry["component"])
	assert.Equal(t, "req-7", entry["request_id"])
}

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level string
		warn  bool
		info  bool
	}{
		{"debug", true, true},
		{"info", true, true},
		{"warn", true, false},
		{"error", false, false},
		{"", true, true},
		{"verbose", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := logger.New(&bytes.Buffer{}, "text", tt.level)

			assert.Equal(t, tt.warn, l.Enabled(context.Background(), slog.LevelWarn))
			assert.Equal(t, tt.info, l.Enabled(context.Background(), slog.LevelInfo))
		})
	}
}
