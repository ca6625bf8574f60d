package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCtx(t *testing.T) {
	ctx := context.Background()

	l := Ctx(ctx)
	require.NotNil(t, l)
	assert.Equal(t, defaultLogger, l, "empty context falls back to the default logger")

	var buf bytes.Buffer
	custom := slog.New(slog.NewJSONHandler(&buf, nil))
	ctx = With(ctx, custom)
	assert.Equal(t, custom, Ctx(ctx))
}

func TestWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	ctx := With(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))
	ctx = WithAttrs(ctx, slog.String("reqPath", "/api/tariffs"))

	Ctx(ctx).InfoContext(ctx, "catalog updated", slog.Int("tariffs", 5))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "catalog updated", record["msg"])
	assert.Equal(t, "/api/tariffs", record["reqPath"], "attached attributes appear on later records")
	assert.Equal(t, 5.0, record["tariffs"])
}

func TestSetDefaultLogLevel(t *testing.T) {
	SetDefaultLogLevel(slog.LevelWarn)
	defer SetDefaultLogLevel(slog.LevelInfo)

	ctx := context.Background()
	assert.False(t, Ctx(ctx).Enabled(ctx, slog.LevelInfo))
	assert.True(t, Ctx(ctx).Enabled(ctx, slog.LevelWarn))
}
