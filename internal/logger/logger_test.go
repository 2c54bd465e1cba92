package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("whatever"))
}

func TestNewHandler_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(newHandler(&buf, Config{Level: "info", Format: "json"}))
	l.Debug("hidden")
	l.Info("cart saved", "cart_id", 7)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "cart saved", rec["msg"])
	assert.EqualValues(t, 7, rec["cart_id"])
}

func TestNew_WithFile(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	l, err := New(Config{Level: "debug", Format: "text", File: filepath.Join(t.TempDir(), "logs", "app.log")})
	require.NoError(t, err)
	assert.Same(t, l, slog.Default())
}
