package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestNewFiltersBelowLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := New("warn", buf)
	logger.Info("hidden")
	logger.Warn("shown", "uid", "u-1")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "uid=u-1")
}

func TestHCLogFollowsLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := HCLog("sentiment", "info", buf)
	logger.Info("plugin started")
	logger.Warn("plugin slow")

	out := buf.String()
	assert.NotContains(t, out, "plugin started")
	assert.Contains(t, out, "plugin slow")
	assert.True(t, HCLog("sentiment", "debug", buf).IsDebug())
}
