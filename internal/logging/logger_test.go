package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLoggerDefaultConfig(t *testing.T) {
	logger := NewLogger(nil)
	require.NotNil(t, logger)
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelWarn, Output: &buf})

	logger.Debug("hidden")
	logger.Info("also hidden")
	require.Empty(t, buf.String())

	logger.Warn("visible warning")
	require.Contains(t, buf.String(), "[WARN] visible warning")
}

func TestLoggerFormatArgs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Output: &buf})

	logger.Info("frame allocated", "frame", 3, "pid", 1)
	output := buf.String()
	require.True(t, strings.Contains(output, "frame=3"))
	require.True(t, strings.Contains(output, "pid=1"))
}

func TestLoggerPrintfStyle(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&Config{Level: LevelDebug, Output: &buf})

	logger.Errorf("bad spec: %q", "RR-1")
	require.Contains(t, buf.String(), `[ERROR] bad spec: "RR-1"`)
}

func TestSetDefaultReplacesGlobalLogger(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(NewLogger(&Config{Level: LevelDebug, Output: &buf}))

	Default().Debug("debug message", "key", "value")
	require.Contains(t, buf.String(), "debug message")
	require.Contains(t, buf.String(), "key=value")

	buf.Reset()
	Default().Info("info message")
	require.Contains(t, buf.String(), "info message")

	buf.Reset()
	Default().Warn("warning message")
	require.Contains(t, buf.String(), "warning message")
}
