package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"motionbench/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)

	l.Info("frames %d", 10)
	l.Warning("pin failed")
	l.Error("boom: %v", "x")

	out := buf.String()
	assert.Regexp(t, `INFO    \S+ \S+ logger_test\.go:\d+: frames 10\n`, out)
	assert.Regexp(t, `WARNING \S+ \S+ logger_test\.go:\d+: pin failed\n`, out)
	assert.Regexp(t, `ERROR   \S+ \S+ logger_test\.go:\d+: boom: x\n`, out)
	assert.NotContains(t, out, "logger.go:", "caller file, not the logger")
}

func TestNewLogger_WritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	l, err := NewLogger(&config.Config{LogDirectory: dir})
	require.NoError(t, err)

	l.Info("hello info")
	l.Warning("hello warning")
	require.NoError(t, l.Close())

	info, err := os.ReadFile(filepath.Join(dir, "info.log"))
	require.NoError(t, err)
	assert.Contains(t, string(info), "hello info")

	warning, err := os.ReadFile(filepath.Join(dir, "warning.log"))
	require.NoError(t, err)
	assert.Contains(t, string(warning), "hello warning")

	_, err = os.Stat(filepath.Join(dir, "error.log"))
	assert.NoError(t, err)
}

func TestNewLogger_ConsoleOnly(t *testing.T) {
	l, err := NewLogger(&config.Config{})
	require.NoError(t, err)
	l.Info("dropped unless verbose")
	assert.NoError(t, l.Close())
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nothing to see")
	assert.NoError(t, l.Close())
}
