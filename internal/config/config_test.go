package config

import (
	"bytes"
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"motionbench/internal/failure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		VideoPath:      "video.mp4",
		Threshold:      10,
		Parallelism:    4,
		Strategy:       StrategyFarm,
		WaitMode:       WaitSpin,
		MaxParallelism: 8,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid farm", func(c *Config) {}, false},
		{"valid pool", func(c *Config) { c.Strategy = StrategyPool }, false},
		{"sequential ignores pardegree", func(c *Config) { c.Strategy = StrategySequential; c.Parallelism = 0 }, false},
		{"k zero", func(c *Config) { c.Threshold = 0 }, false},
		{"k hundred", func(c *Config) { c.Threshold = 100 }, false},
		{"max pardegree", func(c *Config) { c.Parallelism = 8 }, false},
		{"no path", func(c *Config) { c.VideoPath = "" }, true},
		{"negative k", func(c *Config) { c.Threshold = -1 }, true},
		{"k over 100", func(c *Config) { c.Threshold = 101 }, true},
		{"pardegree one", func(c *Config) { c.Parallelism = 1 }, true},
		{"pardegree over cores", func(c *Config) { c.Parallelism = 9 }, true},
		{"unknown strategy", func(c *Config) { c.Strategy = "mesh" }, true},
		{"unknown wait mode", func(c *Config) { c.WaitMode = "yield" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, failure.Is(err, failure.KindConfiguration))
		})
	}
}

func TestParseArgs(t *testing.T) {
	c := validConfig()
	err := c.ParseArgs([]string{"-strategy", "pool", "-wait", "block", "-pin=false", "clip.avi", "25", "3"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "clip.avi", c.VideoPath)
	assert.Equal(t, 25, c.Threshold)
	assert.Equal(t, 3, c.Parallelism)
	assert.Equal(t, StrategyPool, c.Strategy)
	assert.Equal(t, WaitBlock, c.WaitMode)
	assert.False(t, c.Pin)
	assert.Equal(t, 2, c.Workers())
}

func TestParseArgs_HelpIsNotAConfigurationError(t *testing.T) {
	var usage bytes.Buffer
	err := validConfig().ParseArgs([]string{"-h"}, &usage)

	require.ErrorIs(t, err, flag.ErrHelp)
	assert.False(t, failure.Is(err, failure.KindConfiguration))
	assert.Contains(t, usage.String(), "Usage: motionbench")
}

func TestParseArgs_SequentialWithoutPardegree(t *testing.T) {
	c := validConfig()
	require.NoError(t, c.ParseArgs([]string{"-strategy=sequential", "clip.avi", "5"}, io.Discard))
	assert.NoError(t, c.Validate())
	assert.Equal(t, 1, c.Workers())
}

func TestParseArgs_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no args", nil},
		{"too many", []string{"a", "1", "2", "3"}},
		{"bad k", []string{"a", "ten"}},
		{"bad pardegree", []string{"a", "10", "four"}},
		{"unknown flag", []string{"-bogus", "a", "10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validConfig().ParseArgs(tt.args, io.Discard)
			require.Error(t, err)
			assert.True(t, failure.Is(err, failure.KindConfiguration))
		})
	}
}

func TestLoad_FromEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "bench.env")
	require.NoError(t, os.WriteFile(envFile, []byte("MOTION_STRATEGY=pool\nMOTION_WAIT_MODE=block\nMOTION_THRESHOLD=33\n"), 0644))

	t.Setenv("MOTION_ENV_FILE", envFile)
	t.Setenv("MOTION_THRESHOLD", "12")
	// godotenv.Load sets these; register them so the test restores them.
	t.Setenv("MOTION_STRATEGY", "")
	t.Setenv("MOTION_WAIT_MODE", "")
	os.Unsetenv("MOTION_STRATEGY")
	os.Unsetenv("MOTION_WAIT_MODE")

	c := Load()

	assert.Equal(t, StrategyPool, c.Strategy)
	assert.Equal(t, WaitBlock, c.WaitMode)
	assert.Equal(t, 12, c.Threshold, "process environment wins over the file")
	assert.True(t, c.Pin)
	assert.Positive(t, c.MaxParallelism)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MOTION_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("MOTION_STRATEGY", "")
	t.Setenv("MOTION_THRESHOLD", "not-a-number")
	t.Setenv("MOTION_WAIT_MODE", "")

	c := Load()

	assert.Equal(t, StrategyFarm, c.Strategy)
	assert.Equal(t, 10, c.Threshold)
	assert.Equal(t, WaitBlock, c.WaitMode)
}
