package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_ExitCodes(t *testing.T) {
	t.Setenv("MOTION_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"help", []string{"-h"}, 0},
		{"missing arguments", nil, 2},
		{"bad k", []string{"clip.avi", "ten"}, 2},
		{"too few activities", []string{"-strategy", "farm", "clip.avi", "10", "1"}, 2},
		{"unreadable video", []string{"-strategy", "sequential", filepath.Join(t.TempDir(), "missing.avi"), "10"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, run(tt.args))
		})
	}
}
