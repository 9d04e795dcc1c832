//go:build linux

package affinity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// allowedCore returns the lowest core this process may run on that Pin
// accepts.
func allowedCore(t *testing.T) int {
	t.Helper()

	var set unix.CPUSet
	require.NoError(t, unix.SchedGetaffinity(0, &set))
	for core := 0; core < NumCores(); core++ {
		if set.IsSet(core) {
			return core
		}
	}
	t.Skip("no allowed core below NumCPU")
	return -1
}

func TestPin_RestrictsThreadToCore(t *testing.T) {
	core := allowedCore(t)

	type result struct {
		err error
		set unix.CPUSet
	}
	done := make(chan result, 1)

	// The pinned thread is discarded when this goroutine exits.
	go func() {
		var r result
		if r.err = New().Pin(core); r.err == nil {
			r.err = unix.SchedGetaffinity(0, &r.set)
		}
		done <- r
	}()

	r := <-done
	require.NoError(t, r.err)
	assert.Equal(t, 1, r.set.Count())
	assert.True(t, r.set.IsSet(core))
}
