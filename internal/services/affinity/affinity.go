// Package affinity pins the calling goroutine's OS thread to a CPU core.
//
// Pin locks the goroutine to its current OS thread before changing the
// thread's CPU mask. The goroutine is expected to stay locked until it
// exits, at which point the runtime discards the pinned thread instead of
// returning it to the scheduler.
package affinity

import (
	"runtime"

	"github.com/pkg/errors"
)

// ErrUnsupported is returned where the platform cannot pin threads.
var ErrUnsupported = errors.New("thread affinity not supported on this platform")

// Pinner binds the calling goroutine to a core.
type Pinner interface {
	Pin(core int) error
}

// New returns the platform pinner.
func New() Pinner {
	return platformPinner{}
}

// Noop never pins and never fails.
type Noop struct{}

// Pin does nothing.
func (Noop) Pin(int) error { return nil }

// NumCores returns the number of usable CPUs.
func NumCores() int {
	return runtime.NumCPU()
}

func checkCore(core int) error {
	if core < 0 || core >= NumCores() {
		return errors.Errorf("core %d not available (have %d)", core, NumCores())
	}
	return nil
}
