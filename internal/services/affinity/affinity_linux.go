//go:build linux

package affinity

import (
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

type platformPinner struct{}

// Pin restricts the current OS thread to core.
func (platformPinner) Pin(core int) error {
	if err := checkCore(core); err != nil {
		return err
	}

	runtime.LockOSThread()

	var set unix.CPUSet
	set.Zero()
	set.Set(core)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return errors.Wrapf(err, "sched_setaffinity core %d", core)
	}
	return nil
}
