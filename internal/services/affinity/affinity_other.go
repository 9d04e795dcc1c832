//go:build !linux

package affinity

type platformPinner struct{}

// Pin validates core and reports ErrUnsupported.
func (platformPinner) Pin(core int) error {
	if err := checkCore(core); err != nil {
		return err
	}
	return ErrUnsupported
}
