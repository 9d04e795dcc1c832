// Package failure classifies the errors a run can end with.
package failure

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies which stage of a run failed.
type Kind int

const (
	KindUnknown Kind = iota
	KindInitialization
	KindConfiguration
	KindRuntimeProcessing
)

func (k Kind) String() string {
	switch k {
	case KindInitialization:
		return "initialization"
	case KindConfiguration:
		return "configuration"
	case KindRuntimeProcessing:
		return "runtime processing"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Op names the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Op, e.Err)
}

// Unwrap exposes the wrapped error to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Cause exposes the wrapped error to errors.Cause.
func (e *Error) Cause() error {
	return e.Err
}

func newError(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: errors.WithStack(err)}
}

// Initialization wraps err as a startup failure (source unopenable, empty stream).
func Initialization(op string, err error) error {
	return newError(KindInitialization, op, err)
}

// Configuration wraps err as an invalid-parameter failure.
func Configuration(op string, err error) error {
	return newError(KindConfiguration, op, err)
}

// RuntimeProcessing wraps err as a mid-stream failure.
func RuntimeProcessing(op string, err error) error {
	return newError(KindRuntimeProcessing, op, err)
}

// Configurationf builds a Configuration error from a format string.
func Configurationf(op, format string, args ...interface{}) error {
	return &Error{Kind: KindConfiguration, Op: op, Err: errors.Errorf(format, args...)}
}

// RuntimeProcessingf builds a RuntimeProcessing error from a format string.
func RuntimeProcessingf(op, format string, args ...interface{}) error {
	return &Error{Kind: KindRuntimeProcessing, Op: op, Err: errors.Errorf(format, args...)}
}

// KindOf returns the kind of the outermost *Error in err's chain.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch KindOf(err) {
	case KindConfiguration:
		return 2
	case KindInitialization:
		return 3
	case KindRuntimeProcessing:
		return 4
	default:
		return 1
	}
}
