package driver

import (
	"errors"
	"fmt"

	"swiftconcur/internal/baseline"
	"swiftconcur/internal/extract"
)

// ErrorKind classifies pipeline failures.
type ErrorKind uint8

const (
	// KindIO: input or output could not be read or written.
	KindIO ErrorKind = iota + 1
	// KindJSON: input declared as JSON is not parseable.
	KindJSON
	// KindInvalidFormat: a flag or config value is not recognised.
	KindInvalidFormat
	// KindBaseline: the baseline is unusable. Never fatal to a run.
	KindBaseline
)

func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindJSON:
		return "json"
	case KindInvalidFormat:
		return "invalid-format"
	case KindBaseline:
		return "baseline"
	default:
		return "unknown"
	}
}

// Error wraps a failure with its kind.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String() + " error"
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// ExitCode maps the kind to a process exit status.
func (e *Error) ExitCode() int {
	if e.Kind == KindBaseline {
		return 0
	}
	return 2
}

// Errorf builds an Error of the given kind.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// InvalidFormat marks err as a usage problem.
func InvalidFormat(err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindInvalidFormat, Err: err}
}

// ExitCode returns the exit status for any error returned by the pipeline;
// nil maps to 0 and unclassified errors to 2.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var de *Error
	if errors.As(err, &de) {
		return de.ExitCode()
	}
	return 2
}

// extractError wraps extraction failures: syntax problems are JSON errors,
// everything else is I/O.
func extractError(name string, err error) error {
	var se *extract.SyntaxError
	if errors.As(err, &se) {
		return &Error{Kind: KindJSON, Err: fmt.Errorf("%s: %w", name, err)}
	}
	return &Error{Kind: KindIO, Err: fmt.Errorf("%s: %w", name, err)}
}

func baselineError(err error) *Error {
	var be *baseline.Error
	if errors.As(err, &be) {
		return &Error{Kind: KindBaseline, Err: be}
	}
	return &Error{Kind: KindBaseline, Err: err}
}
