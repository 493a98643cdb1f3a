package coreerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// StateError is a terminal or recoverable error tagged with its taxonomy
// Kind and stable Code. Terminal kinds (Program, Execution) always end the
// owning ExecutionState; Solver and Resource errors are consumed by the
// caller, which decides whether to retry, downgrade, or terminate as
// EarlyUser (spec §7).
type StateError struct {
	Kind    Kind
	Code    string
	Message string
	Trace   []string // human-readable event trace, e.g. block labels
}

func (e *StateError) Error() string {
	if len(e.Trace) == 0 {
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s (trace: %v)", e.Kind, e.Code, e.Message, e.Trace)
}

// Terminal reports whether this error necessarily ends the state that
// raised it.
func (e *StateError) Terminal() bool {
	return e.Kind == KindProgram || e.Kind == KindExecution
}

func newErr(kind Kind, code, message string, trace ...string) *StateError {
	return &StateError{Kind: kind, Code: code, Message: message, Trace: trace}
}

func Program(code, message string, trace ...string) *StateError {
	return newErr(KindProgram, code, message, trace...)
}

func Execution(code, message string, trace ...string) *StateError {
	return newErr(KindExecution, code, message, trace...)
}

func Solver(code, message string) *StateError {
	return newErr(KindSolver, code, message)
}

func Resource(code, message string) *StateError {
	return newErr(KindResource, code, message)
}

// Fatal wraps an internal-invariant violation with a stack trace via
// github.com/pkg/errors, so a panic/recover boundary at the scheduler can
// still report where the invariant broke. Any broken invariant named in
// spec §3 is fatal and never recoverable.
func Fatal(format string, args ...interface{}) error {
	return errors.Wrap(fmt.Errorf(format, args...), "invariant violation ("+CodeInvariantViolation+")")
}

// WrapFatal attaches a stack trace to an already-constructed error,
// preserving its message while marking it as an internal invariant break.
func WrapFatal(err error, context string) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(err, "invariant violation (%s): %s", CodeInvariantViolation, context)
}
