package shim

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNativeCompute is the single failure kind reported by the shim. Every
// *ComputeError matches it under errors.Is.
var ErrNativeCompute = errors.New("native compute failure")

// ComputeError reports a failed operation.
type ComputeError struct {
	Op  string // registry name of the operation, e.g. "batch_norm"
	Err error  // underlying cause, with the stack captured at the boundary
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ComputeError) Unwrap() error { return e.Err }

// Is reports whether target is ErrNativeCompute.
func (e *ComputeError) Is(target error) bool {
	return target == ErrNativeCompute
}

// Format prints the cause's stack trace with %+v.
func (e *ComputeError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s: %+v", e.Op, e.Err)
		return
	}
	fmt.Fprint(s, e.Error())
}

// newComputeError wraps err for op, capturing a stack trace.
func newComputeError(op string, err error) *ComputeError {
	return &ComputeError{Op: op, Err: errors.WithStack(err)}
}

// panicError converts a recovered panic value into an error.
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return errors.Wrap(err, "panic")
	}
	return errors.Errorf("panic: %v", r)
}
