package eval

import (
	"errors"
	"fmt"
)

// Construction errors abort the whole evaluation; none of them are transient,
// so nothing is retried. Value errors and array errors are detected by the
// evaluator itself; constraint-system errors are surfaced by the capability.
var (
	// ErrUnsetRegister is returned when an operand references a register no
	// prior instruction has written.
	ErrUnsetRegister = errors.New("register is unset")

	// ErrUnknownOpcode is returned for an opcode the evaluator does not
	// implement. It is a fatal construction error, never a silent no-op.
	ErrUnknownOpcode = errors.New("unknown opcode")

	// ErrNoConstraintSystem is returned when an operation needs to emit
	// constraints but the builder was constructed without a constraint
	// system. Fully constant programs never hit it.
	ErrNoConstraintSystem = errors.New("no constraint system available")

	// ErrInvalidSliceLength is returned when a slice's declared length is
	// inconsistent with its resolvable bounds.
	ErrInvalidSliceLength = errors.New("invalid slice length")

	// ErrIndexOutOfBounds is returned when a constant-resolvable access
	// falls outside the array.
	ErrIndexOutOfBounds = errors.New("index out of bounds")

	// ErrArrayLengthBound is returned when an array is longer than the
	// declared index width can address.
	ErrArrayLengthBound = errors.New("array length out of bounds")

	// ErrNonConstLength is returned when a slice's declared length is not a
	// construction-time constant.
	ErrNonConstLength = errors.New("cannot have non-const length for array slice")
)

// ValueError reports an operand of the wrong variant, e.g. an integer where
// an array was expected. It is recoverable by the caller and identifies both
// the operation and the illegal value.
type ValueError struct {
	Op    string
	Value Value
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("illegal value for %s: %s", e.Op, e.Value)
}

// TypeError reports two scalar operands whose shapes disagree, e.g. integers
// of different widths.
type TypeError struct {
	Op   string
	A, B Value
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("mismatched types for %s: %s and %s", e.Op, e.A, e.B)
}

func outOfBounds(index, length int) error {
	return fmt.Errorf("index %d exceeds array length %d: %w", index, length, ErrIndexOutOfBounds)
}
