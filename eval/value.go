package eval

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/frontend"
)

// Value is a circuit-level datum: a boolean, a sized integer, a field element
// or a fixed-length array of values. Scalar variants carry either a
// construction-time constant or a witness wire allocated in the constraint
// system. An array's length is always known at construction time; only its
// contents or the index used to access it may be secret.
type Value interface {
	fmt.Stringer
	isValue()
}

// Boolean is a single bit, constant or witness.
//
// A witness Boolean references a wire that is already boolean-constrained,
// e.g. the output of an equality comparison.
type Boolean struct {
	value *bool
	wire  frontend.Variable
}

// ConstBoolean returns a constant Boolean.
func ConstBoolean(b bool) Boolean {
	return Boolean{value: &b}
}

// WitnessBoolean wraps a boolean-constrained wire.
func WitnessBoolean(wire frontend.Variable) Boolean {
	return Boolean{wire: wire}
}

// Const reports the constant payload, if any.
func (b Boolean) Const() (bool, bool) {
	if b.value == nil {
		return false, false
	}
	return *b.value, true
}

// Wire returns a term usable in constraint-system operations: the witness
// wire, or the constant itself.
func (b Boolean) Wire() frontend.Variable {
	if b.value != nil {
		if *b.value {
			return 1
		}
		return 0
	}
	return b.wire
}

func (b Boolean) isValue() {}

func (b Boolean) String() string {
	if b.value != nil {
		return fmt.Sprintf("bool(%t)", *b.value)
	}
	return "bool(?)"
}

// Integer widths supported by the evaluator. Indices are declared U32.
const (
	U8  uint8 = 8
	U16 uint8 = 16
	U32 uint8 = 32
	U64 uint8 = 64
)

// Integer is a sized integer, constant or witness.
type Integer struct {
	Width  uint8
	Signed bool
	value  *big.Int
	wire   frontend.Variable
}

// ConstInteger returns a constant integer of the given shape. The caller is
// responsible for v fitting the declared width.
func ConstInteger(width uint8, signed bool, v *big.Int) Integer {
	c := new(big.Int).Set(v)
	return Integer{Width: width, Signed: signed, value: c}
}

// ConstU32 returns a constant unsigned 32-bit integer, the shape used for
// array indices.
func ConstU32(v uint32) Integer {
	return ConstInteger(U32, false, new(big.Int).SetUint64(uint64(v)))
}

// WitnessInteger wraps a wire carrying an integer of the given shape.
func WitnessInteger(width uint8, signed bool, wire frontend.Variable) Integer {
	return Integer{Width: width, Signed: signed, wire: wire}
}

// Const reports the constant payload, if any.
func (i Integer) Const() (*big.Int, bool) {
	if i.value == nil {
		return nil, false
	}
	return new(big.Int).Set(i.value), true
}

// ConstIndex projects a constant integer onto a non-negative Go int, the form
// array accesses fold on. It reports false for witnesses, negative constants
// and constants that do not fit an int.
func (i Integer) ConstIndex() (int, bool) {
	if i.value == nil || i.value.Sign() < 0 || !i.value.IsInt64() {
		return 0, false
	}
	v := i.value.Int64()
	if int64(int(v)) != v {
		return 0, false
	}
	return int(v), true
}

// SameShape reports whether two integers agree on width and signedness.
func (i Integer) SameShape(other Integer) bool {
	return i.Width == other.Width && i.Signed == other.Signed
}

// Wire returns a term usable in constraint-system operations.
func (i Integer) Wire() frontend.Variable {
	if i.value != nil {
		return new(big.Int).Set(i.value)
	}
	return i.wire
}

func (i Integer) isValue() {}

func (i Integer) String() string {
	prefix := "u"
	if i.Signed {
		prefix = "i"
	}
	if i.value != nil {
		return fmt.Sprintf("%s%d(%s)", prefix, i.Width, i.value)
	}
	return fmt.Sprintf("%s%d(?)", prefix, i.Width)
}

// Field is a native field element, constant or witness.
type Field struct {
	value *big.Int
	wire  frontend.Variable
}

// ConstField returns a constant field element.
func ConstField(v *big.Int) Field {
	c := new(big.Int).Set(v)
	return Field{value: c}
}

// WitnessField wraps a wire carrying a field element.
func WitnessField(wire frontend.Variable) Field {
	return Field{wire: wire}
}

// Const reports the constant payload, if any.
func (f Field) Const() (*big.Int, bool) {
	if f.value == nil {
		return nil, false
	}
	return new(big.Int).Set(f.value), true
}

// Wire returns a term usable in constraint-system operations.
func (f Field) Wire() frontend.Variable {
	if f.value != nil {
		return new(big.Int).Set(f.value)
	}
	return f.wire
}

func (f Field) isValue() {}

func (f Field) String() string {
	if f.value != nil {
		return fmt.Sprintf("field(%s)", f.value)
	}
	return "field(?)"
}

// Array is an ordered, fixed-length sequence of values.
type Array []Value

func (a Array) isValue() {}

func (a Array) String() string {
	return fmt.Sprintf("array[%d]", len(a))
}

// AsArray projects v onto the Array variant, failing with a ValueError naming
// op otherwise.
func AsArray(v Value, op string) (Array, error) {
	a, ok := v.(Array)
	if !ok {
		return nil, &ValueError{Op: op, Value: v}
	}
	return a, nil
}

// AsInteger projects v onto the Integer variant, failing with a ValueError
// naming op otherwise.
func AsInteger(v Value, op string) (Integer, error) {
	i, ok := v.(Integer)
	if !ok {
		return Integer{}, &ValueError{Op: op, Value: v}
	}
	return i, nil
}

// AsBoolean projects v onto the Boolean variant, failing with a ValueError
// naming op otherwise.
func AsBoolean(v Value, op string) (Boolean, error) {
	b, ok := v.(Boolean)
	if !ok {
		return Boolean{}, &ValueError{Op: op, Value: v}
	}
	return b, nil
}
