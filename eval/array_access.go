package eval

import (
	"fmt"
)

// Oblivious array engine. Index and slice accesses pick between two paths: a
// constant-folding path that emits no constraints when the access is fully
// resolvable at construction time, and an oblivious path whose circuit shape
// is identical for every possible secret index, so the structure of the
// emitted constraints reveals nothing about which elements were touched.
//
// The asymmetry between the paths is deliberate: constant accesses are
// rejected at construction time when malformed, while secret accesses encode
// the same violations as an unsatisfiable constraint system that only the
// proving subsystem detects.

// evalArraySliceGet handles `dest = array[from..to]` with a declared constant
// length. Operands: array, from, to, length.
func (e *Evaluator) evalArraySliceGet(insn Instruction) (Value, error) {
	vs, err := e.operands(insn, 4)
	if err != nil {
		return nil, err
	}
	array, err := AsArray(vs[0], "array slice")
	if err != nil {
		return nil, err
	}
	from, err := AsInteger(vs[1], "array slice from index")
	if err != nil {
		return nil, err
	}
	to, err := AsInteger(vs[2], "array slice to index")
	if err != nil {
		return nil, err
	}
	lengthValue, err := AsInteger(vs[3], "array slice length")
	if err != nil {
		return nil, err
	}
	length, ok := lengthValue.ConstIndex()
	if !ok {
		return nil, ErrNonConstLength
	}

	// If either bound is resolvable the other one is implied by the declared
	// length, and the whole access folds at construction time.
	fromConst, fromOK := from.ConstIndex()
	toConst, toOK := to.ConstIndex()
	constDims := true
	var left, right int
	switch {
	case fromOK && toOK:
		left, right = fromConst, toConst
	case fromOK:
		left, right = fromConst, fromConst+length
	case toOK:
		if toConst < length {
			return nil, fmt.Errorf("to %d < length %d: %w", toConst, length, ErrInvalidSliceLength)
		}
		left, right = toConst-length, toConst
	default:
		constDims = false
	}

	if constDims {
		if right-left != length {
			return nil, fmt.Errorf("[%d..%d] with length %d: %w", left, right, length, ErrInvalidSliceLength)
		}
		if right > len(array) {
			return nil, outOfBounds(right, len(array))
		}
		out := make(Array, length)
		copy(out, array[left:right])
		return out, nil
	}

	// Oblivious path: both bounds are secret. Enforce to - from == length at
	// the declared u32 index width, bound to by the array length, then fold
	// every candidate window through the multiplexer. The scan shape depends
	// only on len(array) and length, never on the secret bounds.
	if err := func() error {
		defer e.builder.Scope("length check")()
		calc, err := enforceSub(e.builder, "array slice", to, from)
		if err != nil {
			return err
		}
		if uint64(length) > uint64(^uint32(0)) {
			return fmt.Errorf("array slice: length %d: %w", length, ErrArrayLengthBound)
		}
		return enforceEqual(e.builder, "array slice length check", calc, ConstU32(uint32(length)))
	}(); err != nil {
		return nil, err
	}

	if err := func() error {
		defer e.builder.Scope("bounds check")()
		return boundsCheck(e.builder, "array slice", to, len(array))
	}(); err != nil {
		return nil, err
	}

	return e.obliviousScan(array, from, length)
}

// obliviousScan folds all windows of the given length through
// conditionallySelect, keyed on from == i. The result equals the window
// starting at the secret index; if no window matches, the equality chain
// leaves the first window, but the accompanying length and bounds constraints
// are then unsatisfiable.
func (e *Evaluator) obliviousScan(array Array, from Integer, length int) (Value, error) {
	if length > len(array) {
		// no candidate windows; the emitted checks cannot be satisfied
		return Array{}, nil
	}
	result := Value(append(Array{}, array[0:length]...))
	for i := 1; i+length <= len(array); i++ {
		err := func() error {
			defer e.builder.Scope(fmt.Sprintf("window %d", i))()
			equality, err := evaluateEq(e.builder, "array index eq-check", from, ConstU32(uint32(i)))
			if err != nil {
				return err
			}
			window := append(Array{}, array[i:i+length]...)
			result, err = conditionallySelect(e.builder, "array select", equality, window, result)
			return err
		}()
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// evalArrayIndexGet handles `dest = array[index]`. Operands: array, index.
// A constant index reads the element directly with zero constraints; a secret
// index is bounds-checked and read through the oblivious scan with window
// length one.
func (e *Evaluator) evalArrayIndexGet(insn Instruction) (Value, error) {
	vs, err := e.operands(insn, 2)
	if err != nil {
		return nil, err
	}
	array, err := AsArray(vs[0], "array index")
	if err != nil {
		return nil, err
	}
	index, err := AsInteger(vs[1], "array index")
	if err != nil {
		return nil, err
	}

	if c, ok := index.ConstIndex(); ok {
		if c >= len(array) {
			return nil, outOfBounds(c, len(array))
		}
		return array[c], nil
	}

	if len(array) == 0 {
		return nil, outOfBounds(0, 0)
	}

	if err := func() error {
		defer e.builder.Scope("bounds check")()
		return boundsCheck(e.builder, "array index", index, len(array)-1)
	}(); err != nil {
		return nil, err
	}

	out, err := e.obliviousScan(array, index, 1)
	if err != nil {
		return nil, err
	}
	return out.(Array)[0], nil
}

// evalArrayIndexStore handles `dest = array with array[index] = value`.
// Operands: array, index, value. The register file is immutable per write, so
// the result is a fresh array. A secret index rewrites every position through
// the multiplexer, hiding which one changed.
func (e *Evaluator) evalArrayIndexStore(insn Instruction) (Value, error) {
	vs, err := e.operands(insn, 3)
	if err != nil {
		return nil, err
	}
	array, err := AsArray(vs[0], "array store")
	if err != nil {
		return nil, err
	}
	index, err := AsInteger(vs[1], "array store index")
	if err != nil {
		return nil, err
	}
	value := vs[2]

	if c, ok := index.ConstIndex(); ok {
		if c >= len(array) {
			return nil, outOfBounds(c, len(array))
		}
		out := append(Array{}, array...)
		out[c] = value
		return out, nil
	}

	if len(array) == 0 {
		return nil, outOfBounds(0, 0)
	}

	if err := func() error {
		defer e.builder.Scope("bounds check")()
		return boundsCheck(e.builder, "array store", index, len(array)-1)
	}(); err != nil {
		return nil, err
	}

	out := make(Array, len(array))
	for i := range array {
		err := func() error {
			defer e.builder.Scope(fmt.Sprintf("position %d", i))()
			equality, err := evaluateEq(e.builder, "array index eq-check", index, ConstU32(uint32(i)))
			if err != nil {
				return err
			}
			out[i], err = conditionallySelect(e.builder, "array store select", equality, value, array[i])
			return err
		}()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
