package eval

import (
	"fmt"
	"math/big"
)

// Shared constraint-emitting primitives. Every operation folds to a constant
// when all inputs are constants, so a fully resolvable program emits nothing.

// enforceSub computes to - from over same-shape integers. Constant inputs
// fold; otherwise a subtraction wire is emitted.
func enforceSub(b *Builder, op string, to, from Integer) (Integer, error) {
	if !to.SameShape(from) {
		return Integer{}, &TypeError{Op: op, A: to, B: from}
	}
	tc, tok := to.Const()
	fc, fok := from.Const()
	if tok && fok {
		d := new(big.Int).Sub(tc, fc)
		if !to.Signed && d.Sign() < 0 {
			// wrap into the declared width, as the prover-side arithmetic would
			d.Add(d, new(big.Int).Lsh(big.NewInt(1), uint(to.Width)))
		}
		return ConstInteger(to.Width, to.Signed, d), nil
	}
	wire, err := b.Sub(to.Wire(), from.Wire())
	if err != nil {
		return Integer{}, fmt.Errorf("cannot enforce %s: %w", op, err)
	}
	return WitnessInteger(to.Width, to.Signed, wire), nil
}

// enforceEqual forces x == y over same-shape integers. On constants a
// violation is a construction error; otherwise an equality constraint is
// emitted and a violation shows up as an unsatisfiable system at prove time.
func enforceEqual(b *Builder, op string, x, y Integer) error {
	if !x.SameShape(y) {
		return &TypeError{Op: op, A: x, B: y}
	}
	xc, xok := x.Const()
	yc, yok := y.Const()
	if xok && yok {
		if xc.Cmp(yc) != 0 {
			return fmt.Errorf("%s: %s != %s: %w", op, x, y, ErrInvalidSliceLength)
		}
		return nil
	}
	if err := b.EnforceEqual(x.Wire(), y.Wire()); err != nil {
		return fmt.Errorf("cannot enforce %s: %w", op, err)
	}
	return nil
}

// evaluateEq compares two same-shape integers into a Boolean.
func evaluateEq(b *Builder, op string, x, y Integer) (Boolean, error) {
	if !x.SameShape(y) {
		return Boolean{}, &TypeError{Op: op, A: x, B: y}
	}
	xc, xok := x.Const()
	yc, yok := y.Const()
	if xok && yok {
		return ConstBoolean(xc.Cmp(yc) == 0), nil
	}
	diff, err := b.Sub(x.Wire(), y.Wire())
	if err != nil {
		return Boolean{}, fmt.Errorf("cannot enforce %s: %w", op, err)
	}
	wire, err := b.IsZero(diff)
	if err != nil {
		return Boolean{}, fmt.Errorf("cannot enforce %s: %w", op, err)
	}
	return WitnessBoolean(wire), nil
}

// conditionallySelect returns cond ? ifTrue : ifFalse. It is the multiplexer
// primitive the oblivious scans fold through: defined on every Value variant
// and recursively on arrays of matching length. A constant condition selects
// directly and emits nothing.
func conditionallySelect(b *Builder, op string, cond Boolean, ifTrue, ifFalse Value) (Value, error) {
	if c, ok := cond.Const(); ok {
		if c {
			return ifTrue, nil
		}
		return ifFalse, nil
	}
	switch t := ifTrue.(type) {
	case Boolean:
		f, ok := ifFalse.(Boolean)
		if !ok {
			return nil, &TypeError{Op: op, A: ifTrue, B: ifFalse}
		}
		wire, err := b.Select(cond.Wire(), t.Wire(), f.Wire())
		if err != nil {
			return nil, fmt.Errorf("cannot enforce %s: %w", op, err)
		}
		return WitnessBoolean(wire), nil
	case Integer:
		f, ok := ifFalse.(Integer)
		if !ok || !t.SameShape(f) {
			return nil, &TypeError{Op: op, A: ifTrue, B: ifFalse}
		}
		wire, err := b.Select(cond.Wire(), t.Wire(), f.Wire())
		if err != nil {
			return nil, fmt.Errorf("cannot enforce %s: %w", op, err)
		}
		return WitnessInteger(t.Width, t.Signed, wire), nil
	case Field:
		f, ok := ifFalse.(Field)
		if !ok {
			return nil, &TypeError{Op: op, A: ifTrue, B: ifFalse}
		}
		wire, err := b.Select(cond.Wire(), t.Wire(), f.Wire())
		if err != nil {
			return nil, fmt.Errorf("cannot enforce %s: %w", op, err)
		}
		return WitnessField(wire), nil
	case Array:
		f, ok := ifFalse.(Array)
		if !ok || len(f) != len(t) {
			return nil, &TypeError{Op: op, A: ifTrue, B: ifFalse}
		}
		out := make(Array, len(t))
		for i := range t {
			v, err := conditionallySelect(b, op, cond, t[i], f[i])
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	default:
		return nil, &ValueError{Op: op, Value: ifTrue}
	}
}

// boundsCheck enforces index <= bound where bound is an array length. The
// length must be addressable at the declared u32 index width. A constant
// index is checked at construction time; a witness index is range-constrained
// in-circuit.
func boundsCheck(b *Builder, op string, index Integer, bound int) error {
	if bound < 0 || uint64(bound) > uint64(^uint32(0)) {
		return fmt.Errorf("%s: length %d: %w", op, bound, ErrArrayLengthBound)
	}
	if c, ok := index.Const(); ok {
		if c.Sign() < 0 || !c.IsInt64() || c.Int64() > int64(bound) {
			return fmt.Errorf("%s: index %s exceeds length %d: %w", op, c, bound, ErrIndexOutOfBounds)
		}
		return nil
	}
	if err := b.EnforceLessOrEqual(index.Wire(), bound); err != nil {
		return fmt.Errorf("cannot enforce %s: %w", op, err)
	}
	return nil
}
