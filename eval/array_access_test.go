package eval

import (
	"errors"
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"
	"github.com/stretchr/testify/require"
)

func constArray(vs ...int64) Array {
	out := make(Array, len(vs))
	for i, v := range vs {
		out[i] = ConstField(big.NewInt(v))
	}
	return out
}

func requireConstFields(t *testing.T, v Value, want ...int64) {
	t.Helper()
	arr, ok := v.(Array)
	require.True(t, ok)
	require.Len(t, arr, len(want))
	for i, w := range want {
		c, ok := arr[i].(Field).Const()
		require.True(t, ok)
		require.Equal(t, w, c.Int64())
	}
}

func TestSliceGetConstantBounds(t *testing.T) {
	e := NewEvaluator(NewBuilder(nil))
	e.Bind(1, constArray(10, 20, 30, 40))

	program := []Instruction{
		NewInstruction(OpArraySliceGet, 2,
			Reg(1), Imm(ConstU32(1)), Imm(ConstU32(3)), Imm(ConstU32(2))),
	}
	require.NoError(t, e.Run(program))

	out, _ := e.Register(2)
	requireConstFields(t, out, 20, 30)
	require.Equal(t, 0, e.Builder().NbConstraints())
}

func TestSliceGetConstantFromSecretTo(t *testing.T) {
	// a known `from` pins the slice; the secret `to` is never consulted
	e := NewEvaluator(NewBuilder(nil))
	e.Bind(1, constArray(10, 20, 30, 40))
	e.Bind(2, WitnessInteger(U32, false, nil))

	program := []Instruction{
		NewInstruction(OpArraySliceGet, 3,
			Reg(1), Imm(ConstU32(2)), Reg(2), Imm(ConstU32(2))),
	}
	require.NoError(t, e.Run(program))

	out, _ := e.Register(3)
	requireConstFields(t, out, 30, 40)
	require.Equal(t, 0, e.Builder().NbConstraints())
}

func TestSliceGetConstantFromOutOfBounds(t *testing.T) {
	e := NewEvaluator(NewBuilder(nil))
	e.Bind(1, constArray(10, 20, 30, 40))
	e.Bind(2, WitnessInteger(U32, false, nil))

	program := []Instruction{
		NewInstruction(OpArraySliceGet, 3,
			Reg(1), Imm(ConstU32(3)), Reg(2), Imm(ConstU32(2))),
	}
	err := e.Run(program)
	require.ErrorIs(t, err, ErrIndexOutOfBounds)
}

func TestSliceGetSecretFromConstantTo(t *testing.T) {
	e := NewEvaluator(NewBuilder(nil))
	e.Bind(1, constArray(10, 20, 30, 40))
	e.Bind(2, WitnessInteger(U32, false, nil))

	program := []Instruction{
		NewInstruction(OpArraySliceGet, 3,
			Reg(1), Reg(2), Imm(ConstU32(3)), Imm(ConstU32(2))),
	}
	require.NoError(t, e.Run(program))

	out, _ := e.Register(3)
	requireConstFields(t, out, 20, 30)
	require.Equal(t, 0, e.Builder().NbConstraints())
}

func TestSliceGetToSmallerThanLength(t *testing.T) {
	e := NewEvaluator(NewBuilder(nil))
	e.Bind(1, constArray(10, 20, 30, 40))
	e.Bind(2, WitnessInteger(U32, false, nil))

	program := []Instruction{
		NewInstruction(OpArraySliceGet, 3,
			Reg(1), Reg(2), Imm(ConstU32(1)), Imm(ConstU32(2))),
	}
	err := e.Run(program)
	require.ErrorIs(t, err, ErrInvalidSliceLength)
	// rejected before anything is emitted
	require.Equal(t, 0, e.Builder().NbConstraints())
}

func TestSliceGetInconsistentConstantBounds(t *testing.T) {
	e := NewEvaluator(NewBuilder(nil))
	e.Bind(1, constArray(10, 20, 30, 40))

	program := []Instruction{
		NewInstruction(OpArraySliceGet, 2,
			Reg(1), Imm(ConstU32(1)), Imm(ConstU32(3)), Imm(ConstU32(3))),
	}
	err := e.Run(program)
	require.ErrorIs(t, err, ErrInvalidSliceLength)
}

func TestSliceGetNonConstLength(t *testing.T) {
	e := NewEvaluator(NewBuilder(nil))
	e.Bind(1, constArray(10, 20, 30, 40))

	program := []Instruction{
		NewInstruction(OpArraySliceGet, 2,
			Reg(1), Imm(ConstU32(0)), Imm(ConstU32(2)), Imm(WitnessInteger(U32, false, nil))),
	}
	err := e.Run(program)
	require.ErrorIs(t, err, ErrNonConstLength)
}

func TestSliceGetWrongOperandVariant(t *testing.T) {
	e := NewEvaluator(NewBuilder(nil))

	var ve *ValueError
	program := []Instruction{
		NewInstruction(OpArraySliceGet, 2,
			Imm(ConstU32(1)), Imm(ConstU32(0)), Imm(ConstU32(2)), Imm(ConstU32(2))),
	}
	err := e.Run(program)
	require.ErrorAs(t, err, &ve)
}

func TestIndexGetConstant(t *testing.T) {
	e := NewEvaluator(NewBuilder(nil))
	e.Bind(1, constArray(10, 20, 30, 40))

	program := []Instruction{
		NewInstruction(OpArrayIndexGet, 2, Reg(1), Imm(ConstU32(2))),
	}
	require.NoError(t, e.Run(program))

	out, _ := e.Register(2)
	c, _ := out.(Field).Const()
	require.Equal(t, int64(30), c.Int64())
	require.Equal(t, 0, e.Builder().NbConstraints())
}

func TestIndexGetConstantOutOfBounds(t *testing.T) {
	e := NewEvaluator(NewBuilder(nil))
	e.Bind(1, constArray(10, 20, 30, 40))

	program := []Instruction{
		NewInstruction(OpArrayIndexGet, 2, Reg(1), Imm(ConstU32(4))),
	}
	require.ErrorIs(t, e.Run(program), ErrIndexOutOfBounds)
}

func TestIndexStoreConstant(t *testing.T) {
	e := NewEvaluator(NewBuilder(nil))
	e.Bind(1, constArray(10, 20, 30, 40))

	program := []Instruction{
		NewInstruction(OpArrayIndexStore, 2,
			Reg(1), Imm(ConstU32(1)), Imm(ConstField(big.NewInt(99)))),
	}
	require.NoError(t, e.Run(program))

	out, _ := e.Register(2)
	requireConstFields(t, out, 10, 99, 30, 40)

	// the source array is untouched
	src, _ := e.Register(1)
	requireConstFields(t, src, 10, 20, 30, 40)
	require.Equal(t, 0, e.Builder().NbConstraints())
}

// sliceCircuit slices a 4-element array with both bounds secret and a
// declared length of 2.
type sliceCircuit struct {
	A    [4]frontend.Variable
	From frontend.Variable
	To   frontend.Variable
	Want [2]frontend.Variable
}

func (c *sliceCircuit) Define(api frontend.API) error {
	e := NewEvaluator(NewBuilder(api))
	arr := make(Array, len(c.A))
	for i := range c.A {
		arr[i] = WitnessField(c.A[i])
	}
	e.Bind(1, arr)
	e.Bind(2, WitnessInteger(U32, false, c.From))
	e.Bind(3, WitnessInteger(U32, false, c.To))

	program := []Instruction{
		NewInstruction(OpArraySliceGet, 4,
			Reg(1), Reg(2), Reg(3), Imm(ConstU32(2))),
	}
	if err := e.Run(program); err != nil {
		return err
	}
	if e.Builder().NbConstraints() == 0 {
		return errors.New("oblivious path must emit constraints")
	}

	out, _ := e.Register(4)
	for i, v := range out.(Array) {
		api.AssertIsEqual(v.(Field).Wire(), c.Want[i])
	}
	return nil
}

func TestSliceGetObliviousPath(t *testing.T) {
	field := ecc.BN254.ScalarField()

	// every in-range opening yields the corresponding window
	for from := 0; from <= 2; from++ {
		assignment := &sliceCircuit{
			A:    [4]frontend.Variable{10, 20, 30, 40},
			From: from,
			To:   from + 2,
			Want: [2]frontend.Variable{(from + 1) * 10, (from + 2) * 10},
		}
		require.NoError(t, test.IsSolved(&sliceCircuit{}, assignment, field))
	}

	// inconsistent length: to - from != 2
	require.Error(t, test.IsSolved(&sliceCircuit{}, &sliceCircuit{
		A:    [4]frontend.Variable{10, 20, 30, 40},
		From: 1,
		To:   4,
		Want: [2]frontend.Variable{20, 30},
	}, field))

	// out of range: to > len(A)
	require.Error(t, test.IsSolved(&sliceCircuit{}, &sliceCircuit{
		A:    [4]frontend.Variable{10, 20, 30, 40},
		From: 3,
		To:   5,
		Want: [2]frontend.Variable{40, 40},
	}, field))

	// right window, wrong claimed contents
	require.Error(t, test.IsSolved(&sliceCircuit{}, &sliceCircuit{
		A:    [4]frontend.Variable{10, 20, 30, 40},
		From: 1,
		To:   3,
		Want: [2]frontend.Variable{30, 40},
	}, field))
}

// indexGetCircuit reads one element at a secret index.
type indexGetCircuit struct {
	A     [4]frontend.Variable
	Index frontend.Variable
	Want  frontend.Variable
}

func (c *indexGetCircuit) Define(api frontend.API) error {
	e := NewEvaluator(NewBuilder(api))
	arr := make(Array, len(c.A))
	for i := range c.A {
		arr[i] = WitnessField(c.A[i])
	}
	e.Bind(1, arr)
	e.Bind(2, WitnessInteger(U32, false, c.Index))

	program := []Instruction{
		NewInstruction(OpArrayIndexGet, 3, Reg(1), Reg(2)),
	}
	if err := e.Run(program); err != nil {
		return err
	}
	out, _ := e.Register(3)
	api.AssertIsEqual(out.(Field).Wire(), c.Want)
	return nil
}

func TestIndexGetObliviousPath(t *testing.T) {
	field := ecc.BN254.ScalarField()

	for i := 0; i < 4; i++ {
		require.NoError(t, test.IsSolved(&indexGetCircuit{}, &indexGetCircuit{
			A:     [4]frontend.Variable{10, 20, 30, 40},
			Index: i,
			Want:  (i + 1) * 10,
		}, field))
	}

	// index == len(A) is out of range
	require.Error(t, test.IsSolved(&indexGetCircuit{}, &indexGetCircuit{
		A:     [4]frontend.Variable{10, 20, 30, 40},
		Index: 4,
		Want:  40,
	}, field))
}

// indexStoreCircuit rewrites one element at a secret index.
type indexStoreCircuit struct {
	A     [4]frontend.Variable
	Index frontend.Variable
	New   frontend.Variable
	Want  [4]frontend.Variable
}

func (c *indexStoreCircuit) Define(api frontend.API) error {
	e := NewEvaluator(NewBuilder(api))
	arr := make(Array, len(c.A))
	for i := range c.A {
		arr[i] = WitnessField(c.A[i])
	}
	e.Bind(1, arr)
	e.Bind(2, WitnessInteger(U32, false, c.Index))
	e.Bind(3, WitnessField(c.New))

	program := []Instruction{
		NewInstruction(OpArrayIndexStore, 4, Reg(1), Reg(2), Reg(3)),
	}
	if err := e.Run(program); err != nil {
		return err
	}
	out, _ := e.Register(4)
	for i, v := range out.(Array) {
		api.AssertIsEqual(v.(Field).Wire(), c.Want[i])
	}
	return nil
}

func TestIndexStoreObliviousPath(t *testing.T) {
	field := ecc.BN254.ScalarField()

	require.NoError(t, test.IsSolved(&indexStoreCircuit{}, &indexStoreCircuit{
		A:     [4]frontend.Variable{10, 20, 30, 40},
		Index: 2,
		New:   99,
		Want:  [4]frontend.Variable{10, 20, 99, 40},
	}, field))

	// stale claimed contents at the written position
	require.Error(t, test.IsSolved(&indexStoreCircuit{}, &indexStoreCircuit{
		A:     [4]frontend.Variable{10, 20, 30, 40},
		Index: 2,
		New:   99,
		Want:  [4]frontend.Variable{10, 20, 30, 40},
	}, field))

	// out-of-range index
	require.Error(t, test.IsSolved(&indexStoreCircuit{}, &indexStoreCircuit{
		A:     [4]frontend.Variable{10, 20, 30, 40},
		Index: 4,
		New:   99,
		Want:  [4]frontend.Variable{10, 20, 30, 40},
	}, field))
}
