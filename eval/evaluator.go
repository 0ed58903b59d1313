package eval

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/frontend"
	"github.com/rs/zerolog"

	"github.com/glyphzk/glyph/logger"
)

// Evaluator executes a program register-by-register while emitting the
// constraints that make the execution provable. Evaluation is single-pass and
// single-threaded: each instruction resolves its operands, runs its handler
// inside a freshly named scope and writes the result to its destination
// register before the next instruction starts. Any construction error aborts
// the run immediately.
//
// For fixed constant inputs the emitted constraint topology is deterministic;
// the setup and proving phases must observe bit-for-bit identical circuits.
type Evaluator struct {
	builder   *Builder
	registers map[Register]Value
	log       zerolog.Logger
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger overrides the evaluator's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Evaluator) { e.log = l }
}

// NewEvaluator creates an evaluation frame over b, with an empty register
// file.
func NewEvaluator(b *Builder, opts ...Option) *Evaluator {
	e := &Evaluator{
		builder:   b,
		registers: make(map[Register]Value),
		log:       logger.Logger().With().Str("component", "eval").Logger(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Builder returns the constraint-system view the evaluator emits through.
func (e *Evaluator) Builder() *Builder {
	return e.builder
}

// Bind preloads register r with v, used for a frame's external inputs.
func (e *Evaluator) Bind(r Register, v Value) {
	e.registers[r] = v
}

// Register reads back a register, reporting whether it has been written.
func (e *Evaluator) Register(r Register) (Value, bool) {
	v, ok := e.registers[r]
	return v, ok
}

// Run evaluates the program in order. The returned error identifies the
// failing instruction by position and opcode.
func (e *Evaluator) Run(program []Instruction) error {
	for pc, insn := range program {
		if err := e.step(pc, insn); err != nil {
			return fmt.Errorf("instruction %d (%s): %w", pc, insn.Op, err)
		}
	}
	e.log.Debug().
		Int("instructions", len(program)).
		Int("constraints", e.builder.NbConstraints()).
		Msg("evaluation complete")
	return nil
}

// step dispatches one instruction inside its own scope. The destination
// write happens strictly after all operand reads.
func (e *Evaluator) step(pc int, insn Instruction) error {
	defer e.builder.Scope(fmt.Sprintf("%s %d", insn.Op, pc))()

	e.log.Trace().Int("pc", pc).Stringer("op", insn.Op).Msg("evaluate")

	var (
		out Value
		err error
	)
	switch insn.Op {
	case OpStore:
		out, err = e.evalStore(insn)
	case OpAdd, OpSub, OpMul:
		out, err = e.evalArith(insn)
	case OpNot:
		out, err = e.evalNot(insn)
	case OpAnd, OpOr, OpXor:
		out, err = e.evalBitwise(insn)
	case OpEq:
		out, err = e.evalEq(insn)
	case OpSelect:
		out, err = e.evalSelect(insn)
	case OpArrayInit:
		out, err = e.evalArrayInit(insn)
	case OpArrayIndexGet:
		out, err = e.evalArrayIndexGet(insn)
	case OpArrayIndexStore:
		out, err = e.evalArrayIndexStore(insn)
	case OpArraySliceGet:
		out, err = e.evalArraySliceGet(insn)
	default:
		return ErrUnknownOpcode
	}
	if err != nil {
		return err
	}
	e.registers[insn.Dest] = out
	return nil
}

// resolve maps an operand to its Value: immediates as-is, register references
// through the register file.
func (e *Evaluator) resolve(o Operand) (Value, error) {
	if o.imm != nil {
		return o.imm, nil
	}
	v, ok := e.registers[o.reg]
	if !ok {
		return nil, fmt.Errorf("r%d: %w", o.reg, ErrUnsetRegister)
	}
	return v, nil
}

// operands resolves exactly n operands of insn.
func (e *Evaluator) operands(insn Instruction, n int) ([]Value, error) {
	if len(insn.Operands) != n {
		return nil, fmt.Errorf("%s expects %d operands, got %d", insn.Op, n, len(insn.Operands))
	}
	out := make([]Value, n)
	for i, o := range insn.Operands {
		v, err := e.resolve(o)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *Evaluator) evalStore(insn Instruction) (Value, error) {
	vs, err := e.operands(insn, 1)
	if err != nil {
		return nil, err
	}
	return vs[0], nil
}

// evalArith handles add/sub/mul over same-shape integers. Constant operands
// fold with wrap-around at the declared width; witness operands emit the
// corresponding field operation.
func (e *Evaluator) evalArith(insn Instruction) (Value, error) {
	op := insn.Op.String()
	vs, err := e.operands(insn, 2)
	if err != nil {
		return nil, err
	}
	x, err := AsInteger(vs[0], op)
	if err != nil {
		return nil, err
	}
	y, err := AsInteger(vs[1], op)
	if err != nil {
		return nil, err
	}
	if !x.SameShape(y) {
		return nil, &TypeError{Op: op, A: x, B: y}
	}

	if insn.Op == OpSub {
		return enforceSub(e.builder, op, x, y)
	}

	xc, xok := x.Const()
	yc, yok := y.Const()
	if xok && yok {
		d := new(big.Int)
		if insn.Op == OpAdd {
			d.Add(xc, yc)
		} else {
			d.Mul(xc, yc)
		}
		d.Mod(d, new(big.Int).Lsh(big.NewInt(1), uint(x.Width)))
		return ConstInteger(x.Width, x.Signed, d), nil
	}

	var wire frontend.Variable
	if insn.Op == OpAdd {
		wire, err = e.builder.Add(x.Wire(), y.Wire())
	} else {
		wire, err = e.builder.Mul(x.Wire(), y.Wire())
	}
	if err != nil {
		return nil, fmt.Errorf("cannot enforce %s: %w", op, err)
	}
	return WitnessInteger(x.Width, x.Signed, wire), nil
}

func (e *Evaluator) evalNot(insn Instruction) (Value, error) {
	op := insn.Op.String()
	vs, err := e.operands(insn, 1)
	if err != nil {
		return nil, err
	}
	x, err := AsBoolean(vs[0], op)
	if err != nil {
		return nil, err
	}
	if c, ok := x.Const(); ok {
		return ConstBoolean(!c), nil
	}
	wire, err := e.builder.Sub(1, x.Wire())
	if err != nil {
		return nil, fmt.Errorf("cannot enforce %s: %w", op, err)
	}
	return WitnessBoolean(wire), nil
}

func (e *Evaluator) evalBitwise(insn Instruction) (Value, error) {
	op := insn.Op.String()
	vs, err := e.operands(insn, 2)
	if err != nil {
		return nil, err
	}
	x, err := AsBoolean(vs[0], op)
	if err != nil {
		return nil, err
	}
	y, err := AsBoolean(vs[1], op)
	if err != nil {
		return nil, err
	}
	xc, xok := x.Const()
	yc, yok := y.Const()
	if xok && yok {
		switch insn.Op {
		case OpAnd:
			return ConstBoolean(xc && yc), nil
		case OpOr:
			return ConstBoolean(xc || yc), nil
		default:
			return ConstBoolean(xc != yc), nil
		}
	}
	var wire frontend.Variable
	switch insn.Op {
	case OpAnd:
		wire, err = e.builder.And(x.Wire(), y.Wire())
	case OpOr:
		wire, err = e.builder.Or(x.Wire(), y.Wire())
	default:
		wire, err = e.builder.Xor(x.Wire(), y.Wire())
	}
	if err != nil {
		return nil, fmt.Errorf("cannot enforce %s: %w", op, err)
	}
	return WitnessBoolean(wire), nil
}

func (e *Evaluator) evalEq(insn Instruction) (Value, error) {
	op := insn.Op.String()
	vs, err := e.operands(insn, 2)
	if err != nil {
		return nil, err
	}
	x, err := AsInteger(vs[0], op)
	if err != nil {
		return nil, err
	}
	y, err := AsInteger(vs[1], op)
	if err != nil {
		return nil, err
	}
	return evaluateEq(e.builder, op, x, y)
}

func (e *Evaluator) evalSelect(insn Instruction) (Value, error) {
	op := insn.Op.String()
	vs, err := e.operands(insn, 3)
	if err != nil {
		return nil, err
	}
	cond, err := AsBoolean(vs[0], op)
	if err != nil {
		return nil, err
	}
	return conditionallySelect(e.builder, op, cond, vs[1], vs[2])
}

func (e *Evaluator) evalArrayInit(insn Instruction) (Value, error) {
	out := make(Array, len(insn.Operands))
	for i, o := range insn.Operands {
		v, err := e.resolve(o)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
