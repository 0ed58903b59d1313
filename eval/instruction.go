package eval

import "fmt"

// Register identifies a slot in an evaluation frame's register file.
type Register uint32

// Opcode enumerates the instructions the evaluator dispatches on.
type Opcode uint8

const (
	_ Opcode = iota
	OpStore
	OpAdd
	OpSub
	OpMul
	OpNot
	OpAnd
	OpOr
	OpXor
	OpEq
	OpSelect
	OpArrayInit
	OpArrayIndexGet
	OpArrayIndexStore
	OpArraySliceGet
)

var opcodeNames = map[Opcode]string{
	OpStore:           "store",
	OpAdd:             "add",
	OpSub:             "sub",
	OpMul:             "mul",
	OpNot:             "not",
	OpAnd:             "and",
	OpOr:              "or",
	OpXor:             "xor",
	OpEq:              "eq",
	OpSelect:          "select",
	OpArrayInit:       "array init",
	OpArrayIndexGet:   "array index get",
	OpArrayIndexStore: "array index store",
	OpArraySliceGet:   "array slice get",
}

func (op Opcode) String() string {
	if s, ok := opcodeNames[op]; ok {
		return s
	}
	return fmt.Sprintf("opcode(%d)", uint8(op))
}

// Operand references either a register or an immediate value.
type Operand struct {
	reg Register
	imm Value
}

// Reg returns an operand referencing register r.
func Reg(r Register) Operand {
	return Operand{reg: r}
}

// Imm returns an immediate operand carrying v.
func Imm(v Value) Operand {
	return Operand{imm: v}
}

func (o Operand) String() string {
	if o.imm != nil {
		return o.imm.String()
	}
	return fmt.Sprintf("r%d", o.reg)
}

// Instruction is one step of a program: an opcode, a destination register and
// an ordered operand list. Instructions are immutable once constructed; the
// evaluator never mutates them.
type Instruction struct {
	Op       Opcode
	Dest     Register
	Operands []Operand
}

// NewInstruction constructs an instruction.
func NewInstruction(op Opcode, dest Register, operands ...Operand) Instruction {
	return Instruction{Op: op, Dest: dest, Operands: operands}
}
