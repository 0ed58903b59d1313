// Package glyph is the constraint-emission core of a zero-knowledge virtual
// machine. It executes a bytecode program register-by-register while building
// the rank-1 constraint system representation of that execution, so a proving
// subsystem can attest to the execution without revealing secret inputs.
//
// The instruction evaluator and its oblivious array engine live in the eval
// package; glyph ties them to gnark's frontend so a program becomes an
// ordinary circuit definition.
package glyph

import (
	"math/big"

	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/glyphzk/glyph/eval"
)

// Synthesize evaluates program over api. bind runs first and preloads the
// frame's input registers, typically with witness values wrapping the
// enclosing circuit's variables. The returned evaluator exposes the final
// register file.
func Synthesize(api frontend.API, program []eval.Instruction, bind func(*eval.Evaluator)) (*eval.Evaluator, error) {
	e := eval.NewEvaluator(eval.NewBuilder(api))
	if bind != nil {
		bind(e)
	}
	if err := e.Run(program); err != nil {
		return nil, err
	}
	return e, nil
}

// Fold evaluates a fully constant program, with no constraint system behind
// it. Programs that reach a constraint-emitting path fail with
// eval.ErrNoConstraintSystem.
func Fold(program []eval.Instruction, bind func(*eval.Evaluator)) (*eval.Evaluator, error) {
	return Synthesize(nil, program, bind)
}

// Compile builds the R1CS for a circuit over the given field. It is a thin
// wrapper around gnark's frontend with the builder this module targets.
func Compile(field *big.Int, circuit frontend.Circuit, opts ...frontend.CompileOption) (constraint.ConstraintSystem, error) {
	return frontend.Compile(field, r1cs.NewBuilder, circuit, opts...)
}
