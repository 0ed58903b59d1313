package eval

import (
	"strings"

	"github.com/consensys/gnark/frontend"
	"github.com/rs/zerolog"

	"github.com/glyphzk/glyph/logger"
)

// Builder is the evaluator's view of the constraint system. It wraps a
// frontend.API with the two things the evaluator needs on top of the raw
// algebra capability: uniquely-named nested scopes labelling every emitted
// constraint, and a monotone count of enforced constraints (which makes the
// zero-constraint fast paths observable).
//
// The algebra layer itself is never reimplemented here; every allocation and
// enforcement goes through the wrapped API. A Builder is exclusively owned by
// one evaluator for the duration of a run.
type Builder struct {
	api    frontend.API
	log    zerolog.Logger
	scopes []string

	nbConstraints int
}

// NewBuilder wraps api. A nil api is allowed and supports constant-only
// evaluation; any operation that would emit a constraint then fails with
// ErrNoConstraintSystem.
func NewBuilder(api frontend.API) *Builder {
	return &Builder{
		api: api,
		log: logger.Logger().With().Str("component", "eval").Logger(),
	}
}

// Scope opens a uniquely-named child scope and returns its closer. Scopes are
// strictly LIFO; callers defer the closer so the scope is released on every
// exit path, error returns included.
func (b *Builder) Scope(name string) func() {
	b.scopes = append(b.scopes, name)
	return func() {
		b.scopes = b.scopes[:len(b.scopes)-1]
	}
}

// ScopePath returns the current scope chain, root first.
func (b *Builder) ScopePath() string {
	return strings.Join(b.scopes, "/")
}

// NbConstraints returns the number of constraint-emitting operations issued
// so far.
func (b *Builder) NbConstraints() int {
	return b.nbConstraints
}

func (b *Builder) capability() (frontend.API, error) {
	if b.api == nil {
		return nil, ErrNoConstraintSystem
	}
	return b.api, nil
}

// Sub returns the linear combination a - c.
func (b *Builder) Sub(a, c frontend.Variable) (frontend.Variable, error) {
	api, err := b.capability()
	if err != nil {
		return nil, err
	}
	return api.Sub(a, c), nil
}

// EnforceEqual enforces a == c.
func (b *Builder) EnforceEqual(a, c frontend.Variable) error {
	api, err := b.capability()
	if err != nil {
		return err
	}
	api.AssertIsEqual(a, c)
	b.nbConstraints++
	b.log.Trace().Str("scope", b.ScopePath()).Msg("enforce equal")
	return nil
}

// EnforceLessOrEqual enforces v <= bound.
func (b *Builder) EnforceLessOrEqual(v, bound frontend.Variable) error {
	api, err := b.capability()
	if err != nil {
		return err
	}
	api.AssertIsLessOrEqual(v, bound)
	b.nbConstraints++
	b.log.Trace().Str("scope", b.ScopePath()).Msg("enforce less-or-equal")
	return nil
}

// IsZero returns a boolean wire for v == 0.
func (b *Builder) IsZero(v frontend.Variable) (frontend.Variable, error) {
	api, err := b.capability()
	if err != nil {
		return nil, err
	}
	b.nbConstraints++
	return api.IsZero(v), nil
}

// Select returns cond ? a : c. cond must be a boolean-constrained wire.
func (b *Builder) Select(cond, a, c frontend.Variable) (frontend.Variable, error) {
	api, err := b.capability()
	if err != nil {
		return nil, err
	}
	b.nbConstraints++
	return api.Select(cond, a, c), nil
}

// Mul returns the product a * c.
func (b *Builder) Mul(a, c frontend.Variable) (frontend.Variable, error) {
	api, err := b.capability()
	if err != nil {
		return nil, err
	}
	b.nbConstraints++
	return api.Mul(a, c), nil
}

// Add returns the linear combination a + c.
func (b *Builder) Add(a, c frontend.Variable) (frontend.Variable, error) {
	api, err := b.capability()
	if err != nil {
		return nil, err
	}
	return api.Add(a, c), nil
}

// Xor, Or and And operate on boolean-constrained wires.

func (b *Builder) Xor(a, c frontend.Variable) (frontend.Variable, error) {
	api, err := b.capability()
	if err != nil {
		return nil, err
	}
	b.nbConstraints++
	return api.Xor(a, c), nil
}

func (b *Builder) Or(a, c frontend.Variable) (frontend.Variable, error) {
	api, err := b.capability()
	if err != nil {
		return nil, err
	}
	b.nbConstraints++
	return api.Or(a, c), nil
}

func (b *Builder) And(a, c frontend.Variable) (frontend.Variable, error) {
	api, err := b.capability()
	if err != nil {
		return nil, err
	}
	b.nbConstraints++
	return api.And(a, c), nil
}
