package algorithms

import (
	"fmt"

	"golang.org/x/crypto/blake2s"
)

// PRFSeedSize is the exact seed size accepted by the PRF instantiations.
const PRFSeedSize = 32

// PRF is a deterministic pseudorandom function keyed by a secret seed.
type PRF interface {
	// Evaluate derives the output for input under seed. The same
	// (seed, input) pair always yields the same output.
	Evaluate(seed, input []byte) ([]byte, error)
}

// PRFError reports a malformed seed or input.
type PRFError struct {
	Reason string
}

func (e *PRFError) Error() string {
	return "prf: " + e.Reason
}

// Blake2sPRF evaluates keyed BLAKE2s-256 with the seed as key.
type Blake2sPRF struct{}

func (Blake2sPRF) Evaluate(seed, input []byte) ([]byte, error) {
	if len(seed) != PRFSeedSize {
		return nil, &PRFError{Reason: fmt.Sprintf("seed is %d bytes, want %d", len(seed), PRFSeedSize)}
	}
	d, err := blake2s.New256(seed)
	if err != nil {
		return nil, &PRFError{Reason: err.Error()}
	}
	d.Write(input)
	return d.Sum(nil), nil
}
