// Package algorithms holds the cryptographic capability contracts the
// evaluator's surroundings consume - collision-resistant hashing, a
// pseudorandom function and an algebraic sponge - together with reference
// instantiations over BLAKE2s and MiMC.
package algorithms

import (
	"fmt"
	"io"

	gchash "github.com/consensys/gnark-crypto/hash"
	"golang.org/x/crypto/blake2s"
)

// CRH is a collision-resistant hash with a fixed input size.
type CRH interface {
	// Hash digests input, failing with a HashError on malformed input.
	Hash(input []byte) ([]byte, error)
	// InputSizeBits is the exact input size accepted by Hash.
	InputSizeBits() int
}

// HashError reports a malformed CRH input.
type HashError struct {
	Reason string
}

func (e *HashError) Error() string {
	return "crh: " + e.Reason
}

// Blake2sCRH is a byte-oriented CRH over keyed BLAKE2s-256. The setup
// randomness acts as the instance key, so independently set-up instances are
// independent functions.
type Blake2sCRH struct {
	key [blake2s.Size]byte
}

// Blake2sInputSizeBits is the fixed input size of Blake2sCRH.
const Blake2sInputSizeBits = 512

// SetupBlake2sCRH draws instance randomness from r.
func SetupBlake2sCRH(r io.Reader) (*Blake2sCRH, error) {
	var h Blake2sCRH
	if _, err := io.ReadFull(r, h.key[:]); err != nil {
		return nil, fmt.Errorf("crh setup: %w", err)
	}
	return &h, nil
}

func (h *Blake2sCRH) InputSizeBits() int {
	return Blake2sInputSizeBits
}

func (h *Blake2sCRH) Hash(input []byte) ([]byte, error) {
	if len(input)*8 != Blake2sInputSizeBits {
		return nil, &HashError{Reason: fmt.Sprintf("input is %d bits, want %d", len(input)*8, Blake2sInputSizeBits)}
	}
	d, err := blake2s.New256(h.key[:])
	if err != nil {
		return nil, &HashError{Reason: err.Error()}
	}
	d.Write(input)
	return d.Sum(nil), nil
}

// MiMCCRH is a field-native CRH over MiMC on the BN254 scalar field. Input is
// consumed as 32-byte big-endian chunks, each reduced into the field.
type MiMCCRH struct{}

// MiMCInputSizeBits is the fixed input size of MiMCCRH: two field elements.
const MiMCInputSizeBits = 512

func (MiMCCRH) InputSizeBits() int {
	return MiMCInputSizeBits
}

func (MiMCCRH) Hash(input []byte) ([]byte, error) {
	if len(input)*8 != MiMCInputSizeBits {
		return nil, &HashError{Reason: fmt.Sprintf("input is %d bits, want %d", len(input)*8, MiMCInputSizeBits)}
	}
	d := gchash.MIMC_BN254.New()
	for off := 0; off < len(input); off += 32 {
		elem := reduceChunk(input[off : off+32])
		d.Write(elem)
	}
	return d.Sum(nil), nil
}
