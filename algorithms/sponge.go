package algorithms

import (
	"encoding/binary"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	gchash "github.com/consensys/gnark-crypto/hash"
)

// AlgebraicSponge is the absorb/squeeze construction the proving subsystem
// derives its Fiat-Shamir challenges from. Squeezed outputs are a pure
// function of everything absorbed so far, in order; two sponges fed the same
// transcript squeeze the same elements.
type AlgebraicSponge interface {
	// Absorb feeds field elements into the transcript.
	Absorb(elems []fr.Element)
	// Squeeze derives n field elements from the transcript.
	Squeeze(n int) []fr.Element
}

// MiMCSponge is an AlgebraicSponge over native MiMC on the BN254 scalar
// field. Each squeezed element re-enters the transcript, so successive
// squeezes differ.
type MiMCSponge struct {
	transcript []fr.Element
	counter    uint64
}

// NewMiMCSponge initializes an empty sponge.
func NewMiMCSponge() *MiMCSponge {
	return &MiMCSponge{}
}

func (s *MiMCSponge) Absorb(elems []fr.Element) {
	s.transcript = append(s.transcript, elems...)
}

func (s *MiMCSponge) Squeeze(n int) []fr.Element {
	out := make([]fr.Element, n)
	for i := 0; i < n; i++ {
		d := gchash.MIMC_BN254.New()
		for _, elem := range s.transcript {
			b := elem.Bytes()
			d.Write(b[:])
		}
		var ctr [32]byte
		binary.BigEndian.PutUint64(ctr[24:], s.counter)
		s.counter++
		d.Write(ctr[:])

		out[i].SetBytes(d.Sum(nil))
		s.transcript = append(s.transcript, out[i])
	}
	return out
}

// reduceChunk maps a 32-byte big-endian chunk into a canonical field element
// encoding, so downstream MiMC writes never see a non-canonical block.
func reduceChunk(chunk []byte) []byte {
	var elem fr.Element
	elem.SetBytes(chunk)
	b := elem.Bytes()
	return b[:]
}
