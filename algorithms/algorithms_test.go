package algorithms

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"
)

func TestBlake2sCRHDeterministic(t *testing.T) {
	h, err := SetupBlake2sCRH(rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	input := bytes.Repeat([]byte{0xab}, Blake2sInputSizeBits/8)
	d1, err := h.Hash(input)
	require.NoError(t, err)
	d2, err := h.Hash(input)
	require.NoError(t, err)
	require.Equal(t, d1, d2)
	require.Len(t, d1, 32)
}

func TestBlake2sCRHInstancesDiffer(t *testing.T) {
	h1, err := SetupBlake2sCRH(rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	h2, err := SetupBlake2sCRH(rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	input := bytes.Repeat([]byte{0xab}, Blake2sInputSizeBits/8)
	d1, err := h1.Hash(input)
	require.NoError(t, err)
	d2, err := h2.Hash(input)
	require.NoError(t, err)
	require.NotEqual(t, d1, d2)
}

func TestBlake2sCRHInputSize(t *testing.T) {
	h, err := SetupBlake2sCRH(rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Equal(t, Blake2sInputSizeBits, h.InputSizeBits())

	var he *HashError
	_, err = h.Hash(make([]byte, 63))
	require.ErrorAs(t, err, &he)
}

func TestMiMCCRH(t *testing.T) {
	var h MiMCCRH

	input := bytes.Repeat([]byte{0x11}, MiMCInputSizeBits/8)
	d1, err := h.Hash(input)
	require.NoError(t, err)
	d2, err := h.Hash(input)
	require.NoError(t, err)
	require.Equal(t, d1, d2)

	var he *HashError
	_, err = h.Hash(make([]byte, 16))
	require.ErrorAs(t, err, &he)
}

func TestBlake2sPRFDeterministic(t *testing.T) {
	var prf Blake2sPRF
	seed := bytes.Repeat([]byte{0x01}, PRFSeedSize)

	o1, err := prf.Evaluate(seed, []byte("serial number"))
	require.NoError(t, err)
	o2, err := prf.Evaluate(seed, []byte("serial number"))
	require.NoError(t, err)
	require.Equal(t, o1, o2)

	o3, err := prf.Evaluate(seed, []byte("other input"))
	require.NoError(t, err)
	require.NotEqual(t, o1, o3)
}

func TestBlake2sPRFSeedSize(t *testing.T) {
	var prf Blake2sPRF

	var pe *PRFError
	_, err := prf.Evaluate(make([]byte, 16), []byte("input"))
	require.ErrorAs(t, err, &pe)
}

func TestMiMCSpongeDeterministic(t *testing.T) {
	elems := make([]fr.Element, 3)
	for i := range elems {
		elems[i].SetUint64(uint64(i + 17))
	}

	s1 := NewMiMCSponge()
	s1.Absorb(elems)
	out1 := s1.Squeeze(2)

	s2 := NewMiMCSponge()
	s2.Absorb(elems)
	out2 := s2.Squeeze(2)

	require.Equal(t, out1, out2)
	require.NotEqual(t, out1[0], out1[1])
}

func TestMiMCSpongeTranscriptsDiverge(t *testing.T) {
	var a, b fr.Element
	a.SetUint64(1)
	b.SetUint64(2)

	s1 := NewMiMCSponge()
	s1.Absorb([]fr.Element{a})
	s2 := NewMiMCSponge()
	s2.Absorb([]fr.Element{b})

	require.NotEqual(t, s1.Squeeze(1), s2.Squeeze(1))
}

func TestMiMCSpongeSqueezeAdvances(t *testing.T) {
	s := NewMiMCSponge()
	var a fr.Element
	a.SetUint64(5)
	s.Absorb([]fr.Element{a})

	first := s.Squeeze(1)
	second := s.Squeeze(1)
	require.NotEqual(t, first, second)
}
