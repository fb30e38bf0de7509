package domainhash

import (
	"math/big"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
	"github.com/consensys/gnark/std/math/emulated"
)

// HashToDomain is the in-circuit counterpart of Hash. It consumes the
// same MiMC stream chunk schedule and recomposes the element over the
// emulated field as a little-endian bit string with the low
// TrailingOnes bits pinned to 1.
func HashToDomain[T emulated.FieldParams](api frontend.API, field *emulated.Field[T], items []frontend.Variable, d Domain) (*emulated.Element[T], error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return nil, err
	}
	h.Write(items...)
	state := h.Sum()

	bits := make([]frontend.Variable, d.Bits)
	for off := 0; off < d.Bits; off += ChunkBits {
		if off > 0 {
			h.Reset()
			h.Write(state)
			state = h.Sum()
		}
		sbits := api.ToBinary(state)
		assertCanonical(api, sbits)
		for j := 0; j < min(ChunkBits, d.Bits-off); j++ {
			bits[off+j] = sbits[j]
		}
	}
	for i := 0; i < d.TrailingOnes; i++ {
		bits[i] = 1
	}
	return field.FromBits(bits...), nil
}

// assertCanonical enforces that a little-endian bit string is the
// canonical decomposition of a field element: the recomposition
// equality alone also admits the value offset by the field modulus,
// whose low bits differ, so reusing unconstrained bits would let the
// accumulated domain element diverge from the native Hash. The bits
// are compared against modulus-1 from the most significant end.
func assertCanonical(api frontend.API, bits []frontend.Variable) {
	max := new(big.Int).Sub(api.Compiler().Field(), big.NewInt(1))
	eq := frontend.Variable(1)
	for i := len(bits) - 1; i >= 0; i-- {
		if max.Bit(i) == 1 {
			eq = api.Mul(eq, bits[i])
		} else {
			api.AssertIsEqual(api.Mul(eq, bits[i]), 0)
		}
	}
}
