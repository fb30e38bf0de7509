// Package domainhash maps application items (fixed-length tuples of
// field values) to bounded-bit-length integers suitable for RSA
// accumulator membership. The native and in-circuit implementations
// consume the MiMC stream with the exact same schedule; the two must
// stay bit-for-bit identical or the transition protocol loses
// soundness, so every change here needs a matching change in
// circuit.go and coverage in the differential tests.
package domainhash

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

// ChunkBits is how many low-order bits of each MiMC output feed the
// domain element. Chaining h(i+1) = MiMC(h(i)) extends the stream for
// domains wider than one chunk.
const ChunkBits = 128

// Domain describes the embedding target: elements are strictly below
// 2^Bits with the lowest TrailingOnes bits forced to 1. The forced
// ones reduce the chance of small-factor collisions in an RSA group;
// they are not a primality guarantee.
type Domain struct {
	Bits         int
	TrailingOnes int
}

func (d Domain) validate() error {
	if d.Bits < 1 {
		return fmt.Errorf("domainhash: domain width must be positive, got %d", d.Bits)
	}
	if d.TrailingOnes < 0 || d.TrailingOnes > d.Bits {
		return fmt.Errorf("domainhash: %d trailing ones do not fit in %d bits", d.TrailingOnes, d.Bits)
	}
	return nil
}

// mask returns 2^n - 1.
func mask(n int) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(n))
	return m.Sub(m, big.NewInt(1))
}

// Hash maps items to a domain element natively. Each item value is
// reduced into the bn254 scalar field before hashing, matching the
// circuit's implicit reduction of witness values.
func Hash(items []*big.Int, d Domain) (*big.Int, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("domainhash: empty item")
	}
	h := mimc.NewMiMC()
	for _, it := range items {
		var e fr.Element
		e.SetBigInt(it)
		b := e.Bytes()
		if _, err := h.Write(b[:]); err != nil {
			return nil, err
		}
	}
	state := h.Sum(nil)

	out := new(big.Int)
	for off := 0; off < d.Bits; off += ChunkBits {
		if off > 0 {
			h.Reset()
			if _, err := h.Write(state); err != nil {
				return nil, err
			}
			state = h.Sum(nil)
		}
		chunk := new(big.Int).SetBytes(state)
		chunk.And(chunk, mask(min(ChunkBits, d.Bits-off)))
		out.Or(out, chunk.Lsh(chunk, uint(off)))
	}
	out.Or(out, mask(d.TrailingOnes))
	return out, nil
}
