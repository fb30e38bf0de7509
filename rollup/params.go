// Package rollup proves that an RSA set accumulator was correctly
// updated by a batch of removals and insertions. The circuit shows
// knowledge of the removed and inserted items transforming a private
// initial digest into a publicly claimed final digest, without
// revealing the items or the untouched members.
package rollup

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/std/math/emulated"

	"rollup_gnark/domainhash"
	"rollup_gnark/rsaset"
)

// Challenge is the fixed 128-bit integer batching the exponentiation
// equality checks.
// TODO derive the challenge from a transcript hash of the public inputs.
const Challenge = "274481455456098291870407972073878126369"

var challengeValue, _ = new(big.Int).SetString(Challenge, 10)

// Params fixes a circuit shape. Two circuits are setup-compatible only
// if every field matches exactly; keys generated for one Params value
// verify nothing built from another.
type Params struct {
	Group rsaset.Group

	// Big-integer layout. LimbWidth and NBitsBase must agree with the
	// emulated field capacity parameter the circuit is instantiated
	// with (64-bit limbs for the emparams.Mod1e* family).
	LimbWidth int
	NBitsBase int

	// Domain embedding.
	NBitsElem    int
	TrailingOnes int

	NBitsChallenge int

	// Batch shape.
	ItemSize int
	NRemoves int
	NInserts int
}

// Domain returns the hash embedding descriptor.
func (p Params) Domain() domainhash.Domain {
	return domainhash.Domain{Bits: p.NBitsElem, TrailingOnes: p.TrailingOnes}
}

// Validate checks the shape configuration eagerly, before any circuit
// or witness work starts.
func (p Params) Validate() error {
	if p.Group.G == nil || p.Group.M == nil {
		return fmt.Errorf("rollup: params missing group")
	}
	if p.LimbWidth < 1 || p.NBitsBase%p.LimbWidth != 0 {
		return fmt.Errorf("rollup: base width %d is not a multiple of limb width %d", p.NBitsBase, p.LimbWidth)
	}
	if p.Group.M.BitLen() > p.NBitsBase {
		return fmt.Errorf("rollup: %d-bit modulus exceeds %d-bit base", p.Group.M.BitLen(), p.NBitsBase)
	}
	if p.NBitsElem < 1 || p.NBitsElem > p.NBitsBase {
		return fmt.Errorf("rollup: element width %d out of range (1..%d)", p.NBitsElem, p.NBitsBase)
	}
	if p.TrailingOnes < 0 || p.TrailingOnes > p.NBitsElem {
		return fmt.Errorf("rollup: %d trailing ones do not fit in %d-bit elements", p.TrailingOnes, p.NBitsElem)
	}
	if p.NBitsChallenge < challengeValue.BitLen() {
		return fmt.Errorf("rollup: challenge width %d below the %d-bit protocol challenge", p.NBitsChallenge, challengeValue.BitLen())
	}
	if p.ItemSize < 1 {
		return fmt.Errorf("rollup: item size must be positive, got %d", p.ItemSize)
	}
	// An empty batch would leave its quotient witness unconstrained in
	// the circuit; a transition must remove and insert at least one
	// item.
	if p.NRemoves < 1 || p.NInserts < 1 {
		return fmt.Errorf("rollup: batch counts must be positive, got %d removes and %d inserts", p.NRemoves, p.NInserts)
	}
	return nil
}

// checkFieldParams verifies that the emulated capacity type T matches
// the limb layout Params promises.
func checkFieldParams[T emulated.FieldParams](p Params) error {
	var fp T
	if int(fp.BitsPerLimb()) != p.LimbWidth {
		return fmt.Errorf("rollup: params limb width %d, field parameter has %d", p.LimbWidth, fp.BitsPerLimb())
	}
	if capacity := int(fp.NbLimbs()) * int(fp.BitsPerLimb()); capacity != p.NBitsBase {
		return fmt.Errorf("rollup: params base width %d, field parameter holds %d bits", p.NBitsBase, capacity)
	}
	return nil
}
