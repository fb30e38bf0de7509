package rollup

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/std/math/emulated"

	"rollup_gnark/domainhash"
	"rollup_gnark/rsaset"
)

// Inputs is the single-use witness of one transition: the explicit
// initial set, the item tuples to remove and insert, and the expected
// final digest. An Inputs value must never be reused across circuit
// instantiations.
type Inputs struct {
	InitialState *rsaset.Set
	FinalDigest  *big.Int
	ToRemove     [][]*big.Int
	ToInsert     [][]*big.Int
}

// NewInputs builds the witness for a transition over untouched,
// removed and inserted item tuples. The initial state accumulates the
// untouched and removed items; the final digest accumulates the
// untouched and inserted ones, recomputed by the same
// remove-then-insert sequence the circuit verifies.
func NewInputs(p Params, untouched, removed, inserted [][]*big.Int) (*Inputs, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	d := p.Domain()
	hashAll := func(items [][]*big.Int) ([]*big.Int, error) {
		out := make([]*big.Int, len(items))
		for i, it := range items {
			if len(it) != p.ItemSize {
				return nil, fmt.Errorf("rollup: item %d has %d values, params say %d", i, len(it), p.ItemSize)
			}
			var err error
			if out[i], err = domainhash.Hash(it, d); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	untouchedHashes, err := hashAll(untouched)
	if err != nil {
		return nil, err
	}
	removedHashes, err := hashAll(removed)
	if err != nil {
		return nil, err
	}
	insertedHashes, err := hashAll(inserted)
	if err != nil {
		return nil, err
	}

	initial := rsaset.NewSet(p.Group)
	for _, h := range untouchedHashes {
		initial.Insert(h)
	}
	for _, h := range removedHashes {
		initial.Insert(h)
	}

	final := rsaset.NewSet(p.Group)
	for _, h := range untouchedHashes {
		final.Insert(h)
	}
	for _, h := range insertedHashes {
		final.Insert(h)
	}

	return &Inputs{
		InitialState: initial,
		FinalDigest:  final.Digest(),
		ToRemove:     removed,
		ToInsert:     inserted,
	}, nil
}

// InputsFromCounts builds a synthetic witness with the given batch
// sizes, for parameter-generation runs and benchmarks.
func InputsFromCounts(p Params, nUntouched, nRemoved, nInserted int) (*Inputs, error) {
	items := func(n int) [][]*big.Int {
		out := make([][]*big.Int, n)
		for i := range out {
			out[i] = make([]*big.Int, p.ItemSize)
			for j := range out[i] {
				v, _ := new(big.Int).SetString(fmt.Sprintf("1%06d%03d", i, j), 10)
				out[i][j] = v
			}
		}
		return out
	}
	return NewInputs(p, items(nUntouched), items(nRemoved), items(nInserted))
}

// NewAssignment turns a witness into a fully assigned circuit. Every
// value a proving run needs is computed or validated here; handing an
// incomplete assignment to the prover is an internal invariant
// violation this constructor makes impossible.
func NewAssignment[T emulated.FieldParams](p Params, in *Inputs) (*Circuit[T], error) {
	if err := checkFieldParams[T](p); err != nil {
		return nil, err
	}
	if len(in.ToRemove) != p.NRemoves || len(in.ToInsert) != p.NInserts {
		return nil, fmt.Errorf("rollup: witness has %d removes and %d inserts, shape wants %d and %d",
			len(in.ToRemove), len(in.ToInsert), p.NRemoves, p.NInserts)
	}

	d := p.Domain()
	removedHashes := make([]*big.Int, p.NRemoves)
	for i, it := range in.ToRemove {
		var err error
		if removedHashes[i], err = domainhash.Hash(it, d); err != nil {
			return nil, err
		}
	}
	insertedHashes := make([]*big.Int, p.NInserts)
	for i, it := range in.ToInsert {
		var err error
		if insertedHashes[i], err = domainhash.Hash(it, d); err != nil {
			return nil, err
		}
	}

	// Reduce natively. A removal of a non-member fails here, before
	// any proving work: no satisfying reduced digest exists.
	reduced := in.InitialState.Clone()
	for _, h := range removedHashes {
		if err := reduced.Remove(h); err != nil {
			return nil, fmt.Errorf("rollup: unsatisfiable removal: %w", err)
		}
	}
	reducedDigest := reduced.Digest()

	c, err := NewCircuit[T](p)
	if err != nil {
		return nil, err
	}
	c.Generator = emulated.ValueOf[T](p.Group.G)
	c.Modulus = emulated.ValueOf[T](p.Group.M)
	c.FinalDigest = emulated.ValueOf[T](in.FinalDigest)
	c.Challenge = emulated.ValueOf[T](challengeValue)
	c.InitialDigest = emulated.ValueOf[T](in.InitialState.Digest())
	c.ReducedDigest = emulated.ValueOf[T](reducedDigest)
	c.RemoveQuotient = emulated.ValueOf[T](quotientWitness(p.Group, reducedDigest, removedHashes))
	c.InsertQuotient = emulated.ValueOf[T](quotientWitness(p.Group, reducedDigest, insertedHashes))
	for i, it := range in.ToRemove {
		for j, v := range it {
			c.Removed[i][j] = v
		}
	}
	for i, it := range in.ToInsert {
		for j, v := range it {
			c.Inserted[i][j] = v
		}
	}
	return c, nil
}

// quotientWitness computes base^floor(e/c) mod M for the exponent
// e = product of elems, the prover side of the challenge-batched
// exponentiation check.
func quotientWitness(group rsaset.Group, base *big.Int, elems []*big.Int) *big.Int {
	e := big.NewInt(1)
	for _, h := range elems {
		e.Mul(e, h)
	}
	return group.Power(base, e.Quo(e, challengeValue))
}
