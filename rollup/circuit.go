package rollup

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/emulated"

	"rollup_gnark/domainhash"
)

// Circuit proves one accumulator transition: starting from a private
// initial digest, removing NRemoves items and inserting NInserts items
// yields the public final digest. The group and the claimed final
// digest are the only public inputs; the items, the initial digest and
// the intermediate reduced digest stay private.
//
// Each exponentiation equality y = x^(product of hashed elements) is
// checked with the challenge-batched protocol: the prover supplies the
// quotient witness q = x^floor(e/c) for challenge c, the circuit folds
// rem = e mod c out of the hashed elements and asserts
// q^c * x^rem == y (mod M). Constraint count therefore depends on the
// challenge width and the batch shape, never on the magnitude of e.
type Circuit[T emulated.FieldParams] struct {
	Generator   emulated.Element[T] `gnark:",public"`
	Modulus     emulated.Element[T] `gnark:",public"`
	FinalDigest emulated.Element[T] `gnark:",public"`

	Challenge     emulated.Element[T]
	InitialDigest emulated.Element[T]

	// ReducedDigest is the prover's candidate digest after removals;
	// the remove check binds it to InitialDigest, the insert check
	// expands it towards FinalDigest. Order matters: inserting on the
	// original digest instead would let removals cancel against
	// unrelated elements.
	ReducedDigest  emulated.Element[T]
	RemoveQuotient emulated.Element[T]
	InsertQuotient emulated.Element[T]

	Removed  [][]frontend.Variable
	Inserted [][]frontend.Variable

	params Params
}

// NewCircuit returns a shape-only circuit: every slice is sized from
// the params and no witness value is present. Constraint structure
// depends on params alone, so the result is what setup compiles.
func NewCircuit[T emulated.FieldParams](p Params) (*Circuit[T], error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := checkFieldParams[T](p); err != nil {
		return nil, err
	}
	c := &Circuit[T]{
		Removed:  make([][]frontend.Variable, p.NRemoves),
		Inserted: make([][]frontend.Variable, p.NInserts),
		params:   p,
	}
	for i := range c.Removed {
		c.Removed[i] = make([]frontend.Variable, p.ItemSize)
	}
	for i := range c.Inserted {
		c.Inserted[i] = make([]frontend.Variable, p.ItemSize)
	}
	return c, nil
}

func (c *Circuit[T]) Define(api frontend.API) error {
	f, err := emulated.NewField[T](api)
	if err != nil {
		return err
	}
	d := c.params.Domain()

	removed := make([]*emulated.Element[T], len(c.Removed))
	for i, item := range c.Removed {
		if removed[i], err = domainhash.HashToDomain(api, f, item, d); err != nil {
			return err
		}
	}
	inserted := make([]*emulated.Element[T], len(c.Inserted))
	for i, item := range c.Inserted {
		if inserted[i], err = domainhash.HashToDomain(api, f, item, d); err != nil {
			return err
		}
	}

	// Remove: InitialDigest == ReducedDigest^(product of removed).
	recovered := c.power(f, &c.ReducedDigest, &c.RemoveQuotient, removed)
	f.ModAssertIsEqual(recovered, &c.InitialDigest, &c.Modulus)

	// Insert on the already-reduced digest, then pin the result to the
	// publicly claimed final digest.
	expanded := c.power(f, &c.ReducedDigest, &c.InsertQuotient, inserted)
	f.ModAssertIsEqual(expanded, &c.FinalDigest, &c.Modulus)
	return nil
}

// power returns base^(product of elems) mod Modulus using the
// challenge-batched check described on Circuit. quotient is the
// prover-supplied base^floor(e/c); an inconsistent quotient makes the
// enclosing equality assertions unsatisfiable rather than erroring.
func (c *Circuit[T]) power(f *emulated.Field[T], base, quotient *emulated.Element[T], elems []*emulated.Element[T]) *emulated.Element[T] {
	rem := f.ModMul(elems[0], f.One(), &c.Challenge)
	for _, e := range elems[1:] {
		rem = f.ModMul(rem, e, &c.Challenge)
	}
	qc := f.ModExp(quotient, &c.Challenge, &c.Modulus)
	br := f.ModExp(base, rem, &c.Modulus)
	return f.ModMul(qc, br, &c.Modulus)
}
