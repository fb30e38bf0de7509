package domainhash

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/emulated"
	"github.com/consensys/gnark/std/math/emulated/emparams"
	"github.com/consensys/gnark/test"
)

func items(vals ...int64) []*big.Int {
	out := make([]*big.Int, len(vals))
	for i, v := range vals {
		out[i] = big.NewInt(v)
	}
	return out
}

func TestHashBounds(t *testing.T) {
	for _, tc := range []struct {
		name string
		d    Domain
	}{
		{"one-chunk", Domain{Bits: 128, TrailingOnes: 1}},
		{"partial-chunk", Domain{Bits: 100, TrailingOnes: 1}},
		{"multi-chunk", Domain{Bits: 512, TrailingOnes: 3}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Hash(items(0, 1, 2, 3, 4), tc.d)
			if err != nil {
				t.Fatal(err)
			}
			if got.BitLen() > tc.d.Bits {
				t.Fatalf("element has %d bits, domain is %d", got.BitLen(), tc.d.Bits)
			}
			for i := 0; i < tc.d.TrailingOnes; i++ {
				if got.Bit(i) != 1 {
					t.Fatalf("trailing bit %d is not set", i)
				}
			}
		})
	}
}

func TestHashDeterministic(t *testing.T) {
	d := Domain{Bits: 128, TrailingOnes: 1}
	a, err := Hash(items(0, 1, 2, 3, 4), d)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Hash(items(0, 1, 2, 3, 4), d)
	if err != nil {
		t.Fatal(err)
	}
	if a.Cmp(b) != 0 {
		t.Fatalf("same tuple hashed to %s and %s", a, b)
	}
	c, err := Hash(items(0, 1, 2, 3, 5), d)
	if err != nil {
		t.Fatal(err)
	}
	if a.Cmp(c) == 0 {
		t.Fatal("distinct tuples collided")
	}
}

func TestHashRejectsBadDomain(t *testing.T) {
	if _, err := Hash(items(1), Domain{Bits: 0}); err == nil {
		t.Fatal("expected error for zero-width domain")
	}
	if _, err := Hash(items(1), Domain{Bits: 8, TrailingOnes: 9}); err == nil {
		t.Fatal("expected error for oversized trailing ones")
	}
	if _, err := Hash(nil, Domain{Bits: 128, TrailingOnes: 1}); err == nil {
		t.Fatal("expected error for empty item")
	}
}

// canonicalCircuit exposes the strict-decomposition check on a raw bit
// string.
type canonicalCircuit struct {
	Bits []frontend.Variable
}

func (c *canonicalCircuit) Define(api frontend.API) error {
	assertCanonical(api, c.Bits)
	return nil
}

// A bit string recomposing to the same residue via the modulus offset
// has different low bits than the canonical value; the strict check
// must reject it, or a prover could feed the circuit a domain element
// the native Hash never produced.
func TestAliasedDecompositionRejected(t *testing.T) {
	assert := test.NewAssert(t)
	modulus := ecc.BN254.ScalarField()
	nbBits := modulus.BitLen()

	toBits := func(v *big.Int) []frontend.Variable {
		out := make([]frontend.Variable, nbBits)
		for i := range out {
			out[i] = v.Bit(i)
		}
		return out
	}
	circuit := &canonicalCircuit{Bits: make([]frontend.Variable, nbBits)}

	// Canonical values, including the largest one, pass.
	small := big.NewInt(12345)
	assert.NoError(test.IsSolved(circuit, &canonicalCircuit{Bits: toBits(small)}, modulus))
	maxCanonical := new(big.Int).Sub(modulus, big.NewInt(1))
	assert.NoError(test.IsSolved(circuit, &canonicalCircuit{Bits: toBits(maxCanonical)}, modulus))

	// The alias small+modulus recomposes to the same residue but must
	// not satisfy the check.
	alias := new(big.Int).Add(small, modulus)
	assert.Error(test.IsSolved(circuit, &canonicalCircuit{Bits: toBits(alias)}, modulus))
	assert.Error(test.IsSolved(circuit, &canonicalCircuit{Bits: toBits(modulus)}, modulus))
}

// hashCircuit recomputes the domain element in-circuit and pins it to
// the natively computed value.
type hashCircuit struct {
	Items    []frontend.Variable
	Expected emulated.Element[emparams.Mod1e512]

	domain Domain
}

func (c *hashCircuit) Define(api frontend.API) error {
	f, err := emulated.NewField[emparams.Mod1e512](api)
	if err != nil {
		return err
	}
	got, err := HashToDomain(api, f, c.Items, c.domain)
	if err != nil {
		return err
	}
	f.AssertIsEqual(got, &c.Expected)
	return nil
}

// The native and in-circuit embeddings must agree bit for bit; any
// divergence silently breaks the transition protocol.
func TestNativeCircuitAgree(t *testing.T) {
	assert := test.NewAssert(t)

	for _, tc := range []struct {
		name string
		d    Domain
		vals []int64
	}{
		{"swap-item", Domain{Bits: 128, TrailingOnes: 1}, []int64{0, 1, 2, 3, 4}},
		{"partial-chunk", Domain{Bits: 100, TrailingOnes: 1}, []int64{0, 1, 2, 3, 5}},
		{"multi-chunk", Domain{Bits: 300, TrailingOnes: 3}, []int64{9, 8, 7, 6, 5}},
	} {
		assert.Run(func(assert *test.Assert) {
			in := items(tc.vals...)
			want, err := Hash(in, tc.d)
			assert.NoError(err)

			circuit := &hashCircuit{Items: make([]frontend.Variable, len(in)), domain: tc.d}
			assignment := &hashCircuit{
				Items:    make([]frontend.Variable, len(in)),
				Expected: emulated.ValueOf[emparams.Mod1e512](want),
				domain:   tc.d,
			}
			for i, v := range in {
				assignment.Items[i] = v
			}
			assert.NoError(test.IsSolved(circuit, assignment, ecc.BN254.ScalarField()))
		}, tc.name)
	}
}
