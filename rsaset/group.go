// Package rsaset implements the native side of an RSA set accumulator:
// a group of unknown order and a naive backend that keeps the explicit
// multiset of accumulated elements. The backend only serves witness
// construction; nothing in this package runs inside a circuit.
package rsaset

import (
	"fmt"
	"math/big"
)

// Published RSA challenge moduli of unknown factorization.
const (
	// RSA2048, from https://en.wikipedia.org/wiki/RSA_numbers#RSA-2048
	RSA2048 = "25195908475657893494027183240048398571429282126204032027777137836043662020707595556264018525880784406918290641249515082189298559149176184502808489120072844992687392807287776735971418347270261896375014971824691165077613379859095700097330459748808428401797429100642458691817195118746121515172654632282216869987549182422433637259085141865462043576798423387184774447920739934236584823824281198163815010674810451660377306056201619676256133844143603833904414952634432190114657544454178424020924616515723350778707749817125772467962926386356373289912154831438167899885040445364023527381951378636564391212010397122822120720357"

	// RSA512 keeps test circuits small. Generated with openssl; its
	// factorization was discarded.
	RSA512 = "11834783464130424096695514462778870280264989938857328737807205623069291535525952722847913694296392927890261736769191982212777933726583565708193466779811767"
)

// MinModulusBits is the smallest modulus size the accumulator accepts.
const MinModulusBits = 512

// Group is an RSA group: a generator G of a cyclic subgroup of unknown
// order modulo M. M's factorization is unknown to all parties. A Group
// is immutable for the lifetime of a deployment.
type Group struct {
	G *big.Int
	M *big.Int
}

// NewGroup parses a decimal modulus string and pairs it with a small
// generator. Malformed or undersized moduli are configuration errors.
func NewGroup(generator int64, modulus string) (Group, error) {
	m, ok := new(big.Int).SetString(modulus, 10)
	if !ok {
		return Group{}, fmt.Errorf("rsaset: malformed modulus %q", modulus)
	}
	if m.BitLen() < MinModulusBits {
		return Group{}, fmt.Errorf("rsaset: modulus is %d bits, need at least %d", m.BitLen(), MinModulusBits)
	}
	if generator < 2 {
		return Group{}, fmt.Errorf("rsaset: generator must be at least 2, got %d", generator)
	}
	return Group{G: big.NewInt(generator), M: m}, nil
}

// Power returns base^exp mod M.
func (g Group) Power(base, exp *big.Int) *big.Int {
	return new(big.Int).Exp(base, exp, g.M)
}
