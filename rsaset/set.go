package rsaset

import (
	"fmt"
	"math/big"
)

// Set is the naive accumulator backend: the explicit multiset of
// currently accumulated domain elements. Digests are recomputed by
// full exponentiation, so this type is only suitable for building the
// expected witness of a transition, never for in-circuit use.
type Set struct {
	group    Group
	elements []*big.Int
}

// NewSet returns an empty accumulator over the given group.
func NewSet(group Group) *Set {
	return &Set{group: group}
}

// Group returns the group the set accumulates in.
func (s *Set) Group() Group { return s.group }

// Len returns the number of accumulated elements, counting duplicates.
func (s *Set) Len() int { return len(s.elements) }

// Insert adds one occurrence of e to the multiset.
func (s *Set) Insert(e *big.Int) {
	s.elements = append(s.elements, e)
}

// Remove deletes one occurrence of e. Removing an element that is not
// a member is the defined unsatisfiable outcome of the transition
// protocol: it reports an error and leaves the set unchanged.
func (s *Set) Remove(e *big.Int) error {
	for i, m := range s.elements {
		if m.Cmp(e) == 0 {
			s.elements = append(s.elements[:i], s.elements[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("rsaset: element %s is not a member", e)
}

// Contains reports whether at least one occurrence of e is a member.
func (s *Set) Contains(e *big.Int) bool {
	for _, m := range s.elements {
		if m.Cmp(e) == 0 {
			return true
		}
	}
	return false
}

// Digest recomputes the accumulator commitment G^(product of all
// members) mod M by folding one exponentiation per member. The result
// does not depend on insertion order.
func (s *Set) Digest() *big.Int {
	acc := new(big.Int).Set(s.group.G)
	for _, e := range s.elements {
		acc = s.group.Power(acc, e)
	}
	return acc
}

// Clone returns an independent copy. Elements are shared, which is
// safe because members are never mutated in place.
func (s *Set) Clone() *Set {
	c := &Set{group: s.group, elements: make([]*big.Int, len(s.elements))}
	copy(c.elements, s.elements)
	return c
}
