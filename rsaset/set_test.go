package rsaset

import (
	"math/big"
	"testing"
)

func testGroup(t *testing.T) Group {
	t.Helper()
	g, err := NewGroup(2, RSA512)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestNewGroupRejectsBadModulus(t *testing.T) {
	if _, err := NewGroup(2, "not-a-number"); err == nil {
		t.Fatal("expected error for malformed modulus")
	}
	if _, err := NewGroup(2, "65537"); err == nil {
		t.Fatal("expected error for undersized modulus")
	}
	if _, err := NewGroup(1, RSA512); err == nil {
		t.Fatal("expected error for trivial generator")
	}
}

func TestDigestMatchesDirectExponentiation(t *testing.T) {
	group := testGroup(t)
	s := NewSet(group)
	a, b := big.NewInt(101), big.NewInt(103)
	s.Insert(a)
	s.Insert(b)

	exp := new(big.Int).Mul(a, b)
	want := new(big.Int).Exp(group.G, exp, group.M)
	if got := s.Digest(); got.Cmp(want) != 0 {
		t.Fatalf("digest = %s, want %s", got, want)
	}
}

func TestDigestOrderIndependent(t *testing.T) {
	group := testGroup(t)
	elems := []*big.Int{big.NewInt(3), big.NewInt(5), big.NewInt(17)}

	fwd, rev := NewSet(group), NewSet(group)
	for i := range elems {
		fwd.Insert(elems[i])
		rev.Insert(elems[len(elems)-1-i])
	}
	if fwd.Digest().Cmp(rev.Digest()) != 0 {
		t.Fatal("digest depends on insertion order")
	}
}

func TestRemoveNonMember(t *testing.T) {
	group := testGroup(t)
	s := NewSet(group)
	s.Insert(big.NewInt(7))

	before := s.Digest()
	if err := s.Remove(big.NewInt(11)); err == nil {
		t.Fatal("expected error removing a non-member")
	}
	if s.Len() != 1 || s.Digest().Cmp(before) != 0 {
		t.Fatal("failed removal mutated the set")
	}
}

func TestRemoveInsertRoundTrip(t *testing.T) {
	group := testGroup(t)
	s := NewSet(group)
	s.Insert(big.NewInt(7))
	s.Insert(big.NewInt(11))
	base := s.Digest()

	e := big.NewInt(13)
	s.Insert(e)
	if s.Digest().Cmp(base) == 0 {
		t.Fatal("insert did not change the digest")
	}
	if err := s.Remove(e); err != nil {
		t.Fatal(err)
	}
	if s.Digest().Cmp(base) != 0 {
		t.Fatal("remove did not restore the digest")
	}
}

func TestDuplicatesAreMultisetMembers(t *testing.T) {
	group := testGroup(t)
	s := NewSet(group)
	e := big.NewInt(19)
	s.Insert(e)
	s.Insert(e)

	if err := s.Remove(e); err != nil {
		t.Fatal(err)
	}
	if !s.Contains(e) {
		t.Fatal("second occurrence should survive removing the first")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	group := testGroup(t)
	s := NewSet(group)
	s.Insert(big.NewInt(23))

	c := s.Clone()
	c.Insert(big.NewInt(29))
	if s.Len() != 1 {
		t.Fatal("mutating the clone changed the original")
	}
}
