// Package keyexport turns one circuit shape into reusable proving and
// verification artifacts: it drives the one-time groth16 setup,
// serializes both keys to the portable JSON interchange format, and
// runs witness proving with a satisfiability gate in front of the
// backend.
package keyexport

import (
	"fmt"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark/backend/groth16"
	groth16_bn254 "github.com/consensys/gnark/backend/groth16/bn254"
)

// ProvingKeyJSON is the interchange form of a groth16 proving key.
// G1 points are [x, y, flag] decimal-string triples, G2 points are
// [[x0, x1], [y0, y1], [flag, "0"]] over the quadratic extension; the
// flag is "1" for an affine point and "0" at infinity. C holds one
// empty slot per public-input position, then the private-witness
// points.
//
// The format covers the snarkjs-compatible subset of a gnark key: the
// Pedersen commitment keys gnark attaches to circuits that use
// commitments (range-checked emulated arithmetic among them) have no
// representation here and are not exported. Proving with the in-memory
// key is unaffected; a consumer of the JSON form only gets the groth16
// point tables above.
type ProvingKeyJSON struct {
	A        [][]string   `json:"A"`
	B1       [][]string   `json:"B1"`
	B2       [][][]string `json:"B2"`
	C        [][]string   `json:"C"`
	VkAlfa1  []string     `json:"vk_alfa_1"`
	VkBeta1  []string     `json:"vk_beta_1"`
	VkDelta1 []string     `json:"vk_delta_1"`
	VkBeta2  [][]string   `json:"vk_beta_2"`
	VkDelta2 [][]string   `json:"vk_delta_2"`
	HExps    [][]string   `json:"hExps"`
}

// VerifyingKeyJSON is the interchange form of a groth16 verifying key.
type VerifyingKeyJSON struct {
	IC       [][]string `json:"IC"`
	VkAlfa1  []string   `json:"vk_alfa_1"`
	VkBeta2  [][]string `json:"vk_beta_2"`
	VkGamma2 [][]string `json:"vk_gamma_2"`
	VkDelta2 [][]string `json:"vk_delta_2"`
}

func g1ToJSON(p *bn254.G1Affine) []string {
	flag := "1"
	if p.IsInfinity() {
		flag = "0"
	}
	return []string{p.X.String(), p.Y.String(), flag}
}

func g2ToJSON(p *bn254.G2Affine) [][]string {
	flag := "1"
	if p.IsInfinity() {
		flag = "0"
	}
	return [][]string{
		{p.X.A0.String(), p.X.A1.String()},
		{p.Y.A0.String(), p.Y.A1.String()},
		{flag, "0"},
	}
}

func g1SliceToJSON(ps []bn254.G1Affine) [][]string {
	out := make([][]string, len(ps))
	for i := range ps {
		out[i] = g1ToJSON(&ps[i])
	}
	return out
}

func g2SliceToJSON(ps []bn254.G2Affine) [][][]string {
	out := make([][][]string, len(ps))
	for i := range ps {
		out[i] = g2ToJSON(&ps[i])
	}
	return out
}

// expandG1 restores the full wire-indexed point slice from gnark's
// compacted storage, reinserting the points the infinity bitmap
// elides.
func expandG1(compact []bn254.G1Affine, infinity []bool) []bn254.G1Affine {
	if len(infinity) == 0 {
		return compact
	}
	out := make([]bn254.G1Affine, len(infinity))
	next := 0
	for i, isInf := range infinity {
		if isInf {
			continue // zero value is the point at infinity
		}
		out[i] = compact[next]
		next++
	}
	return out
}

func expandG2(compact []bn254.G2Affine, infinity []bool) []bn254.G2Affine {
	if len(infinity) == 0 {
		return compact
	}
	out := make([]bn254.G2Affine, len(infinity))
	next := 0
	for i, isInf := range infinity {
		if isInf {
			continue
		}
		out[i] = compact[next]
		next++
	}
	return out
}

// NewProvingKeyJSON converts a bn254 groth16 proving key. The paired
// verifying key supplies the public-input count that sizes the empty
// prefix of C.
func NewProvingKeyJSON(pk groth16.ProvingKey, vk groth16.VerifyingKey) (*ProvingKeyJSON, error) {
	tpk, ok := pk.(*groth16_bn254.ProvingKey)
	if !ok {
		return nil, fmt.Errorf("keyexport: expected a bn254 proving key, got %T", pk)
	}
	tvk, ok := vk.(*groth16_bn254.VerifyingKey)
	if !ok {
		return nil, fmt.Errorf("keyexport: expected a bn254 verifying key, got %T", vk)
	}

	c := make([][]string, 0, len(tvk.G1.K)+len(tpk.G1.K))
	for range tvk.G1.K {
		c = append(c, nil)
	}
	for i := range tpk.G1.K {
		c = append(c, g1ToJSON(&tpk.G1.K[i]))
	}

	return &ProvingKeyJSON{
		A:        g1SliceToJSON(expandG1(tpk.G1.A, tpk.InfinityA)),
		B1:       g1SliceToJSON(expandG1(tpk.G1.B, tpk.InfinityB)),
		B2:       g2SliceToJSON(expandG2(tpk.G2.B, tpk.InfinityB)),
		C:        c,
		VkAlfa1:  g1ToJSON(&tpk.G1.Alpha),
		VkBeta1:  g1ToJSON(&tpk.G1.Beta),
		VkDelta1: g1ToJSON(&tpk.G1.Delta),
		VkBeta2:  g2ToJSON(&tpk.G2.Beta),
		VkDelta2: g2ToJSON(&tpk.G2.Delta),
		HExps:    g1SliceToJSON(tpk.G1.Z),
	}, nil
}

// NewVerifyingKeyJSON converts a bn254 groth16 verifying key.
func NewVerifyingKeyJSON(vk groth16.VerifyingKey) (*VerifyingKeyJSON, error) {
	tvk, ok := vk.(*groth16_bn254.VerifyingKey)
	if !ok {
		return nil, fmt.Errorf("keyexport: expected a bn254 verifying key, got %T", vk)
	}
	return &VerifyingKeyJSON{
		IC:       g1SliceToJSON(tvk.G1.K),
		VkAlfa1:  g1ToJSON(&tvk.G1.Alpha),
		VkBeta2:  g2ToJSON(&tvk.G2.Beta),
		VkGamma2: g2ToJSON(&tvk.G2.Gamma),
		VkDelta2: g2ToJSON(&tvk.G2.Delta),
	}, nil
}
