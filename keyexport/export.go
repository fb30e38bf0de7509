package keyexport

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/rs/zerolog/log"

	"rollup_gnark/rsaset"
)

// Setup runs the one-time randomized parameter generation over a
// compiled shape. It must run exactly once per distinct shape: the
// setup randomness lives and dies inside this call, and reusing it for
// a second run would make proofs forgeable.
func Setup(ccs constraint.ConstraintSystem) (groth16.ProvingKey, groth16.VerifyingKey, error) {
	log.Info().Int("constraints", ccs.GetNbConstraints()).Msg("running groth16 setup")
	return groth16.Setup(ccs)
}

// WriteKeys serializes both keys to their JSON interchange form and
// publishes them at pkPath and vkPath with create-new semantics. An
// existing file at either destination is an error, never replaced:
// clobbering a key invalidates every proof generated against it with
// no signal to downstream consumers. Both destinations are checked
// before either file is published, so a blocked path cannot leave one
// fresh key behind.
func WriteKeys(pk groth16.ProvingKey, vk groth16.VerifyingKey, vkPath, pkPath string) error {
	for _, path := range []string{pkPath, vkPath} {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("keyexport: %s already exists", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("keyexport: stat %s: %w", path, err)
		}
	}
	pkJSON, err := NewProvingKeyJSON(pk, vk)
	if err != nil {
		return err
	}
	vkJSON, err := NewVerifyingKeyJSON(vk)
	if err != nil {
		return err
	}
	pkData, err := json.Marshal(pkJSON)
	if err != nil {
		return fmt.Errorf("keyexport: encode proving key: %w", err)
	}
	vkData, err := json.Marshal(vkJSON)
	if err != nil {
		return fmt.Errorf("keyexport: encode verifying key: %w", err)
	}
	if err := writeNew(pkPath, pkData); err != nil {
		return err
	}
	if err := writeNew(vkPath, vkData); err != nil {
		return err
	}
	log.Info().Str("vkFile", vkPath).Str("pkFile", pkPath).Msg("keys exported")
	return nil
}

// writeNew publishes data at path fail-if-exists and atomically: the
// full content goes to a temp file in the destination directory, which
// is then linked into place. Linking fails if path already exists, and
// a reader can never observe a torn file.
func writeNew(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("keyexport: create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("keyexport: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("keyexport: write %s: %w", path, err)
	}
	if err := os.Link(tmp.Name(), path); err != nil {
		return fmt.Errorf("keyexport: publish %s: %w", path, err)
	}
	return nil
}

// Prove generates one proof for a fully assigned circuit. The witness
// is checked for satisfiability first: the proving backend is not
// guaranteed to reject an unsatisfiable witness, so a proof must never
// be produced from one.
func Prove(ccs constraint.ConstraintSystem, pk groth16.ProvingKey, assignment frontend.Circuit) (groth16.Proof, error) {
	w, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, fmt.Errorf("keyexport: build witness: %w", err)
	}
	if err := ccs.IsSolved(w); err != nil {
		return nil, fmt.Errorf("keyexport: witness does not satisfy the circuit: %w", err)
	}
	return groth16.Prove(ccs, pk, w)
}

// PackPublicInputs returns the public-input vector an external
// verifier checks a proof against: generator, modulus and final
// digest, each as limbWidth-bit little-endian limbs, in the circuit's
// declaration order.
func PackPublicInputs(group rsaset.Group, finalDigest *big.Int, limbWidth, nbLimbs int) []*big.Int {
	out := make([]*big.Int, 0, 3*nbLimbs)
	out = append(out, limbs(group.G, limbWidth, nbLimbs)...)
	out = append(out, limbs(group.M, limbWidth, nbLimbs)...)
	out = append(out, limbs(finalDigest, limbWidth, nbLimbs)...)
	return out
}

func limbs(v *big.Int, width, n int) []*big.Int {
	mask := new(big.Int).Lsh(big.NewInt(1), uint(width))
	mask.Sub(mask, big.NewInt(1))
	rest := new(big.Int).Set(v)
	out := make([]*big.Int, n)
	for i := range out {
		out[i] = new(big.Int).And(rest, mask)
		rest.Rsh(rest, uint(width))
	}
	return out
}
