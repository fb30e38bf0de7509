// Command rollup_gnark generates the proving and verification
// artifacts for one accumulator-rollup circuit shape and exercises
// them on a single synthetic transition.
//
// Usage: rollup_gnark <out_vk.json> <out_pk.json>
package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
	"github.com/consensys/gnark/std/math/emulated/emparams"
	"github.com/rs/zerolog"

	"rollup_gnark/keyexport"
	"rollup_gnark/rollup"
	"rollup_gnark/rsaset"
)

// exitUsage is the standard usage-error status (EX_USAGE).
const exitUsage = 64

// -------------------------------
// Logging configuration
// -------------------------------
var consoleWriter = zerolog.ConsoleWriter{
	Out:        os.Stdout,
	TimeFormat: time.RFC1123,
	FormatLevel: func(i interface{}) string {
		return fmt.Sprintf("[%-6s]", i)
	},
	FormatMessage: func(i interface{}) string {
		return fmt.Sprintf(" %s", i)
	},
	FormatFieldName: func(i interface{}) string {
		return fmt.Sprintf("%s:", i)
	},
	FormatFieldValue: func(i interface{}) string {
		return fmt.Sprintf("%s", i)
	},
}

// exportParams is the production shape: RSA-2048, generator 2, 4096
// bits of base capacity (64 limbs of 64 bits), one remove and one
// insert of 5-value items.
func exportParams() (rollup.Params, error) {
	group, err := rsaset.NewGroup(2, rsaset.RSA2048)
	if err != nil {
		return rollup.Params{}, err
	}
	return rollup.Params{
		Group:          group,
		LimbWidth:      64,
		NBitsBase:      4096,
		NBitsElem:      2048,
		TrailingOnes:   1,
		NBitsChallenge: 128,
		ItemSize:       5,
		NRemoves:       1,
		NInserts:       1,
	}, nil
}

func main() {
	logger := zerolog.New(consoleWriter).With().Timestamp().Logger()

	if len(os.Args) != 3 {
		fmt.Println("Usage: \n<out_vk.json> <out_pk.json>")
		os.Exit(exitUsage)
	}
	vkPath := os.Args[1]
	pkPath := os.Args[2]

	params, err := exportParams()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid shape configuration")
	}

	// 1) Fix the circuit shape and compile it.
	shape, err := rollup.NewCircuit[emparams.Mod1e4096](params)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid shape configuration")
	}
	start := time.Now()
	ccs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, shape)
	if err != nil {
		logger.Fatal().Err(err).Msg("circuit compilation failed")
	}
	logger.Info().Int("constraints", ccs.GetNbConstraints()).Dur("took", time.Since(start)).Msg("circuit compiled")

	// 2) One-time parameter generation, then key export.
	pk, vk, err := keyexport.Setup(ccs)
	if err != nil {
		logger.Fatal().Err(err).Msg("setup failed")
	}
	if err := keyexport.WriteKeys(pk, vk, vkPath, pkPath); err != nil {
		logger.Fatal().Err(err).Msg("key export failed")
	}
	fmt.Printf("Created %s and %s.\n", pkPath, vkPath)

	// 3) One concrete transition: build the witness, gate on
	// satisfiability, prove.
	inputs, err := rollup.InputsFromCounts(params, 0, params.NRemoves, params.NInserts)
	if err != nil {
		logger.Fatal().Err(err).Msg("witness construction failed")
	}
	assignment, err := rollup.NewAssignment[emparams.Mod1e4096](params, inputs)
	if err != nil {
		logger.Fatal().Err(err).Msg("witness assignment failed")
	}
	start = time.Now()
	proof, err := keyexport.Prove(ccs, pk, assignment)
	if err != nil {
		logger.Fatal().Err(err).Msg("proving failed")
	}

	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		logger.Fatal().Err(err).Msg("proof serialization failed")
	}
	pub := keyexport.PackPublicInputs(params.Group, inputs.FinalDigest, params.LimbWidth, params.NBitsBase/params.LimbWidth)
	logger.Info().
		Int("proofBytes", buf.Len()).
		Int("publicInputs", len(pub)).
		Dur("took", time.Since(start)).
		Msg("proof generated")
}
