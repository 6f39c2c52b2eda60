// Command genpolicies writes a random policy ledger for the policy service.
package main

import (
	"bufio"
	"flag"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/claimsflow/internal/adapters/filestore"
	"github.com/zatekoja/claimsflow/internal/application/services"
	"github.com/zatekoja/claimsflow/internal/infrastructure/observability"
)

func main() {
	n := flag.Int("n", 100, "number of policies to generate")
	out := flag.String("out", "policies.csv", "output file")
	seed := flag.Uint64("seed", 0, "random seed, 0 picks one from the clock")
	flag.Parse()

	observability.InitLogger("genpolicies", os.Getenv("APP_ENV"))

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(*seed, *seed>>1|1))

	policies, err := services.GeneratePolicies(rng, *n)
	if err != nil {
		log.Fatal().Err(err).Int("n", *n).Msg("Failed to generate policies")
	}

	if err := write(*out, func(w io.Writer) error { return filestore.WriteLedger(w, policies) }); err != nil {
		log.Fatal().Err(err).Str("out", *out).Msg("Failed to write policy ledger")
	}
	log.Info().Int("policies", len(policies)).Uint64("seed", *seed).Str("out", *out).Msg("Policy ledger written")
}

func write(path string, fn func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	buf := bufio.NewWriter(f)
	if err := fn(buf); err != nil {
		f.Close()
		return err
	}
	if err := buf.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
