package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/claimsflow/internal/adapters/filestore"
	"github.com/zatekoja/claimsflow/internal/api/handlers"
	"github.com/zatekoja/claimsflow/internal/api/routes"
	"github.com/zatekoja/claimsflow/internal/api/server"
	"github.com/zatekoja/claimsflow/internal/application/services"
	"github.com/zatekoja/claimsflow/pkg/config"
)

func main() {
	cfg, err := config.Load(config.ServicePolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	telemetry := server.Bootstrap(context.Background(), cfg)
	defer telemetry.Close()

	// The ledger must load before the port is bound
	ledger, err := filestore.LoadLedger(cfg.Storage.PoliciesFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.Storage.PoliciesFile).Msg("Failed to load policy ledger")
	}
	log.Info().Int("policies", ledger.Len()).Str("file", cfg.Storage.PoliciesFile).Msg("Policy ledger loaded")

	router := routes.NewRouter(routes.Handlers{
		Policies: handlers.NewPolicyHandler(services.NewPolicyService(ledger)),
	}, telemetry.Metrics)

	if err := server.Run(cfg, router.SetupRoutes()); err != nil {
		log.Error().Err(err).Msg("Server failed")
		telemetry.Close()
		log.Fatal().Msg("Policy service exited")
	}
}
