package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/claimsflow/internal/adapters/providers/management"
	"github.com/zatekoja/claimsflow/internal/adapters/providers/messaging"
	"github.com/zatekoja/claimsflow/internal/api/handlers"
	"github.com/zatekoja/claimsflow/internal/api/routes"
	"github.com/zatekoja/claimsflow/internal/api/server"
	"github.com/zatekoja/claimsflow/internal/application/services"
	"github.com/zatekoja/claimsflow/internal/domain/providers"
	"github.com/zatekoja/claimsflow/internal/infrastructure/clients/serviceapi"
	"github.com/zatekoja/claimsflow/pkg/config"
)

func main() {
	cfg, err := config.Load(config.ServiceSubmission)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	telemetry := server.Bootstrap(context.Background(), cfg)
	defer telemetry.Close()

	notifier := messaging.NewHTTPNotifier(serviceapi.NewClient(cfg.Upstream.MessagingURL, cfg.Upstream.NotifyTimeout))
	log.Info().Str("messaging_url", cfg.Upstream.MessagingURL).Dur("timeout", cfg.Upstream.NotifyTimeout).Msg("Notifier configured")

	var forwarder providers.ClaimForwarder = management.SkippingForwarder{}
	if cfg.Upstream.ManagementWebhookURL != "" {
		forwarder = management.NewWebhookForwarder(serviceapi.NewClient(cfg.Upstream.ManagementWebhookURL, cfg.Upstream.NotifyTimeout))
		log.Info().Str("webhook_url", cfg.Upstream.ManagementWebhookURL).Msg("Claim forwarding enabled")
	}

	submissionService := services.NewSubmissionService(notifier, forwarder, telemetry.Metrics)
	router := routes.NewRouter(routes.Handlers{
		Submission: handlers.NewSubmissionHandler(submissionService),
	}, telemetry.Metrics)

	if err := server.Run(cfg, router.SetupRoutes()); err != nil {
		log.Error().Err(err).Msg("Server failed")
		telemetry.Close()
		log.Fatal().Msg("Submission service exited")
	}
}
