package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/claimsflow/internal/adapters/cache"
	"github.com/zatekoja/claimsflow/internal/adapters/database"
	"github.com/zatekoja/claimsflow/internal/adapters/events"
	"github.com/zatekoja/claimsflow/internal/adapters/filestore"
	"github.com/zatekoja/claimsflow/internal/adapters/memory"
	"github.com/zatekoja/claimsflow/internal/adapters/providers/policy"
	"github.com/zatekoja/claimsflow/internal/api/handlers"
	"github.com/zatekoja/claimsflow/internal/api/routes"
	"github.com/zatekoja/claimsflow/internal/api/server"
	"github.com/zatekoja/claimsflow/internal/application/services"
	"github.com/zatekoja/claimsflow/internal/domain/providers"
	"github.com/zatekoja/claimsflow/internal/domain/repositories"
	"github.com/zatekoja/claimsflow/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/claimsflow/internal/infrastructure/clients/redis"
	"github.com/zatekoja/claimsflow/internal/infrastructure/clients/serviceapi"
	"github.com/zatekoja/claimsflow/pkg/config"
)

func main() {
	cfg, err := config.Load(config.ServiceManagement)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()
	telemetry := server.Bootstrap(ctx, cfg)
	defer telemetry.Close()

	// Initialize claim store
	var repo repositories.ClaimRepository
	switch cfg.Storage.ClaimStore {
	case config.StoreCSV:
		store, err := filestore.NewClaimCSVStore(cfg.Storage.ClaimsCSV)
		if err != nil {
			log.Fatal().Err(err).Str("file", cfg.Storage.ClaimsCSV).Msg("Failed to open claims file")
		}
		repo = store
	case config.StorePostgres:
		pgClient, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pgClient.Close()

		adapter := database.NewClaimAdapter(pgClient)
		if err := adapter.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to create claims schema")
		}
		repo = adapter
	default:
		repo = memory.NewClaimStore()
	}
	log.Info().Str("store", cfg.Storage.ClaimStore).Msg("Claim store initialized")

	// Policy lookups are cached; Redis also carries lifecycle events
	lookup := policy.NewHTTPLookup(serviceapi.NewClient(cfg.Upstream.PolicyURL, cfg.Upstream.NotifyTimeout))
	var policyCache providers.CacheProvider = cache.NewMemoryAdapter()
	publisher := events.NewLogPublisher()

	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, using in-process cache")
		} else {
			defer redisClient.Close()
			policyCache = cache.NewRedisAdapter(redisClient, "claims:")
			publisher = events.NewRedisEventBus(redisClient)
			log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Redis cache and event bus enabled")
		}
	}
	defer publisher.Close()

	claimService := services.NewClaimService(repo, services.ClaimServiceConfig{
		StoreName: cfg.Storage.ClaimStore,
		Metrics:   telemetry.Metrics,
		Publisher: publisher,
		Policies:  policy.NewCachedLookup(lookup, policyCache, cfg.Redis.PolicyCacheTTL, telemetry.Metrics),
	})

	router := routes.NewRouter(routes.Handlers{
		Claims: handlers.NewClaimHandler(claimService),
	}, telemetry.Metrics)

	if err := server.Run(cfg, router.SetupRoutes()); err != nil {
		log.Error().Err(err).Msg("Server failed")
		telemetry.Close()
		log.Fatal().Msg("Management service exited")
	}
}
