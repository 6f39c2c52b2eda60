package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/claimsflow/internal/adapters/memory"
	"github.com/zatekoja/claimsflow/internal/adapters/redisstore"
	"github.com/zatekoja/claimsflow/internal/api/handlers"
	"github.com/zatekoja/claimsflow/internal/api/routes"
	"github.com/zatekoja/claimsflow/internal/api/server"
	"github.com/zatekoja/claimsflow/internal/application/services"
	"github.com/zatekoja/claimsflow/internal/domain/repositories"
	"github.com/zatekoja/claimsflow/internal/infrastructure/clients/redis"
	"github.com/zatekoja/claimsflow/pkg/config"
)

func main() {
	cfg, err := config.Load(config.ServiceMessaging)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	ctx := context.Background()
	telemetry := server.Bootstrap(ctx, cfg)
	defer telemetry.Close()

	var repo repositories.MessageRepository
	switch cfg.Storage.MessageStore {
	case config.StoreRedis:
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer redisClient.Close()
		repo = redisstore.NewMessageAdapter(redisClient)
		log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Messages stored in Redis")
	default:
		repo = memory.NewMessageStore()
		log.Info().Msg("Messages stored in memory")
	}

	router := routes.NewRouter(routes.Handlers{
		Messages: handlers.NewMessageHandler(services.NewMessageService(repo)),
	}, telemetry.Metrics)

	if err := server.Run(cfg, router.SetupRoutes()); err != nil {
		log.Error().Err(err).Msg("Server failed")
		telemetry.Close()
		log.Fatal().Msg("Messaging service exited")
	}
}
