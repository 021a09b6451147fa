package main

import (
	"context"
	"log"
	"time"

	"sentinal-delivery/config"
	"sentinal-delivery/internal/events"
	"sentinal-delivery/internal/handler"
	"sentinal-delivery/internal/redis"
	"sentinal-delivery/internal/repository"
	"sentinal-delivery/internal/server"
	"sentinal-delivery/internal/services"
	"sentinal-delivery/pkg/database"
	"sentinal-delivery/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	l := logger.New(cfg.LogMode)
	defer l.Sync()
	logger.SetGlobalLogger(l)

	healthChecks := map[string]server.HealthCheck{}

	var repo repository.MessageStateRepository
	switch cfg.StoreDriver {
	case "memory":
		l.Warnf("using in-memory message store; state is lost on restart")
		repo = repository.NewMemoryMessageStateRepository()
	default:
		db, err := database.Connect(cfg)
		if err != nil {
			log.Fatalf("%v", err)
		}
		defer database.Close()
		if err := database.Migrate(&repository.MessageRecord{}); err != nil {
			log.Fatalf("Failed to apply GORM migrations: %v", err)
		}
		repo = repository.NewMessageStateRepository(db)
		healthChecks["database"] = database.HealthCheck
	}

	redisClient := redis.NewClient(redis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redis.HealthCheck(ctx, redisClient); err != nil {
		l.Warnf("redis unavailable at startup: %v", err)
	}
	cancel()
	healthChecks["redis"] = func(ctx context.Context) error {
		return redis.HealthCheck(ctx, redisClient)
	}

	publisher := events.NewRedisPublisher(redis.NewPublisher(redisClient), events.NewMessageChannelResolver())

	rateConfig := redis.DefaultRateLimitConfig()
	rateConfig.ActionLimit = cfg.ActionLimit
	limiter := redis.NewRateLimiter(redisClient, rateConfig)

	messageService := services.NewMessageStateService(repo, publisher, cfg.MessageSettings(), l)
	authService := services.NewAuthService(cfg.JWTSecret)

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Message: handler.NewMessageHandler(messageService),
	}, server.Dependencies{
		AuthService:  authService,
		Limiter:      limiter,
		HealthChecks: healthChecks,
	})

	if err := srv.Start(); err != nil {
		l.Errorf("server shutdown: %v", err)
	}
}
