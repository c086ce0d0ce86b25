package main

import (
	"context"
	"log"

	"meetings-api/config"
	"meetings-api/internal/middleware"
	"meetings-api/internal/redis"
	"meetings-api/internal/server"
	"meetings-api/pkg/database"
	"meetings-api/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	mode := logger.DevelopmentMode
	if cfg.IsRelease() {
		mode = logger.ProductionMode
	}
	l := logger.New(mode)
	logger.SetGlobalLogger(l)
	defer l.Sync()

	ctx := context.Background()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		l.Logger.Fatal("Failed to connect to database: " + err.Error())
	}
	defer db.Close()

	applied, err := database.Migrate(ctx, db)
	if err != nil {
		l.Logger.Fatal("Failed to apply migrations: " + err.Error())
	}
	if len(applied) > 0 {
		l.Infof("Applied migrations: %v", applied)
	}

	var limiter middleware.AuthLimiter
	if cfg.RateLimitEnabled {
		client, err := redis.Connect(ctx, redis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			l.Logger.Fatal("Failed to connect to redis: " + err.Error())
		}
		defer client.Close()

		rlCfg := redis.DefaultRateLimitConfig()
		if cfg.AuthRateLimit > 0 {
			rlCfg.AuthLimit = cfg.AuthRateLimit
		}
		if cfg.AuthRateWindow > 0 {
			rlCfg.AuthWindow = cfg.AuthRateWindow
		}
		limiter = redis.NewRateLimiter(client, rlCfg)
	}

	srv := server.New(cfg, l)
	srv.SetupRoutes(db, limiter)

	if err := srv.Start(); err != nil {
		l.Errorf("Server exited with error: %v", err)
	}
}
