package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	_ "github.com/realtyflow/crm-system/docs"
	"github.com/realtyflow/crm-system/internal/api"
	"github.com/realtyflow/crm-system/internal/infrastructure/config"
	mongodb "github.com/realtyflow/crm-system/internal/infrastructure/db/mongo"
	redisdb "github.com/realtyflow/crm-system/internal/infrastructure/db/redis"
	"github.com/realtyflow/crm-system/pkg/logger"
)

// @title           RealtyFlow CRM API
// @version         1.0
// @description     Real-estate CRM: prospect management, role-based access control and lead scoring.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	if err := mongodb.NewProspectRepository(db).EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to ensure prospect indexes")
	}

	router := api.NewRouter(db, rdb, api.Options{
		JWTSecret:      cfg.JWTSecret,
		TokenTTL:       cfg.TokenTTL,
		RescoreWorkers: cfg.RescoreWorkers,
		Logger:         logger.Component("api"),
	})

	router.Dispatcher.Start(ctx)

	// Periodic score sync, disabled when no schedule is configured. The
	// redis lock keeps overlapping instances from double-writing.
	if cfg.SyncSchedule != "" {
		scheduler := cron.New()
		_, err := scheduler.AddFunc(cfg.SyncSchedule, func() {
			if _, err := router.ScoreSync.Run(context.Background()); err != nil {
				log.Error().Err(err).Msg("scheduled score sync failed")
			}
		})
		if err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.SyncSchedule).Msg("invalid score sync schedule")
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	go func() {
		if err := router.Echo.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("crm api listening")

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := router.Echo.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
		os.Exit(1)
	}
	log.Info().Msg("shutdown complete")
}
