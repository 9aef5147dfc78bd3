package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamutes/party-service/internal/config"
	"github.com/mamutes/party-service/internal/database"
	"github.com/mamutes/party-service/internal/logger"
	"github.com/mamutes/party-service/internal/router"
	"github.com/mamutes/party-service/internal/service"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, cfgErr := config.Load()
	log := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		ServiceName: "party-service",
		Development: cfg.Env == "dev",
	})
	defer func() { _ = log.Sync() }()
	if cfgErr != nil {
		log.Error("invalid configuration", zap.Error(cfgErr))
		return cfgErr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var stores router.Stores
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn("using in-memory store; data is lost on exit")
		stores = router.MemoryStores()
	default:
		db, err := database.Open(ctx, database.DSN(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName))
		if err != nil {
			log.Error("open database", zap.Error(err))
			return err
		}
		defer db.Close()
		if cfg.DBMigrate {
			if err := database.Migrate(ctx, db); err != nil {
				log.Error("migrate database", zap.Error(err))
				return err
			}
		}
		stores = router.MySQLStores(db)
	}

	deps := router.Deps{
		Cfg:       cfg,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		Log:       log,
		Stores:    stores,
		Redis:     config.NewRedisClient(ctx),
	}
	if deps.Redis == nil {
		log.Info("redis unavailable; cache and rate limit disabled")
	} else {
		defer deps.Redis.Close()
	}
	if cfg.EventsEnabled {
		pub := service.NewPublisher(cfg.AMQPURL, log.Named("publisher"))
		defer pub.Close()
		deps.Events = pub
	}

	e := router.New(deps)
	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("store", cfg.StoreDriver))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			log.Error("server failed", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
