// Command auditor consumes the party.changes queue and appends every change
// event to logs/changes.log.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mamutes/party-service/internal/config"
	"github.com/mamutes/party-service/internal/logger"
	"github.com/mamutes/party-service/internal/queue"
)

func main() {
	_ = godotenv.Load()

	log := logger.New(logger.Config{
		Level:       os.Getenv("LOG_LEVEL"),
		ServiceName: "party-auditor",
	})
	defer func() { _ = log.Sync() }()

	dir := os.Getenv("AUDIT_DIR")
	if dir == "" {
		dir = "logs"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("auditor started", zap.String("queue", queue.ChangesQueue), zap.String("dir", dir))
	err := queue.StartChangeConsumer(ctx, config.AMQPURL(), dir, log)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("consumer stopped", zap.Error(err))
		os.Exit(1)
	}
	log.Info("auditor stopped")
}
