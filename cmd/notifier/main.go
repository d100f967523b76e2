package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fjod/go_food/internal/config"
	"github.com/fjod/go_food/internal/events"
	"github.com/fjod/go_food/internal/logger"
	"github.com/fjod/go_food/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	log := logger.New("notifier", cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("notifier stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("notifier stopped")
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer func() {
		if err := mongoDB.Client().Disconnect(context.Background()); err != nil {
			log.Error("mongo disconnect failed", slog.Any("error", err))
		}
	}()

	notifications := repository.NewMongoNotificationRepository(mongoDB)
	if err := repository.EnsureIndexes(ctx, notifications); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	consumer := events.NewConsumer(notifications, log, cfg.KafkaBrokers...)
	defer consumer.Close()

	log.Info("notifier consuming", slog.String("topic", events.Topic))
	consumer.Run(ctx)
	return nil
}
