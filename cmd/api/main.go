package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/go_food/internal/auth"
	"github.com/fjod/go_food/internal/cache"
	"github.com/fjod/go_food/internal/config"
	"github.com/fjod/go_food/internal/events"
	h "github.com/fjod/go_food/internal/http"
	"github.com/fjod/go_food/internal/logger"
	"github.com/fjod/go_food/internal/metrics"
	"github.com/fjod/go_food/internal/repository"
	"github.com/fjod/go_food/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	log := logger.New(cfg.ServiceName, cfg.LogLevel)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("api stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	log.Info("server exited")
}

// run wires the API and blocks until a signal or a server failure.
func run(cfg *config.Config, log *slog.Logger) error {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))

	ctx := context.Background()

	// Set up MongoDB connection
	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	defer func() {
		if err := mongoDB.Client().Disconnect(context.Background()); err != nil {
			log.Error("mongo disconnect failed", slog.Any("error", err))
		}
	}()
	log.Info("connected to MongoDB", slog.String("database", cfg.MongoDatabase))

	cartRepo := repository.NewMongoCartRepository(mongoDB)
	foodRepo := repository.NewMongoFoodRepository(mongoDB)
	reviewRepo := repository.NewMongoReviewRepository(mongoDB)
	favoriteRepo := repository.NewMongoFavoriteRepository(mongoDB)
	profileRepo := repository.NewMongoProfileRepository(mongoDB)
	notificationRepo := repository.NewMongoNotificationRepository(mongoDB)
	if err := repository.EnsureIndexes(ctx, cartRepo, foodRepo, reviewRepo, favoriteRepo, notificationRepo); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	// Orders live in Postgres
	cred := &repository.Credentials{
		Host:              cfg.DBHost,
		Port:              cfg.DBPort,
		User:              cfg.DBUser,
		Password:          cfg.DBPassword,
		DBName:            cfg.DBName,
		MigrationsDirPath: cfg.MigrationsPath,
	}
	orderRepo, err := repository.NewPostgresOrderRepository(cred)
	if err != nil {
		return fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	defer orderRepo.Close()
	if err := orderRepo.RunMigrations(cred); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	redisCache := cache.NewRedisCache(redisClient)

	kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers...)
	defer func() {
		if err := kafkaPublisher.Close(); err != nil {
			log.Error("kafka writer close failed", slog.Any("error", err))
		}
	}()
	publisher := events.NewBreakerPublisher(kafkaPublisher, log)

	serverMetrics := metrics.NewServerMetrics("api", prometheus.DefaultRegisterer)

	// Order events reach Kafka through the outbox
	relayCtx, stopRelay := context.WithCancel(ctx)
	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		events.NewOutboxRelay(orderRepo, publisher, serverMetrics, log).Run(relayCtx)
	}()

	catalogService := service.NewCatalogService(foodRepo, redisCache, log)
	cartService := service.NewCartService(cartRepo, redisCache, catalogService, log)
	services := h.Services{
		Cart:          cartService,
		Checkout:      service.NewCheckoutService(cartService, orderRepo, profileRepo, serverMetrics, log),
		Orders:        service.NewOrderService(orderRepo, serverMetrics, log),
		Catalog:       catalogService,
		Reviews:       service.NewReviewService(reviewRepo, catalogService, profileRepo, log),
		Favorites:     service.NewFavoriteService(favoriteRepo, catalogService),
		Profiles:      service.NewProfileService(profileRepo),
		Notifications: service.NewNotificationService(notificationRepo),
	}

	router := h.NewRouter(services, h.RouterConfig{
		Tokens:         auth.NewJWTProvider(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL),
		Metrics:        serverMetrics,
		MetricsHandler: metrics.Handler(),
		Log:            log,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, cfg.ServiceName),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("API starting", slog.String("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case <-quit:
		log.Info("shutting down server...")
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", slog.Any("error", err))
	}
	stopRelay()
	<-relayDone
	return runErr
}
