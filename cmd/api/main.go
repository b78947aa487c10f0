package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"example.com/activityregistry/internal/api"
	"example.com/activityregistry/internal/config"
	"example.com/activityregistry/internal/domain"
	"example.com/activityregistry/internal/logging"
	"example.com/activityregistry/internal/outbox"
	"example.com/activityregistry/internal/registry"
	httptransport "example.com/activityregistry/internal/transport/http"
	"example.com/activityregistry/web"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	seed := registry.DefaultSeed()
	if cfg.SeedFile != "" {
		seed, err = registry.LoadSeedFile(cfg.SeedFile)
		if err != nil {
			logger.Fatal("failed to load seed", zap.String("path", cfg.SeedFile), zap.Error(err))
		}
	}
	repo := registry.NewInMemoryRepository(seed)

	var (
		publisher  domain.EventPublisher = outbox.Discard{}
		dispatcher *outbox.Dispatcher
	)
	if cfg.EventsEnabled() {
		producer := outbox.NewKafkaProducer(cfg.KafkaBrokers)
		defer producer.Close()

		buffer := outbox.NewBuffer(cfg.OutboxBufferSize)
		dispatcher = outbox.NewDispatcher(buffer, producer, cfg.KafkaTopic, cfg.OutboxPollInterval, cfg.OutboxBatchSize, logger.Named("outbox"))
		publisher = buffer

		go dispatcher.Start(ctx)
	}

	service := domain.NewService(repo,
		domain.WithPublisher(publisher),
		domain.WithLogger(logger.Named("registry")),
	)

	handler := api.NewHandler(service, web.Static())
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}, httptransport.Chain(mux,
		httptransport.Recover(logger),
		httptransport.RequestLogger(logger.Named("http")),
		httptransport.CORS(cfg.CORSAllowedOrigin),
	))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("activity registry listening",
			zap.String("address", cfg.HTTPAddress),
			zap.Int("activities", len(seed)),
			zap.Bool("events_enabled", cfg.EventsEnabled()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-shutdownCh

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}

	cancel()
	if dispatcher != nil {
		dispatcher.Wait()
	}
}
