package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/couchcryptid/epi-dashboard-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/epi-dashboard-service/internal/adapter/kafka"
	"github.com/couchcryptid/epi-dashboard-service/internal/adapter/mapbox"
	"github.com/couchcryptid/epi-dashboard-service/internal/adapter/mock"
	"github.com/couchcryptid/epi-dashboard-service/internal/adapter/remote"
	"github.com/couchcryptid/epi-dashboard-service/internal/config"
	"github.com/couchcryptid/epi-dashboard-service/internal/domain"
	"github.com/couchcryptid/epi-dashboard-service/internal/observability"
	"github.com/couchcryptid/epi-dashboard-service/internal/view"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	catalog := domain.DefaultCatalog()

	// Record store: synthetic generator or the remote backend.
	var store domain.RecordStore
	switch cfg.DataSource {
	case config.DataSourceRemote:
		store = remote.NewClient(cfg.APIBaseURL)
		logger.Info("using remote record store", "base_url", cfg.APIBaseURL)
	default:
		store = mock.NewStore(mock.NewGenerator(catalog, cfg.MockSeed))
		logger.Info("using mock record store", "seed", cfg.MockSeed)
	}
	instrumented := view.NewInstrumentedStore(store, metrics)

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	// Snapshot publishing (enabled when KAFKA_BROKERS is set).
	var renderers view.MultiRenderer
	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled() {
		publisher = kafkaadapter.NewPublisher(cfg, logger)
		renderers = append(renderers, publisher)
		logger.Info("kafka snapshot publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSnapshotTopic)
	}

	nav := view.NewNavigator(view.Pages(instrumented, geocoder, logger), renderers, logger, metrics)

	srv := httpadapter.NewServer(httpadapter.Options{
		Addr:           cfg.HTTPAddr,
		AllowedOrigins: cfg.AllowedOrigins,
		Catalog:        catalog,
	}, nav, instrumented, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Render the landing page so readiness reflects a working record store.
	if _, err := nav.Refresh(ctx); err != nil {
		logger.Warn("initial render failed", "error", err)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := nav.Close(); err != nil {
		logger.Error("navigator close error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
