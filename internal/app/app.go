package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"event-analytics/internal/aggregators"
	"event-analytics/internal/exporters"
	internalhttp "event-analytics/internal/http"
	"event-analytics/internal/ingestors"
	"event-analytics/internal/realtime"
	"event-analytics/internal/shared/configs"
	"event-analytics/internal/shared/loggers"
	"event-analytics/internal/stores"
)

// App holds all application dependencies and manages lifecycle.
type App struct {
	config    *configs.Config
	appLogger loggers.Logger
	server    *http.Server

	eventStore stores.EventStore
}

// New creates and initializes a new App instance.
func New(config *configs.Config) (*App, error) {
	appLogger, err := loggers.New(config.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	appLogger = appLogger.With().
		Str(loggers.FieldApp, "event-analytics").
		Logger()

	// Initialize the event store
	eventStore, err := stores.NewSQLiteEventStore(config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize event store: %w", err)
	}

	// Initialize the realtime pipeline: aggregator -> stats service -> hub
	windowAggregator := aggregators.NewWindowAggregator()
	statsService := aggregators.NewStatsService(eventStore, windowAggregator)
	hubLogger := appLogger.With().Str(loggers.FieldComponent, "realtime").Logger()
	broadcaster := realtime.NewHub(
		statsService,
		time.Duration(config.Realtime.WriteTimeout)*time.Second,
		hubLogger,
	)

	// Initialize ingestion and export services
	ingestionService := ingestors.NewIngestionService(eventStore, broadcaster)
	exportService := exporters.NewExportService(eventStore)

	// Initialize http router
	verifier := internalhttp.NewStaticCredentialVerifier(config.Auth.APIKey, config.Auth.BearerToken)
	httpLogger := appLogger.With().Str(loggers.FieldComponent, "http").Logger()
	router := internalhttp.NewRouter(ingestionService, eventStore, exportService, broadcaster, verifier, httpLogger)

	// Create HTTP server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: time.Duration(config.Server.ReadHeaderTimeout) * time.Second,
		ReadTimeout:       time.Duration(config.Server.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(config.Server.WriteTimeout) * time.Second,
		IdleTimeout:       time.Duration(config.Server.IdleTimeout) * time.Second,
	}

	return &App{
		config:     config,
		appLogger:  appLogger,
		server:     server,
		eventStore: eventStore,
	}, nil
}

// Start starts the HTTP server in a blocking manner.
func (app *App) Start() error {
	app.appLogger.Info().
		Msgf("Starting event-analytics service on port %d (log_level=%s, database_path=%s)",
			app.config.Server.Port,
			app.config.Log.Level,
			app.config.Database.Path)

	return app.server.ListenAndServe()
}

// Shutdown gracefully shuts down the application.
func (app *App) Shutdown(ctx context.Context) error {
	// 1) Shutdown server (stops new requests, drains in-flight ones)
	app.appLogger.Info().Msg("Shutting down server...")
	if err := app.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	app.appLogger.Info().Msg("Server stopped")

	// 2) Close the event store
	if err := app.eventStore.Close(); err != nil {
		return fmt.Errorf("event store close failed: %w", err)
	}
	app.appLogger.Info().Msg("Event store closed")

	return nil
}
