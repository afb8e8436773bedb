package http

import (
	"net/http"

	"event-analytics/internal/exporters"
	"event-analytics/internal/ingestors"
	"event-analytics/internal/realtime"
	"event-analytics/internal/shared/loggers"
	"event-analytics/internal/shared/metrics"
	"event-analytics/internal/stores"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(
	ingestionService ingestors.IngestionService,
	eventStore stores.EventStore,
	exportService exporters.ExportService,
	broadcaster realtime.Broadcaster,
	verifier CredentialVerifier,
	httpLogger loggers.Logger,
) http.Handler {
	router := chi.NewRouter()
	setupMiddleware(router, httpLogger)

	// Initialize handlers
	webhookHandler := NewWebhookHandler(ingestionService)
	listEventsHandler := NewListEventsHandler(eventStore)
	eventStatsHandler := NewEventStatsHandler(eventStore)
	csvExportHandler := NewExportHandler(exportService, exporters.FormatCSV)
	jsonExportHandler := NewExportHandler(exportService, exporters.FormatJSON)
	wsHandler := NewWSHandler(broadcaster)

	// Routes
	router.Route("/webhook", func(r chi.Router) {
		r.Use(mwAPIKeyAuth(verifier))
		r.Post("/", errorHandlingAdapter(webhookHandler))
	})
	router.Route("/events", func(r chi.Router) {
		r.Use(mwBearerAuth(verifier))
		r.Get("/", errorHandlingAdapter(listEventsHandler))
		r.Get("/stats", errorHandlingAdapter(eventStatsHandler))
	})
	router.Route("/export", func(r chi.Router) {
		r.Use(mwBearerAuth(verifier))
		r.Get("/csv", errorHandlingAdapter(csvExportHandler))
		r.Get("/json", errorHandlingAdapter(jsonExportHandler))
	})
	router.Get("/ws", errorHandlingAdapter(wsHandler))
	router.Get("/metrics", metrics.PromHTTP.Handler().ServeHTTP)

	return router
}
