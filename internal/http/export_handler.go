package http

import (
	"fmt"
	"net/http"

	"event-analytics/internal/exporters"
	"event-analytics/internal/models"
)

// exportHandler serves GET /export/csv and GET /export/json; the format is
// fixed per route at construction time.
type exportHandler struct {
	exportService exporters.ExportService
	format        string
}

func NewExportHandler(exportService exporters.ExportService, format string) AppHttpHandler {
	return &exportHandler{
		exportService: exportService,
		format:        format,
	}
}

func (h *exportHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	query := r.URL.Query()
	timeRange := models.ParseTimeRange(query.Get("filter"))

	file, err := h.exportService.Export(r.Context(), h.format, timeRange, query.Get("organizationId"))
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.WriteHeader(http.StatusOK)
	_, err = w.Write(file.Content)
	return err
}
