package exporters

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"time"

	"event-analytics/internal/models"
	"event-analytics/internal/shared/loggers"
	"event-analytics/internal/shared/metrics"
	"event-analytics/internal/stores"
)

const (
	FormatCSV  = "csv"
	FormatJSON = "json"

	contentTypeCSV  = "text/csv"
	contentTypeJSON = "application/json"
)

var csvHeader = []string{"Event Type", "User ID", "Timestamp", "Metadata", "Received At", "Organization ID"}

// ExportFile is a fully rendered download: the handler only has to copy
// Content and the two headers onto the response.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}

type jsonExportData struct {
	Events         []*models.Event `json:"events"`
	Filter         string          `json:"filter"`
	OrganizationID *string         `json:"organizationId"`
	ExportedAt     string          `json:"exportedAt"`
	TotalCount     int             `json:"totalCount"`
}

type jsonExport struct {
	Success bool           `json:"success"`
	Data    jsonExportData `json:"data"`
}

//go:generate mockgen -source=export_service.go -destination=./mocks/export_service_mock.go -package=mocks
type ExportService interface {
	// Export renders the events inside the range's window (optionally scoped
	// to one organization) as a downloadable file. format is FormatCSV or
	// FormatJSON.
	Export(ctx context.Context, format string, timeRange models.TimeRange, organizationID string) (*ExportFile, error)
}

type exportService struct {
	eventStore stores.EventStore
	now        func() time.Time
}

func NewExportService(eventStore stores.EventStore) ExportService {
	return &exportService{
		eventStore: eventStore,
		now:        time.Now,
	}
}

func (s *exportService) Export(ctx context.Context, format string, timeRange models.TimeRange, organizationID string) (*ExportFile, error) {
	now := s.now()

	events, err := s.eventStore.Query(ctx, stores.EventFilter{
		OrganizationID: organizationID,
		Since:          timeRange.Cutoff(now),
	})
	if err != nil {
		svcError := errInternalEventStoreFailed(err)
		metricExportsTotal.WithLabelValues(format, svcError.Code).Inc()
		return nil, svcError
	}

	var file *ExportFile
	switch format {
	case FormatJSON:
		file, err = s.renderJSON(events, timeRange, organizationID, now)
	default:
		file, err = s.renderCSV(events, timeRange, organizationID, now)
	}
	if err != nil {
		svcError := errInternalEventStoreFailed(err)
		metricExportsTotal.WithLabelValues(format, svcError.Code).Inc()
		return nil, svcError
	}

	loggers.Ctx(ctx).Debug().
		Str("format", format).
		Int("event_count", len(events)).
		Msg("export rendered")

	metricExportsTotal.WithLabelValues(format, metrics.ValueNoError).Inc()
	return file, nil
}

func (s *exportService) renderCSV(events []*models.Event, timeRange models.TimeRange, organizationID string, now time.Time) (*ExportFile, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, event := range events {
		metadata := ""
		if event.Metadata != nil {
			raw, err := json.Marshal(event.Metadata)
			if err != nil {
				return nil, err
			}
			metadata = string(raw)
		}
		record := []string{
			string(event.EventType),
			event.UserID,
			event.Timestamp.UTC().Format(models.TimestampLayout),
			metadata,
			event.ReceivedAt.UTC().Format(models.TimestampLayout),
			event.OrganizationID,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return &ExportFile{
		Filename:    s.filename(FormatCSV, timeRange, organizationID, now),
		ContentType: contentTypeCSV,
		Content:     buf.Bytes(),
	}, nil
}

func (s *exportService) renderJSON(events []*models.Event, timeRange models.TimeRange, organizationID string, now time.Time) (*ExportFile, error) {
	var orgID *string
	if organizationID != "" {
		orgID = &organizationID
	}

	content, err := json.Marshal(jsonExport{
		Success: true,
		Data: jsonExportData{
			Events:         events,
			Filter:         timeRange.String(),
			OrganizationID: orgID,
			ExportedAt:     now.UTC().Format(models.TimestampLayout),
			TotalCount:     len(events),
		},
	})
	if err != nil {
		return nil, err
	}

	return &ExportFile{
		Filename:    s.filename(FormatJSON, timeRange, organizationID, now),
		ContentType: contentTypeJSON,
		Content:     content,
	}, nil
}

// filename mirrors the dashboard's download naming:
// events-<range>[-org-<id>]-<yyyy-mm-dd>.<format>
func (s *exportService) filename(format string, timeRange models.TimeRange, organizationID string, now time.Time) string {
	orgPart := ""
	if organizationID != "" {
		orgPart = "-org-" + organizationID
	}
	return fmt.Sprintf("events-%s%s-%s.%s", timeRange, orgPart, now.UTC().Format("2006-01-02"), format)
}
