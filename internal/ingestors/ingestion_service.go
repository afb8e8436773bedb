package ingestors

import (
	"context"
	"fmt"
	"strings"
	"time"

	"event-analytics/internal/models"
	"event-analytics/internal/realtime"
	"event-analytics/internal/shared/loggers"
	"event-analytics/internal/shared/metrics"
	"event-analytics/internal/shared/ulid"
	"event-analytics/internal/stores"

	"github.com/google/uuid"
	"github.com/mileusna/useragent"
)

var allowedPages = map[string]struct{}{
	"home":      {},
	"profile":   {},
	"settings":  {},
	"dashboard": {},
}

var allowedBrowsers = map[string]struct{}{
	"chrome":  {},
	"firefox": {},
	"safari":  {},
	"edge":    {},
}

// MetadataSubmission is the optional metadata block of a webhook payload.
type MetadataSubmission struct {
	Page    string `json:"page,omitempty"`
	Browser string `json:"browser,omitempty"`
}

// EventSubmission is the raw webhook payload as received on the wire,
// before validation.
type EventSubmission struct {
	EventType      string              `json:"eventType"`
	UserID         string              `json:"userId"`
	Timestamp      string              `json:"timestamp"`
	Metadata       *MetadataSubmission `json:"metadata,omitempty"`
	OrganizationID string              `json:"organizationId,omitempty"`
}

// IngestResult represents the outcome of a successful event ingestion.
type IngestResult struct {
	EventID    string
	ReceivedAt time.Time
}

//go:generate mockgen -source=ingestion_service.go -destination=./mocks/ingestion_service_mock.go -package=mocks
type IngestionService interface {
	// IngestEvent validates and persists one webhook event, then signals the
	// broadcaster exactly once. userAgent is the request's User-Agent header,
	// used to fill metadata.browser when the payload omits it.
	IngestEvent(ctx context.Context, submission *EventSubmission, userAgent string) (*IngestResult, error)
}

type ingestionService struct {
	eventStore  stores.EventStore
	broadcaster realtime.Broadcaster
}

func NewIngestionService(eventStore stores.EventStore, broadcaster realtime.Broadcaster) IngestionService {
	return &ingestionService{
		eventStore:  eventStore,
		broadcaster: broadcaster,
	}
}

func (s *ingestionService) IngestEvent(ctx context.Context, submission *EventSubmission, userAgent string) (*IngestResult, error) {
	logger := loggers.Ctx(ctx)

	event, err := s.validateSubmission(submission)
	if err != nil {
		metricInvalidEventsTotal.Inc()
		metricEventIngestedTotal.WithLabelValues(codeValidationFailed).Inc()
		return nil, err
	}

	s.enrichBrowser(event, userAgent)
	event.ID = ulid.NewULID()

	if err := s.eventStore.Append(ctx, event); err != nil {
		svcError := errInternalEventStoreFailed(err)
		metricEventIngestedTotal.WithLabelValues(svcError.Code).Inc()
		return nil, svcError
	}

	// Persisted: signal exactly one recompute-and-push cycle.
	s.broadcaster.NotifyEventPersisted(ctx)

	logger.Debug().
		Str(loggers.FieldEventID, event.ID).
		Str(loggers.FieldEventType, string(event.EventType)).
		Msg("event ingested")

	metricEventIngestedTotal.WithLabelValues(metrics.ValueNoError).Inc()
	return &IngestResult{
		EventID:    event.ID,
		ReceivedAt: event.ReceivedAt,
	}, nil
}

func (s *ingestionService) validateSubmission(submission *EventSubmission) (*models.Event, error) {
	if submission == nil {
		return nil, errValidationFailed("empty request body", nil)
	}

	if submission.EventType == "" {
		return nil, errValidationFailed("eventType is required", nil)
	}
	eventType := models.EventType(submission.EventType)
	if !eventType.IsValid() {
		return nil, errValidationFailed(
			fmt.Sprintf("eventType must be one of: %s", joinEventTypes()), nil)
	}

	if submission.UserID == "" {
		return nil, errValidationFailed("userId is required", nil)
	}
	if _, err := uuid.Parse(submission.UserID); err != nil {
		return nil, errValidationFailed("userId must be a valid UUID", err)
	}

	if submission.Timestamp == "" {
		return nil, errValidationFailed("timestamp is required", nil)
	}
	timestamp, err := s.parseTime(submission.Timestamp)
	if err != nil {
		return nil, err
	}

	if submission.OrganizationID != "" {
		if _, err := uuid.Parse(submission.OrganizationID); err != nil {
			return nil, errValidationFailed("organizationId must be a valid UUID", err)
		}
	}

	event := &models.Event{
		EventType:      eventType,
		UserID:         submission.UserID,
		Timestamp:      timestamp,
		OrganizationID: submission.OrganizationID,
	}

	if submission.Metadata != nil {
		metadata, err := s.validateMetadata(submission.Metadata)
		if err != nil {
			return nil, err
		}
		event.Metadata = metadata
	}

	return event, nil
}

func (s *ingestionService) validateMetadata(submission *MetadataSubmission) (*models.EventMetadata, error) {
	if submission.Page != "" {
		if _, ok := allowedPages[submission.Page]; !ok {
			return nil, errValidationFailed("page must be one of: home, profile, settings, dashboard", nil)
		}
	}
	if submission.Browser != "" {
		if _, ok := allowedBrowsers[submission.Browser]; !ok {
			return nil, errValidationFailed("browser must be one of: chrome, firefox, safari, edge", nil)
		}
	}
	return &models.EventMetadata{
		Page:    submission.Page,
		Browser: submission.Browser,
	}, nil
}

// enrichBrowser fills metadata.browser from the User-Agent header when the
// payload did not carry it. Only the browsers the dashboard knows about are
// filled in; anything else stays empty.
func (s *ingestionService) enrichBrowser(event *models.Event, userAgent string) {
	if userAgent == "" {
		return
	}
	if event.Metadata != nil && event.Metadata.Browser != "" {
		return
	}

	parsed := useragent.Parse(userAgent)
	browser := strings.ToLower(parsed.Name)
	if _, ok := allowedBrowsers[browser]; !ok {
		return
	}

	if event.Metadata == nil {
		event.Metadata = &models.EventMetadata{}
	}
	event.Metadata.Browser = browser
}

// parseTime parses a time string in RFC3339 or ISO-8601 format.
func (s *ingestionService) parseTime(timeStr string) (time.Time, error) {
	t, err := time.Parse(models.TimestampLayout, timeStr)
	if err == nil {
		return t, nil
	}

	t, err = time.Parse(time.RFC3339, timeStr)
	if err == nil {
		return t, nil
	}

	return time.Time{}, errValidationFailed(fmt.Sprintf("timestamp must be a valid ISO date string: %s", timeStr), nil)
}

func joinEventTypes() string {
	types := models.EventTypes()
	parts := make([]string, 0, len(types))
	for _, t := range types {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, ", ")
}
