package http

import (
	"fmt"
	"net/http"
	"time"

	"event-analytics/internal/models"
	"event-analytics/internal/shared/svcerrors"
	"event-analytics/internal/stores"
)

const codeInternalEventStoreFailed = "HTTP_9000"

type listEventsData struct {
	Events []*models.Event `json:"events"`
	Count  int             `json:"count"`
	Filter string          `json:"filter"`
}

// listEventsHandler serves GET /events straight from the store; the query
// endpoints carry no aggregation logic of their own.
type listEventsHandler struct {
	eventStore stores.EventStore
	now        func() time.Time
}

func NewListEventsHandler(eventStore stores.EventStore) AppHttpHandler {
	return &listEventsHandler{
		eventStore: eventStore,
		now:        time.Now,
	}
}

func (h *listEventsHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	query := r.URL.Query()
	timeRange := models.ParseTimeRange(query.Get("filter"))

	events, err := h.eventStore.Query(r.Context(), stores.EventFilter{
		UserID:         query.Get("userId"),
		OrganizationID: query.Get("organizationId"),
		Since:          timeRange.Cutoff(h.now()),
	})
	if err != nil {
		return svcerrors.NewInternalError(codeInternalEventStoreFailed, fmt.Errorf("eventStoreFailed: %w", err))
	}
	if events == nil {
		events = []*models.Event{}
	}

	return writeJSONResponse(w, http.StatusOK, AppResponse{
		Success: true,
		Data: listEventsData{
			Events: events,
			Count:  len(events),
			Filter: timeRange.String(),
		},
	})
}
