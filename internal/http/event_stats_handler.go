package http

import (
	"fmt"
	"net/http"
	"time"

	"event-analytics/internal/models"
	"event-analytics/internal/shared/svcerrors"
	"event-analytics/internal/stores"
)

type eventStatsData struct {
	TotalEvents int64            `json:"totalEvents"`
	Statistics  map[string]int64 `json:"statistics"`
	Filter      string           `json:"filter"`
}

// eventStatsHandler serves GET /events/stats: per-type counts inside the
// requested window, grouped by the store rather than scanned client-side.
type eventStatsHandler struct {
	eventStore stores.EventStore
	now        func() time.Time
}

func NewEventStatsHandler(eventStore stores.EventStore) AppHttpHandler {
	return &eventStatsHandler{
		eventStore: eventStore,
		now:        time.Now,
	}
}

func (h *eventStatsHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	query := r.URL.Query()
	timeRange := models.ParseTimeRange(query.Get("filter"))
	now := h.now()

	counts, err := h.eventStore.CountByTypeInRange(r.Context(), timeRange.Cutoff(now), now, stores.EventFilter{
		UserID:         query.Get("userId"),
		OrganizationID: query.Get("organizationId"),
	})
	if err != nil {
		return svcerrors.NewInternalError(codeInternalEventStoreFailed, fmt.Errorf("eventStoreFailed: %w", err))
	}

	statistics := make(map[string]int64, len(counts))
	var total int64
	for eventType, count := range counts {
		statistics[string(eventType)] = count
		total += count
	}

	return writeJSONResponse(w, http.StatusOK, AppResponse{
		Success: true,
		Data: eventStatsData{
			TotalEvents: total,
			Statistics:  statistics,
			Filter:      timeRange.String(),
		},
	})
}
