package http

import (
	"encoding/json"
	"net/http"

	"event-analytics/internal/ingestors"
	"event-analytics/internal/models"
	"event-analytics/internal/shared/svcerrors"
)

const codeInvalidRequestBody = "HTTP_1000"

type AppHttpHandler interface {
	Handle(w http.ResponseWriter, r *http.Request) error
}

type webhookEventData struct {
	EventID    string `json:"eventId"`
	ReceivedAt string `json:"receivedAt"`
}

type webhookHandler struct {
	ingestionService ingestors.IngestionService
}

func NewWebhookHandler(ingestionService ingestors.IngestionService) AppHttpHandler {
	return &webhookHandler{
		ingestionService: ingestionService,
	}
}

// Handle processes POST /webhook requests.
func (h *webhookHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	var submission ingestors.EventSubmission
	if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
		return svcerrors.NewInvalidArgumentError(codeInvalidRequestBody, "request body must be a JSON object", err)
	}

	result, err := h.ingestionService.IngestEvent(r.Context(), &submission, userAgent(r))
	if err != nil {
		return err
	}

	return writeJSONResponse(w, http.StatusOK, AppResponse{
		Success: true,
		Message: "Event received successfully",
		Data: webhookEventData{
			EventID:    result.EventID,
			ReceivedAt: result.ReceivedAt.UTC().Format(models.TimestampLayout),
		},
	})
}
