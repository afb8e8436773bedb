package models

import "time"

type EventType string

const (
	EventTypePageView       EventType = "page_view"
	EventTypeUserJoined     EventType = "user_joined"
	EventTypeUserDisconnect EventType = "user_disconnect"
	EventTypeLog            EventType = "log"
	EventTypeUserMessage    EventType = "user_message"
)

// EventTypes returns all accepted event types in declaration order.
func EventTypes() []EventType {
	return []EventType{
		EventTypePageView,
		EventTypeUserJoined,
		EventTypeUserDisconnect,
		EventTypeLog,
		EventTypeUserMessage,
	}
}

func (t EventType) IsValid() bool {
	switch t {
	case EventTypePageView, EventTypeUserJoined, EventTypeUserDisconnect, EventTypeLog, EventTypeUserMessage:
		return true
	}
	return false
}

// EventMetadata holds optional small key/value attributes attached to an event.
// It is opaque to aggregation; only ingestion validates its fields.
type EventMetadata struct {
	Page    string `json:"page,omitempty"`
	Browser string `json:"browser,omitempty"`
}

// Event is an immutable fact once stored. ReceivedAt is assigned exactly once
// at persistence time and is the field all windowing uses; Timestamp is the
// client-asserted time of occurrence and may differ from arrival time.
type Event struct {
	ID             string         `json:"eventId"`
	EventType      EventType      `json:"eventType"`
	UserID         string         `json:"userId"`
	Timestamp      time.Time      `json:"timestamp"`
	ReceivedAt     time.Time      `json:"receivedAt"`
	Metadata       *EventMetadata `json:"metadata,omitempty"`
	OrganizationID string         `json:"organizationId,omitempty"`
}
