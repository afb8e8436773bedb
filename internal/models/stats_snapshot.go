package models

// TimestampLayout is the fixed textual format for bucket start instants in
// realtime payloads: UTC with millisecond precision and a literal Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// SeriesPoint is one bucket of a gap-free time series.
type SeriesPoint struct {
	Timestamp string `json:"timestamp"`
	Count     int64  `json:"count"`
}

// TopEventType is one entry of a top-5 ranking. Percentage is relative to
// the total events inside the ranking window (0 when the window is empty).
type TopEventType struct {
	Type       string  `json:"type"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// StatsSnapshot is the complete computed payload pushed to a realtime client:
// scalar totals plus, for every range, the bucketed series and the top-5
// ranking. No partial snapshot is ever sent; per-client filtering happens on
// the receiving side. Snapshots are values, computed and discarded per
// broadcast cycle, never persisted.
type StatsSnapshot struct {
	TotalEvents            int64                     `json:"totalEvents"`
	EventsThisMinute       int64                     `json:"eventsThisMinute"`
	SegmentedData          map[string][]SeriesPoint  `json:"segmentedData"`
	SegmentedTopEventTypes map[string][]TopEventType `json:"segmentedTopEventTypes"`
}

// StatsMessage is the wire envelope for one push.
type StatsMessage struct {
	Stats *StatsSnapshot `json:"stats"`
}
