package ingestors

import (
	"event-analytics/internal/shared/metrics"
)

var (
	metricEventIngestedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubIngestion,
			Name:      "event_ingested_total",
		},
		[]string{metrics.FieldErrorCode},
	)

	metricInvalidEventsTotal = metrics.NewCounter(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubIngestion,
			Name:      "invalid_events_total",
		},
	)
)
