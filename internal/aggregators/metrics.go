package aggregators

import (
	"event-analytics/internal/shared/metrics"
)

var (
	// metricSnapshotComputedTotal counts snapshot computations, labelled with
	// the error code when the event store read failed (empty on success).
	metricSnapshotComputedTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAggregation,
			Name:      "snapshot_computed_total",
		},
		[]string{metrics.FieldErrorCode},
	)

	// metricSnapshotDuration observes how long one full triple-range snapshot
	// takes. This is the expensive path of the whole service: it scales with
	// the size of the event log, so watch this histogram before anything else.
	metricSnapshotDuration = metrics.NewHistogramVec(
		metrics.HistogramOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubAggregation,
			Name:      "snapshot_duration_seconds",
			Buckets:   metrics.DefBuckets,
		},
		[]string{},
	).WithLabelValues()
)
