package exporters

import (
	"event-analytics/internal/shared/metrics"
)

var (
	metricExportsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubExport,
			Name:      "exports_total",
		},
		[]string{"format", metrics.FieldErrorCode},
	)
)
