package realtime

import (
	"event-analytics/internal/shared/metrics"
)

var (
	// metricConnectedClients tracks the current size of the client registry.
	metricConnectedClients = metrics.NewGauge(
		metrics.GaugeOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubRealtime,
			Name:      "connected_clients",
		},
	)

	// metricBroadcastCyclesTotal counts broadcast cycles, labelled with the
	// snapshot error code when the cycle was aborted (empty on success).
	// Cycles skipped by the empty-registry short-circuit are not counted.
	metricBroadcastCyclesTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubRealtime,
			Name:      "broadcast_cycles_total",
		},
		[]string{metrics.FieldErrorCode},
	)

	// metricClientSendsTotal counts individual client pushes.
	metricClientSendsTotal = metrics.NewCounterVec(
		metrics.CounterOpts{
			Namespace: metrics.Namespace,
			Subsystem: metrics.SubRealtime,
			Name:      "client_sends_total",
		},
		[]string{metrics.FieldErrorCode},
	)
)
