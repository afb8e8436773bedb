package aggregators

import (
	"context"
	"time"

	"event-analytics/internal/models"
	"event-analytics/internal/shared/loggers"
	"event-analytics/internal/shared/metrics"
	"event-analytics/internal/shared/svcerrors"
	"event-analytics/internal/stores"
)

// StatsService assembles the complete realtime snapshot: scalar totals plus
// the series and ranking for every range. Each call reads the event store
// fresh; snapshots are never cached or persisted.
//
//go:generate mockgen -source=stats_service.go -destination=./mocks/stats_service_mock.go -package=mocks
type StatsService interface {
	Snapshot(ctx context.Context) (*models.StatsSnapshot, *svcerrors.ServiceError)
}

type statsService struct {
	eventStore stores.EventStore
	aggregator WindowAggregator
	now        func() time.Time
}

func NewStatsService(eventStore stores.EventStore, aggregator WindowAggregator) StatsService {
	return &statsService{
		eventStore: eventStore,
		aggregator: aggregator,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *statsService) Snapshot(ctx context.Context) (*models.StatsSnapshot, *svcerrors.ServiceError) {
	logger := loggers.Ctx(ctx)
	start := time.Now()

	totalEvents, err := s.eventStore.Count(ctx)
	if err != nil {
		metricSnapshotComputedTotal.WithLabelValues(codeInternalEventStoreFailed).Inc()
		return nil, errInternalEventStoreFailed(err)
	}

	// Full scan, as the aggregator needs per-event arrival times. Pushing the
	// bucketing into the store query is the known follow-up once event volume
	// makes this the bottleneck.
	events, err := s.eventStore.QueryAll(ctx)
	if err != nil {
		metricSnapshotComputedTotal.WithLabelValues(codeInternalEventStoreFailed).Inc()
		return nil, errInternalEventStoreFailed(err)
	}

	now := s.now()
	oneMinuteAgo := now.Add(-time.Minute)
	var eventsThisMinute int64
	for _, event := range events {
		if !event.ReceivedAt.Before(oneMinuteAgo) {
			eventsThisMinute++
		}
	}

	snapshot := &models.StatsSnapshot{
		TotalEvents:            totalEvents,
		EventsThisMinute:       eventsThisMinute,
		SegmentedData:          make(map[string][]models.SeriesPoint, 3),
		SegmentedTopEventTypes: make(map[string][]models.TopEventType, 3),
	}
	for _, timeRange := range models.TimeRanges() {
		snapshot.SegmentedData[timeRange.String()] = s.aggregator.Series(events, now, timeRange)
		snapshot.SegmentedTopEventTypes[timeRange.String()] = s.aggregator.TopEventTypes(events, now, timeRange)
	}

	metricSnapshotComputedTotal.WithLabelValues(metrics.ValueNoError).Inc()
	metricSnapshotDuration.Observe(time.Since(start).Seconds())
	logger.Debug().
		Int64("total_events", totalEvents).
		Int64("events_this_minute", eventsThisMinute).
		Msg("computed stats snapshot")

	return snapshot, nil
}
