package aggregators

import (
	"sort"
	"time"

	"event-analytics/internal/models"
)

// WindowAggregator derives bucketed series and top-type rankings from a set
// of events and a reference instant. It is pure: no side effects, and the
// same inputs always produce identical output. All windowing uses the event's
// arrival time (ReceivedAt), never the client-asserted timestamp.
//
//go:generate mockgen -source=window_aggregator.go -destination=./mocks/window_aggregator_mock.go -package=mocks
type WindowAggregator interface {
	// Series returns the gap-free bucketed series for the range: exactly
	// BucketCount() buckets of BucketWidth() each, the last one being the
	// bucket containing now. Buckets with no events are present with count 0.
	Series(events []*models.Event, now time.Time, r models.TimeRange) []models.SeriesPoint

	// TopEventTypes ranks event types inside the range's window (now minus the
	// full span, not the bucket grid): at most 5 entries, count descending.
	// Ties break by event type ascending, so the ranking is deterministic.
	TopEventTypes(events []*models.Event, now time.Time, r models.TimeRange) []models.TopEventType
}

type windowAggregator struct{}

func NewWindowAggregator() WindowAggregator {
	return &windowAggregator{}
}

const topEventTypesLimit = 5

func (a *windowAggregator) Series(events []*models.Event, now time.Time, r models.TimeRange) []models.SeriesPoint {
	width := r.BucketWidth()
	bucketCount := r.BucketCount()

	// gridStart is the start of the first bucket; the grid covers
	// [gridStart, anchor+width) with no gaps.
	anchor := r.Anchor(now)
	gridStart := anchor.Add(-time.Duration(bucketCount-1) * width)
	gridEnd := anchor.Add(width)

	counts := make([]int64, bucketCount)
	for _, event := range events {
		receivedAt := event.ReceivedAt.UTC()
		if receivedAt.Before(gridStart) || !receivedAt.Before(gridEnd) {
			continue
		}
		counts[int(receivedAt.Sub(gridStart)/width)]++
	}

	series := make([]models.SeriesPoint, bucketCount)
	for i := range series {
		series[i] = models.SeriesPoint{
			Timestamp: gridStart.Add(time.Duration(i) * width).Format(models.TimestampLayout),
			Count:     counts[i],
		}
	}
	return series
}

func (a *windowAggregator) TopEventTypes(events []*models.Event, now time.Time, r models.TimeRange) []models.TopEventType {
	cutoff := r.Cutoff(now)

	countsByType := make(map[string]int64)
	var total int64
	for _, event := range events {
		if event.ReceivedAt.Before(cutoff) {
			continue
		}
		countsByType[string(event.EventType)]++
		total++
	}

	ranked := make([]models.TopEventType, 0, len(countsByType))
	for eventType, count := range countsByType {
		percentage := 0.0
		if total > 0 {
			percentage = float64(count) / float64(total) * 100
		}
		ranked = append(ranked, models.TopEventType{
			Type:       eventType,
			Count:      count,
			Percentage: percentage,
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Type < ranked[j].Type
	})

	if len(ranked) > topEventTypesLimit {
		ranked = ranked[:topEventTypesLimit]
	}
	return ranked
}
