package models

import (
	"fmt"
	"time"
)

// TimeRange is one of the three fixed aggregation spans: the last hour
// bucketed by minute, the last day bucketed by hour, the last week bucketed
// by day. The same type drives REST query filtering (Cutoff) and the
// realtime bucket grids (BucketWidth/BucketCount/Anchor), so the gap-free
// invariants hold uniformly instead of being re-implemented per span.
type TimeRange string

const (
	RangeHour TimeRange = "hour"
	RangeDay  TimeRange = "day"
	RangeWeek TimeRange = "week"
)

// TimeRanges returns all ranges in ascending span order.
func TimeRanges() []TimeRange {
	return []TimeRange{RangeHour, RangeDay, RangeWeek}
}

// ParseTimeRange parses a query-string value, falling back to RangeHour for
// empty or unknown input.
func ParseTimeRange(s string) TimeRange {
	switch TimeRange(s) {
	case RangeHour, RangeDay, RangeWeek:
		return TimeRange(s)
	}
	return RangeHour
}

func (r TimeRange) String() string { return string(r) }

// Span is the full width of the range: 1h, 24h, or 7d.
func (r TimeRange) Span() time.Duration {
	return r.BucketWidth() * time.Duration(r.BucketCount())
}

// BucketWidth is the width of one bucket in the range's series.
func (r TimeRange) BucketWidth() time.Duration {
	switch r {
	case RangeHour:
		return time.Minute
	case RangeDay:
		return time.Hour
	case RangeWeek:
		return 24 * time.Hour
	default:
		panic(fmt.Sprintf("invalid TimeRange: %q", r))
	}
}

// BucketCount is the exact number of buckets in the range's series.
func (r TimeRange) BucketCount() int {
	switch r {
	case RangeHour:
		return 60
	case RangeDay:
		return 24
	case RangeWeek:
		return 7
	default:
		panic(fmt.Sprintf("invalid TimeRange: %q", r))
	}
}

// Anchor is the start of the LAST bucket in the grid: now truncated to the
// bucket width in UTC. For RangeWeek this lands on a UTC midnight.
func (r TimeRange) Anchor(now time.Time) time.Time {
	return now.UTC().Truncate(r.BucketWidth())
}

// Cutoff is the lower bound of the ranking window: now minus the full span.
// Note this is now-relative, not aligned to the bucket grid.
func (r TimeRange) Cutoff(now time.Time) time.Time {
	return now.Add(-r.Span())
}
