package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeRange_BucketGrid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		r             TimeRange
		expectedWidth time.Duration
		expectedCount int
	}{
		{
			name:          "hour range has 60 minute buckets",
			r:             RangeHour,
			expectedWidth: time.Minute,
			expectedCount: 60,
		},
		{
			name:          "day range has 24 hour buckets",
			r:             RangeDay,
			expectedWidth: time.Hour,
			expectedCount: 24,
		},
		{
			name:          "week range has 7 day buckets",
			r:             RangeWeek,
			expectedWidth: 24 * time.Hour,
			expectedCount: 7,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expectedWidth, tt.r.BucketWidth())
			assert.Equal(t, tt.expectedCount, tt.r.BucketCount())
			assert.Equal(t, tt.expectedWidth*time.Duration(tt.expectedCount), tt.r.Span())
		})
	}
}

func TestTimeRange_BucketWidth_Invalid(t *testing.T) {
	t.Parallel()

	invalid := TimeRange("month")
	assert.Panics(t, func() {
		invalid.BucketWidth()
	}, "BucketWidth should panic on invalid TimeRange")
}

func TestTimeRange_Anchor(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 12, 28, 18, 3, 45, 123456789, time.UTC)

	tests := []struct {
		name     string
		r        TimeRange
		expected time.Time
	}{
		{
			name:     "hour range anchors to the minute",
			r:        RangeHour,
			expected: time.Date(2025, 12, 28, 18, 3, 0, 0, time.UTC),
		},
		{
			name:     "day range anchors to the hour",
			r:        RangeDay,
			expected: time.Date(2025, 12, 28, 18, 0, 0, 0, time.UTC),
		},
		{
			name:     "week range anchors to UTC midnight",
			r:        RangeWeek,
			expected: time.Date(2025, 12, 28, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, tt.r.Anchor(now))
		})
	}
}

func TestTimeRange_Cutoff(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 12, 28, 18, 3, 45, 0, time.UTC)

	assert.Equal(t, now.Add(-time.Hour), RangeHour.Cutoff(now))
	assert.Equal(t, now.Add(-24*time.Hour), RangeDay.Cutoff(now))
	assert.Equal(t, now.Add(-7*24*time.Hour), RangeWeek.Cutoff(now))
}

func TestParseTimeRange(t *testing.T) {
	t.Parallel()

	assert.Equal(t, RangeHour, ParseTimeRange("hour"))
	assert.Equal(t, RangeDay, ParseTimeRange("day"))
	assert.Equal(t, RangeWeek, ParseTimeRange("week"))

	// Unknown and empty values fall back to the default range.
	assert.Equal(t, RangeHour, ParseTimeRange(""))
	assert.Equal(t, RangeHour, ParseTimeRange("fortnight"))
}

func TestEventType_IsValid(t *testing.T) {
	t.Parallel()

	for _, eventType := range EventTypes() {
		assert.True(t, eventType.IsValid(), "expected %q to be valid", eventType)
	}

	assert.False(t, EventType("").IsValid())
	assert.False(t, EventType("page_view ").IsValid())
	assert.False(t, EventType("signup").IsValid())
}
