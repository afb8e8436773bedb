package aggregators

import (
	"context"
	"errors"
	"testing"
	"time"

	"event-analytics/internal/models"
	storemocks "event-analytics/internal/stores/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestStatsService(store *storemocks.MockEventStore, now time.Time) StatsService {
	service := NewStatsService(store, NewWindowAggregator()).(*statsService)
	service.now = func() time.Time { return now }
	return service
}

func TestStatsService_Snapshot_EmptyStore(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Date(2025, 12, 28, 18, 3, 0, 0, time.UTC)
	store := storemocks.NewMockEventStore(ctrl)
	store.EXPECT().Count(gomock.Any()).Return(int64(0), nil)
	store.EXPECT().QueryAll(gomock.Any()).Return(nil, nil)

	snapshot, svcErr := newTestStatsService(store, now).Snapshot(context.Background())
	require.Nil(t, svcErr)

	assert.Equal(t, int64(0), snapshot.TotalEvents)
	assert.Equal(t, int64(0), snapshot.EventsThisMinute)
	for _, timeRange := range models.TimeRanges() {
		series := snapshot.SegmentedData[timeRange.String()]
		require.Len(t, series, timeRange.BucketCount())
		for _, point := range series {
			assert.Equal(t, int64(0), point.Count)
		}
		assert.Empty(t, snapshot.SegmentedTopEventTypes[timeRange.String()])
	}
}

func TestStatsService_Snapshot_CountsAndRankings(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := time.Date(2025, 12, 28, 18, 3, 0, 0, time.UTC)
	events := []*models.Event{
		eventAt(now.Add(-90*time.Second), models.EventTypePageView),
		eventAt(now.Add(-30*time.Second), models.EventTypePageView),
		eventAt(now.Add(-5*time.Second), models.EventTypePageView),
	}

	store := storemocks.NewMockEventStore(ctrl)
	store.EXPECT().Count(gomock.Any()).Return(int64(3), nil)
	store.EXPECT().QueryAll(gomock.Any()).Return(events, nil)

	snapshot, svcErr := newTestStatsService(store, now).Snapshot(context.Background())
	require.Nil(t, svcErr)

	assert.Equal(t, int64(3), snapshot.TotalEvents)
	// Only the events at now-30s and now-5s fall inside the last 60 seconds.
	assert.Equal(t, int64(2), snapshot.EventsThisMinute)

	top := snapshot.SegmentedTopEventTypes["hour"]
	require.Len(t, top, 1)
	assert.Equal(t, models.TopEventType{Type: "page_view", Count: 3, Percentage: 100}, top[0])

	require.Len(t, snapshot.SegmentedData["hour"], 60)
	require.Len(t, snapshot.SegmentedData["day"], 24)
	require.Len(t, snapshot.SegmentedData["week"], 7)
}

func TestStatsService_Snapshot_CountFails(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := storemocks.NewMockEventStore(ctrl)
	store.EXPECT().Count(gomock.Any()).Return(int64(0), errors.New("disk gone"))

	now := time.Date(2025, 12, 28, 18, 3, 0, 0, time.UTC)
	snapshot, svcErr := newTestStatsService(store, now).Snapshot(context.Background())

	require.NotNil(t, svcErr)
	assert.Equal(t, "AGG_9000", svcErr.Code)
	assert.Nil(t, snapshot)
}

func TestStatsService_Snapshot_QueryAllFails(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := storemocks.NewMockEventStore(ctrl)
	store.EXPECT().Count(gomock.Any()).Return(int64(10), nil)
	store.EXPECT().QueryAll(gomock.Any()).Return(nil, errors.New("disk gone"))

	now := time.Date(2025, 12, 28, 18, 3, 0, 0, time.UTC)
	snapshot, svcErr := newTestStatsService(store, now).Snapshot(context.Background())

	require.NotNil(t, svcErr)
	assert.Equal(t, "AGG_9000", svcErr.Code)
	assert.Nil(t, snapshot)
}
