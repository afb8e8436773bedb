package realtime

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"event-analytics/internal/aggregators"
	aggregatormocks "event-analytics/internal/aggregators/mocks"
	"event-analytics/internal/models"
	"event-analytics/internal/shared/svcerrors"
	storemocks "event-analytics/internal/stores/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakeConn struct {
	mu       sync.Mutex
	messages []*models.StatsMessage
	writeErr error
	closed   bool
}

func (f *fakeConn) WriteJSON(v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.messages = append(f.messages, v.(*models.StatsMessage))
	return nil
}

func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) received() []*models.StatsMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.messages
}

func testSnapshot(total int64) *models.StatsSnapshot {
	return &models.StatsSnapshot{
		TotalEvents:            total,
		SegmentedData:          map[string][]models.SeriesPoint{},
		SegmentedTopEventTypes: map[string][]models.TopEventType{},
	}
}

func TestHub_Register_SendsInitialSnapshot(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	statsService := aggregatormocks.NewMockStatsService(ctrl)
	statsService.EXPECT().Snapshot(gomock.Any()).Return(testSnapshot(7), nil)

	hub := NewHub(statsService, time.Second, zerolog.Nop())
	conn := &fakeConn{}

	clientID := hub.Register(context.Background(), conn)
	assert.NotEmpty(t, clientID)
	assert.Equal(t, 1, hub.ClientCount())

	require.Len(t, conn.received(), 1)
	assert.Equal(t, int64(7), conn.received()[0].Stats.TotalEvents)
}

func TestHub_BroadcastStats_FanOut(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	statsService := aggregatormocks.NewMockStatsService(ctrl)
	// One snapshot per registration, then exactly one for the broadcast cycle.
	statsService.EXPECT().Snapshot(gomock.Any()).Return(testSnapshot(1), nil).Times(3)
	statsService.EXPECT().Snapshot(gomock.Any()).Return(testSnapshot(42), nil)

	hub := NewHub(statsService, time.Second, zerolog.Nop())

	conns := []*fakeConn{{}, {}, {}}
	for _, conn := range conns {
		hub.Register(context.Background(), conn)
	}

	hub.BroadcastStats(context.Background())

	for i, conn := range conns {
		messages := conn.received()
		require.Len(t, messages, 2, "client %d", i)
		assert.Equal(t, int64(42), messages[1].Stats.TotalEvents, "all clients see the same payload")
	}
}

func TestHub_BroadcastStats_DisconnectedClientReceivesNothing(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	statsService := aggregatormocks.NewMockStatsService(ctrl)
	statsService.EXPECT().Snapshot(gomock.Any()).Return(testSnapshot(1), nil).Times(2)
	statsService.EXPECT().Snapshot(gomock.Any()).Return(testSnapshot(42), nil)

	hub := NewHub(statsService, time.Second, zerolog.Nop())

	staying := &fakeConn{}
	leaving := &fakeConn{}
	hub.Register(context.Background(), staying)
	leavingID := hub.Register(context.Background(), leaving)

	hub.Unregister(leavingID)
	hub.BroadcastStats(context.Background())

	require.Len(t, staying.received(), 2)
	assert.Len(t, leaving.received(), 1, "client gone before the broadcast gets only its initial snapshot")
	assert.True(t, leaving.closed)
}

func TestHub_BroadcastStats_EmptyRegistrySkipsStoreRead(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No EXPECT calls on the store: any read would fail the test.
	store := storemocks.NewMockEventStore(ctrl)
	statsService := aggregators.NewStatsService(store, aggregators.NewWindowAggregator())

	hub := NewHub(statsService, time.Second, zerolog.Nop())
	hub.BroadcastStats(context.Background())
}

func TestHub_BroadcastStats_SnapshotFailureAbortsCycle(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	statsService := aggregatormocks.NewMockStatsService(ctrl)
	statsService.EXPECT().Snapshot(gomock.Any()).Return(testSnapshot(1), nil)
	statsService.EXPECT().Snapshot(gomock.Any()).
		Return(nil, svcerrors.NewInternalError("AGG_9000", errors.New("disk gone")))

	hub := NewHub(statsService, time.Second, zerolog.Nop())
	conn := &fakeConn{}
	hub.Register(context.Background(), conn)

	hub.BroadcastStats(context.Background())

	assert.Len(t, conn.received(), 1, "aborted cycle sends nothing")
	assert.Equal(t, 1, hub.ClientCount(), "a store failure never removes clients")
}

func TestHub_BroadcastStats_SendFailureRemovesOnlyFailingClient(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	statsService := aggregatormocks.NewMockStatsService(ctrl)
	statsService.EXPECT().Snapshot(gomock.Any()).Return(testSnapshot(1), nil).Times(2)
	statsService.EXPECT().Snapshot(gomock.Any()).Return(testSnapshot(42), nil)

	hub := NewHub(statsService, time.Second, zerolog.Nop())

	healthy := &fakeConn{}
	hub.Register(context.Background(), healthy)

	broken := &fakeConn{}
	hub.Register(context.Background(), broken)
	broken.mu.Lock()
	broken.writeErr = errors.New("broken pipe")
	broken.mu.Unlock()

	hub.BroadcastStats(context.Background())

	require.Len(t, healthy.received(), 2, "healthy client still gets the payload")
	assert.Equal(t, 1, hub.ClientCount(), "failing client removed from registry")
	assert.True(t, broken.closed)
}

func TestHub_Unregister_Idempotent(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	statsService := aggregatormocks.NewMockStatsService(ctrl)
	statsService.EXPECT().Snapshot(gomock.Any()).Return(testSnapshot(1), nil)

	hub := NewHub(statsService, time.Second, zerolog.Nop())
	clientID := hub.Register(context.Background(), &fakeConn{})

	hub.Unregister(clientID)
	hub.Unregister(clientID)
	hub.Unregister("no-such-client")

	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_NotifyEventPersisted_TriggersBroadcast(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	statsService := aggregatormocks.NewMockStatsService(ctrl)
	statsService.EXPECT().Snapshot(gomock.Any()).Return(testSnapshot(1), nil)
	statsService.EXPECT().Snapshot(gomock.Any()).Return(testSnapshot(2), nil)

	hub := NewHub(statsService, time.Second, zerolog.Nop())
	conn := &fakeConn{}
	hub.Register(context.Background(), conn)

	hub.NotifyEventPersisted(context.Background())

	require.Len(t, conn.received(), 2)
	assert.Equal(t, int64(2), conn.received()[1].Stats.TotalEvents)
}
