package realtime

import (
	"context"
	"sync"
	"time"

	"event-analytics/internal/aggregators"
	"event-analytics/internal/models"
	"event-analytics/internal/shared/loggers"
	"event-analytics/internal/shared/metrics"
	"event-analytics/internal/shared/ulid"
)

// Broadcaster owns the registry of live realtime connections and is the
// single place that triggers snapshot recomputation and push. Recomputation
// happens only on state change (a persisted event) or a new connection;
// there is no timer.
//
//go:generate mockgen -source=hub.go -destination=./mocks/broadcaster_mock.go -package=mocks
type Broadcaster interface {
	// Register stores a new connection under a fresh id and immediately
	// computes and pushes one full snapshot to that client only. Other
	// clients' sends are never blocked by a registration.
	Register(ctx context.Context, conn ClientConn) string

	// Unregister removes the client and closes its connection. Idempotent:
	// unknown ids are a no-op.
	Unregister(clientID string)

	// BroadcastStats recomputes the snapshot once and pushes the identical
	// payload to every registered client. An empty registry short-circuits
	// before any event-store read. A store failure aborts the whole cycle
	// (nothing is sent); a failed send removes only that client.
	BroadcastStats(ctx context.Context)

	// NotifyEventPersisted is the ingest trigger: called exactly once per
	// successfully persisted event, after persistence completes.
	NotifyEventPersisted(ctx context.Context)

	ClientCount() int
}

type hub struct {
	statsService aggregators.StatsService
	writeTimeout time.Duration
	logger       loggers.Logger

	// mu guards clients only. It is held for registry mutation and for
	// snapshotting the client list, never across a send.
	mu      sync.Mutex
	clients map[string]*client
}

func NewHub(statsService aggregators.StatsService, writeTimeout time.Duration, logger loggers.Logger) Broadcaster {
	return &hub{
		statsService: statsService,
		writeTimeout: writeTimeout,
		logger:       logger,
		clients:      make(map[string]*client),
	}
}

func (h *hub) Register(ctx context.Context, conn ClientConn) string {
	newClient := &client{
		id:   ulid.NewULID(),
		conn: conn,
	}

	h.mu.Lock()
	h.clients[newClient.id] = newClient
	clientCount := len(h.clients)
	h.mu.Unlock()
	metricConnectedClients.Set(float64(clientCount))

	h.logger.Info().
		Str(loggers.FieldClientID, newClient.id).
		Int(loggers.FieldClientCount, clientCount).
		Msg("realtime client connected")

	// Initial snapshot for this client only.
	snapshot, svcErr := h.statsService.Snapshot(ctx)
	if svcErr != nil {
		// The client stays registered; it catches up on the next broadcast.
		h.logger.Error().
			Err(svcErr.Cause).
			Str(loggers.FieldErrorCode, svcErr.Code).
			Str(loggers.FieldClientID, newClient.id).
			Msg("failed to compute initial snapshot")
		return newClient.id
	}
	h.push(newClient, &models.StatsMessage{Stats: snapshot})

	return newClient.id
}

func (h *hub) Unregister(clientID string) {
	h.mu.Lock()
	removed, ok := h.clients[clientID]
	if ok {
		delete(h.clients, clientID)
	}
	clientCount := len(h.clients)
	h.mu.Unlock()

	if !ok {
		return
	}
	metricConnectedClients.Set(float64(clientCount))
	_ = removed.conn.Close()

	h.logger.Info().
		Str(loggers.FieldClientID, clientID).
		Int(loggers.FieldClientCount, clientCount).
		Msg("realtime client disconnected")
}

func (h *hub) BroadcastStats(ctx context.Context) {
	// Computing a full triple-range snapshot over the whole event log is the
	// expensive path; with nobody listening it is skipped entirely.
	if h.ClientCount() == 0 {
		return
	}

	snapshot, svcErr := h.statsService.Snapshot(ctx)
	if svcErr != nil {
		// Abort the cycle: better to send nothing than wrong aggregates. The
		// next event or connection is the retry.
		metricBroadcastCyclesTotal.WithLabelValues(svcErr.Code).Inc()
		loggers.Ctx(ctx).Error().
			Err(svcErr.Cause).
			Str(loggers.FieldErrorCode, svcErr.Code).
			Msg("broadcast cycle aborted")
		return
	}

	message := &models.StatsMessage{Stats: snapshot}
	for _, target := range h.clientList() {
		h.push(target, message)
	}
	metricBroadcastCyclesTotal.WithLabelValues(metrics.ValueNoError).Inc()
}

func (h *hub) NotifyEventPersisted(ctx context.Context) {
	h.BroadcastStats(ctx)
}

func (h *hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// push sends one message to one client. A send failure is isolated: the
// failing client is removed and the error never propagates to the caller.
func (h *hub) push(target *client, message *models.StatsMessage) {
	err := target.send(message, h.writeTimeout)
	if err == nil {
		metricClientSendsTotal.WithLabelValues(metrics.ValueNoError).Inc()
		return
	}

	metricClientSendsTotal.WithLabelValues(codeClientSendFailed).Inc()
	h.logger.Warn().
		Err(err).
		Str(loggers.FieldErrorCode, codeClientSendFailed).
		Str(loggers.FieldClientID, target.id).
		Msg("client send failed, removing client")
	h.Unregister(target.id)
}

func (h *hub) clientList() []*client {
	h.mu.Lock()
	defer h.mu.Unlock()

	list := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		list = append(list, c)
	}
	return list
}
