package http

import (
	"net/http"

	"event-analytics/internal/realtime"
	"event-analytics/internal/shared/loggers"

	"github.com/gorilla/websocket"
)

// wsHandler serves GET /ws: upgrade, register with the broadcaster (which
// pushes the initial snapshot), then block reading until the peer goes away.
type wsHandler struct {
	broadcaster realtime.Broadcaster
	upgrader    websocket.Upgrader
}

func NewWSHandler(broadcaster realtime.Broadcaster) AppHttpHandler {
	return &wsHandler{
		broadcaster: broadcaster,
		upgrader: websocket.Upgrader{
			// Dashboards connect cross-origin; credentials are not carried
			// on this endpoint.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *wsHandler) Handle(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the handshake error response.
		loggers.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return nil
	}

	clientID := h.broadcaster.Register(r.Context(), conn)
	defer h.broadcaster.Unregister(clientID)

	// The hub owns all writes; this loop only consumes control frames and
	// detects the close. Inbound data frames are ignored.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}
