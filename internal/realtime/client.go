package realtime

import (
	"sync"
	"time"
)

// ClientConn is the live push handle for one connected dashboard client.
// *websocket.Conn satisfies it; tests substitute fakes. The hub owns the
// handle exclusively for the duration of the connection.
type ClientConn interface {
	WriteJSON(v any) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// client pairs a generated id with its connection. The mutex serializes
// writes: overlapping broadcast cycles may target the same connection, and
// the underlying websocket allows only one concurrent writer.
type client struct {
	id   string
	conn ClientConn
	mu   sync.Mutex
}

func (c *client) send(message any, timeout time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	return c.conn.WriteJSON(message)
}
