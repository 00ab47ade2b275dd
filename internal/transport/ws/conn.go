package ws

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/inkwell-dev/inkwell/internal/core"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// wsConn is the transport endpoint handed to the core. The write pump
// owns the socket's write side and drains send; TrySend only ever
// queues.
type wsConn struct {
	id   core.ConnID
	conn *websocket.Conn
	send chan core.Payload

	mu     sync.RWMutex
	closed bool
}

func newWsConn(id core.ConnID, conn *websocket.Conn, sendBuffer int) *wsConn {
	return &wsConn{
		id:   id,
		conn: conn,
		send: make(chan core.Payload, sendBuffer),
	}
}

func (c *wsConn) ID() core.ConnID { return c.id }

func (c *wsConn) TrySend(p core.Payload) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnClosed
	}
	select {
	case c.send <- p:
	default:
		return ErrBackpressure
	}
	return nil
}

// Close is idempotent and safe from any goroutine.
func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}
