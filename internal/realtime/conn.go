package realtime

import (
	"context"
	"sync"
	"time"

	gorilla "github.com/gorilla/websocket"
)

// Conn is one socket attached to the hub. Outbound frames go through a bounded
// queue drained by a single writer, so each peer sees a room's events in order.
type Conn struct {
	hub    *Hub
	ws     *gorilla.Conn
	userID string
	send   chan []byte
	rooms  map[string]struct{} // guarded by hub.mu

	closeOnce sync.Once
	closed    chan struct{}
}

func newConn(h *Hub, ws *gorilla.Conn, userID string) *Conn {
	return &Conn{
		hub:    h,
		ws:     ws,
		userID: userID,
		send:   make(chan []byte, h.settings.SendBuffer),
		rooms:  make(map[string]struct{}),
		closed: make(chan struct{}),
	}
}

// UserID is the authenticated user behind the socket
func (c *Conn) UserID() string {
	return c.userID
}

// enqueue reports false when the connection is gone or too slow to keep up;
// a full queue shuts the connection down.
func (c *Conn) enqueue(payload []byte) bool {
	select {
	case <-c.closed:
		return false
	default:
	}

	select {
	case c.send <- payload:
		return true
	default:
		c.hub.logger.Warn("send queue full, dropping connection", "user_id", c.userID)
		c.shutdown()
		return false
	}
}

func (c *Conn) shutdown() {
	c.closeOnce.Do(func() { close(c.closed) })
}

// Ping writes a ping control frame. gorilla allows control frames
// concurrently with the write pump.
func (c *Conn) Ping() error {
	return c.ws.WriteControl(gorilla.PingMessage, nil, time.Now().Add(c.hub.settings.WriteTimeout))
}

func (c *Conn) readPump(ctx context.Context) {
	defer c.hub.disconnect(c)

	settings := c.hub.settings
	c.ws.SetReadLimit(settings.MaxMessageBytes)
	c.ws.SetReadDeadline(time.Now().Add(settings.PongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(settings.PongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if gorilla.IsUnexpectedCloseError(err, gorilla.CloseNormalClosure, gorilla.CloseGoingAway, gorilla.CloseNoStatusReceived) {
				c.hub.logger.Debug("socket read failed", "user_id", c.userID, "error", err)
			}
			return
		}

		msg, err := DecodeMessage(data)
		if err != nil {
			c.hub.logger.Warn("invalid frame", "user_id", c.userID, "error", err)
			continue
		}
		c.hub.handle(ctx, c, msg)
	}
}

func (c *Conn) writePump() {
	pings := c.hub.newPings()
	pingStopped := pings.Start(c, c.hub.logger)
	defer func() {
		pings.Stop()
		c.ws.Close()
	}()

	timeout := c.hub.settings.WriteTimeout
	for {
		select {
		case payload := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(timeout))
			if err := c.ws.WriteMessage(gorilla.TextMessage, payload); err != nil {
				c.hub.logger.Debug("socket write failed", "user_id", c.userID, "error", err)
				return
			}

		case <-pingStopped:
			return

		case <-c.closed:
			c.ws.WriteControl(gorilla.CloseMessage,
				gorilla.FormatCloseMessage(gorilla.CloseNormalClosure, ""),
				time.Now().Add(timeout))
			return
		}
	}
}
