// Package realtime is the document sync hub: connections join rooms keyed by
// document id, and edits or cursor moves sent to a room are relayed to every
// other member.
package realtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"

	"loomspace/internal/config"
	"loomspace/internal/domain"
	"loomspace/internal/domain/services"
	"loomspace/internal/httputil"

	gorilla "github.com/gorilla/websocket"
)

// Option configures a Hub
type Option func(h *Hub)

// WithAuthorizer requires create-room callers to have access to the document.
func WithAuthorizer(authorizer services.ResourceAuthorizer) Option {
	return func(h *Hub) { h.authorizer = authorizer }
}

// WithAllowedOrigins restricts which browser origins may open a socket.
// No origins allows any.
func WithAllowedOrigins(origins ...string) Option {
	return func(h *Hub) { h.origins = origins }
}

// WithPings replaces the per-connection ping schedule.
func WithPings(factory func() PingSchedule) Option {
	return func(h *Hub) { h.newPings = factory }
}

// Hub owns the rooms and the connections in them.
type Hub struct {
	settings   *config.Realtime
	authorizer services.ResourceAuthorizer
	origins    []string
	newPings   func() PingSchedule
	upgrader   gorilla.Upgrader
	logger     *slog.Logger

	mu    sync.Mutex
	rooms map[string]map[*Conn]struct{}
	conns map[*Conn]struct{}
}

// NewHub creates a hub. Nil settings use the embedded defaults.
func NewHub(settings *config.Realtime, logger *slog.Logger, opts ...Option) *Hub {
	if settings == nil {
		settings = config.DefaultRealtime()
	}
	h := &Hub{
		settings: settings,
		logger:   logger,
		rooms:    make(map[string]map[*Conn]struct{}),
		conns:    make(map[*Conn]struct{}),
	}
	h.newPings = func() PingSchedule {
		return NewIntervalPings(h.settings.KeepAliveInterval)
	}
	for _, opt := range opts {
		opt(h)
	}
	h.upgrader = gorilla.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	if len(h.origins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || slices.Contains(h.origins, origin)
}

// ServeHTTP upgrades an authenticated request and serves the connection until it closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := httputil.GetUserID(r)
	if userID == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		h.logger.Warn("websocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	c := newConn(h, ws, userID)
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("socket connected", "user_id", userID, "remote", r.RemoteAddr)

	go c.writePump()
	c.readPump(r.Context())
}

// Join adds c to the room for documentID.
func (h *Hub) Join(ctx context.Context, c *Conn, documentID string) error {
	if documentID == "" {
		return fmt.Errorf("%w: document id is required", domain.ErrValidation)
	}
	if h.authorizer != nil {
		if err := h.authorizer.CanAccessDocument(ctx, c.userID, documentID); err != nil {
			return err
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[c]; !ok {
		return errors.New("connection closed")
	}
	members, ok := h.rooms[documentID]
	if !ok {
		members = make(map[*Conn]struct{})
		h.rooms[documentID] = members
	}
	members[c] = struct{}{}
	c.rooms[documentID] = struct{}{}

	h.logger.Info("joined room", "room", documentID, "user_id", c.userID, "members", len(members))
	return nil
}

// Leave removes c from the room. Leaving a room c is not in is a no-op.
func (h *Hub) Leave(c *Conn, documentID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.leaveLocked(c, documentID) {
		h.logger.Info("left room", "room", documentID, "user_id", c.userID)
	}
}

func (h *Hub) leaveLocked(c *Conn, documentID string) bool {
	members, ok := h.rooms[documentID]
	if !ok {
		return false
	}
	if _, ok := members[c]; !ok {
		return false
	}
	delete(members, c)
	delete(c.rooms, documentID)
	if len(members) == 0 {
		delete(h.rooms, documentID)
	}
	return true
}

// Broadcast queues msg to every member of the room except sender, returning how
// many connections accepted it. A nil sender reaches every member.
func (h *Hub) Broadcast(sender *Conn, documentID string, msg *Message) (int, error) {
	payload, err := msg.Encode()
	if err != nil {
		return 0, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delivered := 0
	for c := range h.rooms[documentID] {
		if c == sender {
			continue
		}
		if c.enqueue(payload) {
			delivered++
		}
	}
	return delivered, nil
}

// Members reports the room's size
func (h *Hub) Members(documentID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[documentID])
}

// Close drops every connection
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		c.shutdown()
	}
}

func (h *Hub) isMember(c *Conn, documentID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := c.rooms[documentID]
	return ok
}

// disconnect removes c from every room it is in.
func (h *Hub) disconnect(c *Conn) {
	h.mu.Lock()
	rooms := make([]string, 0, len(c.rooms))
	for room := range c.rooms {
		rooms = append(rooms, room)
	}
	for _, room := range rooms {
		h.leaveLocked(c, room)
	}
	delete(h.conns, c)
	h.mu.Unlock()

	c.shutdown()
	h.logger.Debug("socket disconnected", "user_id", c.userID, "rooms", rooms)
}

// handle routes one inbound message.
func (h *Hub) handle(ctx context.Context, c *Conn, msg *Message) {
	switch msg.Event {
	case EventCreateRoom:
		documentID := msg.StringArg(0)
		if err := h.Join(ctx, c, documentID); err != nil {
			h.logger.Warn("join rejected", "room", documentID, "user_id", c.userID, "error", err)
		}

	case EventLeaveRoom:
		h.Leave(c, msg.StringArg(0))

	default:
		relayed, ok := msg.Relayed()
		if !ok {
			h.logger.Warn("unknown event", "event", msg.Event, "user_id", c.userID)
			return
		}
		documentID := msg.StringArg(RoomArg)
		if !h.isMember(c, documentID) {
			h.logger.Debug("dropping event for room not joined", "event", msg.Event, "room", documentID, "user_id", c.userID)
			return
		}
		if _, err := h.Broadcast(c, documentID, relayed); err != nil {
			h.logger.Error("broadcast failed", "event", msg.Event, "room", documentID, "error", err)
		}
	}
}
