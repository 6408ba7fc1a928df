package docsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"loomspace/internal/realtime"

	gorilla "github.com/gorilla/websocket"
)

// ErrDisconnected is returned by Emit once the socket is down.
var ErrDisconnected = errors.New("socket disconnected")

// EventHandler receives the JSON args of one event.
type EventHandler func(args []json.RawMessage)

// Transport is the room-based channel a Session talks through.
type Transport interface {
	Emit(event string, args ...interface{}) error
	On(event string, fn EventHandler) (off func())
}

// Socket is a Transport over a websocket to the realtime hub. Handlers run on
// the read goroutine in arrival order. A lost connection is not redialed.
type Socket struct {
	ws           *gorilla.Conn
	writeTimeout time.Duration
	logger       *slog.Logger

	writeMu sync.Mutex

	mu       sync.RWMutex
	nextID   int
	handlers map[string]map[int]EventHandler
	status   map[int]func(connected bool)

	connected atomic.Bool
	closeOnce sync.Once
	done      chan struct{}
}

// Dial connects to the hub at url (ws:// or wss://), authenticating with token.
func Dial(ctx context.Context, url, token string, logger *slog.Logger) (*Socket, error) {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	ws, resp, err := gorilla.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %w (status %d)", url, err, resp.StatusCode)
		}
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	resp.Body.Close()

	s := &Socket{
		ws:           ws,
		writeTimeout: 10 * time.Second,
		logger:       logger,
		handlers:     make(map[string]map[int]EventHandler),
		status:       make(map[int]func(bool)),
		done:         make(chan struct{}),
	}
	s.connected.Store(true)
	go s.readLoop()
	return s, nil
}

// Connected reports whether the socket is up
func (s *Socket) Connected() bool {
	return s.connected.Load()
}

// Done is closed when the connection ends
func (s *Socket) Done() <-chan struct{} {
	return s.done
}

// Emit sends one event frame
func (s *Socket) Emit(event string, args ...interface{}) error {
	if !s.Connected() {
		return ErrDisconnected
	}
	msg, err := realtime.NewMessage(event, args...)
	if err != nil {
		return err
	}
	payload, err := msg.Encode()
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.ws.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	if err := s.ws.WriteMessage(gorilla.TextMessage, payload); err != nil {
		return fmt.Errorf("emit %s: %w", event, err)
	}
	return nil
}

// On registers fn for event. The returned func unregisters it.
func (s *Socket) On(event string, fn EventHandler) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	if s.handlers[event] == nil {
		s.handlers[event] = make(map[int]EventHandler)
	}
	s.handlers[event][id] = fn
	return func() {
		s.mu.Lock()
		delete(s.handlers[event], id)
		s.mu.Unlock()
	}
}

// OnStatus registers fn for connectivity changes.
func (s *Socket) OnStatus(fn func(connected bool)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.status[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.status, id)
		s.mu.Unlock()
	}
}

// Close sends a close frame and waits for the read loop to end.
func (s *Socket) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.writeMu.Lock()
		err = s.ws.WriteControl(gorilla.CloseMessage,
			gorilla.FormatCloseMessage(gorilla.CloseNormalClosure, ""),
			time.Now().Add(s.writeTimeout))
		s.writeMu.Unlock()

		select {
		case <-s.done:
		case <-time.After(s.writeTimeout):
		}
		if closeErr := s.ws.Close(); err == nil {
			err = closeErr
		}
	})
	if errors.Is(err, gorilla.ErrCloseSent) || errors.Is(err, net.ErrClosed) {
		return nil
	}
	return err
}

func (s *Socket) readLoop() {
	defer s.disconnected()

	for {
		_, data, err := s.ws.ReadMessage()
		if err != nil {
			if gorilla.IsUnexpectedCloseError(err, gorilla.CloseNormalClosure, gorilla.CloseGoingAway) {
				s.logger.Warn("socket closed", "error", err)
			}
			return
		}

		msg, err := realtime.DecodeMessage(data)
		if err != nil {
			s.logger.Warn("invalid frame from hub", "error", err)
			continue
		}
		for _, fn := range s.handlersFor(msg.Event) {
			fn(msg.Args)
		}
	}
}

func (s *Socket) handlersFor(event string) []EventHandler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	registered := s.handlers[event]
	out := make([]EventHandler, 0, len(registered))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := registered[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func (s *Socket) disconnected() {
	s.connected.Store(false)
	close(s.done)

	s.mu.RLock()
	listeners := make([]func(bool), 0, len(s.status))
	for _, fn := range s.status {
		listeners = append(listeners, fn)
	}
	s.mu.RUnlock()
	for _, fn := range listeners {
		fn(false)
	}
}
