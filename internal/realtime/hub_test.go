package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"loomspace/internal/config"
	"loomspace/internal/domain"
	"loomspace/internal/httputil"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// attach registers a connection with no socket behind it; its queue is read directly.
func attach(h *Hub, userID string) *Conn {
	c := newConn(h, nil, userID)
	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func mustMessage(t *testing.T, event string, args ...interface{}) *Message {
	t.Helper()
	msg, err := NewMessage(event, args...)
	require.NoError(t, err)
	return msg
}

func received(t *testing.T, c *Conn) *Message {
	t.Helper()
	select {
	case payload := <-c.send:
		msg, err := DecodeMessage(payload)
		require.NoError(t, err)
		return msg
	default:
		t.Fatalf("%s received nothing", c.userID)
		return nil
	}
}

type docAuthorizer struct {
	allowed map[string]bool
}

func (a docAuthorizer) CanAccessWorkspace(context.Context, string, string) error { return nil }
func (a docAuthorizer) CanManageWorkspace(context.Context, string, string) error { return nil }
func (a docAuthorizer) CanAccessFolder(context.Context, string, string) error    { return nil }
func (a docAuthorizer) CanAccessFile(context.Context, string, string) error      { return nil }
func (a docAuthorizer) CanAccessDocument(_ context.Context, _ string, documentID string) error {
	if a.allowed[documentID] {
		return nil
	}
	return domain.ErrForbidden
}

func TestRelayExcludesSenderAndOtherRooms(t *testing.T) {
	h := NewHub(nil, discard())
	ctx := context.Background()
	alice, bob, carol := attach(h, "alice"), attach(h, "bob"), attach(h, "carol")

	h.handle(ctx, alice, mustMessage(t, EventCreateRoom, "doc-1"))
	h.handle(ctx, bob, mustMessage(t, EventCreateRoom, "doc-1"))
	h.handle(ctx, carol, mustMessage(t, EventCreateRoom, "doc-2"))
	require.Equal(t, 2, h.Members("doc-1"))

	change := json.RawMessage(`{"ops":[{"insert":"hi"}]}`)
	h.handle(ctx, alice, mustMessage(t, EventSendChanges, change, "doc-1"))

	got := received(t, bob)
	assert.Equal(t, EventReceiveChanges, got.Event)
	assert.JSONEq(t, string(change), string(got.Args[0]))
	assert.Equal(t, "doc-1", got.StringArg(1))
	assert.Empty(t, alice.send)
	assert.Empty(t, carol.send)

	h.handle(ctx, bob, mustMessage(t, EventSendCursorMove, map[string]int{"index": 2, "length": 0}, "doc-1", "bob"))
	got = received(t, alice)
	assert.Equal(t, EventReceiveCursorMove, got.Event)
	assert.Equal(t, "bob", got.StringArg(2))
}

func TestRelayRequiresMembership(t *testing.T) {
	h := NewHub(nil, discard())
	ctx := context.Background()
	alice, mallory := attach(h, "alice"), attach(h, "mallory")
	h.handle(ctx, alice, mustMessage(t, EventCreateRoom, "doc-1"))

	h.handle(ctx, mallory, mustMessage(t, EventSendChanges, json.RawMessage(`{"ops":[]}`), "doc-1"))
	assert.Empty(t, alice.send)
}

func TestLeaveAndDisconnect(t *testing.T) {
	h := NewHub(nil, discard())
	ctx := context.Background()
	alice, bob := attach(h, "alice"), attach(h, "bob")
	for _, c := range []*Conn{alice, bob} {
		require.NoError(t, h.Join(ctx, c, "doc-1"))
		require.NoError(t, h.Join(ctx, c, "doc-2"))
	}

	h.handle(ctx, alice, mustMessage(t, EventLeaveRoom, "doc-1"))
	assert.Equal(t, 1, h.Members("doc-1"))
	h.Leave(alice, "doc-1")
	assert.Equal(t, 1, h.Members("doc-1"))

	h.disconnect(bob)
	assert.Equal(t, 0, h.Members("doc-1"))
	assert.Equal(t, 1, h.Members("doc-2"))
	assert.Error(t, h.Join(ctx, bob, "doc-3"))
	assert.False(t, bob.enqueue([]byte("late")))
}

func TestJoinChecksAccess(t *testing.T) {
	h := NewHub(nil, discard(), WithAuthorizer(docAuthorizer{allowed: map[string]bool{"mine": true}}))
	ctx := context.Background()
	c := attach(h, "alice")

	assert.ErrorIs(t, h.Join(ctx, c, "theirs"), domain.ErrForbidden)
	assert.ErrorIs(t, h.Join(ctx, c, ""), domain.ErrValidation)
	require.NoError(t, h.Join(ctx, c, "mine"))

	h.handle(ctx, c, mustMessage(t, EventCreateRoom, "theirs"))
	assert.Equal(t, 0, h.Members("theirs"))
}

func TestSlowConsumerIsDropped(t *testing.T) {
	settings := config.DefaultRealtime()
	settings.SendBuffer = 1
	h := NewHub(settings, discard())
	ctx := context.Background()
	slow := attach(h, "slow")
	require.NoError(t, h.Join(ctx, slow, "doc-1"))

	msg := mustMessage(t, EventReceiveChanges, "x", "doc-1")
	n, err := h.Broadcast(nil, "doc-1", msg)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = h.Broadcast(nil, "doc-1", msg)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	select {
	case <-slow.closed:
	default:
		t.Fatal("slow connection not shut down")
	}
}

func TestMessageDecoding(t *testing.T) {
	_, err := DecodeMessage([]byte(`{"args":[]}`))
	assert.Error(t, err)
	_, err = DecodeMessage([]byte(`not json`))
	assert.Error(t, err)

	msg, err := DecodeMessage([]byte(`{"event":"create-room","args":["doc-1",42]}`))
	require.NoError(t, err)
	assert.Equal(t, "doc-1", msg.StringArg(0))
	assert.Equal(t, "", msg.StringArg(1))
	assert.Equal(t, "", msg.StringArg(5))

	_, ok := msg.Relayed()
	assert.False(t, ok)
}

type failingPinger struct {
	calls atomic.Int32
}

func (p *failingPinger) Ping() error {
	if p.calls.Add(1) >= 3 {
		return errors.New("broken pipe")
	}
	return nil
}

func TestIntervalPingsStopOnFailedPing(t *testing.T) {
	pings := NewIntervalPings(time.Millisecond)
	pinger := &failingPinger{}
	stopped := pings.Start(pinger, discard())

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("pings did not stop")
	}
	assert.Equal(t, int32(3), pinger.calls.Load())
	assert.Equal(t, int64(2), pings.Sent())
	pings.Stop()
	pings.Stop()
}

func TestIntervalPingsStop(t *testing.T) {
	pings := NewIntervalPings(time.Hour)
	stopped := pings.Start(&failingPinger{}, discard())
	pings.Stop()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("pings did not stop")
	}
	assert.Zero(t, pings.Sent())
}

func newSocketServer(t *testing.T, h *Hub) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, httputil.WithUserID(r, r.URL.Query().Get("user")))
	}))
	t.Cleanup(func() {
		h.Close()
		srv.Close()
	})
	return srv
}

func dial(t *testing.T, srv *httptest.Server, user string) *gorilla.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?user=" + user
	ws, resp, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { ws.Close() })
	return ws
}

func emit(t *testing.T, ws *gorilla.Conn, event string, args ...interface{}) {
	t.Helper()
	payload, err := mustMessage(t, event, args...).Encode()
	require.NoError(t, err)
	require.NoError(t, ws.WriteMessage(gorilla.TextMessage, payload))
}

func TestSocketRelay(t *testing.T) {
	h := NewHub(nil, discard())
	srv := newSocketServer(t, h)

	alice := dial(t, srv, "alice")
	bob := dial(t, srv, "bob")
	emit(t, alice, EventCreateRoom, "doc-1")
	emit(t, bob, EventCreateRoom, "doc-1")
	require.Eventually(t, func() bool { return h.Members("doc-1") == 2 }, 2*time.Second, 10*time.Millisecond)

	emit(t, alice, EventSendChanges, json.RawMessage(`{"ops":[{"insert":"a"}]}`), "doc-1")
	emit(t, alice, EventSendChanges, json.RawMessage(`{"ops":[{"retain":1},{"insert":"b"}]}`), "doc-1")

	bob.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got []string
	for range 2 {
		_, data, err := bob.ReadMessage()
		require.NoError(t, err)
		msg, err := DecodeMessage(data)
		require.NoError(t, err)
		assert.Equal(t, EventReceiveChanges, msg.Event)
		got = append(got, string(msg.Args[0]))
	}
	assert.JSONEq(t, `{"ops":[{"insert":"a"}]}`, got[0])
	assert.JSONEq(t, `{"ops":[{"retain":1},{"insert":"b"}]}`, got[1])

	alice.Close()
	require.Eventually(t, func() bool { return h.Members("doc-1") == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestSocketRequiresUser(t *testing.T) {
	h := NewHub(nil, discard())
	srv := newSocketServer(t, h)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := gorilla.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
