package docsync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"loomspace/internal/httputil"
	"loomspace/internal/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recording wraps a Transport and remembers emitted event names.
type recording struct {
	Transport

	mu     sync.Mutex
	events []string
}

func (r *recording) Emit(event string, args ...interface{}) error {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
	return r.Transport.Emit(event, args...)
}

func (r *recording) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

func startHub(t *testing.T) (*realtime.Hub, string) {
	t.Helper()
	hub := realtime.NewHub(nil, discard())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeHTTP(w, httputil.WithUserID(r, r.URL.Query().Get("user")))
	}))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dialAs(t *testing.T, url, user string) *Socket {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	socket, err := Dial(ctx, url+"?user="+user, "", discard())
	require.NoError(t, err)
	t.Cleanup(func() { socket.Close() })
	return socket
}

func TestSessionsOverHub(t *testing.T) {
	hub, url := startHub(t)

	aliceSocket := &recording{Transport: dialAs(t, url, "alice")}
	bobSocket := &recording{Transport: dialAs(t, url, "bob")}
	aliceEditor, bobEditor := NewMemoryEditor(), NewMemoryEditor()

	alice := NewSession(aliceEditor, aliceSocket, Options{CursorID: "alice"}, discard())
	bob := NewSession(bobEditor, bobSocket, Options{CursorID: "bob"}, discard())
	require.NoError(t, alice.Open(context.Background(), "doc-1"))
	require.NoError(t, bob.Open(context.Background(), "doc-1"))
	defer alice.Close()
	defer bob.Close()
	require.Eventually(t, func() bool { return hub.Members("doc-1") == 2 }, 2*time.Second, 10*time.Millisecond)

	bob.Cursors().Create("alice", "Alice", "#0af")
	aliceEditor.InsertText(0, "hello", SourceUser)
	aliceEditor.SetSelection(&Range{Index: 5}, SourceUser)

	require.Eventually(t, func() bool { return bobEditor.Text() == "hello" }, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		c, ok := bob.Cursors().Get("alice")
		return ok && c.Range != nil && c.Range.Index == 5
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, 1, aliceSocket.count(realtime.EventSendChanges))
	assert.Equal(t, 0, bobSocket.count(realtime.EventSendChanges))

	bob.Close()
	require.Eventually(t, func() bool { return hub.Members("doc-1") == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestSocketReportsDisconnect(t *testing.T) {
	hub, url := startHub(t)
	socket := dialAs(t, url, "alice")
	require.True(t, socket.Connected())

	statuses := make(chan bool, 1)
	socket.OnStatus(func(connected bool) { statuses <- connected })

	hub.Close()

	select {
	case connected := <-statuses:
		assert.False(t, connected)
	case <-time.After(2 * time.Second):
		t.Fatal("no status change")
	}
	<-socket.Done()
	assert.False(t, socket.Connected())
	assert.ErrorIs(t, socket.Emit(realtime.EventCreateRoom, "doc-1"), ErrDisconnected)
}

func TestDialRejectedWithoutUser(t *testing.T) {
	_, url := startHub(t)
	_, err := Dial(context.Background(), url, "", discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
