package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dialTestConn spins up a one-shot upgrade server, registers the server
// side of the socket with the hub and hands the client side back.
func dialTestConn(t *testing.T, hub *Hub, userID string) *websocket.Conn {
	t.Helper()

	upg := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	registered := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upg.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		hub.Register(userID, conn)
		close(registered)
	}))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	<-registered
	return conn
}

func TestHub_ConcurrentWritersShareOneConnection(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	conn := dialTestConn(t, hub, "u1")

	const writers, perWriter = 8, 25
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				hub.Broadcast("booking_update", map[string]int{"seq": j})
				hub.SendToUser("u1", "booking_update", map[string]int{"seq": j})
			}
		}()
	}

	want := writers * perWriter * 2
	received := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		for received < want {
			var msg Message
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			received++
		}
	}()

	wg.Wait()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("received %d of %d messages", received, want)
	}
	assert.Equal(t, want, received)
}

func TestHub_SendToUserTargetsOneClient(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	alice := dialTestConn(t, hub, "alice")
	bob := dialTestConn(t, hub, "bob")

	assert.Equal(t, 2, hub.OnlineCount())
	assert.True(t, hub.SendToUser("alice", "booking_update", "hello"))
	assert.False(t, hub.SendToUser("ghost", "booking_update", "hello"))

	var msg Message
	require.NoError(t, alice.ReadJSON(&msg))
	assert.Equal(t, "booking_update", msg.Type)

	require.NoError(t, bob.SetReadDeadline(time.Now().Add(200*time.Millisecond)))
	assert.Error(t, bob.ReadJSON(&msg), "bob must not receive alice's message")
}

func TestHub_ReconnectReplacesConnection(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	first := dialTestConn(t, hub, "u1")
	second := dialTestConn(t, hub, "u1")

	assert.Equal(t, 1, hub.OnlineCount())
	assert.True(t, hub.SendToUser("u1", "booking_update", "after reconnect"))

	var msg Message
	require.NoError(t, second.ReadJSON(&msg))
	assert.Equal(t, "booking_update", msg.Type)

	// the first connection was closed by the replacement
	require.NoError(t, first.SetReadDeadline(time.Now().Add(time.Second)))
	assert.Error(t, first.ReadJSON(&msg))

	hub.Unregister("u1")
	assert.Equal(t, 0, hub.OnlineCount())
	assert.False(t, hub.SendToUser("u1", "booking_update", "gone"))
}
