package notifiers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/daniacca/metrobox/internal/metro"
)

// startWSTestServer wires a notifier's upgrader into an httptest server and
// registers every accepted connection.
func startWSTestServer(t *testing.T, wsn *WebSocketNotifier) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := wsn.GetUpgrader()
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		wsn.RegisterClient(conn)
	}))
	t.Cleanup(server.Close)
	return server
}

func dialWS(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketNotifier_Identity(t *testing.T) {
	wsn := NewWebSocketNotifier("ws-1")
	defer wsn.Close()

	if wsn.ID() != "ws-1" {
		t.Errorf("ID = %q, want ws-1", wsn.ID())
	}
	if wsn.Type() != "websocket" {
		t.Errorf("Type = %q, want websocket", wsn.Type())
	}
}

func TestWebSocketNotifier_BroadcastsToClient(t *testing.T) {
	wsn := NewWebSocketNotifier("ws")
	defer wsn.Close()

	server := startWSTestServer(t, wsn)
	conn := dialWS(t, server)

	// Give the run loop a moment to pick up the registration.
	time.Sleep(50 * time.Millisecond)

	event := metro.MoveEvent{RunID: "run", Move: 3, Phase: metro.MoveRolledBack, MoleculeIndex: 1}
	if err := wsn.Notify(context.Background(), event); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var got metro.MoveEvent
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("failed to decode broadcast: %v", err)
	}
	if got.Move != 3 || got.Phase != metro.MoveRolledBack || got.MoleculeIndex != 1 {
		t.Errorf("broadcast event = %+v", got)
	}
}

func TestWebSocketNotifier_BroadcastsToMultipleClients(t *testing.T) {
	wsn := NewWebSocketNotifier("ws")
	defer wsn.Close()

	server := startWSTestServer(t, wsn)
	conns := []*websocket.Conn{dialWS(t, server), dialWS(t, server), dialWS(t, server)}
	time.Sleep(50 * time.Millisecond)

	if err := wsn.Notify(context.Background(), metro.MoveEvent{RunID: "run", Move: 1}); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	for i, conn := range conns {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		if _, _, err := conn.ReadMessage(); err != nil {
			t.Errorf("client %d did not receive the broadcast: %v", i, err)
		}
	}
}

func TestWebSocketNotifier_UnregisteredClientStopsReceiving(t *testing.T) {
	wsn := NewWebSocketNotifier("ws")
	defer wsn.Close()

	server := startWSTestServer(t, wsn)
	conn := dialWS(t, server)
	time.Sleep(50 * time.Millisecond)

	// Unregistering closes the server-side connection; the client read
	// then fails instead of blocking until the deadline.
	wsn.mu.RLock()
	var serverConn *websocket.Conn
	for c := range wsn.clients {
		serverConn = c
	}
	wsn.mu.RUnlock()
	if serverConn == nil {
		t.Fatal("no registered server-side connection found")
	}
	wsn.UnregisterClient(serverConn)
	time.Sleep(50 * time.Millisecond)

	if err := wsn.Notify(context.Background(), metro.MoveEvent{RunID: "run"}); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("unregistered client still received a broadcast")
	}
}

func TestWebSocketNotifier_NotifyWithoutClients(t *testing.T) {
	wsn := NewWebSocketNotifier("ws")
	defer wsn.Close()

	// No clients connected: the event is queued and dropped by the
	// broadcaster, never an error.
	if err := wsn.Notify(context.Background(), metro.MoveEvent{RunID: "run"}); err != nil {
		t.Errorf("Notify without clients failed: %v", err)
	}
}

func TestWebSocketNotifier_CloseIsFinal(t *testing.T) {
	wsn := NewWebSocketNotifier("ws")
	server := startWSTestServer(t, wsn)
	conn := dialWS(t, server)
	time.Sleep(50 * time.Millisecond)

	if err := wsn.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// The client side observes the closed connection.
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected read error after notifier close")
	}

	// Registration after close is ignored rather than blocking.
	done := make(chan struct{})
	go func() {
		wsn.RegisterClient(nil)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("RegisterClient blocked after close")
	}
}
