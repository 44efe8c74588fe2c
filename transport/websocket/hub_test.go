package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/mcp-training/minesweeper/game/engine"
)

func testState(gameID string) *engine.GameState {
	eng, _ := engine.NewEngine(&engine.GameConfig{
		Name:   "Hub",
		Rows:   2,
		Cols:   2,
		Mines:  1,
		Layout: []string{"*.", ".."},
	})
	state := eng.GetState()
	state.GameID = gameID
	return state
}

// waitFor polls cond until it holds or the deadline passes
func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

func newTestServer(t *testing.T, hub *Hub, initial *engine.GameState) (*httptest.Server, func(session string) *websocket.Conn) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("session"), initial)
	}))

	dial := func(session string) *websocket.Conn {
		wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?session=" + session
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		if err != nil {
			t.Fatalf("Failed to connect to WebSocket: %v", err)
		}
		return conn
	}
	return server, dial
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}
	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	return message
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub() returned nil")
	}
	if hub.sessions == nil {
		t.Error("Hub sessions map is nil")
	}
	if hub.broadcast == nil || hub.register == nil || hub.unregister == nil {
		t.Error("Hub channels are not initialized")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()

	client := &Client{
		hub:       hub,
		sessionID: "test-session",
		send:      make(chan []byte, 256),
	}

	hub.registerClient(client)

	if !hub.sessions["test-session"][client] {
		t.Error("Client was not registered in session")
	}
	if hub.ClientCount("test-session") != 1 {
		t.Errorf("Expected 1 client in session, got %d", hub.ClientCount("test-session"))
	}
}

func TestHubUnregisterClient(t *testing.T) {
	hub := NewHub()

	client := &Client{
		hub:       hub,
		sessionID: "test-session",
		send:      make(chan []byte, 256),
	}

	hub.registerClient(client)
	hub.unregisterClient(client)

	if _, exists := hub.sessions["test-session"]; exists {
		t.Error("Session should have been cleaned up after last client unregistered")
	}
	if _, ok := <-client.send; ok {
		t.Error("Send channel should be closed")
	}

	// A second unregister must not close the channel twice
	hub.unregisterClient(client)
}

func TestHubMultipleClientsInSession(t *testing.T) {
	hub := NewHub()
	sessionID := "multi-client-session"

	client1 := &Client{hub: hub, sessionID: sessionID, send: make(chan []byte, 256)}
	client2 := &Client{hub: hub, sessionID: sessionID, send: make(chan []byte, 256)}

	hub.registerClient(client1)
	hub.registerClient(client2)

	if hub.ClientCount(sessionID) != 2 {
		t.Errorf("Expected 2 clients in session, got %d", hub.ClientCount(sessionID))
	}

	hub.unregisterClient(client1)

	if hub.ClientCount(sessionID) != 1 {
		t.Errorf("Expected 1 client remaining in session, got %d", hub.ClientCount(sessionID))
	}
	if !hub.sessions[sessionID][client2] {
		t.Error("client2 should still be registered")
	}
}

func TestHubBroadcastToSession(t *testing.T) {
	hub := NewHub()
	sessionID := "broadcast-test"

	client := &Client{hub: hub, sessionID: sessionID, send: make(chan []byte, 256)}
	other := &Client{hub: hub, sessionID: "other", send: make(chan []byte, 256)}
	hub.registerClient(client)
	hub.registerClient(other)

	state := testState("game-1")
	state.FlagCount = 1
	hub.BroadcastToSession(sessionID, state)

	select {
	case data := <-client.send:
		var message Message
		if err := json.Unmarshal(data, &message); err != nil {
			t.Fatalf("Failed to unmarshal message: %v", err)
		}
		if message.SessionID != sessionID {
			t.Errorf("Expected sessionID %s, got %s", sessionID, message.SessionID)
		}
		if message.Event != EventStateUpdate {
			t.Errorf("Expected event %q, got %s", EventStateUpdate, message.Event)
		}
		if message.GameState.GameID != "game-1" || message.GameState.FlagCount != 1 {
			t.Error("GameState not correctly transmitted")
		}
		if len(message.GameState.Grid) != 2 {
			t.Errorf("Expected 2 grid rows, got %d", len(message.GameState.Grid))
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("No message received within timeout")
	}

	select {
	case <-other.send:
		t.Error("Client in another session should not receive the update")
	default:
	}
}

func TestHubBroadcastUnknownSession(t *testing.T) {
	hub := NewHub()
	// No clients; must not panic or block
	hub.BroadcastToSession("nobody", testState("game-1"))
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub()

	slow := &Client{hub: hub, sessionID: "slow", send: make(chan []byte)}
	hub.registerClient(slow)

	hub.BroadcastToSession("slow", testState("game-1"))

	if hub.ClientCount("slow") != 0 {
		t.Errorf("Expected slow client to be dropped, got %d clients", hub.ClientCount("slow"))
	}
}

func TestHubBroadcastEvent(t *testing.T) {
	hub := NewHub()
	done := make(chan bool)

	go func() {
		select {
		case message := <-hub.broadcast:
			if message.SessionID != "event-test" {
				t.Errorf("Expected sessionID 'event-test', got %s", message.SessionID)
			}
			if message.Event != "custom-event" {
				t.Errorf("Expected event 'custom-event', got %s", message.Event)
			}
			if message.Data != "test-data" {
				t.Errorf("Expected data 'test-data', got %v", message.Data)
			}
			done <- true
		case <-time.After(100 * time.Millisecond):
			t.Error("No broadcast message received within timeout")
			done <- false
		}
	}()

	hub.BroadcastEvent("event-test", "custom-event", "test-data")

	<-done
}

func TestHubRunStopsOnCancel(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := &Client{hub: hub, sessionID: "run", send: make(chan []byte, 1)}
	hub.register <- client

	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if hub.ClientCount("run") != 0 {
		t.Error("Expected clients to be removed on shutdown")
	}
}

func TestWebSocketUpgrade(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	server, dial := newTestServer(t, hub, nil)
	defer server.Close()

	conn := dial("ws-test")
	defer conn.Close()

	if !waitFor(t, func() bool { return hub.ClientCount("ws-test") == 1 }) {
		t.Fatalf("Expected 1 client in session, got %d", hub.ClientCount("ws-test"))
	}

	conn.Close()

	if !waitFor(t, func() bool { return hub.ClientCount("ws-test") == 0 }) {
		t.Error("Session should have been cleaned up after WebSocket close")
	}
}

func TestWebSocketInitialState(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	server, dial := newTestServer(t, hub, testState("initial"))
	defer server.Close()

	conn := dial("init-test")
	defer conn.Close()

	message := readMessage(t, conn)
	if message.Event != EventStateUpdate {
		t.Errorf("Expected event %q, got %s", EventStateUpdate, message.Event)
	}
	if message.GameState == nil || message.GameState.GameID != "initial" {
		t.Error("Expected the initial snapshot first")
	}
}

func TestWebSocketMessageReceive(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	server, dial := newTestServer(t, hub, nil)
	defer server.Close()

	conn := dial("msg-test")
	defer conn.Close()

	if !waitFor(t, func() bool { return hub.ClientCount("msg-test") == 1 }) {
		t.Fatal("Client never registered")
	}

	state := testState("game-7")
	state.Grid[0][1].Revealed = true
	hub.BroadcastToSession("msg-test", state)

	message := readMessage(t, conn)
	if message.SessionID != "msg-test" {
		t.Errorf("Expected sessionID 'msg-test', got %s", message.SessionID)
	}
	if message.GameState.GameID != "game-7" {
		t.Errorf("Expected game id game-7, got %s", message.GameState.GameID)
	}
	if !message.GameState.Grid[0][1].Revealed {
		t.Error("Revealed cell not correctly received")
	}
}

func TestHubBroadcastEventQueueFull(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		// Nothing drains the queue, so the last event must be dropped
		for i := 0; i <= eventBuffer; i++ {
			hub.BroadcastEvent("full", "custom-event", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("BroadcastEvent blocked on a full queue")
	}

	if len(hub.broadcast) != eventBuffer {
		t.Errorf("Expected %d queued events, got %d", eventBuffer, len(hub.broadcast))
	}
}
