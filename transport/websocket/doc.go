// Package websocket provides live board viewers for the Minesweeper server.
//
// The websocket package implements:
//   - Session-aware WebSocket connections
//   - Push of every game state change to the viewers of a session
//   - Ping/pong keepalive and slow-client eviction
//
// Architecture:
//
// A central Hub owns all connections. Each client has a read pump, which only
// keeps the connection alive, and a write pump fed by a buffered channel.
// Registration goes through the Run loop; broadcasts may be issued from any
// goroutine, which lets the Hub act as a service.Broadcaster subscribed to
// every session's state manager.
//
// Message Protocol:
//
// Every frame is one JSON document:
//
//	{"session_id": "a1b2", "event": "state_update", "game_state": {...}}
//
// A newly connected viewer receives the current state first. Game events
// (mine_hit, victory, restart) arrive as frames carrying "event" and "data"
// instead of a game state; they are queued for the Run loop.
//
// Usage:
//
//	hub := websocket.NewHub()
//	go hub.Run(ctx)
//
//	router.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
//		hub.ServeWS(w, r, sessionID, currentState)
//	})
package websocket
