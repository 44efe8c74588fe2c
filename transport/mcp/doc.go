// Package mcp exposes the Minesweeper REST API as Model Context Protocol tools.
//
// The Client is a thin proxy: each tool call becomes one REST request and the
// JSON answer is rendered as text an agent can read, with the board printed
// using row and column labels.
//
// MCP Tools:
//   - create_session, list_sessions, get_session
//   - game_state, reveal_cell, flag_cell, restart_game
//   - list_configs, game_instructions, describe_cell
//
// Transport Modes:
//   - Stdio: server.ServeStdio(client.GetMCPServer())
//   - HTTP: client.HTTPHandler() answers JSON-RPC messages POSTed to /mcp
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	mux.Handle("/mcp", client.HTTPHandler())
package mcp
