// Package service provides the business logic layer for the Minesweeper server.
//
// The service package implements:
//   - Multi-session game management
//   - Preset loading through a ConfigManager
//   - Reveal and flag processing with events and HUD data
//   - Observer wiring for live viewers and metrics
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages preset loading and validation.
// Broadcaster and Recorder are the optional observers attached to sessions.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the per-session state managers. When a session is created the service
// subscribes a debug logger and, if configured, the Broadcaster to the
// session's state manager, so every mutation is pushed to live viewers no
// matter which transport triggered it.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr,
//		service.WithBroadcaster(hub),
//		service.WithRecorder(metrics),
//	)
//
//	info, err := gameService.CreateSession(ctx, "easy")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.RevealCell(ctx, info.ID, 3, 4)
//
// Errors:
//
// Unknown sessions and presets wrap ErrSessionNotFound and ErrConfigNotFound.
// Coordinates off the board wrap engine.ErrOutOfBounds and never reach the
// game.
package service
