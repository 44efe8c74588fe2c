// Package api provides the HTTP REST API for the Minesweeper server.
//
// Endpoints:
//
// Session Management:
//   - POST /api/sessions - Create a session ({"config_id": "easy"}, body optional)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Session info with HUD fields
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current game state
//   - POST /api/sessions/{id}/reveal - Reveal a cell ({"row": 2, "col": 3})
//   - POST /api/sessions/{id}/flag - Toggle a flag ({"row": 2, "col": 3})
//   - POST /api/sessions/{id}/restart - New board from the same preset
//   - GET /api/sessions/{id}/cells/{row}/{col} - Describe one cell
//
// Configuration:
//   - GET /api/configs - List presets
//   - GET /api/configs/{name} - Load a preset
//   - POST /api/configs - Save a preset
//
// Infrastructure:
//   - GET /ws?session={id} - WebSocket state feed (when a hub is configured)
//   - GET /metrics - Prometheus metrics (when WithMetrics is given)
//   - GET /healthz - Liveness check
//
// Error Handling:
//
// Errors are JSON objects of the form {"error": "message"}. Malformed bodies,
// off-board coordinates and invalid presets answer 400, unknown sessions and
// presets 404, anything else 500.
//
// Reveal and flag always answer 200 for a valid cell; the result's success
// field tells whether the board changed.
package api
