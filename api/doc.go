// Package api provides the HTTP REST API for Gift Run.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session ({"level": "first_night"}, optional)
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&level=&limit=)
//   - GET /api/sessions/{id} - Session details with its current snapshot
//   - DELETE /api/sessions/{id} - Drop a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current snapshot
//   - POST /api/sessions/{id}/move - {"direction": "e", "reset": false}
//   - POST /api/sessions/{id}/bulk-move - {"moves": ["e", "e", "s"]}
//   - POST /api/sessions/{id}/reset - Start the level over
//   - GET /api/sessions/{id}/history - Event log (?page=&limit=&order=)
//
// Single player (session kept in the giftrun_session cookie):
//   - GET /api/state
//   - POST /api/new
//   - POST /api/move - {"direction": "n"}; returns the bare snapshot
//
// Levels and results:
//   - GET /api/levels, GET /api/levels/{name}
//   - POST /api/levels, PUT /api/levels/{name} - Save a level
//   - GET /api/leaderboard/{level} - Best finished runs (?limit=)
//
// Other:
//   - /ws?session={id} - Live snapshots over WebSocket
//   - /mcp - MCP JSON-RPC endpoint when mounted with WithMCP
//   - GET /healthz
//
// Errors are returned as {"error": "..."} with 404 for unknown sessions and
// levels, 400 for invalid input and 500 otherwise. An unrecognized direction
// is not an error: the move result has accepted=false and the unchanged
// snapshot.
package api
