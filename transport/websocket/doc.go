// Package websocket pushes live Gift Run state to browser clients.
//
// A single Hub owns every connection. Clients join a session with
// /ws?session=<id> and receive a JSON Message after each state change:
//
//	{"session_id": "a1b2", "event": "state_update", "state": {...}}
//
// Clients may also send actions, which the hub hands to the handler
// installed with OnInbound:
//
//	{"action": "move", "direction": "e"}
//	{"action": "reset"}
//
// Broadcasts are queued on a buffered channel and never block the caller.
// When the queue is full the message is dropped and a warning is logged.
// Clients that cannot keep up are disconnected.
//
// Usage:
//
//	hub := websocket.NewHub(logger)
//	go hub.Run(ctx)
//	hub.BroadcastState(sessionID, snapshot)
package websocket
