// Package mcp exposes Gift Run to AI agents over the Model Context Protocol.
//
// Client is a thin proxy: every tool call becomes a request against the REST
// API, and the JSON response is rendered as text for the agent. The same
// Client serves both transports:
//   - HTTP: the API server mounts it at /mcp
//   - Stdio: `giftrun mcp` serves it on stdin/stdout
//
// Tools:
//   - create_session, get_session, list_sessions
//   - game_state, move, bulk_move, reset_game
//   - event_log, describe_cell
//   - list_levels, leaderboard, game_instructions
//
// Boards are rendered with the level legend and '@' marking the sleigh.
// move and bulk_move take an optional intent argument that is ignored by the
// server; agents use it to explain their plan.
package mcp
