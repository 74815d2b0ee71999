// Package service provides the business logic layer for Gift Run.
//
// The service package implements:
//   - Multi-session game management
//   - Level listing, loading and saving
//   - Move processing, bulk moves and derived gameplay events
//   - Paginated access to the session event log
//   - Recording finished runs on the leaderboard
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// LevelManager loads and validates levels.
// ResultRecorder stores finished runs.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP) and the
// game engine. Engines do no locking of their own, so every engine call goes
// through a single service-wide mutex.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	levelMgr, _ := config.NewManager("")
//	gameService := service.NewGameService(sessionMgr, levelMgr)
//
//	info, err := gameService.CreateSession(ctx, "sleigh_run")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, info.ID, "e", false)
package service
