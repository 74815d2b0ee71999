// Package engine provides the core game logic for Gift Run.
//
// The engine package implements the game mechanics including:
//   - Grid-based movement with wall and boundary blocking
//   - Move budget accounting, including boost tiles that restore moves
//   - Slide tiles that carry the actor one extra cell
//   - Collecting items and delivering them at drop points
//   - Win and time-out detection and a bounded event log
//   - Level parsing and validation
//
// Core Types:
//
// GameEngine owns one run. It is created from a GameConfig, mutated only by
// Move and Reset, and exposes its state as a Snapshot. The engine does no
// locking; callers that share an engine between goroutines must serialize
// access themselves.
//
// Usage:
//
//	eng, err := engine.NewEngine(engine.DefaultGameConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	eng.Move("e")
//	snap := eng.Snapshot()
//
// Game Rules:
//
// Every committed step costs one move. Walking into a wall or off the map is
// free and only logged. Picking up a gift is worth 2 points, a cocoa boost
// gives +4 moves (capped) and 6 points, and every gift delivered to a house
// is worth 8 points. The run is won once every gift is delivered and lost
// when the move budget hits zero first; victory is checked first.
package engine
