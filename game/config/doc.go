// Package config provides level management for Gift Run.
//
// The config package handles:
//   - Loading levels from JSON or YAML files
//   - Serving the levels compiled into the binary
//   - Default level management
//   - Level discovery and listing
//
// Level Format:
//
// A level is a name, a description, a move budget and a list of layout rows
// using one character per tile:
//
//	.  empty       #  wall        S  start
//	G  gift        H  house       C  cocoa boost
//	I  ice slide
//
// Levels may also override any of the event messages. Blank messages fall back
// to the built-in holiday theme.
//
// Available Levels:
//
// Two levels ship with the binary:
//   - sleigh_run: 14x9 village with boosts and slides (default, from
//     engine.DefaultGameConfig)
//   - first_night: 9x8 street with no special tiles (embedded JSON)
//
// Files in the level directory shadow built-in levels of the same name.
//
// Usage:
//
//	manager, err := config.NewManager("levels")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	level, err := manager.LoadLevel("first_night")
//	levels, err := manager.ListLevels()
//
// Validation:
//
// Every level is validated on load with engine.ValidateGameConfig, and levels
// that fail are skipped when listing.
package config
