// Package terminal plays a single Gift Run level in the terminal.
//
// The Model wraps one engine.GameEngine and maps keys to moves: arrows, WASD
// and HJKL steer the sleigh, r restarts the level and q quits. The view shows
// the styled board, the current stats and the newest event log entries.
//
// A Recorder can be attached to store each finished run, typically the
// SQLite scoreboard.
package terminal
