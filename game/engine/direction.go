package engine

import "strings"

// Direction is one of the four compass moves
type Direction string

const (
	North Direction = "n"
	South Direction = "s"
	East  Direction = "e"
	West  Direction = "w"
)

// Directions lists every direction in the order the UI presents them
var Directions = []Direction{North, South, East, West}

// ParseDirection normalizes a direction token. Compass letters, compass words
// and the arrow words used by keyboard clients are accepted, case-insensitively.
func ParseDirection(token string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "n", "north", "up":
		return North, true
	case "s", "south", "down":
		return South, true
	case "e", "east", "right":
		return East, true
	case "w", "west", "left":
		return West, true
	default:
		return "", false
	}
}

// Delta returns the row and column offsets for the direction
func (d Direction) Delta() (int, int) {
	switch d {
	case North:
		return -1, 0
	case South:
		return 1, 0
	case East:
		return 0, 1
	case West:
		return 0, -1
	}
	return 0, 0
}

// String returns the upper-case compass letter
func (d Direction) String() string {
	return strings.ToUpper(string(d))
}
