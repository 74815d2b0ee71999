package engine

import "strings"

// CountTiles counts the cells of a given kind in the grid
func CountTiles(grid [][]TileKind, kind TileKind) int {
	count := 0
	for _, row := range grid {
		for _, cell := range row {
			if cell == kind {
				count++
			}
		}
	}
	return count
}

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	dr := from.Row - to.Row
	if dr < 0 {
		dr = -dr
	}
	dc := from.Col - to.Col
	if dc < 0 {
		dc = -dc
	}
	return dr + dc
}

// FindNearest finds the closest cell of the given kind by Manhattan distance
func FindNearest(grid [][]TileKind, from Position, kind TileKind) (Position, int, bool) {
	minDistance := -1
	var nearest Position
	for r, row := range grid {
		for c, cell := range row {
			if cell != kind {
				continue
			}
			pos := Position{Row: r, Col: c}
			distance := ManhattanDistance(from, pos)
			if minDistance == -1 || distance < minDistance {
				minDistance = distance
				nearest = pos
			}
		}
	}
	return nearest, minDistance, minDistance >= 0
}

// RenderASCII draws the board using layout characters, with '@' for the actor
func RenderASCII(board [][]TileKind, actor Position) string {
	var b strings.Builder
	for r, row := range board {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c, kind := range row {
			if r == actor.Row && c == actor.Col {
				b.WriteByte('@')
				continue
			}
			b.WriteRune(CharFromTile(kind))
		}
	}
	return b.String()
}

// DefaultGameConfig returns the built-in level used when nothing else is configured
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Name:        "sleigh_run",
		Description: "Deliver three gifts across the village. Cocoa restores energy, ice slides you along.",
		MaxMoves:    45,
		Layout: []string{
			"##############",
			"#S..G..C..H..#",
			"#..##..C..#..#",
			"#..#....#....#",
			"#..G..I..H...#",
			"#..#..C..#..G#",
			"#..H....#....#",
			"#..#..I..C...#",
			"##############",
		},
		Messages: DefaultMessages(),
	}
}
