package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMapConfiguration is returned for any level that cannot be played
var ErrMapConfiguration = errors.New("map configuration error")

// DefaultMessages returns the holiday delivery theme used when a level leaves
// a message blank
func DefaultMessages() Messages {
	return Messages{
		Welcome:     "Collect gifts and deliver them to every house.",
		NewRun:      "New run started. Deliver every gift before dawn!",
		Blocked:     "A snowbank blocks the path.",
		BlockedLog:  "Bumped into a snowbank.",
		Pickup:      "Picked up a gift.",
		Boost:       "Warm cocoa! Extra energy (+4 moves, +6 cheer).",
		BoostNotice: "Cocoa boost! +4 moves",
		Slide:       "You slide across the ice!",
		SlidePickup: "Slid into a gift!",
		SlideBoost:  "Cocoa on ice! +4 moves, +6 cheer.",
		Delivered:   "Delivered %d gift(s)! Holiday cheer rising.",
		DeliveredOK: "Delivery complete!",
		Victory:     "Victory! Every house has its presents.",
		VictoryOK:   "Victory!",
		TimeUp:      "Time's up! Dawn arrived before the deliveries were done.",
		TimeUpOK:    "Dawn breaks!",
	}
}

// withDefaults fills blank messages from the default theme
func (m Messages) withDefaults() Messages {
	d := DefaultMessages()
	fill := func(dst *string, def string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = def
		}
	}
	fill(&m.Welcome, d.Welcome)
	fill(&m.NewRun, d.NewRun)
	fill(&m.Blocked, d.Blocked)
	fill(&m.BlockedLog, d.BlockedLog)
	fill(&m.Pickup, d.Pickup)
	fill(&m.Boost, d.Boost)
	fill(&m.BoostNotice, d.BoostNotice)
	fill(&m.Slide, d.Slide)
	fill(&m.SlidePickup, d.SlidePickup)
	fill(&m.SlideBoost, d.SlideBoost)
	fill(&m.Delivered, d.Delivered)
	fill(&m.DeliveredOK, d.DeliveredOK)
	fill(&m.Victory, d.Victory)
	fill(&m.VictoryOK, d.VictoryOK)
	fill(&m.TimeUp, d.TimeUp)
	fill(&m.TimeUpOK, d.TimeUpOK)
	return m
}

// TileFromChar maps a layout character to its tile kind
func TileFromChar(c rune) (TileKind, bool) {
	switch c {
	case CharEmpty:
		return Empty, true
	case CharWall:
		return Wall, true
	case CharStart:
		return ActorStart, true
	case CharCollectible:
		return Collectible, true
	case CharDropPoint:
		return DropPoint, true
	case CharBoost:
		return Boost, true
	case CharSlide:
		return Slide, true
	}
	return "", false
}

// CharFromTile maps a tile kind back to its layout character
func CharFromTile(k TileKind) rune {
	switch k {
	case Wall:
		return CharWall
	case ActorStart:
		return CharStart
	case Collectible:
		return CharCollectible
	case DropPoint:
		return CharDropPoint
	case Boost:
		return CharBoost
	case Slide:
		return CharSlide
	}
	return CharEmpty
}

// ParseLayout converts layout rows into a tile grid
func ParseLayout(layout []string) ([][]TileKind, error) {
	if len(layout) == 0 {
		return nil, fmt.Errorf("%w: layout is empty", ErrMapConfiguration)
	}

	width := len([]rune(layout[0]))
	grid := make([][]TileKind, len(layout))
	for r, row := range layout {
		runes := []rune(row)
		if len(runes) != width {
			return nil, fmt.Errorf("%w: row %d must have %d characters, got %d",
				ErrMapConfiguration, r+1, width, len(runes))
		}
		grid[r] = make([]TileKind, width)
		for c, ch := range runes {
			kind, ok := TileFromChar(ch)
			if !ok {
				return nil, fmt.Errorf("%w: invalid character '%c' at row %d, col %d",
					ErrMapConfiguration, ch, r+1, c+1)
			}
			grid[r][c] = kind
		}
	}
	return grid, nil
}

// ValidateGameConfig validates a level for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("%w: config is nil", ErrMapConfiguration)
	}
	if strings.TrimSpace(config.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrMapConfiguration)
	}
	if config.MaxMoves < MinMoveBudget || config.MaxMoves > MaxMoveBudget {
		return fmt.Errorf("%w: max_moves must be between %d and %d, got %d",
			ErrMapConfiguration, MinMoveBudget, MaxMoveBudget, config.MaxMoves)
	}

	grid, err := ParseLayout(config.Layout)
	if err != nil {
		return err
	}
	height, width := len(grid), len(grid[0])
	if height < MinGridSize || height > MaxGridSize || width < MinGridSize || width > MaxGridSize {
		return fmt.Errorf("%w: grid must be between %dx%d and %dx%d, got %dx%d",
			ErrMapConfiguration, MinGridSize, MinGridSize, MaxGridSize, MaxGridSize, width, height)
	}

	starts := 0
	var start Position
	var collectibles, drops []Position
	for r, row := range grid {
		for c, kind := range row {
			switch kind {
			case ActorStart:
				starts++
				start = Position{Row: r, Col: c}
			case Collectible:
				collectibles = append(collectibles, Position{Row: r, Col: c})
			case DropPoint:
				drops = append(drops, Position{Row: r, Col: c})
			}
		}
	}

	switch {
	case starts == 0:
		return fmt.Errorf("%w: layout must contain a start tile (%c)", ErrMapConfiguration, CharStart)
	case starts > 1:
		return fmt.Errorf("%w: layout must contain exactly one start tile (%c), got %d",
			ErrMapConfiguration, CharStart, starts)
	case len(collectibles) == 0:
		return fmt.Errorf("%w: layout must contain at least one collectible (%c)", ErrMapConfiguration, CharCollectible)
	case len(drops) == 0:
		return fmt.Errorf("%w: layout must contain at least one drop point (%c)", ErrMapConfiguration, CharDropPoint)
	}

	// Winnability: every collectible and some drop point must connect to the start
	reachable := ReachableFrom(grid, start)
	for _, p := range collectibles {
		if !reachable[p] {
			return fmt.Errorf("%w: collectible at row %d, col %d is unreachable from the start",
				ErrMapConfiguration, p.Row+1, p.Col+1)
		}
	}
	anyDrop := false
	for _, p := range drops {
		if reachable[p] {
			anyDrop = true
			break
		}
	}
	if !anyDrop {
		return fmt.Errorf("%w: no drop point is reachable from the start", ErrMapConfiguration)
	}

	msgs := config.Messages.withDefaults()
	if !strings.Contains(msgs.Delivered, "%d") {
		return fmt.Errorf("%w: messages.delivered must contain %%d for the delivered count", ErrMapConfiguration)
	}

	return nil
}

// ReachableFrom returns every cell connected to from through walkable tiles
func ReachableFrom(grid [][]TileKind, from Position) map[Position]bool {
	seen := map[Position]bool{from: true}
	queue := []Position{from}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, d := range Directions {
			next := p.Add(d)
			if seen[next] || !walkableIn(grid, next) {
				continue
			}
			seen[next] = true
			queue = append(queue, next)
		}
	}
	return seen
}

func walkableIn(grid [][]TileKind, p Position) bool {
	if p.Row < 0 || p.Row >= len(grid) {
		return false
	}
	if p.Col < 0 || p.Col >= len(grid[p.Row]) {
		return false
	}
	return grid[p.Row][p.Col].Walkable()
}

// DecodeGameConfig parses a level document. The format is picked from the file
// extension: .yaml and .yml are YAML, anything else is JSON.
func DecodeGameConfig(data []byte, filename string) (*GameConfig, error) {
	var config GameConfig
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse level '%s': %w", filename, err)
		}
	default:
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse level '%s': %w", filename, err)
		}
	}
	return &config, nil
}

// LoadGameConfig loads and validates a level file
func LoadGameConfig(filename string) (*GameConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config, err := DecodeGameConfig(data, filename)
	if err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	return config, nil
}
