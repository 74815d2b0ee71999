package engine

import "time"

// TileKind represents the different kinds of map tiles
type TileKind string

const (
	Empty       TileKind = "empty"
	Wall        TileKind = "wall"
	ActorStart  TileKind = "start"
	Collectible TileKind = "collectible"
	DropPoint   TileKind = "drop"
	Boost       TileKind = "boost"
	Slide       TileKind = "slide"

	// Validation constants
	MinGridSize   = 2
	MaxGridSize   = 64
	MinMoveBudget = 1
	MaxMoveBudget = 999
	MaxBulkMoves  = 100

	// Rules
	LogCapacity          = 40
	CollectibleScore     = 2
	BoostScore           = 6
	BoostMoves           = 4
	DeliveryScorePerItem = 8
)

// Layout characters
const (
	CharEmpty       = '.'
	CharWall        = '#'
	CharStart       = 'S'
	CharCollectible = 'G'
	CharDropPoint   = 'H'
	CharBoost       = 'C'
	CharSlide       = 'I'
)

// Walkable reports whether the actor may stand on the tile
func (k TileKind) Walkable() bool {
	return k != Wall && k != ""
}

// Position represents row/column coordinates
type Position struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

// Add returns the position shifted by the direction delta
func (p Position) Add(d Direction) Position {
	dr, dc := d.Delta()
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

// Messages holds the themeable text the engine writes to its log and status
type Messages struct {
	Welcome     string `json:"welcome" yaml:"welcome"`
	NewRun      string `json:"new_run" yaml:"new_run"`
	Blocked     string `json:"blocked" yaml:"blocked"`
	BlockedLog  string `json:"blocked_log" yaml:"blocked_log"`
	Pickup      string `json:"pickup" yaml:"pickup"`
	Boost       string `json:"boost" yaml:"boost"`
	BoostNotice string `json:"boost_notice" yaml:"boost_notice"`
	Slide       string `json:"slide" yaml:"slide"`
	SlidePickup string `json:"slide_pickup" yaml:"slide_pickup"`
	SlideBoost  string `json:"slide_boost" yaml:"slide_boost"`
	Delivered   string `json:"delivered" yaml:"delivered"`
	DeliveredOK string `json:"delivered_notice" yaml:"delivered_notice"`
	Victory     string `json:"victory" yaml:"victory"`
	VictoryOK   string `json:"victory_notice" yaml:"victory_notice"`
	TimeUp      string `json:"time_up" yaml:"time_up"`
	TimeUpOK    string `json:"time_up_notice" yaml:"time_up_notice"`
}

// GameConfig represents a level definition loaded from JSON or YAML
type GameConfig struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	MaxMoves    int      `json:"max_moves" yaml:"max_moves"`
	Layout      []string `json:"layout" yaml:"layout"`
	Messages    Messages `json:"messages" yaml:"messages"`
}

// LogEntry is a single timestamped event log line
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Snapshot is the full externally visible game state
type Snapshot struct {
	Level          string       `json:"level"`
	Board          [][]TileKind `json:"board"`
	Actor          Position     `json:"actor"`
	Status         string       `json:"status"`
	Message        string       `json:"message"`
	History        []LogEntry   `json:"history"`
	Bag            int          `json:"bag"`
	Delivered      int          `json:"delivered"`
	WinsAt         int          `json:"winsAt"`
	RemainingMoves int          `json:"remainingMoves"`
	MaxMoves       int          `json:"maxMoves"`
	MovesUsed      int          `json:"movesUsed"`
	Score          int          `json:"score"`
	Over           bool         `json:"over"`
	IsWon          bool         `json:"isWon"`
	IsLost         bool         `json:"isLost"`
	AvailableMoves []Direction  `json:"availableMoves"`
}
