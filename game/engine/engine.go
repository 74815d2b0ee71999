package engine

import (
	"fmt"
	"strings"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	Reset() Snapshot
	Move(direction string) Outcome
	Snapshot() Snapshot
	AvailableMoves() []Direction
	IsOver() bool
	IsWon() bool
}

// Outcome classifies what a call to Move did
type Outcome string

const (
	// OutcomeMoved means the actor committed at least one step
	OutcomeMoved Outcome = "moved"
	// OutcomeBlocked means a wall or the edge stopped the actor; no move was spent
	OutcomeBlocked Outcome = "blocked"
	// OutcomeRejected means the direction token was not recognized
	OutcomeRejected Outcome = "rejected"
	// OutcomeFinished means the game had already ended
	OutcomeFinished Outcome = "finished"
)

// Clock supplies timestamps for log entries
type Clock func() time.Time

// Option customizes a GameEngine
type Option func(*GameEngine)

// WithClock replaces the wall clock used for log timestamps
func WithClock(clock Clock) Option {
	return func(e *GameEngine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// GameState is the mutable session owned by a GameEngine
type GameState struct {
	Grid           [][]TileKind
	Actor          Position
	MovesRemaining int
	MovesUsed      int
	Bag            int
	Delivered      int
	Score          int
	Over           bool
	Won            bool
	Status         string
	Notice         string
	Log            *EventLog
}

// GameEngine implements the Engine interface
type GameEngine struct {
	config            *GameConfig
	messages          Messages
	original          [][]TileKind
	start             Position
	dropPoints        map[Position]bool
	totalCollectibles int
	clock             Clock
	state             *GameState
}

// NewEngine creates a new game engine for the provided level and starts a run
func NewEngine(config *GameConfig, opts ...Option) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}

	original, err := ParseLayout(config.Layout)
	if err != nil {
		return nil, err
	}

	e := &GameEngine{
		config:     config,
		messages:   config.Messages.withDefaults(),
		original:   original,
		dropPoints: make(map[Position]bool),
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	foundStart := false
	for r, row := range original {
		for c, kind := range row {
			switch kind {
			case ActorStart:
				if !foundStart {
					e.start = Position{Row: r, Col: c}
					foundStart = true
				}
			case DropPoint:
				e.dropPoints[Position{Row: r, Col: c}] = true
			case Collectible:
				e.totalCollectibles++
			}
		}
	}
	if !foundStart {
		return nil, fmt.Errorf("%w: layout must contain a start tile (%c)", ErrMapConfiguration, CharStart)
	}

	e.state = &GameState{Log: NewEventLog(LogCapacity)}
	e.Reset()
	return e, nil
}

// NewEngineWithDefaults creates a new game engine with the built-in level
func NewEngineWithDefaults(opts ...Option) *GameEngine {
	e, err := NewEngine(DefaultGameConfig(), opts...)
	if err != nil {
		panic(fmt.Sprintf("default level is invalid: %v", err))
	}
	return e
}

// Reset restores the original map and counters and starts a new run.
// The event log is cleared and seeded with a single new-run entry.
func (e *GameEngine) Reset() Snapshot {
	s := e.state
	s.Grid = copyGrid(e.original)
	s.Actor = e.start
	s.MovesRemaining = e.config.MaxMoves
	s.MovesUsed = 0
	s.Bag = 0
	s.Delivered = 0
	s.Score = 0
	s.Over = false
	s.Won = false
	s.Status = e.messages.Welcome
	s.Notice = ""
	s.Log.Clear()
	e.log(e.messages.NewRun)
	return e.Snapshot()
}

// Move attempts to move the actor in the given direction
func (e *GameEngine) Move(direction string) Outcome {
	if e.state.Over {
		return OutcomeFinished
	}
	dir, ok := ParseDirection(direction)
	if !ok {
		return OutcomeRejected
	}
	return e.step(dir)
}

// Step is Move for an already parsed direction
func (e *GameEngine) Step(dir Direction) Outcome {
	if e.state.Over {
		return OutcomeFinished
	}
	if dr, dc := dir.Delta(); dr == 0 && dc == 0 {
		return OutcomeRejected
	}
	return e.step(dir)
}

// CanMove reports whether the neighbouring cell in dir is walkable
func (e *GameEngine) CanMove(dir Direction) bool {
	if dr, dc := dir.Delta(); dr == 0 && dc == 0 {
		return false
	}
	return e.walkable(e.state.Actor.Add(dir))
}

// AvailableMoves returns the directions that are not blocked from the current
// position, or none once the game is over
func (e *GameEngine) AvailableMoves() []Direction {
	moves := make([]Direction, 0, len(Directions))
	if e.state.Over {
		return moves
	}
	for _, d := range Directions {
		if e.CanMove(d) {
			moves = append(moves, d)
		}
	}
	return moves
}

// Snapshot returns a copy of the full game state
func (e *GameEngine) Snapshot() Snapshot {
	s := e.state
	return Snapshot{
		Level:          e.config.Name,
		Board:          copyGrid(s.Grid),
		Actor:          s.Actor,
		Status:         s.Status,
		Message:        s.Notice,
		History:        s.Log.Entries(),
		Bag:            s.Bag,
		Delivered:      s.Delivered,
		WinsAt:         e.totalCollectibles,
		RemainingMoves: s.MovesRemaining,
		MaxMoves:       e.config.MaxMoves,
		MovesUsed:      s.MovesUsed,
		Score:          s.Score,
		Over:           s.Over,
		IsWon:          s.Over && s.Won,
		IsLost:         s.Over && !s.Won,
		AvailableMoves: e.AvailableMoves(),
	}
}

// IsOver returns whether the run has ended
func (e *GameEngine) IsOver() bool {
	return e.state.Over
}

// IsWon returns whether the run ended in victory
func (e *GameEngine) IsWon() bool {
	return e.state.Over && e.state.Won
}

// Position returns the actor position
func (e *GameEngine) Position() Position {
	return e.state.Actor
}

// Bag returns the number of carried items
func (e *GameEngine) Bag() int {
	return e.state.Bag
}

// Delivered returns the number of delivered items
func (e *GameEngine) Delivered() int {
	return e.state.Delivered
}

// Score returns the current score
func (e *GameEngine) Score() int {
	return e.state.Score
}

// MovesRemaining returns the remaining move budget
func (e *GameEngine) MovesRemaining() int {
	return e.state.MovesRemaining
}

// MovesUsed returns how many moves were spent, slide steps included
func (e *GameEngine) MovesUsed() int {
	return e.state.MovesUsed
}

// TotalCollectibles returns the win threshold
func (e *GameEngine) TotalCollectibles() int {
	return e.totalCollectibles
}

// RemainingCollectibles returns the collectibles still lying on the grid
func (e *GameEngine) RemainingCollectibles() int {
	return CountTiles(e.state.Grid, Collectible)
}

// Config returns the level the engine was built from
func (e *GameEngine) Config() *GameConfig {
	return e.config
}

// Clone returns an independent copy of the engine and its current state
func (e *GameEngine) Clone() *GameEngine {
	c := *e
	st := *e.state
	st.Grid = copyGrid(e.state.Grid)
	st.Log = e.state.Log.clone()
	c.state = &st
	return &c
}

// Fingerprint encodes the gameplay-relevant state (grid, actor and counters,
// not the log) as a string, so equal fingerprints play out identically
func (e *GameEngine) Fingerprint() string {
	s := e.state
	var b strings.Builder
	for _, row := range s.Grid {
		for _, kind := range row {
			b.WriteRune(CharFromTile(kind))
		}
	}
	fmt.Fprintf(&b, "|%d,%d|%d|%d|%d|%t", s.Actor.Row, s.Actor.Col, s.MovesRemaining, s.Bag, s.Delivered, s.Over)
	return b.String()
}

func copyGrid(grid [][]TileKind) [][]TileKind {
	out := make([][]TileKind, len(grid))
	for i, row := range grid {
		out[i] = append([]TileKind(nil), row...)
	}
	return out
}

// BulkMove executes moves in sequence, stopping once the run is over
func (e *GameEngine) BulkMove(moves []string) []Outcome {
	results := make([]Outcome, 0, len(moves))
	for _, direction := range moves {
		if e.IsOver() {
			break
		}
		results = append(results, e.Move(direction))
	}
	return results
}
