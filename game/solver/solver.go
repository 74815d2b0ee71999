// Package solver finds the shortest winning route through a level.
package solver

import (
	"context"
	"errors"
	"fmt"

	"github.com/wricardo/mcp-training/giftrun/game/engine"
)

var (
	// ErrNoSolution means no sequence of moves wins the level
	ErrNoSolution = errors.New("no winning route")
	// ErrSearchLimit means the search gave up before exhausting the level
	ErrSearchLimit = errors.New("search limit reached")
)

// DefaultMaxStates bounds how many distinct states Solve explores
const DefaultMaxStates = 2_000_000

// Result is a winning route and some numbers about the search
type Result struct {
	Moves         []engine.Direction `json:"moves"`
	MovesUsed     int                `json:"moves_used"`
	Score         int                `json:"score"`
	StatesVisited int                `json:"states_visited"`
}

// Options tunes the search
type Options struct {
	MaxStates int
}

type node struct {
	eng    *engine.GameEngine
	parent *node
	dir    engine.Direction
}

// Solve runs a breadth-first search from the engine's current state. Blocked
// moves are skipped since they never change gameplay state, so the first win
// found uses the fewest move commands.
func Solve(ctx context.Context, start *engine.GameEngine, opts Options) (*Result, error) {
	if start.IsWon() {
		return &Result{Moves: []engine.Direction{}, MovesUsed: start.MovesUsed(), Score: start.Score()}, nil
	}
	if start.IsOver() {
		return nil, ErrNoSolution
	}

	maxStates := opts.MaxStates
	if maxStates <= 0 {
		maxStates = DefaultMaxStates
	}

	root := &node{eng: start.Clone()}
	seen := map[string]bool{root.eng.Fingerprint(): true}
	queue := []*node{root}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current := queue[0]
		queue = queue[1:]

		for _, dir := range engine.Directions {
			if !current.eng.CanMove(dir) {
				continue
			}

			next := current.eng.Clone()
			next.Step(dir)
			child := &node{eng: next, parent: current, dir: dir}

			if next.IsWon() {
				return &Result{
					Moves:         child.path(),
					MovesUsed:     next.MovesUsed(),
					Score:         next.Score(),
					StatesVisited: len(seen),
				}, nil
			}
			if next.IsOver() {
				continue
			}

			key := next.Fingerprint()
			if seen[key] {
				continue
			}
			if len(seen) >= maxStates {
				return nil, fmt.Errorf("%w after %d states", ErrSearchLimit, len(seen))
			}
			seen[key] = true
			queue = append(queue, child)
		}
		// Expanded nodes keep only their path links
		current.eng = nil
	}

	return nil, ErrNoSolution
}

// SolveLevel builds a fresh engine for the level and solves it
func SolveLevel(ctx context.Context, config *engine.GameConfig, opts Options) (*Result, error) {
	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, err
	}
	return Solve(ctx, eng, opts)
}

func (n *node) path() []engine.Direction {
	var reversed []engine.Direction
	for cur := n; cur.parent != nil; cur = cur.parent {
		reversed = append(reversed, cur.dir)
	}
	moves := make([]engine.Direction, len(reversed))
	for i, d := range reversed {
		moves[len(reversed)-1-i] = d
	}
	return moves
}

// Strings converts a route to the direction tokens the API accepts
func Strings(moves []engine.Direction) []string {
	out := make([]string, len(moves))
	for i, d := range moves {
		out[i] = string(d)
	}
	return out
}
