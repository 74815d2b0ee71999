package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/giftrun/game/config"
	"github.com/wricardo/mcp-training/giftrun/game/engine"
)

// maxListed caps how many problem cells are printed per check
const maxListed = 5

// levelTarget is a level named on the command line or known to the manager
type levelTarget struct {
	name   string
	config *engine.GameConfig
	err    error
}

// levelTargets loads the files given as arguments, or every level document
// the manager knows, keeping load errors so broken files get reported
func levelTargets(cmd *cli.Command, settings Settings) ([]levelTarget, error) {
	var targets []levelTarget
	if files := cmd.Args().Slice(); len(files) > 0 {
		for _, file := range files {
			cfg, err := engine.LoadGameConfig(file)
			targets = append(targets, levelTarget{name: file, config: cfg, err: err})
		}
		return targets, nil
	}

	levels, err := config.NewManager(settings.LevelsDir)
	if err != nil {
		return nil, err
	}
	files, err := levels.LevelFiles()
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		cfg, err := levels.LoadLevel(file.ID)
		name := file.Filename
		if name == "" {
			name = file.ID
		}
		targets = append(targets, levelTarget{name: name, config: cfg, err: err})
	}
	return targets, nil
}

func runAnalyze(ctx context.Context, cmd *cli.Command) error {
	settings, err := settingsFor(cmd)
	if err != nil {
		return err
	}
	targets, err := levelTargets(cmd, settings)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	for _, t := range targets {
		fmt.Fprintf(w, "\n=== Analyzing %s ===\n", t.name)
		if t.err != nil {
			fmt.Fprintf(w, "Error: %v\n", t.err)
			continue
		}
		analyzeLevel(w, t.config)
	}
	return nil
}

// analyzeLevel prints quick heuristics about a level: tile counts, cells cut
// off from the start, and gifts too far from any drop point for the budget
func analyzeLevel(w io.Writer, cfg *engine.GameConfig) {
	grid, err := engine.ParseLayout(cfg.Layout)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	var start engine.Position
	for r, row := range grid {
		for c, kind := range row {
			if kind == engine.ActorStart {
				start = engine.Position{Row: r, Col: c}
			}
		}
	}

	boosts := engine.CountTiles(grid, engine.Boost)
	budget := cfg.MaxMoves + boosts*engine.BoostMoves

	fmt.Fprintf(w, "Name: %s\n", cfg.Name)
	fmt.Fprintf(w, "Grid Size: %d x %d\n", len(grid[0]), len(grid))
	fmt.Fprintf(w, "Move Budget: %d (%d with every boost)\n", cfg.MaxMoves, budget)
	fmt.Fprintf(w, "Start: (%d, %d)\n", start.Row, start.Col)
	fmt.Fprintf(w, "Gifts: %d, Drop points: %d, Boosts: %d, Slides: %d\n",
		engine.CountTiles(grid, engine.Collectible),
		engine.CountTiles(grid, engine.DropPoint),
		boosts,
		engine.CountTiles(grid, engine.Slide),
	)

	reachable := engine.ReachableFrom(grid, start)
	var isolated []engine.Position
	for r, row := range grid {
		for c, kind := range row {
			p := engine.Position{Row: r, Col: c}
			if kind.Walkable() && !reachable[p] {
				isolated = append(isolated, p)
			}
		}
	}
	if len(isolated) > 0 {
		fmt.Fprintf(w, "WARNING: %d open cells cannot be reached from the start\n", len(isolated))
		printPositions(w, grid, isolated)
	} else {
		fmt.Fprintln(w, "All open cells connect to the start")
	}

	// straight-line lower bound: start to gift, then gift to its nearest drop
	var tooFar []engine.Position
	for r, row := range grid {
		for c, kind := range row {
			if kind != engine.Collectible {
				continue
			}
			gift := engine.Position{Row: r, Col: c}
			_, toDrop, ok := engine.FindNearest(grid, gift, engine.DropPoint)
			if !ok || engine.ManhattanDistance(start, gift)+toDrop > budget {
				tooFar = append(tooFar, gift)
			}
		}
	}
	if len(tooFar) > 0 {
		fmt.Fprintf(w, "CRITICAL: %d gifts cannot be delivered within %d moves\n", len(tooFar), budget)
		printPositions(w, grid, tooFar)
	} else {
		fmt.Fprintln(w, "Every gift is within reach of a drop point")
	}
}

func printPositions(w io.Writer, grid [][]engine.TileKind, positions []engine.Position) {
	for i, p := range positions {
		if i == maxListed {
			fmt.Fprintf(w, "   ... and %d more\n", len(positions)-maxListed)
			return
		}
		fmt.Fprintf(w, "   (%d, %d) '%c'\n", p.Row, p.Col, engine.CharFromTile(grid[p.Row][p.Col]))
	}
}
