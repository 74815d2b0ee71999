// Command giftrun runs the Gift Run puzzle server.
//
// Subcommands:
//
//	serve     REST API, WebSocket updates and the /mcp endpoint (default)
//	mcp       MCP over stdio, backed by a running server or an internal one
//	play      play a level in the terminal
//	validate  check level files and report whether they can be won
//	analyze   print tile counts and reachability hints for levels
//	solve     print the shortest winning route for a level
//
// Settings come from the environment (GIFTRUN_*, NGROK_*), optionally loaded
// from a .env file, and can be overridden with flags.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/mcp-training/giftrun/game/config"
	"github.com/wricardo/mcp-training/giftrun/game/engine"
	"github.com/wricardo/mcp-training/giftrun/game/scoreboard"
	"github.com/wricardo/mcp-training/giftrun/game/service"
	"github.com/wricardo/mcp-training/giftrun/game/session"
	"github.com/wricardo/mcp-training/giftrun/game/solver"
	"github.com/wricardo/mcp-training/giftrun/transport/terminal"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Gift Run"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "giftrun:", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "giftrun",
		Usage:   "deliver every gift before the sleigh runs out of moves",
		Version: Version,
		Flags:   append(globalFlags(), serveFlags()...),
		Action:  runServe,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server with REST API, WebSocket and MCP endpoint",
				Action: runServe,
			},
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "run an MCP stdio server",
				Action:  runMCP,
			},
			{
				Name:  "play",
				Usage: "play a level in the terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "level", Aliases: []string{"l"}, Usage: "level to play (default: the default level)"},
				},
				Action: runPlay,
			},
			{
				Name:      "validate",
				Usage:     "validate level files, or every known level when none are given",
				ArgsUsage: "[files...]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "skip-solve", Usage: "only check structure, do not search for a winning route"},
				},
				Action: runValidate,
			},
			{
				Name:      "analyze",
				Usage:     "print tile counts and reachability hints for levels",
				ArgsUsage: "[files...]",
				Action:    runAnalyze,
			},
			{
				Name:  "solve",
				Usage: "print the shortest winning route for a level",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "level", Aliases: []string{"l"}, Usage: "level name or file"},
					&cli.IntFlag{Name: "max-states", Value: solver.DefaultMaxStates, Usage: "give up after exploring this many states"},
				},
				Action: runSolve,
			},
		},
	}
}

// newLogger writes structured logs to w
func newLogger(w io.Writer, debug bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "giftrun",
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// settingsFor loads the environment and applies explicit flags
func settingsFor(cmd *cli.Command) (Settings, error) {
	s, err := loadSettings()
	if err != nil {
		return Settings{}, err
	}
	applyFlags(cmd, &s)
	return s, nil
}

// services bundles the long-lived components shared by the subcommands
type services struct {
	levels   *config.Manager
	sessions *session.Manager
	store    *scoreboard.Store
	game     service.GameService
}

func (s *services) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// initializeServices wires level, session and scoreboard storage into the
// game service.
func initializeServices(settings Settings, logger *log.Logger) (*services, error) {
	levels, err := config.NewManager(settings.LevelsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create level manager: %w", err)
	}
	if settings.DefaultLevel != "" && settings.DefaultLevel != config.DefaultLevel {
		if err := levels.SetDefault(settings.DefaultLevel); err != nil {
			return nil, fmt.Errorf("failed to set default level: %w", err)
		}
	}

	store, err := scoreboard.Open(settings.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open scoreboard: %w", err)
	}

	sessions := session.NewManager()
	game := service.NewGameService(sessions, levels,
		service.WithRecorder(store),
		service.WithLogger(logger),
	)

	return &services{levels: levels, sessions: sessions, store: store, game: game}, nil
}

func runPlay(ctx context.Context, cmd *cli.Command) error {
	settings, err := settingsFor(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, settings.Debug)

	svc, err := initializeServices(settings, logger)
	if err != nil {
		return err
	}
	defer svc.Close()

	level, id, err := resolveLevel(svc.levels, cmd.String("level"))
	if err != nil {
		return err
	}
	eng, err := engine.NewEngine(level)
	if err != nil {
		return err
	}

	return terminal.Run(eng,
		terminal.WithRecorder(svc.store),
		terminal.WithLogger(logger),
		terminal.WithSessionID("terminal"),
		terminal.WithLevelID(id),
	)
}

func runSolve(ctx context.Context, cmd *cli.Command) error {
	settings, err := settingsFor(cmd)
	if err != nil {
		return err
	}
	levels, err := config.NewManager(settings.LevelsDir)
	if err != nil {
		return err
	}
	level, _, err := resolveLevel(levels, cmd.String("level"))
	if err != nil {
		return err
	}

	result, err := solver.SolveLevel(ctx, level, solver.Options{MaxStates: int(cmd.Int("max-states"))})
	if err != nil {
		return fmt.Errorf("%s: %w", level.Name, err)
	}

	w := cmd.Root().Writer
	fmt.Fprintf(w, "%s: won in %d moves, score %d (%d states)\n",
		level.Name, result.MovesUsed, result.Score, result.StatesVisited)
	fmt.Fprintln(w, strings.Join(solver.Strings(result.Moves), ","))
	return nil
}

// errInvalidLevels is returned when validate finds at least one bad level
var errInvalidLevels = errors.New("one or more levels are invalid")

func runValidate(ctx context.Context, cmd *cli.Command) error {
	settings, err := settingsFor(cmd)
	if err != nil {
		return err
	}

	targets, err := levelTargets(cmd, settings)
	if err != nil {
		return err
	}

	w := cmd.Root().Writer
	failed := 0
	for _, t := range targets {
		if t.err != nil {
			failed++
			fmt.Fprintf(w, "FAIL %s: %v\n", t.name, t.err)
			continue
		}
		if cmd.Bool("skip-solve") {
			fmt.Fprintf(w, "ok   %s\n", t.name)
			continue
		}
		result, err := solver.SolveLevel(ctx, t.config, solver.Options{})
		switch {
		case errors.Is(err, solver.ErrSearchLimit):
			fmt.Fprintf(w, "ok   %s: valid, search gave up before finding a route\n", t.name)
		case err != nil:
			failed++
			fmt.Fprintf(w, "FAIL %s: %v\n", t.name, err)
		default:
			fmt.Fprintf(w, "ok   %s: winnable in %d moves (budget %d)\n", t.name, result.MovesUsed, t.config.MaxMoves)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errInvalidLevels, failed, len(targets))
	}
	return nil
}

// resolveLevel accepts a level name known to the manager or a path to a level
// file, and returns the config with the ID results are stored under
func resolveLevel(levels *config.Manager, name string) (*engine.GameConfig, string, error) {
	if name == "" {
		return levels.GetDefault(), levels.DefaultID(), nil
	}
	if _, err := os.Stat(name); err == nil {
		id, err := config.LevelID(filepath.Base(name))
		if err != nil {
			return nil, "", err
		}
		cfg, err := engine.LoadGameConfig(name)
		return cfg, id, err
	}
	id, err := config.LevelID(name)
	if err != nil {
		return nil, "", err
	}
	cfg, err := levels.LoadLevel(id)
	return cfg, id, err
}
