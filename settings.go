package main

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

// Settings holds process configuration read from the environment.
// Command line flags override these values.
type Settings struct {
	Addr          string        `env:"GIFTRUN_ADDR"           envDefault:"localhost:8080"`
	LevelsDir     string        `env:"GIFTRUN_LEVELS_DIR"`
	DefaultLevel  string        `env:"GIFTRUN_DEFAULT_LEVEL"  envDefault:"sleigh_run"`
	DBPath        string        `env:"GIFTRUN_DB_PATH"        envDefault:":memory:"`
	Debug         bool          `env:"GIFTRUN_DEBUG"`
	SessionTTL    time.Duration `env:"GIFTRUN_SESSION_TTL"    envDefault:"24h"`
	SweepInterval time.Duration `env:"GIFTRUN_SWEEP_INTERVAL" envDefault:"1h"`

	NgrokEnabled   bool   `env:"NGROK_ENABLED"`
	NgrokAuthtoken string `env:"NGROK_AUTHTOKEN"`
	NgrokDomain    string `env:"NGROK_DOMAIN"`
}

// loadSettings reads an optional .env file and then the environment
func loadSettings(dotenv ...string) (Settings, error) {
	if err := godotenv.Load(dotenv...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Settings{}, fmt.Errorf("load .env: %w", err)
	}

	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}

// applyFlags copies every flag the user set explicitly onto the settings
func applyFlags(cmd *cli.Command, s *Settings) {
	if cmd.IsSet("addr") {
		s.Addr = cmd.String("addr")
	}
	if cmd.IsSet("levels-dir") {
		s.LevelsDir = cmd.String("levels-dir")
	}
	if cmd.IsSet("default-level") {
		s.DefaultLevel = cmd.String("default-level")
	}
	if cmd.IsSet("db") {
		s.DBPath = cmd.String("db")
	}
	if cmd.IsSet("debug") {
		s.Debug = cmd.Bool("debug")
	}
	if cmd.IsSet("session-ttl") {
		s.SessionTTL = cmd.Duration("session-ttl")
	}
	if cmd.IsSet("ngrok") {
		s.NgrokEnabled = cmd.Bool("ngrok")
	}
	if cmd.IsSet("ngrok-auth") {
		s.NgrokAuthtoken = cmd.String("ngrok-auth")
	}
	if cmd.IsSet("ngrok-domain") {
		s.NgrokDomain = cmd.String("ngrok-domain")
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "addr", Value: "localhost:8080", Usage: "HTTP listen address"},
		&cli.StringFlag{Name: "levels-dir", Usage: "directory with extra level files (.json, .yaml)"},
		&cli.StringFlag{Name: "default-level", Value: "sleigh_run", Usage: "level used when none is given"},
		&cli.StringFlag{Name: "db", Value: ":memory:", Usage: "scoreboard SQLite path"},
		&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
		&cli.DurationFlag{Name: "session-ttl", Value: 24 * time.Hour, Usage: "remove sessions idle for longer than this"},
	}
}
