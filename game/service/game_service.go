package service

import (
	"context"
	"errors"
	"time"

	"github.com/wricardo/mcp-training/giftrun/game/engine"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrLevelNotFound      = errors.New("level not found")
	ErrInvalidLevel       = errors.New("invalid level")
	ErrNoMoves            = errors.New("no moves provided")
	ErrLeaderboardOffline = errors.New("leaderboard not configured")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, level string) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error)
	Reset(ctx context.Context, sessionID string) (*engine.Snapshot, error)

	// Game State
	GetState(ctx context.Context, sessionID string) (*engine.Snapshot, error)
	GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)

	// Levels
	ListLevels(ctx context.Context) ([]*LevelInfo, error)
	LoadLevel(ctx context.Context, name string) (*engine.GameConfig, error)
	SaveLevel(ctx context.Context, name string, config *engine.GameConfig) error

	// Leaderboard
	Leaderboard(ctx context.Context, level string, limit int) ([]RunResult, error)
}

// SessionManager defines session storage operations
type SessionManager interface {
	Create(id string, config *engine.GameConfig) (*Session, error)
	Get(id string) (*Session, error)
	GetOrCreate(id string, config *engine.GameConfig) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// LevelManager handles level loading
type LevelManager interface {
	LoadLevel(name string) (*engine.GameConfig, error)
	ListLevels() ([]*LevelInfo, error)
	GetDefault() *engine.GameConfig
	SaveLevel(name string, config *engine.GameConfig) error
}

// ResultRecorder stores finished runs
type ResultRecorder interface {
	SaveResult(ctx context.Context, result RunResult) (RunResult, error)
	TopResults(ctx context.Context, level string, limit int) ([]RunResult, error)
}

// Session represents an active game session
type Session struct {
	ID             string
	Level          string
	Engine         *engine.GameEngine
	Config         *engine.GameConfig
	CreatedAt      time.Time
	LastAccessedAt time.Time
}
