package service

import (
	"time"

	"github.com/wricardo/mcp-training/giftrun/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	Level          string             `json:"level"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	State          *engine.Snapshot   `json:"state"`
	Config         *engine.GameConfig `json:"config,omitempty"`
}

// MoveResult contains the result of a move operation. Accepted is false when
// the direction was not recognized or the run was already over; the snapshot
// is returned unchanged in that case.
type MoveResult struct {
	Accepted bool             `json:"accepted"`
	Outcome  engine.Outcome   `json:"outcome"`
	State    *engine.Snapshot `json:"state"`
	Message  string           `json:"message"`
	Events   []GameEvent      `json:"events,omitempty"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	RequestedMoves int              `json:"requested_moves"`
	MovesExecuted  int              `json:"moves_executed"`
	Outcomes       []engine.Outcome `json:"outcomes"`
	Truncated      bool             `json:"truncated,omitempty"`
	Limit          int              `json:"limit,omitempty"`
	StoppedReason  string           `json:"stopped_reason,omitempty"` // victory|time_up
	StoppedOnMove  int              `json:"stopped_on_move,omitempty"`
	StartPos       engine.Position  `json:"start_pos"`
	EndPos         engine.Position  `json:"end_pos"`
	ScoreDelta     int              `json:"score_delta"`
	GameOver       bool             `json:"game_over"`
	State          *engine.Snapshot `json:"state"`
	Events         []GameEvent      `json:"events"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"` // "move", "blocked", "slide", "pickup", "boost", "delivery", "victory", "time_up", "reset"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position"`
}

// HistoryOptions configures event log retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains a page of the session event log
type HistoryResponse struct {
	Entries     []engine.LogEntry `json:"entries"`
	Total       int               `json:"total"`
	Page        int               `json:"page"`
	PageSize    int               `json:"page_size"`
	TotalPages  int               `json:"total_pages"`
	HasNext     bool              `json:"has_next"`
	HasPrevious bool              `json:"has_previous"`
}

// LevelInfo provides information about a level
type LevelInfo struct {
	Filename     string `json:"filename"`
	LevelID      string `json:"level_id"` // The identifier to use for session creation
	Name         string `json:"name"`
	Description  string `json:"description"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	MaxMoves     int    `json:"max_moves"`
	Collectibles int    `json:"collectibles"`
	Embedded     bool   `json:"embedded"`
}

// RunResult is a finished run as kept on the leaderboard
type RunResult struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	Level      string    `json:"level"`
	Won        bool      `json:"won"`
	Score      int       `json:"score"`
	Delivered  int       `json:"delivered"`
	MovesUsed  int       `json:"moves_used"`
	FinishedAt time.Time `json:"finished_at"`
}
