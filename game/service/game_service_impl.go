package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wricardo/mcp-training/giftrun/game/engine"
)

const (
	defaultHistoryLimit     = 20
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

// Option customizes the game service
type Option func(*gameServiceImpl)

// WithRecorder stores every finished run in the given recorder
func WithRecorder(recorder ResultRecorder) Option {
	return func(s *gameServiceImpl) {
		s.recorder = recorder
	}
}

// WithLogger sets the logger used for non-fatal failures
func WithLogger(logger *log.Logger) Option {
	return func(s *gameServiceImpl) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock replaces the clock used for event timestamps and run records
func WithClock(clock engine.Clock) Option {
	return func(s *gameServiceImpl) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	levels   LevelManager
	recorder ResultRecorder
	logger   *log.Logger
	clock    engine.Clock

	// mu serializes every engine and session access, reads included,
	// since lookups touch the session access time
	mu sync.Mutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, levels LevelManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		levels:   levels,
		logger:   log.New(io.Discard),
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// levelID returns the identifier a level is listed under, falling back to its name
func (s *gameServiceImpl) levelID(config *engine.GameConfig) string {
	if config == nil {
		return "default"
	}
	levels, err := s.levels.ListLevels()
	if err == nil {
		for _, lvl := range levels {
			if lvl.Name == config.Name {
				return lvl.LevelID
			}
		}
	}
	return config.Name
}

// CreateSession creates a new game session on the named level, or the default level
func (s *gameServiceImpl) CreateSession(ctx context.Context, level string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	if level != "" {
		var err error
		config, err = s.levels.LoadLevel(level)
		if err != nil {
			if errors.Is(err, ErrLevelNotFound) {
				return nil, s.levelNotFound(level)
			}
			return nil, fmt.Errorf("failed to load level %s: %w", level, err)
		}
	} else {
		config = s.levels.GetDefault()
		level = s.levelID(config)
	}

	sess, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	sess.Level = level

	return s.sessionInfo(sess), nil
}

// levelNotFound builds a not-found error listing the available levels
func (s *gameServiceImpl) levelNotFound(level string) error {
	levels, err := s.levels.ListLevels()
	if err != nil || len(levels) == 0 {
		return fmt.Errorf("%w: '%s'", ErrLevelNotFound, level)
	}
	ids := make([]string, 0, len(levels))
	for _, lvl := range levels {
		ids = append(ids, lvl.LevelID)
	}
	return fmt.Errorf("%w: '%s' (available: %s)", ErrLevelNotFound, level, strings.Join(ids, ", "))
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		info := s.sessionInfo(sess)
		info.Config = nil
		result = append(result, info)
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return nil
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	events := []GameEvent{}
	if reset {
		sess.Engine.Reset()
		events = append(events, s.event("reset", "Game reset to initial state", sess.Engine.Position()))
	}

	before := sess.Engine.Snapshot()
	outcome := sess.Engine.Move(direction)
	after := sess.Engine.Snapshot()

	events = append(events, s.stepEvents(outcome, before, after)...)
	s.recordIfFinished(ctx, sess, before, after)

	return &MoveResult{
		Accepted: outcome == engine.OutcomeMoved || outcome == engine.OutcomeBlocked,
		Outcome:  outcome,
		State:    &after,
		Message:  after.Message,
		Events:   events,
	}, nil
}

// BulkMove executes multiple moves in sequence, stopping at the first terminal state
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	if len(moves) == 0 {
		return nil, ErrNoMoves
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Outcomes:       make([]engine.Outcome, 0, len(moves)),
		Events:         []GameEvent{},
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, s.event("reset", "Game reset to initial state", sess.Engine.Position()))
	}

	if len(moves) > engine.MaxBulkMoves {
		result.Truncated = true
		result.Limit = engine.MaxBulkMoves
		moves = moves[:engine.MaxBulkMoves]
	}

	start := sess.Engine.Snapshot()
	result.StartPos = start.Actor

	before := start
	for i, move := range moves {
		if before.Over {
			break
		}
		outcome := sess.Engine.Move(move)
		after := sess.Engine.Snapshot()

		result.Outcomes = append(result.Outcomes, outcome)
		if outcome == engine.OutcomeMoved {
			result.MovesExecuted++
		}
		result.Events = append(result.Events, s.stepEvents(outcome, before, after)...)

		if after.Over && !before.Over {
			result.StoppedOnMove = i + 1
			result.StoppedReason = "time_up"
			if after.IsWon {
				result.StoppedReason = "victory"
			}
		}
		before = after
	}

	s.recordIfFinished(ctx, sess, start, before)

	result.EndPos = before.Actor
	result.ScoreDelta = before.Score - start.Score
	result.GameOver = before.Over
	result.State = &before
	return result, nil
}

// Reset resets a game session to its initial state
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	snap := sess.Engine.Reset()
	return &snap, nil
}

// GetState retrieves the current snapshot without mutating the game
func (s *gameServiceImpl) GetState(ctx context.Context, sessionID string) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	snap := sess.Engine.Snapshot()
	return &snap, nil
}

// GetHistory returns a page of the session event log
func (s *gameServiceImpl) GetHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	// Newest first from the engine
	history := sess.Engine.Snapshot().History
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultHistoryLimit
	}
	if opts.Limit > engine.LogCapacity {
		opts.Limit = engine.LogCapacity
	}
	if opts.Order != "asc" {
		opts.Order = "desc"
	}

	if opts.Order == "asc" {
		for i, j := 0, total-1; i < j; i, j = i+1, j-1 {
			history[i], history[j] = history[j], history[i]
		}
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := min((opts.Page-1)*opts.Limit, total)
	end := min(start+opts.Limit, total)

	entries := append([]engine.LogEntry{}, history[start:end]...)

	return &HistoryResponse{
		Entries:     entries,
		Total:       total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListLevels returns the available levels
func (s *gameServiceImpl) ListLevels(ctx context.Context) ([]*LevelInfo, error) {
	return s.levels.ListLevels()
}

// LoadLevel loads a specific level
func (s *gameServiceImpl) LoadLevel(ctx context.Context, name string) (*engine.GameConfig, error) {
	return s.levels.LoadLevel(name)
}

// SaveLevel validates and stores a level
func (s *gameServiceImpl) SaveLevel(ctx context.Context, name string, config *engine.GameConfig) error {
	return s.levels.SaveLevel(name, config)
}

// Leaderboard returns the best finished runs for a level
func (s *gameServiceImpl) Leaderboard(ctx context.Context, level string, limit int) ([]RunResult, error) {
	if s.recorder == nil {
		return nil, ErrLeaderboardOffline
	}
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}
	return s.recorder.TopResults(ctx, level, limit)
}

// session looks up a session and touches its access time
func (s *gameServiceImpl) session(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	_ = s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	snap := sess.Engine.Snapshot()
	level := sess.Level
	if level == "" {
		level = s.levelID(sess.Config)
	}
	return &SessionInfo{
		ID:             sess.ID,
		Level:          level,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		State:          &snap,
		Config:         sess.Config,
	}
}

// recordIfFinished stores the run when this call moved the session into a terminal state
func (s *gameServiceImpl) recordIfFinished(ctx context.Context, sess *Session, before, after engine.Snapshot) {
	if s.recorder == nil || before.Over || !after.Over {
		return
	}

	level := sess.Level
	if level == "" {
		level = s.levelID(sess.Config)
	}
	saved, err := s.recorder.SaveResult(ctx, RunResult{
		SessionID:  sess.ID,
		Level:      level,
		Won:        after.IsWon,
		Score:      after.Score,
		Delivered:  after.Delivered,
		MovesUsed:  after.MovesUsed,
		FinishedAt: s.clock(),
	})
	if err != nil {
		s.logger.Warn("failed to record finished run", "session", sess.ID, "err", err)
		return
	}
	s.logger.Debug("recorded finished run", "session", sess.ID, "run", saved.ID, "won", saved.Won, "score", saved.Score)
}

// stepEvents describes a single engine step by comparing the snapshots around it
func (s *gameServiceImpl) stepEvents(outcome engine.Outcome, before, after engine.Snapshot) []GameEvent {
	switch outcome {
	case engine.OutcomeBlocked:
		target := before.Actor
		return []GameEvent{s.event("blocked", after.Message, target)}
	case engine.OutcomeMoved:
	default:
		return nil
	}

	events := []GameEvent{
		s.event("move", fmt.Sprintf("Moved to (%d,%d)", after.Actor.Row, after.Actor.Col), after.Actor),
	}
	if engine.ManhattanDistance(before.Actor, after.Actor) > 1 {
		events = append(events, s.event("slide", "Slid one extra cell", after.Actor))
	}
	if picked := (after.Bag + after.Delivered) - (before.Bag + before.Delivered); picked > 0 {
		events = append(events, s.event("pickup", fmt.Sprintf("Picked up %d item(s), carrying %d", picked, after.Bag), after.Actor))
	}
	if engine.CountTiles(after.Board, engine.Boost) < engine.CountTiles(before.Board, engine.Boost) {
		events = append(events, s.event("boost", fmt.Sprintf("Boost! %d moves remaining", after.RemainingMoves), after.Actor))
	}
	if delivered := after.Delivered - before.Delivered; delivered > 0 {
		events = append(events, s.event("delivery", fmt.Sprintf("Delivered %d item(s), %d/%d done", delivered, after.Delivered, after.WinsAt), after.Actor))
	}
	if after.Over {
		if after.IsWon {
			events = append(events, s.event("victory", after.Status, after.Actor))
		} else {
			events = append(events, s.event("time_up", after.Status, after.Actor))
		}
	}
	return events
}

func (s *gameServiceImpl) event(kind, message string, pos engine.Position) GameEvent {
	return GameEvent{
		Type:      kind,
		Message:   message,
		Timestamp: s.clock(),
		Position:  pos,
	}
}
