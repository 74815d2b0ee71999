package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/wricardo/mcp-training/giftrun/game/config"
	"github.com/wricardo/mcp-training/giftrun/game/engine"
	"github.com/wricardo/mcp-training/giftrun/game/service"
	"github.com/wricardo/mcp-training/giftrun/transport/websocket"
)

// SessionCookie scopes the single-player routes to one session per browser
const SessionCookie = "giftrun_session"

const sessionCookieMaxAge = 24 * 60 * 60

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
	mcp     http.Handler
	logger  *log.Logger
}

// Option customizes a Server
type Option func(*Server)

// WithLogger sets the request logger
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMCP mounts an MCP handler at /mcp
func WithMCP(handler http.Handler) Option {
	return func(s *Server) {
		s.mcp = handler
	}
}

// NewServer creates a new API server. hub may be nil to disable live updates.
func NewServer(gameService service.GameService, hub *websocket.Hub, opts ...Option) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.hub != nil {
		s.hub.OnInbound(s.handleInbound)
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")

	// Game operations
	api.HandleFunc("/sessions/{id}/state", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/sessions/{id}/move", s.handleMove).Methods("POST")
	api.HandleFunc("/sessions/{id}/bulk-move", s.handleBulkMove).Methods("POST")
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods("POST")
	api.HandleFunc("/sessions/{id}/history", s.handleGetHistory).Methods("GET")

	// Single-player routes scoped by cookie
	api.HandleFunc("/state", s.handleCookieState).Methods("GET")
	api.HandleFunc("/new", s.handleCookieNew).Methods("POST")
	api.HandleFunc("/move", s.handleCookieMove).Methods("POST")

	// Levels
	api.HandleFunc("/levels", s.handleListLevels).Methods("GET")
	api.HandleFunc("/levels", s.handleSaveLevel).Methods("POST")
	api.HandleFunc("/levels/{name}", s.handleGetLevel).Methods("GET")
	api.HandleFunc("/levels/{name}", s.handleSaveLevel).Methods("PUT")

	// Leaderboard
	api.HandleFunc("/leaderboard/{level}", s.handleLeaderboard).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	if s.mcp != nil {
		s.router.Handle("/mcp", s.mcp)
	}

	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, err error) {
	respondJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// statusFor maps service errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrLevelNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidLevel), errors.Is(err, engine.ErrMapConfiguration),
		errors.Is(err, service.ErrNoMoves):
		return http.StatusBadRequest
	case errors.Is(err, config.ErrReadOnly):
		return http.StatusForbidden
	case errors.Is(err, service.ErrLeaderboardOffline):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) broadcast(sessionID string, state *engine.Snapshot) {
	if s.hub != nil && state != nil {
		s.hub.BroadcastState(sessionID, state)
	}
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Level string `json:"level,omitempty"`
	}

	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	session, err := s.service.CreateSession(r.Context(), req.Level)
	if err != nil {
		respondError(w, err)
		return
	}

	s.logger.Info("session created", "session", session.ID, "level", session.Level)
	respondJSON(w, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort")    // "created", "accessed" (default)
	order := query.Get("order")    // "asc", "desc" (default: "desc")
	level := query.Get("level")    // only sessions on this level
	limitStr := query.Get("limit") // number of sessions to return

	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	if level != "" {
		filtered := sessions[:0]
		for _, session := range sessions {
			if strings.EqualFold(session.Level, level) {
				filtered = append(filtered, session)
			}
		}
		sessions = filtered
	}
	total := len(sessions)

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	if limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(sessions) {
			sessions = sessions[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	session, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, session)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondError(w, err)
		return
	}

	s.logger.Info("session deleted", "session", sessionID)
	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

// Game Operation Handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.GetState(r.Context(), sessionID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Direction string `json:"direction"`
		Reset     bool   `json:"reset,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	result, err := s.service.Move(r.Context(), sessionID, req.Direction, req.Reset)
	if err != nil {
		respondError(w, err)
		return
	}

	s.broadcast(sessionID, result.State)
	s.logMove(sessionID, req.Direction, result)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) logMove(sessionID, direction string, result *service.MoveResult) {
	if result.State == nil {
		return
	}
	s.logger.Debug("move",
		"session", sessionID,
		"dir", direction,
		"outcome", result.Outcome,
		"pos", fmt.Sprintf("(%d,%d)", result.State.Actor.Row, result.State.Actor.Col),
		"moves", result.State.RemainingMoves,
		"score", result.State.Score)
}

func (s *Server) handleBulkMove(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Moves []string `json:"moves"`
		Reset bool     `json:"reset,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	result, err := s.service.BulkMove(r.Context(), sessionID, req.Moves, req.Reset)
	if err != nil {
		respondError(w, err)
		return
	}

	s.broadcast(sessionID, result.State)
	s.logger.Debug("bulk move",
		"session", sessionID,
		"executed", fmt.Sprintf("%d/%d", result.MovesExecuted, result.RequestedMoves),
		"stop", result.StoppedReason,
		"end", fmt.Sprintf("(%d,%d)", result.EndPos.Row, result.EndPos.Col),
		"score_delta", result.ScoreDelta)

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	state, err := s.service.Reset(r.Context(), sessionID)
	if err != nil {
		respondError(w, err)
		return
	}

	s.broadcast(sessionID, state)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Game reset successfully",
		"state":   state,
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			opts.Page = p
		}
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}

	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetHistory(r.Context(), sessionID, opts)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// Cookie-scoped Handlers

// cookieSession returns the caller's session ID, creating a session on the
// default level when the cookie is missing or points at an expired session.
func (s *Server) cookieSession(w http.ResponseWriter, r *http.Request) (string, error) {
	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		if _, err := s.service.GetSession(r.Context(), cookie.Value); err == nil {
			return cookie.Value, nil
		}
	}

	session, err := s.service.CreateSession(r.Context(), "")
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.ID,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.logger.Info("session created", "session", session.ID, "level", session.Level, "via", "cookie")
	return session.ID, nil
}

func (s *Server) handleCookieState(w http.ResponseWriter, r *http.Request) {
	sessionID, err := s.cookieSession(w, r)
	if err != nil {
		respondError(w, err)
		return
	}

	state, err := s.service.GetState(r.Context(), sessionID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleCookieNew(w http.ResponseWriter, r *http.Request) {
	sessionID, err := s.cookieSession(w, r)
	if err != nil {
		respondError(w, err)
		return
	}

	state, err := s.service.Reset(r.Context(), sessionID)
	if err != nil {
		respondError(w, err)
		return
	}

	s.broadcast(sessionID, state)
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleCookieMove(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Direction string `json:"direction"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}
	if req.Direction == "" {
		req.Direction = r.URL.Query().Get("dir")
	}

	sessionID, err := s.cookieSession(w, r)
	if err != nil {
		respondError(w, err)
		return
	}

	result, err := s.service.Move(r.Context(), sessionID, req.Direction, false)
	if err != nil {
		respondError(w, err)
		return
	}

	s.broadcast(sessionID, result.State)
	s.logMove(sessionID, req.Direction, result)

	respondJSON(w, http.StatusOK, result.State)
}

// Level Handlers

func (s *Server) handleListLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := s.service.ListLevels(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, levels)
}

func trimLevelExt(name string) string {
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

func (s *Server) handleGetLevel(w http.ResponseWriter, r *http.Request) {
	name := trimLevelExt(mux.Vars(r)["name"])

	level, err := s.service.LoadLevel(r.Context(), name)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, level)
}

func (s *Server) handleSaveLevel(w http.ResponseWriter, r *http.Request) {
	var level engine.GameConfig
	if err := json.NewDecoder(r.Body).Decode(&level); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
		return
	}

	id := trimLevelExt(mux.Vars(r)["name"])
	if id == "" {
		id = level.Name
	}
	if id == "" {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "Level name is required"})
		return
	}

	if err := s.service.SaveLevel(r.Context(), id, &level); err != nil {
		respondError(w, err)
		return
	}

	s.logger.Info("level saved", "level", id)
	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Level saved successfully",
		"level_id": id,
	})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	level := mux.Vars(r)["level"]

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	results, err := s.service.Leaderboard(r.Context(), level, limit)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"level":   level,
		"results": results,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "live updates disabled", http.StatusNotFound)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	if _, err := s.service.GetSession(r.Context(), sessionID); err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, sessionID)
}

// handleInbound applies an action sent over a session's WebSocket
func (s *Server) handleInbound(sessionID string, msg websocket.Inbound) {
	ctx := context.Background()

	var (
		state *engine.Snapshot
		err   error
	)
	switch strings.ToLower(msg.Action) {
	case "move":
		var result *service.MoveResult
		result, err = s.service.Move(ctx, sessionID, msg.Direction, false)
		if err == nil {
			state = result.State
			s.logMove(sessionID, msg.Direction, result)
		}
	case "reset", "new":
		state, err = s.service.Reset(ctx, sessionID)
	case "state":
		state, err = s.service.GetState(ctx, sessionID)
	default:
		s.logger.Debug("ignoring websocket action", "session", sessionID, "action", msg.Action)
		return
	}

	if err != nil {
		s.logger.Warn("websocket action failed", "session", sessionID, "action", msg.Action, "err", err)
		s.hub.BroadcastEvent(sessionID, "error", err.Error())
		return
	}
	s.broadcast(sessionID, state)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
