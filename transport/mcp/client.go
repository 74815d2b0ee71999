package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/mcp-training/giftrun/game/engine"
	"github.com/wricardo/mcp-training/giftrun/game/service"
)

// Version is reported to MCP clients during initialization
const Version = "1.0.0"

// recentLogLines is how many event log entries are shown with a state
const recentLogLines = 5

var directionEnum = []string{"n", "s", "e", "w", "north", "south", "east", "west", "up", "down", "left", "right"}

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Gift Run",
		Version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Gift Run - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Pick up every gift (G) and drop them off at a house (H) before the move budget runs out.

AVAILABLE TOOLS:
- create_session: Create a new game session on a level
- get_session: Get session details
- list_sessions: List all active sessions
- game_state: Get current board, stats and recent events
- move: Single move (n/s/e/w) - requires intent explanation
- bulk_move: Multiple moves at once - requires intent explanation
- reset_game: Start the level over
- event_log: Page through the session event log
- describe_cell: Inspect one cell of the board
- list_levels: List available levels
- leaderboard: Best finished runs for a level
- game_instructions: Rules and legend

NOTE: The 'intent' parameter on move/bulk_move tools serves as rubber duck debugging - explain your reasoning!`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session, optionally on a named level",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level": map[string]interface{}{
					"type":        "string",
					"description": "Level ID to play (optional, see list_levels)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_session",
		Description: "Get details of a specific session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetSession)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current game state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Move the sleigh one step in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        directionEnum,
					"description": "Direction to move",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this move (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, c.handleMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "bulk_move",
		Description: fmt.Sprintf("Execute up to %d moves in sequence, stopping when the run ends", engine.MaxBulkMoves),
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"moves": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "string",
						"enum": directionEnum,
					},
					"description": "Array of moves",
				},
				"intent": map[string]interface{}{
					"type":        "string",
					"description": "Brief explanation of the intent behind this sequence of moves (serves as a rubber duck to help explain your reasoning)",
				},
				"reset": map[string]interface{}{
					"type":        "boolean",
					"description": "Reset before moving",
				},
			},
			Required: []string{"session_id", "moves"},
		},
	}, c.handleBulkMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Reset the game to the level's initial state",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "event_log",
		Description: "Get the event log for a session, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleEventLog)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "describe_cell",
		Description: "Get detailed information about a single board cell (0-based row and column)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row of the cell (0 is the top row)",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Column of the cell (0 is the left column)",
				},
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, c.handleDescribeCell)

	// Levels and results
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_levels",
		Description: "List available levels",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListLevels)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "leaderboard",
		Description: "Show the best finished runs for a level",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"level": map[string]interface{}{
					"type":        "string",
					"description": "Level ID",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Number of runs to show",
				},
			},
			Required: []string{"level"},
		},
	}, c.handleLeaderboard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Get the game rules, legend and scoring",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	body := map[string]string{}
	if level := request.GetString("level", ""); level != "" {
		body["level"] = level
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, http.MethodPost, "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("Created session: %s\nLevel: %s\n\n%s", session.ID, session.Level, formatSnapshot(session.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, http.MethodGet, "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		status := "in progress"
		if s.State != nil && s.State.Over {
			status = "finished"
		}
		fmt.Fprintf(&b, "- %s (Level: %s, Created: %s, %s)\n",
			s.ID, s.Level, s.CreatedAt.Format("15:04:05"), status)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGetSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var session service.SessionInfo
	if err := c.apiCall(ctx, http.MethodGet, sessionPath(sessionID, ""), nil, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var state engine.Snapshot
	if err := c.apiCall(ctx, http.MethodGet, sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSnapshot(&state)), nil
}

func (c *Client) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	body := map[string]interface{}{
		"direction": request.GetString("direction", ""),
		"reset":     request.GetBool("reset", false),
	}

	var result service.MoveResult
	if err := c.apiCall(ctx, http.MethodPost, sessionPath(sessionID, "/move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleBulkMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	body := map[string]interface{}{
		"moves": request.GetStringSlice("moves", nil),
		"reset": request.GetBool("reset", false),
	}

	var result service.BulkMoveResult
	if err := c.apiCall(ctx, http.MethodPost, sessionPath(sessionID, "/bulk-move"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBulkMoveResult(sessionID, &result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	var response struct {
		Message string           `json:"message"`
		State   *engine.Snapshot `json:"state"`
	}

	if err := c.apiCall(ctx, http.MethodPost, sessionPath(sessionID, "/reset"), nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := fmt.Sprintf("%s\n\n%s", response.Message, formatSnapshot(response.State))
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleEventLog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")

	params := url.Values{}
	if page := request.GetInt("page", 0); page > 0 {
		params.Set("page", fmt.Sprint(page))
	}
	if limit := request.GetInt("limit", 0); limit > 0 {
		params.Set("limit", fmt.Sprint(limit))
	}
	path := sessionPath(sessionID, "/history")
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, http.MethodGet, path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleDescribeCell(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := request.GetString("session_id", "")
	row := request.GetInt("row", -1)
	col := request.GetInt("col", -1)

	var state engine.Snapshot
	if err := c.apiCall(ctx, http.MethodGet, sessionPath(sessionID, "/state"), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	height := len(state.Board)
	width := 0
	if height > 0 {
		width = len(state.Board[0])
	}
	if row < 0 || row >= height || col < 0 || col >= width {
		return mcp.NewToolResultError(fmt.Sprintf("Cell (%d, %d) is out of bounds. Board is %d rows by %d columns",
			row, col, height, width)), nil
	}

	return mcp.NewToolResultText(describeCell(&state, engine.Position{Row: row, Col: col})), nil
}

func (c *Client) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var levels []service.LevelInfo
	if err := c.apiCall(ctx, http.MethodGet, "/api/levels", nil, &levels); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available Levels:\n\n")
	for _, level := range levels {
		fmt.Fprintf(&b, "• %s (%s)\n", level.LevelID, level.Name)
		if level.Description != "" {
			fmt.Fprintf(&b, "  %s\n", level.Description)
		}
		fmt.Fprintf(&b, "  Grid: %dx%d, Moves: %d, Gifts: %d\n\n",
			level.Width, level.Height, level.MaxMoves, level.Collectibles)
	}

	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleLeaderboard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	level := request.GetString("level", "")
	path := "/api/leaderboard/" + url.PathEscape(level)
	if limit := request.GetInt("limit", 0); limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}

	var response struct {
		Level   string              `json:"level"`
		Results []service.RunResult `json:"results"`
	}
	if err := c.apiCall(ctx, http.MethodGet, path, nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatLeaderboard(response.Level, response.Results)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	instructions := fmt.Sprintf(`🎁 Gift Run - Complete Instructions

GAME OBJECTIVE:
Collect every gift on the board and drop them off at a house before your moves run out.

GRID LEGEND:
• @ - Your sleigh (current position)
• . - Open snow (passable)
• # - Wall (impassable)
• S - Start tile (passable)
• G - Gift (passable, picked up when you enter it)
• H - House (passable drop point, delivers your whole bag)
• C - Cocoa boost (passable, +%[1]d moves, consumed)
• I - Ice (passable, slides you one extra cell in the same direction)

GAME MECHANICS:
• Every step costs 1 move. Bumping into a wall or the edge costs nothing.
• Gifts go into your bag. Entering a house delivers the whole bag at once.
• Cocoa adds %[1]d moves but never raises you above the level's starting budget.
• Ice carries you one more cell if that cell is open and you still have moves.
  The extra cell costs 1 move and can pick up a gift or a cocoa, but does not deliver.
• You win the moment every gift is delivered, even on your last move.
• You lose when the budget reaches 0 with gifts still undelivered.

SCORING:
• Gift picked up: +%[2]d
• Cocoa boost: +%[3]d
• Delivery: +%[4]d per gift

MOVEMENT COMMANDS:
• n / north / up
• s / south / down
• e / east / right
• w / west / left
Unknown directions are ignored and return the unchanged state.

STRATEGY:
• Count moves to the nearest house before collecting far gifts.
• Use bulk_move (up to %[5]d moves) for routes you have planned.
• Ice saves nothing: it spends the same moves but chooses the cell for you.
• describe_cell helps confirm a tile before committing to a route.

VICTORY CONDITIONS:
All gifts delivered. Victory is checked before the move budget.

Good luck on your Gift Run! 🛷`,
		engine.BoostMoves, engine.CollectibleScore, engine.BoostScore, engine.DeliveryScorePerItem, engine.MaxBulkMoves)

	return mcp.NewToolResultText(instructions), nil
}

// Formatting helpers

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nLevel: %s\nCreated: %s\nLast active: %s\n\n%s",
		session.ID, session.Level,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		session.LastAccessedAt.Format("2006-01-02 15:04:05"),
		formatSnapshot(session.State))
}

func formatSnapshot(state *engine.Snapshot) string {
	if state == nil {
		return "No game state available"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Level: %s | Position: (%d,%d) | Moves: %d/%d | Bag: %d | Delivered: %d/%d | Score: %d\n\n",
		state.Level, state.Actor.Row, state.Actor.Col,
		state.RemainingMoves, state.MaxMoves,
		state.Bag, state.Delivered, state.WinsAt, state.Score)

	b.WriteString(engine.RenderASCII(state.Board, state.Actor))
	b.WriteString("\n")

	if !state.Over {
		fmt.Fprintf(&b, "\nPossible moves: %s\n", joinDirections(state.AvailableMoves))
	}

	if state.Over {
		if state.IsWon {
			b.WriteString("\n🎉 VICTORY!")
		} else {
			b.WriteString("\n💀 OUT OF MOVES")
		}
	}

	if state.Status != "" {
		fmt.Fprintf(&b, "\nStatus: %s", state.Status)
	}
	if state.Message != "" {
		fmt.Fprintf(&b, "\nMessage: %s", state.Message)
	}

	if len(state.History) > 0 {
		b.WriteString("\n\nRecent events:\n")
		for i, entry := range state.History {
			if i == recentLogLines {
				break
			}
			fmt.Fprintf(&b, "- [%s] %s\n", entry.Timestamp.Format("15:04:05"), entry.Message)
		}
	}

	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	switch {
	case !result.Accepted:
		fmt.Fprintf(&b, "✗ Move ignored (%s)\n", result.Outcome)
	case result.Outcome == engine.OutcomeBlocked:
		b.WriteString("✗ Blocked, no move spent\n")
	default:
		b.WriteString("✓ Move successful\n")
	}
	if result.Message != "" {
		fmt.Fprintf(&b, "%s\n", result.Message)
	}

	if len(result.Events) > 0 {
		b.WriteString("Events:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatSnapshot(result.State))
	return b.String()
}

func formatBulkMoveResult(sessionID string, result *service.BulkMoveResult) string {
	var b strings.Builder

	level := ""
	if result.State != nil {
		level = result.State.Level
	}
	fmt.Fprintf(&b, "Session: %s • Level: %s\n", sessionID, level)

	fmt.Fprintf(&b, "Executed %d/%d moves\n", result.MovesExecuted, result.RequestedMoves)
	if result.Truncated {
		fmt.Fprintf(&b, "Truncated to the first %d moves\n", result.Limit)
	}
	if result.StoppedReason != "" {
		fmt.Fprintf(&b, "Stopped on move %d: %s\n", result.StoppedOnMove, result.StoppedReason)
	}
	fmt.Fprintf(&b, "Path: (%d,%d)→(%d,%d) • Score %+d\n",
		result.StartPos.Row, result.StartPos.Col,
		result.EndPos.Row, result.EndPos.Col, result.ScoreDelta)

	if blocked := countOutcome(result.Outcomes, engine.OutcomeBlocked); blocked > 0 {
		fmt.Fprintf(&b, "Blocked moves: %d\n", blocked)
	}
	if rejected := countOutcome(result.Outcomes, engine.OutcomeRejected); rejected > 0 {
		fmt.Fprintf(&b, "Unrecognized directions: %d\n", rejected)
	}

	if len(result.Events) > 0 {
		b.WriteString("\nEvents:\n")
		for _, event := range result.Events {
			fmt.Fprintf(&b, "- %s: %s\n", event.Type, event.Message)
		}
	}

	b.WriteString("\n")
	b.WriteString(formatSnapshot(result.State))
	return b.String()
}

func countOutcome(outcomes []engine.Outcome, want engine.Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o == want {
			n++
		}
	}
	return n
}

func joinDirections(dirs []engine.Direction) string {
	if len(dirs) == 0 {
		return "none"
	}
	parts := make([]string, len(dirs))
	for i, d := range dirs {
		parts[i] = string(d)
	}
	return strings.Join(parts, ",")
}

func formatHistory(history *service.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Event Log (Page %d/%d) • Total: %d\n\n",
		history.Page, history.TotalPages, history.Total)

	for i, entry := range history.Entries {
		num := (history.Page-1)*history.PageSize + i + 1
		fmt.Fprintf(&b, "%d. [%s] %s\n", num, entry.Timestamp.Format("15:04:05"), entry.Message)
	}
	if history.HasNext {
		fmt.Fprintf(&b, "\nMore entries on page %d\n", history.Page+1)
	}

	return b.String()
}

func formatLeaderboard(level string, results []service.RunResult) string {
	if len(results) == 0 {
		return fmt.Sprintf("No finished runs for %s yet", level)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Leaderboard • %s\n\n", level)
	for i, r := range results {
		outcome := "lost"
		if r.Won {
			outcome = "won"
		}
		fmt.Fprintf(&b, "%d. %d pts • %s • %d delivered • %d moves • session %s\n",
			i+1, r.Score, outcome, r.Delivered, r.MovesUsed, r.SessionID)
	}
	return b.String()
}

func describeCell(state *engine.Snapshot, p engine.Position) string {
	kind := state.Board[p.Row][p.Col]

	char := string(engine.CharFromTile(kind))
	description := tileDescription(kind)
	if p == state.Actor {
		char = "@"
		description = "Your sleigh is here. Underneath: " + description
	}

	return fmt.Sprintf(`Cell at row %d, col %d:
━━━━━━━━━━━━━━━━━━━━━━━━
Character: %s
Type: %s
Passable: %v
Description: %s
Distance from sleigh: %d`,
		p.Row, p.Col,
		char,
		kind,
		kind.Walkable(),
		description,
		engine.ManhattanDistance(state.Actor, p))
}

func tileDescription(kind engine.TileKind) string {
	switch kind {
	case engine.Empty:
		return "Open snow - safe to travel"
	case engine.Wall:
		return "Wall - IMPASSABLE"
	case engine.ActorStart:
		return "Start tile - safe to travel"
	case engine.Collectible:
		return "Gift - picked up when you enter"
	case engine.DropPoint:
		return "House - delivers every gift in your bag"
	case engine.Boost:
		return fmt.Sprintf("Cocoa - +%d moves, up to the level budget", engine.BoostMoves)
	case engine.Slide:
		return "Ice - slides you one extra cell"
	default:
		return "Unknown tile"
	}
}
