// Package mcp exposes 2048 sessions as MCP tools over stdio so agents can play.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/vovakirdan/merge2048/internal/config"
	"github.com/vovakirdan/merge2048/internal/games/t2048"
	"github.com/vovakirdan/merge2048/internal/games/t2048/engine"
	"github.com/vovakirdan/merge2048/internal/games/t2048/session"
	"github.com/vovakirdan/merge2048/internal/storage"
)

// ErrUnknownSession is returned for a session id that was never started.
var ErrUnknownSession = errors.New("mcp: unknown session")

const instructions = `2048 - MCP Interface

Slide the tiles of a 4x4 board. Equal tiles that collide merge into their sum,
which is added to the score. After every move that changes the board a new 2
(sometimes 4) appears. Reach the 2048 tile to win; the game ends when no move
can change the board.

AVAILABLE TOOLS:
- new_game: start a board (returns the session_id to use with the other tools)
- game_state: show the board of a session
- move: slide up/down/left/right
- undo: take back the last move (one level)
- keep_playing: continue after reaching 2048

Empty cells are shown as dots.`

// Options configures the sessions the server creates.
type Options struct {
	Config config.T2048Config
	// Store persists sessions; nil keeps them in memory only.
	Store  session.Store
	Logger *log.Logger
	// Seed for every new session; 0 picks a time-based seed.
	Seed int64
}

// Server holds the open sessions and the MCP tool server that drives them.
type Server struct {
	opts   Options
	logger *log.Logger

	mu       sync.Mutex
	sessions map[string]*session.Session

	mcpServer *server.MCPServer
}

// NewServer creates the MCP server with all tools registered.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		opts:     opts,
		logger:   logger,
		sessions: make(map[string]*session.Session),
	}

	s.mcpServer = server.NewMCPServer(
		"merge2048",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(instructions),
	)
	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves the tools on stdin/stdout until the input closes.
func (s *Server) ServeStdio() error {
	s.logger.Info("serving MCP on stdio")
	return server.ServeStdio(s.mcpServer)
}

func sessionIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID returned by new_game",
	}
}

func modeProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"classic", "endless"},
		"description": "Game mode (default classic). Endless never stops at 2048.",
	}
}

// registerTools registers all MCP tools.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "new_game",
		Description: "Start a new game. Restarts the board when session_id is already open.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID to (re)start (optional, a new one is generated)",
				},
				"mode": modeProperty(),
			},
		},
	}, s.handleNewGame)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the board, score and status of a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"mode":       modeProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleGameState)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "move",
		Description: "Slide all tiles in a direction",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"mode":       modeProperty(),
				"direction": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Direction to slide",
				},
			},
			Required: []string{"session_id", "direction"},
		},
	}, s.handleMove)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "undo",
		Description: "Take back the last move (one level only)",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"mode":       modeProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleUndo)

	s.mcpServer.AddTool(mcp.Tool{
		Name:        "keep_playing",
		Description: "Continue playing after reaching the winning tile",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionIDProperty(),
				"mode":       modeProperty(),
			},
			Required: []string{"session_id"},
		},
	}, s.handleKeepPlaying)
}

// args returns the tool arguments and the requested mode.
func args(request mcp.CallToolRequest) (map[string]interface{}, t2048.Mode, error) {
	a, _ := request.Params.Arguments.(map[string]interface{})
	raw, _ := a["mode"].(string)
	mode, ok := t2048.ParseMode(raw)
	if !ok {
		return nil, "", fmt.Errorf("mcp: unknown mode %q", raw)
	}
	return a, mode, nil
}

// session returns the open session for id, resuming it from the store when
// a record exists. With create set a missing session is started fresh.
func (s *Server) session(id string, mode t2048.Mode, create bool) (*session.Session, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty session_id", ErrUnknownSession)
	}
	key := storage.SessionKey(mode.GameID(), id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[key]; ok {
		return sess, nil
	}

	stored := false
	if s.opts.Store != nil {
		data, err := s.opts.Store.LoadSession(key)
		if err != nil {
			s.logger.Warn("could not load saved session", "key", key, "error", err)
		}
		stored = data != nil
	}
	if !stored && !create {
		return nil, fmt.Errorf("%w %q: call new_game first", ErrUnknownSession, id)
	}

	sess := t2048.NewSession(t2048.SessionOptions{
		Mode:   mode,
		Config: s.opts.Config,
		Seed:   s.opts.Seed,
		Store:  s.opts.Store,
		Key:    key,
		Logger: s.logger,
	})
	resumed := sess.Resume()
	s.logger.Info("session opened", "key", key, "resumed", resumed)
	s.sessions[key] = sess
	return sess, nil
}

// with runs fn on the session named in the request while holding the server lock.
func (s *Server) with(request mcp.CallToolRequest, fn func(sess *session.Session, id string) (string, error)) (*mcp.CallToolResult, error) {
	a, mode, err := args(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, _ := a["session_id"].(string)
	sess, err := s.session(id, mode, false)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	text, err := fn(sess, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error() + "\n\n" + t2048.NewView(sess).Text()), nil
	}
	return mcp.NewToolResultText(text), nil
}

func (s *Server) handleNewGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, mode, err := args(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, _ := a["session_id"].(string)
	if id == "" {
		id = uuid.NewString()
	}

	sess, err := s.session(id, mode, true)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sess.NewGame()
	return mcp.NewToolResultText(fmt.Sprintf("Started %s game\nsession_id: %s\n\n%s",
		mode, id, t2048.NewView(sess).Text())), nil
}

func (s *Server) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.with(request, func(sess *session.Session, id string) (string, error) {
		return fmt.Sprintf("session_id: %s\n\n%s", id, t2048.NewView(sess).Text()), nil
	})
}

func (s *Server) handleMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.with(request, func(sess *session.Session, _ string) (string, error) {
		a, _ := request.Params.Arguments.(map[string]interface{})
		raw, _ := a["direction"].(string)
		dir, err := engine.ParseDirection(raw)
		if err != nil {
			return "", err
		}
		out, err := sess.Move(dir)
		if err != nil {
			return "", err
		}
		return formatMove(dir, out) + "\n\n" + t2048.NewView(sess).Text(), nil
	})
}

func (s *Server) handleUndo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.with(request, func(sess *session.Session, _ string) (string, error) {
		if err := sess.Undo(); err != nil {
			return "", err
		}
		return "Undid the last move\n\n" + t2048.NewView(sess).Text(), nil
	})
}

func (s *Server) handleKeepPlaying(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return s.with(request, func(sess *session.Session, _ string) (string, error) {
		if err := sess.KeepPlaying(); err != nil {
			return "", err
		}
		return "Continuing past the winning tile\n\n" + t2048.NewView(sess).Text(), nil
	})
}

// formatMove summarises a move outcome in one line.
func formatMove(dir engine.Direction, out session.Outcome) string {
	if !out.Result.Changed {
		return fmt.Sprintf("Nothing moved %s; try another direction", dir)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Moved %s: +%d", dir, out.Result.ScoreGain)
	if n := len(out.Result.Merges); n > 0 {
		fmt.Fprintf(&b, " (%d merge", n)
		if n > 1 {
			b.WriteByte('s')
		}
		b.WriteByte(')')
	}
	if out.Spawn != nil {
		fmt.Fprintf(&b, ", new %d at row %d col %d", out.Spawn.Value, out.Spawn.Row, out.Spawn.Col)
	}
	switch {
	case out.Won:
		b.WriteString("\nYou reached the winning tile! Call keep_playing to continue.")
	case out.GameOver:
		b.WriteString("\nGame over: no moves left.")
	}
	return b.String()
}
