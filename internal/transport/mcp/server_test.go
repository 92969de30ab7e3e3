package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/vovakirdan/merge2048/internal/config"
	"github.com/vovakirdan/merge2048/internal/games/t2048/engine"
	"github.com/vovakirdan/merge2048/internal/games/t2048/session"
)

type memStore map[string][]byte

func (m memStore) LoadSession(key string) ([]byte, error) { return m[key], nil }

func (m memStore) SaveSession(key string, data []byte) error {
	m[key] = append([]byte(nil), data...)
	return nil
}

func newTestServer(t *testing.T, store memStore) *Server {
	t.Helper()
	cfg := config.DefaultT2048Config()
	cfg.Spawn.FourProbability = 0
	return NewServer(Options{Config: cfg, Store: store, Seed: 3})
}

// seed stores a classic game for session "abc".
func seed(t *testing.T, store memStore, grid engine.Grid) {
	t.Helper()
	ids, next := engine.AssignIDs(grid, 1)
	data, err := session.Encode(session.State{Grid: grid, IDs: ids, NextTileID: next})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	store["2048:abc"] = data
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), name string, args map[string]interface{}) (string, bool) {
	t.Helper()
	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
	result, err := handler(context.Background(), request)
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", name, err)
	}
	if result == nil || len(result.Content) == 0 {
		t.Fatalf("%s: empty result", name)
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("%s: content is %T, want TextContent", name, result.Content[0])
	}
	return text.Text, result.IsError
}

func TestNewServer(t *testing.T) {
	s := newTestServer(t, memStore{})
	if s.MCPServer() == nil {
		t.Fatal("MCPServer() = nil")
	}
}

func TestNewGameGeneratesSessionID(t *testing.T) {
	store := memStore{}
	s := newTestServer(t, store)

	text, isErr := call(t, s.handleNewGame, "new_game", map[string]interface{}{"mode": "endless"})
	if isErr {
		t.Fatalf("new_game failed: %s", text)
	}
	if !strings.Contains(text, "Started endless game") || !strings.Contains(text, "session_id: ") {
		t.Errorf("new_game text = %q", text)
	}
	if len(store) != 1 {
		t.Fatalf("store has %d records, want 1", len(store))
	}
	for key := range store {
		if !strings.HasPrefix(key, "2048_endless:") {
			t.Errorf("stored under %q", key)
		}
	}
}

func TestMoveAndUndo(t *testing.T) {
	store := memStore{}
	seed(t, store, engine.Grid{{2, 2, 0, 0}})
	s := newTestServer(t, store)
	args := map[string]interface{}{"session_id": "abc", "direction": "left"}

	text, isErr := call(t, s.handleMove, "move", args)
	if isErr {
		t.Fatalf("move failed: %s", text)
	}
	if !strings.Contains(text, "Moved left: +4 (1 merge), new 2") {
		t.Errorf("move text = %q", text)
	}
	if !strings.Contains(text, "score 4") {
		t.Errorf("board missing score: %q", text)
	}

	text, isErr = call(t, s.handleUndo, "undo", map[string]interface{}{"session_id": "abc"})
	if isErr || !strings.Contains(text, "score 0") {
		t.Errorf("undo = %q (error %v)", text, isErr)
	}

	text, isErr = call(t, s.handleUndo, "undo", map[string]interface{}{"session_id": "abc"})
	if !isErr || !strings.Contains(text, "nothing to undo") {
		t.Errorf("second undo = %q (error %v)", text, isErr)
	}
}

func TestUnchangedMove(t *testing.T) {
	store := memStore{}
	seed(t, store, engine.Grid{{2, 4, 0, 0}})
	s := newTestServer(t, store)

	text, isErr := call(t, s.handleMove, "move", map[string]interface{}{"session_id": "abc", "direction": "left"})
	if isErr || !strings.HasPrefix(text, "Nothing moved left") {
		t.Errorf("unchanged move = %q (error %v)", text, isErr)
	}
}

func TestGameState(t *testing.T) {
	store := memStore{}
	seed(t, store, engine.Grid{{2, 0, 0, 0}, {0, 0, 0, 4}})
	s := newTestServer(t, store)

	text, isErr := call(t, s.handleGameState, "game_state", map[string]interface{}{"session_id": "abc"})
	if isErr {
		t.Fatalf("game_state failed: %s", text)
	}
	want := "    2     .     .     .\n    .     .     .     4\n"
	if !strings.Contains(text, want) {
		t.Errorf("game_state = %q, want rows %q", text, want)
	}
}

func TestToolErrors(t *testing.T) {
	store := memStore{}
	seed(t, store, engine.Grid{{2, 2, 0, 0}})
	s := newTestServer(t, store)

	tests := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]interface{}
		want    string
	}{
		{"unknown session", s.handleGameState, map[string]interface{}{"session_id": "nope"}, "unknown session"},
		{"missing session", s.handleMove, map[string]interface{}{"direction": "up"}, "empty session_id"},
		{"bad direction", s.handleMove, map[string]interface{}{"session_id": "abc", "direction": "sideways"}, "invalid direction"},
		{"bad mode", s.handleNewGame, map[string]interface{}{"mode": "campaign"}, "unknown mode"},
		{"not won", s.handleKeepPlaying, map[string]interface{}{"session_id": "abc"}, "not reached"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := call(t, tt.handler, tt.name, tt.args)
			if !isErr || !strings.Contains(text, tt.want) {
				t.Errorf("got %q (error %v), want error containing %q", text, isErr, tt.want)
			}
		})
	}
}

func TestKeepPlaying(t *testing.T) {
	store := memStore{}
	seed(t, store, engine.Grid{{1024, 1024, 0, 0}})
	s := newTestServer(t, store)

	text, _ := call(t, s.handleMove, "move", map[string]interface{}{"session_id": "abc", "direction": "left"})
	if !strings.Contains(text, "keep_playing") {
		t.Fatalf("winning move = %q", text)
	}

	text, isErr := call(t, s.handleKeepPlaying, "keep_playing", map[string]interface{}{"session_id": "abc"})
	if isErr || !strings.Contains(text, "Continuing") {
		t.Errorf("keep_playing = %q (error %v)", text, isErr)
	}
}

func TestUnknownSessionError(t *testing.T) {
	s := newTestServer(t, memStore{})
	_, err := s.session("ghost", "classic", false)
	if !errors.Is(err, ErrUnknownSession) {
		t.Errorf("err = %v, want ErrUnknownSession", err)
	}
}
