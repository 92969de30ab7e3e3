package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/merge2048/internal/core"
	"github.com/vovakirdan/merge2048/internal/registry"
	"github.com/vovakirdan/merge2048/internal/storage"
)

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		key    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionLeft, false},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")}, core.ActionRight, false},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("k")}, core.ActionUp, false},
		{tea.KeyMsg{Type: tea.KeyDown}, core.ActionDown, false},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("u")}, core.ActionUndo, false},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")}, core.ActionNewGame, false},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")}, core.ActionKeepPlaying, false},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, false},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}, core.ActionNone, false},
	}
	for _, tt := range tests {
		action, quit := km.MapKey(tt.key)
		if action != tt.action || quit != tt.quit {
			t.Errorf("MapKey(%q) = %v, %v; want %v, %v", tt.key.String(), action, quit, tt.action, tt.quit)
		}
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		key  tea.KeyMsg
		want MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")}, MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, MenuActionQuit},
	}
	for _, tt := range tests {
		if got := km.MapKeyToMenuAction(tt.key); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, want %v", tt.key.String(), got, tt.want)
		}
	}
}

func TestRenderScreenPlainText(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawText(0, 0, "ab")
	s.DrawTextColor(2, 0, "cd", core.ColorBlack, core.ColorIvory)
	s.DrawText(0, 1, "xyz")

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ab") || !strings.Contains(lines[0], "cd") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if lines[1] != "xyz   " {
		t.Errorf("unstyled line = %q, want %q", lines[1], "xyz   ")
	}
}

// endingGame ends on its first step with a fixed result.
type endingGame struct {
	state   core.GameState
	resized bool
	resets  int
	store   registry.SessionStore
	key     string
}

func (g *endingGame) ID() string { return "stub" }
func (g *endingGame) Title() string { return "Stub" }
func (g *endingGame) Reset(core.RuntimeConfig) { g.resets++ }
func (g *endingGame) Render(*core.Screen) {}
func (g *endingGame) State() core.GameState { return g.state }
func (g *endingGame) Resize(w, h int) { g.resized = true }
func (g *endingGame) AttachStore(s registry.SessionStore, key string) {
	g.store = s
	g.key = key
}

func (g *endingGame) Step(core.InputFrame) core.StepResult {
	return core.StepResult{State: g.state, Ended: g.state.GameOver}
}

func TestModelSavesScoreOnce(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	game := &endingGame{state: core.GameState{Score: 1200, MaxTile: 128, Moves: 90, GameOver: true}}
	var m tea.Model = NewModel(game, core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1},
		Options{Store: store, Player: "alice"})

	if game.key != "stub:alice" {
		t.Errorf("session key = %q, want stub:alice", game.key)
	}

	for range 3 {
		m, _ = m.Update(TickMsg{})
	}

	scores, err := store.TopScores("stub", 10)
	if err != nil {
		t.Fatalf("TopScores: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("saved %d scores, want 1", len(scores))
	}
	got := scores[0]
	if got.Score != 1200 || got.MaxTile != 128 || got.Moves != 90 || got.Player != "alice" {
		t.Errorf("saved entry = %+v", got)
	}
}

func TestModelResizeKeepsGame(t *testing.T) {
	game := &endingGame{}
	var m tea.Model = NewModel(game, core.RuntimeConfig{ScreenW: 80, ScreenH: 24}, Options{})
	m.Init()

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	if !game.resized {
		t.Error("resize not forwarded")
	}
	if game.resets != 1 {
		t.Errorf("resets = %d, want 1", game.resets)
	}
}

func TestModelBack(t *testing.T) {
	game := &endingGame{}
	m := NewModel(game, core.RuntimeConfig{ScreenW: 80, ScreenH: 24}, Options{Embedded: true})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(Model).BackToMenu() {
		t.Error("esc should go back to the menu")
	}
	if cmd != nil {
		t.Error("embedded model must not quit the program")
	}
}
