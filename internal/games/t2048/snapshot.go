package t2048

import "github.com/vovakirdan/merge2048/internal/games/t2048/engine"

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StateAnimating   GameStateType = "animating"
	StateWinPending  GameStateType = "win"
	StateGameOver    GameStateType = "game_over"
	StatePaused      GameStateType = "paused"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick      uint64
	Mode      string // "classic" or "endless"
	Score     int
	BestScore int
	Moves     int
	Board     engine.Grid
	IDs       engine.TileIDs
	MaxTile   int
	Stage     string
	State     GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	st := g.sess.State()

	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.paused:
		state = StatePaused
	case st.GameOver:
		state = StateGameOver
	case g.sess.WinPending():
		state = StateWinPending
	case g.anim.active():
		state = StateAnimating
	}

	maxTile := engine.MaxTile(st.Grid)
	stage := ""
	if s := StageFor(maxTile); s != nil {
		stage = s.Name
	}

	return Snapshot{
		Tick:      g.tick,
		Mode:      string(g.mode),
		Score:     st.Score,
		BestScore: st.BestScore,
		Moves:     st.MoveCount,
		Board:     st.Grid,
		IDs:       st.IDs,
		MaxTile:   maxTile,
		Stage:     stage,
		State:     state,
	}
}
