package t2048

import (
	"errors"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/merge2048/internal/config"
	"github.com/vovakirdan/merge2048/internal/core"
	"github.com/vovakirdan/merge2048/internal/games/t2048/engine"
	"github.com/vovakirdan/merge2048/internal/games/t2048/session"
	"github.com/vovakirdan/merge2048/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeClassic Mode = "classic"
	ModeEndless Mode = "endless"
)

// Game IDs as registered with the platform.
const (
	ClassicID = "2048"
	EndlessID = "2048_endless"
)

// Game implements the 2048 puzzle game on top of a session.
type Game struct {
	mode   Mode
	cfg    config.T2048Config
	sess   *session.Session
	tick   uint64
	logger *log.Logger

	store    session.Store
	storeKey string
	resumed  bool

	// Screen dimensions
	screenW int
	screenH int

	paused   bool
	tooSmall bool

	anim   animator
	queued *engine.Direction // move pressed while the previous one animates
}

// Package-level variables for config
var (
	gameConfig = config.DefaultT2048Config()
)

// SetConfig sets the configuration used by games created afterwards.
func SetConfig(cfg config.T2048Config) {
	gameConfig = cfg
}

// New creates a classic mode game.
func New() *Game {
	return &Game{mode: ModeClassic, cfg: gameConfig, logger: log.New(io.Discard)}
}

// NewEndless creates an endless mode game that never shows the win banner.
func NewEndless() *Game {
	return &Game{mode: ModeEndless, cfg: gameConfig, logger: log.New(io.Discard)}
}

func init() {
	registry.Register(ClassicID, func() registry.Game {
		return New()
	})
	registry.Register(EndlessID, func() registry.Game {
		return NewEndless()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return g.mode.GameID()
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "2048 (Endless)"
	}
	return "2048"
}

// Mode returns the game mode.
func (g *Game) Mode() Mode {
	return g.mode
}

// AttachStore makes the game resume from and save to store under key.
// Must be called before the first Reset.
func (g *Game) AttachStore(store registry.SessionStore, key string) {
	g.store = store
	g.storeKey = key
}

// SetLogger sets the logger used for persistence warnings.
func (g *Game) SetLogger(logger *log.Logger) {
	if logger != nil {
		g.logger = logger
	}
}

// Resumed reports whether the first Reset continued a saved game.
func (g *Game) Resumed() bool {
	return g.resumed
}

// Session exposes the underlying session.
func (g *Game) Session() *session.Session {
	return g.sess
}

// Reset initializes the game on first call and starts a new board afterwards.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.tick = 0
	g.paused = false
	g.anim.stop()
	g.queued = nil
	g.Resize(cfg.ScreenW, cfg.ScreenH)

	if g.sess != nil {
		g.sess.NewGame()
		return
	}

	g.sess = NewSession(SessionOptions{
		Mode:   g.mode,
		Config: g.cfg,
		Seed:   cfg.Seed,
		Gate:   g.cfg.Animation.SlideTicks+g.cfg.Animation.PopTicks > 0,
		Store:  g.store,
		Key:    g.storeKey,
		Logger: g.logger,
	})
	g.resumed = g.sess.Resume()
}

// Resize updates the screen dimensions without touching the board.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	g.checkScreenSize()
}

// checkScreenSize checks if the screen is large enough.
func (g *Game) checkScreenSize() {
	g.tooSmall = g.screenW < minScreenW || g.screenH < minScreenH
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if g.anim.update() {
		g.sess.Settle()
	}

	switch {
	case in.Has(core.ActionNewGame), in.Has(core.ActionRestart) && g.sess.State().GameOver:
		g.startOver()
		return core.StepResult{State: g.State()}
	case in.Has(core.ActionUndo):
		g.undo()
		return core.StepResult{State: g.State()}
	case in.Has(core.ActionKeepPlaying) && g.sess.WinPending():
		_ = g.sess.KeepPlaying()
		return core.StepResult{State: g.State()}
	}

	// The win banner swallows moves until the player decides.
	if g.sess.WinPending() {
		g.queued = nil
	} else if dir, ok := directionFor(in); ok {
		g.queued = &dir
	}

	ended := false
	if g.queued != nil && !g.sess.Busy() {
		dir := *g.queued
		g.queued = nil
		ended = g.move(dir)
	}

	return core.StepResult{State: g.State(), Ended: ended}
}

// directionFor maps the first direction action in the frame to a direction.
func directionFor(in core.InputFrame) (engine.Direction, bool) {
	switch {
	case in.Has(core.ActionUp):
		return engine.DirUp, true
	case in.Has(core.ActionDown):
		return engine.DirDown, true
	case in.Has(core.ActionLeft):
		return engine.DirLeft, true
	case in.Has(core.ActionRight):
		return engine.DirRight, true
	}
	return 0, false
}

// move applies dir and starts the animation. It reports whether the game ended.
func (g *Game) move(dir engine.Direction) bool {
	before := g.sess.State()
	out, err := g.sess.Move(dir)
	if err != nil {
		if !errors.Is(err, session.ErrGameOver) {
			g.logger.Debug("move rejected", "direction", dir, "error", err)
		}
		return false
	}
	if !out.Result.Changed {
		return false
	}

	g.anim.start(before, out, g.cfg.Animation)
	if !g.anim.active() {
		g.sess.Settle()
	}
	return out.GameOver
}

func (g *Game) undo() {
	g.anim.stop()
	g.queued = nil
	if err := g.sess.Undo(); err != nil && !errors.Is(err, session.ErrNothingToUndo) {
		g.logger.Warn("undo failed", "error", err)
	}
}

func (g *Game) startOver() {
	g.anim.stop()
	g.queued = nil
	g.sess.NewGame()
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.sess == nil {
		return core.GameState{}
	}
	st := g.sess.State()
	return core.GameState{
		Score:    st.Score,
		MaxTile:  engine.MaxTile(st.Grid),
		Moves:    st.MoveCount,
		GameOver: st.GameOver,
		Won:      st.Won,
		Paused:   g.paused || g.tooSmall,
	}
}
