// Package session owns a single 2048 game: it commits engine results, spawns
// tiles, tracks score and lifetime stats, keeps the one-step undo snapshot and
// persists the resumable record after every mutation.
package session

import (
	"errors"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/merge2048/internal/games/t2048/engine"
)

var (
	// ErrBusy is returned while a previous move is still being applied by the presentation.
	ErrBusy = errors.New("session: previous move still animating")
	// ErrGameOver is returned for moves after the game has ended.
	ErrGameOver = errors.New("session: game is over")
	// ErrNothingToUndo is returned when no snapshot is held.
	ErrNothingToUndo = errors.New("session: nothing to undo")
	// ErrNotWon is returned when keep playing is chosen before the win tile appeared.
	ErrNotWon = errors.New("session: win tile not reached yet")
)

// InitialTiles is the number of tiles placed on a fresh board.
const InitialTiles = 2

// State is the complete resumable session record.
type State struct {
	Grid        engine.Grid
	IDs         engine.TileIDs
	NextTileID  engine.TileID
	Score       int
	BestScore   int
	TotalGames  int
	MaxTileEver int
	Won         bool
	KeepPlaying bool
	GameOver    bool
	MoveCount   int
}

// Store persists session records by key.
// storage.Store implements it on top of SQLite.
type Store interface {
	LoadSession(key string) ([]byte, error)
	SaveSession(key string, data []byte) error
}

// Config configures a Session.
type Config struct {
	// WinThreshold is the tile value that wins. Ignored in endless mode.
	WinThreshold int
	// Endless disables the win event entirely.
	Endless bool
	// InitialTiles is the number of tiles on a new board (default 2).
	InitialTiles int
	// Gate makes a committed move close the animating gate until Settle is called.
	Gate bool
	// Spawner places new tiles. Defaults to a time-seeded reference spawner.
	Spawner *engine.Spawner
	// Store and Key enable persistence. Either may be empty to disable it.
	Store Store
	Key   string
	// Logger receives persistence failures. Defaults to the package logger.
	Logger *log.Logger
}

// Outcome describes what a committed (or rejected-as-unchanged) move did.
type Outcome struct {
	Result engine.MoveResult
	// Spawn is the tile placed after the move, nil when the move changed nothing
	// or the board had no room.
	Spawn *engine.Spawn
	// Won is true only on the move that first reached the win threshold.
	Won bool
	// GameOver is true when this move ended the game.
	GameOver bool
}

// Session is one player's game. It is not safe for concurrent use; callers that
// share a session between goroutines must serialise access.
type Session struct {
	cfg       Config
	state     State
	undo      *Undo
	animating bool
	logger    *log.Logger
}

// New creates a session with an empty board. Call NewGame or Resume before playing.
func New(cfg Config) *Session {
	if cfg.WinThreshold <= 0 {
		cfg.WinThreshold = engine.DefaultWinThreshold
	}
	if cfg.InitialTiles <= 0 {
		cfg.InitialTiles = InitialTiles
	}
	if cfg.Spawner == nil {
		cfg.Spawner = engine.NewSpawner(rand.New(rand.NewSource(time.Now().UnixNano())), nil)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Session{
		cfg:    cfg,
		state:  State{NextTileID: 1},
		logger: logger,
	}
}

// State returns a copy of the current session state.
func (s *Session) State() State {
	return s.state
}

// CanUndo reports whether a snapshot is held.
func (s *Session) CanUndo() bool {
	return s.undo != nil
}

// Busy reports whether the animating gate is closed.
func (s *Session) Busy() bool {
	return s.animating
}

// Endless reports whether the session never raises the win event.
func (s *Session) Endless() bool {
	return s.cfg.Endless
}

// WinThreshold returns the tile value that wins the game.
func (s *Session) WinThreshold() int {
	return s.cfg.WinThreshold
}

// NewGame starts a fresh board. A started game that had not ended counts as played.
// Best score, total games and the max tile ever reached carry over.
func (s *Session) NewGame() {
	if s.state.MoveCount > 0 && !s.state.GameOver {
		s.state.TotalGames++
	}

	s.state = State{
		NextTileID:  1,
		BestScore:   s.state.BestScore,
		TotalGames:  s.state.TotalGames,
		MaxTileEver: s.state.MaxTileEver,
	}
	s.undo = nil
	s.animating = false

	for range s.cfg.InitialTiles {
		s.spawn()
	}
	s.trackMaxTile()
	s.persist()
}

// Resume loads the persisted record for the session key. It returns false and
// starts a new game when there is nothing usable to resume; lifetime stats from
// a readable record are kept either way.
func (s *Session) Resume() bool {
	if s.cfg.Store == nil || s.cfg.Key == "" {
		s.NewGame()
		return false
	}

	data, err := s.cfg.Store.LoadSession(s.cfg.Key)
	if err != nil {
		s.logger.Warn("could not load saved session", "key", s.cfg.Key, "error", err)
		s.NewGame()
		return false
	}
	if data == nil {
		s.NewGame()
		return false
	}

	st, ok := Decode(data)
	if !ok {
		s.logger.Warn("saved session unreadable, starting fresh", "key", s.cfg.Key)
	}
	s.state = st
	s.undo = nil
	s.animating = false

	if engine.TileCount(s.state.Grid) == 0 {
		// Keep the stats but don't count the empty board as an abandoned game.
		s.state.MoveCount = 0
		s.NewGame()
		return false
	}
	if s.state.GameOver || engine.IsGameOver(s.state.Grid) {
		// A finished game is not resumed. Its result was counted when it ended.
		s.state.GameOver = true
		s.NewGame()
		return false
	}
	return true
}

// Load replaces the session state without touching the store. Used by tests and
// by transports that hand over a decoded record.
func (s *Session) Load(st State) {
	s.state = st
	if s.state.NextTileID == 0 {
		s.state.NextTileID = s.state.IDs.MaxID() + 1
	}
	s.undo = nil
	s.animating = false
}

// Move slides the board in dir and commits the result when it changed anything.
func (s *Session) Move(dir engine.Direction) (Outcome, error) {
	if !dir.Valid() {
		return Outcome{}, engine.ErrInvalidDirection
	}
	if s.animating {
		return Outcome{}, ErrBusy
	}
	if s.state.GameOver {
		return Outcome{}, ErrGameOver
	}

	res, err := engine.ApplyMove(s.state.Grid, s.state.IDs, s.state.NextTileID, dir)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Result: res}
	if !res.Changed {
		return out, nil
	}

	snap := Snapshot(s.state)
	s.undo = &snap

	s.state.Grid = res.Grid
	s.state.IDs = res.IDs
	s.state.NextTileID = res.NextTileID
	s.state.Score += res.ScoreGain
	if s.state.Score > s.state.BestScore {
		s.state.BestScore = s.state.Score
	}
	s.state.MoveCount++

	if sp, ok := s.spawn(); ok {
		out.Spawn = &sp
	}
	s.trackMaxTile()

	if !s.cfg.Endless && !s.state.Won && !s.state.KeepPlaying &&
		engine.HasWon(s.state.Grid, s.cfg.WinThreshold) {
		s.state.Won = true
		out.Won = true
	}

	if engine.IsGameOver(s.state.Grid) {
		s.state.GameOver = true
		s.state.TotalGames++
		out.GameOver = true
	}

	if s.cfg.Gate {
		s.animating = true
	}

	s.persist()
	return out, nil
}

// Settle opens the animating gate once the presentation has applied a move.
func (s *Session) Settle() {
	s.animating = false
}

// Undo restores the pre-move snapshot and discards it.
func (s *Session) Undo() error {
	if s.undo == nil {
		return ErrNothingToUndo
	}
	s.state = Restore(s.state, *s.undo)
	s.undo = nil
	s.animating = false
	s.persist()
	return nil
}

// KeepPlaying acknowledges the win and lets the game continue past the threshold.
// It fails with ErrNotWon before the win, so the win event cannot be skipped.
func (s *Session) KeepPlaying() error {
	if !s.state.Won {
		return ErrNotWon
	}
	if s.state.KeepPlaying {
		return nil
	}
	s.state.KeepPlaying = true
	s.persist()
	return nil
}

// WinPending reports whether the win banner should be shown: the threshold was
// reached and the player has not chosen to keep playing.
func (s *Session) WinPending() bool {
	return s.state.Won && !s.state.KeepPlaying
}

// spawn places one tile and advances the identity counter.
func (s *Session) spawn() (engine.Spawn, bool) {
	sp, ok := s.cfg.Spawner.Spawn(s.state.Grid, s.state.NextTileID, s.state.MoveCount)
	if !ok {
		return engine.Spawn{}, false
	}
	s.state.Grid, s.state.IDs = engine.Place(s.state.Grid, s.state.IDs, sp)
	s.state.NextTileID = sp.NextTileID
	return sp, true
}

func (s *Session) trackMaxTile() {
	if m := engine.MaxTile(s.state.Grid); m > s.state.MaxTileEver {
		s.state.MaxTileEver = m
	}
}

// persist saves the record. Failures are logged; play continues without storage.
func (s *Session) persist() {
	if s.cfg.Store == nil || s.cfg.Key == "" {
		return
	}
	data, err := Encode(s.state)
	if err != nil {
		s.logger.Error("could not encode session", "key", s.cfg.Key, "error", err)
		return
	}
	if err := s.cfg.Store.SaveSession(s.cfg.Key, data); err != nil {
		s.logger.Warn("could not save session", "key", s.cfg.Key, "error", err)
	}
}
