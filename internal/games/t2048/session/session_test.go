package session

import (
	"errors"
	"io"
	"math/rand"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/merge2048/internal/games/t2048/engine"
)

// memStore is an in-memory Store that counts saves.
type memStore struct {
	data  map[string][]byte
	saves int
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) LoadSession(key string) ([]byte, error) {
	return m.data[key], nil
}

func (m *memStore) SaveSession(key string, data []byte) error {
	m.data[key] = append([]byte(nil), data...)
	m.saves++
	return nil
}

func testConfig(store Store) Config {
	return Config{
		Spawner: engine.NewSpawner(rand.New(rand.NewSource(42)), engine.FixedOdds(0)),
		Store:   store,
		Key:     "tester",
		Logger:  log.New(io.Discard),
	}
}

func loaded(s *Session, g engine.Grid) {
	ids, next := engine.AssignIDs(g, 1)
	s.Load(State{Grid: g, IDs: ids, NextTileID: next})
}

func TestNewGame(t *testing.T) {
	store := newMemStore()
	s := New(testConfig(store))
	s.NewGame()

	st := s.State()
	if n := engine.TileCount(st.Grid); n != 2 {
		t.Errorf("new game has %d tiles, want 2", n)
	}
	if st.NextTileID != 3 {
		t.Errorf("NextTileID = %d, want 3", st.NextTileID)
	}
	if !st.IDs.Consistent(st.Grid) {
		t.Error("new game identities inconsistent")
	}
	if s.CanUndo() {
		t.Error("new game should not have an undo snapshot")
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}
}

func TestMoveUnchangedDoesNotMutate(t *testing.T) {
	store := newMemStore()
	s := New(testConfig(store))
	loaded(s, engine.Grid{{2, 4}})

	before := s.State()
	out, err := s.Move(engine.DirLeft)
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if out.Result.Changed {
		t.Error("left slide of a packed row should not change")
	}
	if out.Spawn != nil {
		t.Error("unchanged move must not spawn")
	}
	if s.State() != before {
		t.Error("unchanged move mutated the session")
	}
	if store.saves != 0 {
		t.Errorf("unchanged move persisted %d times", store.saves)
	}
	if s.CanUndo() {
		t.Error("unchanged move should not take an undo snapshot")
	}
}

func TestMoveCommitsAndUndo(t *testing.T) {
	store := newMemStore()
	s := New(testConfig(store))
	loaded(s, engine.Grid{{2, 2}})
	before := s.State()

	out, err := s.Move(engine.DirLeft)
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if !out.Result.Changed || out.Result.ScoreGain != 4 {
		t.Fatalf("outcome = %+v, want changed with gain 4", out.Result)
	}
	if out.Spawn == nil {
		t.Fatal("committed move should spawn a tile")
	}

	st := s.State()
	if st.Score != 4 || st.BestScore != 4 {
		t.Errorf("Score = %d, BestScore = %d, want 4 and 4", st.Score, st.BestScore)
	}
	if st.MoveCount != 1 {
		t.Errorf("MoveCount = %d, want 1", st.MoveCount)
	}
	// merge minted 3, spawn minted 4
	if st.NextTileID != 5 {
		t.Errorf("NextTileID = %d, want 5", st.NextTileID)
	}
	if engine.TileCount(st.Grid) != 2 {
		t.Errorf("tiles after merge and spawn = %d, want 2", engine.TileCount(st.Grid))
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}

	if err := s.Undo(); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	after := s.State()
	if after.Grid != before.Grid || after.IDs != before.IDs || after.Score != before.Score {
		t.Error("Undo() did not restore grid, identities and score")
	}
	if after.NextTileID != 5 {
		t.Errorf("Undo() must not rewind the identity counter, got %d", after.NextTileID)
	}
	if after.BestScore != 4 {
		t.Errorf("Undo() should keep the best score, got %d", after.BestScore)
	}

	if err := s.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("second Undo() error = %v, want ErrNothingToUndo", err)
	}
}

func TestAnimatingGate(t *testing.T) {
	cfg := testConfig(nil)
	cfg.Gate = true
	s := New(cfg)
	loaded(s, engine.Grid{{2, 0, 0, 0}})

	if _, err := s.Move(engine.DirRight); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if !s.Busy() {
		t.Fatal("gate should close after a committed move")
	}

	before := s.State()
	if _, err := s.Move(engine.DirLeft); !errors.Is(err, ErrBusy) {
		t.Fatalf("Move() while animating error = %v, want ErrBusy", err)
	}
	if s.State() != before {
		t.Error("rejected move mutated the session")
	}

	s.Settle()
	if _, err := s.Move(engine.DirLeft); err != nil {
		t.Errorf("Move() after Settle error = %v", err)
	}
}

func TestInvalidDirection(t *testing.T) {
	s := New(testConfig(nil))
	loaded(s, engine.Grid{{2, 2}})
	before := s.State()

	if _, err := s.Move(engine.Direction(9)); !errors.Is(err, engine.ErrInvalidDirection) {
		t.Errorf("error = %v, want ErrInvalidDirection", err)
	}
	if s.State() != before {
		t.Error("invalid direction mutated the session")
	}
}

func TestWinIsOneTime(t *testing.T) {
	s := New(testConfig(nil))
	loaded(s, engine.Grid{{1024, 1024}})

	out, err := s.Move(engine.DirLeft)
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if !out.Won || !s.State().Won {
		t.Fatal("reaching 2048 should win")
	}
	if !s.WinPending() {
		t.Error("win banner should be pending")
	}

	if err := s.KeepPlaying(); err != nil {
		t.Fatalf("KeepPlaying() error = %v", err)
	}
	if s.WinPending() {
		t.Error("keep playing should clear the pending win")
	}

	out, err = s.Move(engine.DirRight)
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if out.Won {
		t.Error("win must not fire twice in one session")
	}
}

func TestKeepPlayingBeforeWin(t *testing.T) {
	s := New(testConfig(nil))
	loaded(s, engine.Grid{{1024, 1024}})

	if err := s.KeepPlaying(); !errors.Is(err, ErrNotWon) {
		t.Fatalf("KeepPlaying() before the win = %v, want ErrNotWon", err)
	}
	if s.State().KeepPlaying {
		t.Fatal("keep playing must not be set before the win")
	}

	out, err := s.Move(engine.DirLeft)
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if !out.Won || !s.WinPending() {
		t.Error("reaching 2048 should still raise the win")
	}
}

func TestEndlessNeverWins(t *testing.T) {
	cfg := testConfig(nil)
	cfg.Endless = true
	s := New(cfg)
	loaded(s, engine.Grid{{1024, 1024}})

	out, err := s.Move(engine.DirLeft)
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if out.Won || s.State().Won {
		t.Error("endless mode should not win")
	}
}

func TestGameOverAndUndoClearsIt(t *testing.T) {
	s := New(testConfig(nil))
	loaded(s, engine.Grid{
		{2, 4, 8, 16},
		{32, 64, 128, 256},
		{512, 1024, 2048, 4096},
		{0, 8192, 16384, 4},
	})

	out, err := s.Move(engine.DirLeft)
	if err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	if !out.GameOver || !s.State().GameOver {
		t.Fatalf("board should be dead after the move:\n%v", s.State().Grid)
	}
	if s.State().TotalGames != 1 {
		t.Errorf("TotalGames = %d, want 1", s.State().TotalGames)
	}

	if _, err := s.Move(engine.DirUp); !errors.Is(err, ErrGameOver) {
		t.Errorf("Move() after game over error = %v, want ErrGameOver", err)
	}

	if err := s.Undo(); err != nil {
		t.Fatalf("Undo() error = %v", err)
	}
	if s.State().GameOver {
		t.Error("Undo() should clear game over")
	}
}

func TestNewGameCountsAbandonedGame(t *testing.T) {
	s := New(testConfig(nil))
	loaded(s, engine.Grid{{2, 2}})
	if _, err := s.Move(engine.DirLeft); err != nil {
		t.Fatalf("Move() error = %v", err)
	}

	s.NewGame()
	st := s.State()
	if st.TotalGames != 1 {
		t.Errorf("TotalGames = %d, want 1", st.TotalGames)
	}
	if st.BestScore != 4 {
		t.Errorf("BestScore = %d, want 4 carried over", st.BestScore)
	}
	if st.Score != 0 || st.MoveCount != 0 {
		t.Errorf("Score = %d, MoveCount = %d, want reset", st.Score, st.MoveCount)
	}
	if s.CanUndo() {
		t.Error("NewGame() should drop the undo snapshot")
	}
}

func TestResume(t *testing.T) {
	store := newMemStore()
	first := New(testConfig(store))
	first.NewGame()
	if _, err := first.Move(engine.DirDown); err != nil {
		t.Fatalf("Move() error = %v", err)
	}
	saved := first.State()

	second := New(testConfig(store))
	if !second.Resume() {
		t.Fatal("Resume() should find the saved session")
	}
	if second.State() != saved {
		t.Errorf("resumed state differs:\n got %+v\nwant %+v", second.State(), saved)
	}
}

func TestResumeWithoutRecordStartsFresh(t *testing.T) {
	s := New(testConfig(newMemStore()))
	if s.Resume() {
		t.Error("Resume() with an empty store should report false")
	}
	if engine.TileCount(s.State().Grid) != 2 {
		t.Error("Resume() without a record should start a new game")
	}
}

func TestResumeFinishedGameStartsFresh(t *testing.T) {
	store := newMemStore()
	ids, next := engine.AssignIDs(engine.Grid{{2, 4}}, 1)
	data, err := Encode(State{
		Grid: engine.Grid{{2, 4}}, IDs: ids, NextTileID: next,
		Score: 300, BestScore: 900, TotalGames: 4, MoveCount: 50, GameOver: true,
	})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	store.data["tester"] = data

	s := New(testConfig(store))
	if s.Resume() {
		t.Error("Resume() should not continue a finished game")
	}
	st := s.State()
	if st.GameOver || st.Score != 0 || st.MoveCount != 0 {
		t.Errorf("expected a fresh board, got %+v", st)
	}
	if st.BestScore != 900 || st.TotalGames != 4 {
		t.Errorf("stats = best %d, games %d, want 900 and 4", st.BestScore, st.TotalGames)
	}
	if engine.TileCount(st.Grid) != 2 {
		t.Error("finished game should be replaced by a new board")
	}
}

func TestResumeCorruptRecordKeepsStats(t *testing.T) {
	store := newMemStore()
	store.data["tester"] = []byte(`{"grid":"oops","score":10,"bestScore":500,"totalGames":7}`)

	s := New(testConfig(store))
	if s.Resume() {
		t.Error("Resume() with an unusable grid should report false")
	}
	st := s.State()
	if st.BestScore != 500 || st.TotalGames != 7 {
		t.Errorf("stats = best %d, games %d, want 500 and 7", st.BestScore, st.TotalGames)
	}
	if engine.TileCount(st.Grid) != 2 {
		t.Error("unusable grid should start a new board")
	}
}
