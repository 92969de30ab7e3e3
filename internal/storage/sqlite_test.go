package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, e := range []ScoreEntry{
		{GameID: "2048", Player: "ann", Score: 100, MaxTile: 16, Moves: 20},
		{GameID: "2048", Player: "bob", Score: 50, MaxTile: 8, Moves: 9},
		{GameID: "2048", Player: "ann", Score: 200, MaxTile: 32, Moves: 31},
		{GameID: "2048_endless", Player: "ann", Score: 500, MaxTile: 64, Moves: 70},
	} {
		if _, err := store.SaveScore(e); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	scores, err := store.TopScores("2048", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
	if scores[0].Player != "ann" || scores[0].MaxTile != 32 || scores[0].Moves != 31 {
		t.Errorf("Top entry fields not stored: %+v", scores[0])
	}

	endless, err := store.TopScores("2048_endless", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(endless) != 1 {
		t.Errorf("Expected 1 endless score, got %d", len(endless))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveScore(ScoreEntry{GameID: "test", Score: (i + 1) * 100})
	}

	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Errorf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("2048")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	store.SaveScore(ScoreEntry{GameID: "2048", Score: 100})
	store.SaveScore(ScoreEntry{GameID: "2048", Score: 300})
	store.SaveScore(ScoreEntry{GameID: "2048", Score: 200})

	high, err = store.HighScore("2048")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore(ScoreEntry{GameID: "2048", Score: 100})
	store.SaveScore(ScoreEntry{GameID: "2048_endless", Score: 300})

	if err := store.ClearScores("2048"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	classic, _ := store.TopScores("2048", 10)
	if len(classic) != 0 {
		t.Errorf("Expected 0 classic scores after clear, got %d", len(classic))
	}
	endless, _ := store.TopScores("2048_endless", 10)
	if len(endless) != 1 {
		t.Error("Endless scores should not be affected by clearing classic")
	}
}

func TestStoreSessions(t *testing.T) {
	store := openTestStore(t)

	data, err := store.LoadSession("2048:ann")
	if err != nil {
		t.Fatalf("LoadSession() failed: %v", err)
	}
	if data != nil {
		t.Errorf("Expected nil for missing session, got %q", data)
	}

	if err := store.SaveSession("2048:ann", []byte(`{"score":4}`)); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if err := store.SaveSession("2048:ann", []byte(`{"score":8}`)); err != nil {
		t.Fatalf("SaveSession() overwrite failed: %v", err)
	}
	if err := store.SaveSession("2048:bob", []byte(`{"score":2}`)); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}

	data, err = store.LoadSession("2048:ann")
	if err != nil {
		t.Fatalf("LoadSession() failed: %v", err)
	}
	if string(data) != `{"score":8}` {
		t.Errorf("LoadSession() = %q, want the latest record", data)
	}

	if err := store.DeleteSession("2048:ann"); err != nil {
		t.Fatalf("DeleteSession() failed: %v", err)
	}
	if data, _ := store.LoadSession("2048:ann"); data != nil {
		t.Error("Session should be gone after delete")
	}
	if data, _ := store.LoadSession("2048:bob"); data == nil {
		t.Error("Deleting one key should not affect another")
	}
	if err := store.DeleteSession("2048:nobody"); err != nil {
		t.Errorf("Deleting a missing session should not fail: %v", err)
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetGameStats("2048")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if empty.GamesCount != 0 || empty.HighScore != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("Expected zero stats, got %+v", empty)
	}

	store.SaveScore(ScoreEntry{GameID: "2048", Score: 100, MaxTile: 64})
	store.SaveScore(ScoreEntry{GameID: "2048", Score: 300, MaxTile: 256})

	stats, err := store.GetGameStats("2048")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 300 || stats.TotalScore != 400 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.AvgScore != 200 {
		t.Errorf("AvgScore = %v, want 200", stats.AvgScore)
	}
	if stats.MaxTile != 256 {
		t.Errorf("MaxTile = %d, want 256", stats.MaxTile)
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestSessionKey(t *testing.T) {
	tests := []struct {
		gameID, player, want string
	}{
		{"2048", "alice", "2048:alice"},
		{"2048_endless", "alice", "2048_endless:alice"},
		{"2048", "", "2048:local"},
	}
	for _, tt := range tests {
		if got := SessionKey(tt.gameID, tt.player); got != tt.want {
			t.Errorf("SessionKey(%q, %q) = %q, want %q", tt.gameID, tt.player, got, tt.want)
		}
	}
}
