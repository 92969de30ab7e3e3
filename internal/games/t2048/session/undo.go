package session

import "github.com/vovakirdan/merge2048/internal/games/t2048/engine"

// Undo is the single pre-move snapshot kept for one-step reversal.
type Undo struct {
	Grid  engine.Grid
	IDs   engine.TileIDs
	Score int
}

// Snapshot captures the parts of st that a move can change.
func Snapshot(st State) Undo {
	return Undo{Grid: st.Grid, IDs: st.IDs, Score: st.Score}
}

// Restore puts the snapshot back into st and clears the game-over flag.
// Counters such as NextTileID, MoveCount and the lifetime stats are left alone
// so identities are never reused.
func Restore(st State, u Undo) State {
	st.Grid = u.Grid
	st.IDs = u.IDs
	st.Score = u.Score
	st.GameOver = false
	return st
}
