package session

import (
	"encoding/json"
	"math"

	"github.com/vovakirdan/merge2048/internal/games/t2048/engine"
)

// record is the flat persisted form of State.
type record struct {
	Grid        engine.Grid    `json:"grid"`
	TileIDs     engine.TileIDs `json:"tileIds"`
	NextTileID  engine.TileID  `json:"nextTileId"`
	Score       int            `json:"score"`
	BestScore   int            `json:"bestScore"`
	TotalGames  int            `json:"totalGames"`
	MaxTileEver int            `json:"maxTileEver"`
	Won         bool           `json:"won"`
	KeepPlaying bool           `json:"keepPlaying"`
	GameOver    bool           `json:"gameOver"`
	MoveCount   int            `json:"moveCount"`
}

// Encode serialises st as the persisted JSON record.
func Encode(st State) ([]byte, error) {
	return json.Marshal(record{
		Grid:        st.Grid,
		TileIDs:     st.IDs,
		NextTileID:  st.NextTileID,
		Score:       st.Score,
		BestScore:   st.BestScore,
		TotalGames:  st.TotalGames,
		MaxTileEver: st.MaxTileEver,
		Won:         st.Won,
		KeepPlaying: st.KeepPlaying,
		GameOver:    st.GameOver,
		MoveCount:   st.MoveCount,
	})
}

// Decode reads a persisted record. Each field falls back to its default on its
// own, so one corrupt field never blocks the rest of the session. The second
// return value is false only when data is not a JSON object at all, in which
// case a fresh default state is returned.
func Decode(data []byte) (State, bool) {
	st := State{NextTileID: 1}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return st, false
	}

	if g, ok := decodeGrid(raw["grid"]); ok {
		st.Grid = g
	}
	if n, ok := decodeCount(raw["nextTileId"]); ok && n > 0 {
		st.NextTileID = engine.TileID(n)
	}

	idsRaw, present := raw["tileIds"]
	if !present {
		idsRaw = raw["tileMap"]
	}
	ids, ok := decodeIDs(idsRaw)
	if !ok || !ids.Consistent(st.Grid) {
		ids, st.NextTileID = engine.AssignIDs(st.Grid, st.NextTileID)
	}
	st.IDs = ids
	if maxID := ids.MaxID(); st.NextTileID <= maxID {
		st.NextTileID = maxID + 1
	}

	st.Score = countOr(raw["score"], 0)
	st.BestScore = max(countOr(raw["bestScore"], 0), st.Score)
	st.TotalGames = countOr(raw["totalGames"], 0)
	st.MaxTileEver = max(countOr(raw["maxTileEver"], 0), engine.MaxTile(st.Grid))
	st.MoveCount = countOr(raw["moveCount"], 0)

	st.Won = boolOr(raw["won"], false)
	st.KeepPlaying = boolOr(raw["keepPlaying"], false)
	st.GameOver = boolOr(raw["gameOver"], false)

	return st, true
}

func decodeGrid(raw json.RawMessage) (engine.Grid, bool) {
	var g engine.Grid
	if raw == nil {
		return g, false
	}
	var rows [][]float64
	if err := json.Unmarshal(raw, &rows); err != nil || len(rows) != engine.Size {
		return g, false
	}
	for r, cols := range rows {
		if len(cols) != engine.Size {
			return engine.Grid{}, false
		}
		for c, v := range cols {
			n, ok := wholeNumber(v)
			if !ok || !engine.ValidCell(n) {
				return engine.Grid{}, false
			}
			g[r][c] = n
		}
	}
	return g, true
}

func decodeIDs(raw json.RawMessage) (engine.TileIDs, bool) {
	var ids engine.TileIDs
	if raw == nil {
		return ids, false
	}
	var rows [][]float64
	if err := json.Unmarshal(raw, &rows); err != nil || len(rows) != engine.Size {
		return ids, false
	}
	for r, cols := range rows {
		if len(cols) != engine.Size {
			return engine.TileIDs{}, false
		}
		for c, v := range cols {
			n, ok := wholeNumber(v)
			if !ok {
				return engine.TileIDs{}, false
			}
			ids[r][c] = engine.TileID(n)
		}
	}
	return ids, true
}

// decodeCount reads a non-negative integer.
func decodeCount(raw json.RawMessage) (int, bool) {
	if raw == nil {
		return 0, false
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}
	return wholeNumber(v)
}

func countOr(raw json.RawMessage, def int) int {
	if n, ok := decodeCount(raw); ok {
		return n
	}
	return def
}

func boolOr(raw json.RawMessage, def bool) bool {
	if raw == nil {
		return def
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return def
	}
	return b
}

// wholeNumber accepts finite, non-negative integral values that fit an int.
func wholeNumber(v float64) (int, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v != math.Trunc(v) || v > 1<<53 {
		return 0, false
	}
	return int(v), true
}
