package engine

import "fmt"

// Move is a tile translation with no value change. Both sources of a merge also
// get a Move so the presentation can slide them onto the target cell.
type Move struct {
	TileID  TileID `json:"tileId"`
	FromRow int    `json:"fromRow"`
	FromCol int    `json:"fromCol"`
	ToRow   int    `json:"toRow"`
	ToCol   int    `json:"toCol"`
}

// Merge fuses two source tiles into a new tile at Row, Col.
type Merge struct {
	Sources  [2]TileID `json:"sourceTileIds"`
	Row      int       `json:"targetRow"`
	Col      int       `json:"targetCol"`
	Value    int       `json:"resultValue"`
	ResultID TileID    `json:"resultTileId"`
}

// MoveResult is the outcome of ApplyMove.
type MoveResult struct {
	Grid       Grid    `json:"grid"`
	IDs        TileIDs `json:"tileIds"`
	Moves      []Move  `json:"moves"`
	Merges     []Merge `json:"merges"`
	ScoreGain  int     `json:"scoreGain"`
	Changed    bool    `json:"changed"`
	NextTileID TileID  `json:"nextTileId"`
}

// lineTile is a tile collected from a line in slide order.
type lineTile struct {
	value int
	id    TileID
	cell  Cell
}

// lineCells returns the cells of line i ordered from the leading edge of dir.
func lineCells(dir Direction, i int) [Size]Cell {
	var cells [Size]Cell
	for k := range Size {
		switch dir {
		case DirLeft:
			cells[k] = Cell{Row: i, Col: k}
		case DirRight:
			cells[k] = Cell{Row: i, Col: Size - 1 - k}
		case DirUp:
			cells[k] = Cell{Row: k, Col: i}
		case DirDown:
			cells[k] = Cell{Row: Size - 1 - k, Col: i}
		}
	}
	return cells
}

// ApplyMove slides every line of grid toward dir and merges equal neighbours.
// Merge results get fresh identities minted from next; the advanced counter is
// returned in the result. The inputs are never modified, so the call is safe to
// make speculatively. A result with Changed == false must not be committed.
func ApplyMove(grid Grid, ids TileIDs, next TileID, dir Direction) (MoveResult, error) {
	if !dir.Valid() {
		return MoveResult{}, fmt.Errorf("%w %d", ErrInvalidDirection, int(dir))
	}
	if next == 0 {
		next = 1
	}

	res := MoveResult{}

	for i := range Size {
		cells := lineCells(dir, i)

		tiles := make([]lineTile, 0, Size)
		for _, cell := range cells {
			if v := grid[cell.Row][cell.Col]; v != 0 {
				tiles = append(tiles, lineTile{value: v, id: ids[cell.Row][cell.Col], cell: cell})
			}
		}

		dest := 0
		for k := 0; k < len(tiles); k++ {
			target := cells[dest]
			cur := tiles[k]

			if k+1 < len(tiles) && tiles[k+1].value == cur.value {
				other := tiles[k+1]
				value := cur.value * 2

				res.Moves = append(res.Moves,
					Move{TileID: cur.id, FromRow: cur.cell.Row, FromCol: cur.cell.Col, ToRow: target.Row, ToCol: target.Col},
					Move{TileID: other.id, FromRow: other.cell.Row, FromCol: other.cell.Col, ToRow: target.Row, ToCol: target.Col},
				)
				res.Merges = append(res.Merges, Merge{
					Sources:  [2]TileID{cur.id, other.id},
					Row:      target.Row,
					Col:      target.Col,
					Value:    value,
					ResultID: next,
				})

				res.Grid[target.Row][target.Col] = value
				res.IDs[target.Row][target.Col] = next
				res.ScoreGain += value
				next++
				k++ // the partner is consumed
			} else {
				res.Grid[target.Row][target.Col] = cur.value
				res.IDs[target.Row][target.Col] = cur.id
				if cur.cell != target {
					res.Moves = append(res.Moves, Move{
						TileID: cur.id, FromRow: cur.cell.Row, FromCol: cur.cell.Col, ToRow: target.Row, ToCol: target.Col,
					})
				}
			}
			dest++
		}
	}

	res.Changed = res.Grid != grid
	res.NextTileID = next
	return res, nil
}

// Slide is the value-only form of ApplyMove used by previews and hints.
// It returns the new grid, the score gained and whether anything changed.
func Slide(grid Grid, dir Direction) (Grid, int, bool) {
	ids, next := AssignIDs(grid, 1)
	res, err := ApplyMove(grid, ids, next, dir)
	if err != nil {
		return grid, 0, false
	}
	return res.Grid, res.ScoreGain, res.Changed
}
