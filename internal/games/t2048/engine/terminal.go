package engine

// DefaultWinThreshold is the tile value that wins a classic game.
const DefaultWinThreshold = 2048

// EmptyCells returns the coordinates of all empty cells in row-major order.
func EmptyCells(grid Grid) []Cell {
	var cells []Cell
	for r := range Size {
		for c := range Size {
			if grid[r][c] == 0 {
				cells = append(cells, Cell{Row: r, Col: c})
			}
		}
	}
	return cells
}

// HasEmptyCell returns true if there's at least one empty cell.
func HasEmptyCell(grid Grid) bool {
	for r := range Size {
		for c := range Size {
			if grid[r][c] == 0 {
				return true
			}
		}
	}
	return false
}

// HasPossibleMerge returns true if two horizontally or vertically adjacent
// tiles hold the same value.
func HasPossibleMerge(grid Grid) bool {
	for r := range Size {
		for c := range Size {
			val := grid[r][c]
			if val == 0 {
				continue
			}
			if c < Size-1 && grid[r][c+1] == val {
				return true
			}
			if r < Size-1 && grid[r+1][c] == val {
				return true
			}
		}
	}
	return false
}

// CanMove returns true if any slide would change the grid.
func CanMove(grid Grid) bool {
	return HasEmptyCell(grid) || HasPossibleMerge(grid)
}

// IsGameOver returns true when the grid is full and no neighbours can merge.
func IsGameOver(grid Grid) bool {
	return !CanMove(grid)
}

// MaxTile returns the maximum tile value on the grid.
func MaxTile(grid Grid) int {
	maxVal := 0
	for r := range Size {
		for c := range Size {
			if grid[r][c] > maxVal {
				maxVal = grid[r][c]
			}
		}
	}
	return maxVal
}

// HasWon reports whether the grid holds a tile of at least threshold.
func HasWon(grid Grid, threshold int) bool {
	if threshold <= 0 {
		return false
	}
	return MaxTile(grid) >= threshold
}

// TileCount returns the number of occupied cells.
func TileCount(grid Grid) int {
	n := 0
	for r := range Size {
		for c := range Size {
			if grid[r][c] != 0 {
				n++
			}
		}
	}
	return n
}
