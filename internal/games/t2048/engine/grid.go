// Package engine contains the pure 2048 rules: the grid and tile identity model,
// the slide/merge transition, tile spawning and terminal-state detection.
// Nothing in this package keeps state between calls.
package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Size is the board dimension.
const Size = 4

// Grid holds tile values. 0 is an empty cell.
type Grid [Size][Size]int

// TileID identifies a tile for its whole lifetime. 0 means no tile.
type TileID uint64

// TileIDs is the identity matrix kept parallel to a Grid.
type TileIDs [Size][Size]TileID

// Cell is a board coordinate.
type Cell struct {
	Row, Col int
}

// Direction is a slide direction.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
)

// ErrInvalidDirection is returned for directions outside the four slides.
var ErrInvalidDirection = errors.New("engine: invalid direction")

// Directions lists every valid direction.
var Directions = []Direction{DirLeft, DirRight, DirUp, DirDown}

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Valid reports whether d is one of the four slides.
func (d Direction) Valid() bool {
	return d >= DirLeft && d <= DirDown
}

// ParseDirection parses a direction name (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l":
		return DirLeft, nil
	case "right", "r":
		return DirRight, nil
	case "up", "u":
		return DirUp, nil
	case "down", "d":
		return DirDown, nil
	}
	return 0, fmt.Errorf("%w %q", ErrInvalidDirection, s)
}

// IsTileValue reports whether v is a legal tile value (a power of two >= 2).
func IsTileValue(v int) bool {
	return v >= 2 && v&(v-1) == 0
}

// ValidCell reports whether v may appear in a grid cell.
func ValidCell(v int) bool {
	return v == 0 || IsTileValue(v)
}

// Valid reports whether every cell of g holds 0 or a tile value.
func (g Grid) Valid() bool {
	for r := range Size {
		for c := range Size {
			if !ValidCell(g[r][c]) {
				return false
			}
		}
	}
	return true
}

// String renders the grid as rows of right-aligned numbers, mainly for test output.
func (g Grid) String() string {
	var sb strings.Builder
	for r := range Size {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := range Size {
			if c > 0 {
				sb.WriteByte(' ')
			}
			fmt.Fprintf(&sb, "%5d", g[r][c])
		}
	}
	return sb.String()
}

// MaxID returns the largest identity present in ids.
func (ids TileIDs) MaxID() TileID {
	var maxID TileID
	for r := range Size {
		for c := range Size {
			if ids[r][c] > maxID {
				maxID = ids[r][c]
			}
		}
	}
	return maxID
}

// Consistent reports whether ids is a valid identity matrix for g: every tile has a
// non-zero identity, identities are unique, and empty cells carry none.
func (ids TileIDs) Consistent(g Grid) bool {
	seen := make(map[TileID]bool, Size*Size)
	for r := range Size {
		for c := range Size {
			id := ids[r][c]
			if g[r][c] == 0 {
				if id != 0 {
					return false
				}
				continue
			}
			if id == 0 || seen[id] {
				return false
			}
			seen[id] = true
		}
	}
	return true
}

// AssignIDs mints identities for every tile of g in row-major order starting at next.
// It returns the matrix and the counter after the last minted identity.
func AssignIDs(g Grid, next TileID) (TileIDs, TileID) {
	if next == 0 {
		next = 1
	}
	var ids TileIDs
	for r := range Size {
		for c := range Size {
			if g[r][c] != 0 {
				ids[r][c] = next
				next++
			}
		}
	}
	return ids, next
}
