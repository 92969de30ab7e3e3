package engine

import "math/rand"

// DefaultFourProbability is the reference chance of spawning a 4 instead of a 2.
const DefaultFourProbability = 0.10

// SpawnPolicy decides how likely a spawned tile is to be a 4.
// moveCount is the number of committed moves in the current game.
type SpawnPolicy interface {
	FourProbability(moveCount int) float64
}

// FixedOdds spawns a 4 with the same probability on every move.
type FixedOdds float64

// FourProbability implements SpawnPolicy.
func (f FixedOdds) FourProbability(int) float64 {
	return clampProbability(float64(f))
}

// OpeningRamp uses Opening odds for the first Moves moves of a game and
// Steady odds afterwards. With Opening below Steady it gives an easier start.
type OpeningRamp struct {
	Moves   int
	Opening float64
	Steady  float64
}

// FourProbability implements SpawnPolicy.
func (o OpeningRamp) FourProbability(moveCount int) float64 {
	if moveCount < o.Moves {
		return clampProbability(o.Opening)
	}
	return clampProbability(o.Steady)
}

func clampProbability(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

// Spawn describes a tile placed by the Spawner.
type Spawn struct {
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	Value      int    `json:"value"`
	TileID     TileID `json:"tileId"`
	NextTileID TileID `json:"-"`
}

// Spawner places new tiles. It owns no board state; the rng is injected so that
// a seeded source reproduces the same games.
type Spawner struct {
	rng    *rand.Rand
	policy SpawnPolicy
}

// NewSpawner creates a spawner. A nil policy means FixedOdds(DefaultFourProbability).
func NewSpawner(rng *rand.Rand, policy SpawnPolicy) *Spawner {
	if policy == nil {
		policy = FixedOdds(DefaultFourProbability)
	}
	return &Spawner{rng: rng, policy: policy}
}

// Spawn picks a uniformly random empty cell and a value for a new tile, minting its
// identity from next. It returns false when the grid has no empty cell.
// The grid is not modified; use Place to apply the result.
func (s *Spawner) Spawn(grid Grid, next TileID, moveCount int) (Spawn, bool) {
	empty := EmptyCells(grid)
	if len(empty) == 0 {
		return Spawn{}, false
	}
	if next == 0 {
		next = 1
	}

	cell := empty[s.rng.Intn(len(empty))]

	value := 2
	if s.rng.Float64() < s.policy.FourProbability(moveCount) {
		value = 4
	}

	return Spawn{
		Row:        cell.Row,
		Col:        cell.Col,
		Value:      value,
		TileID:     next,
		NextTileID: next + 1,
	}, true
}

// Place returns copies of grid and ids with sp written in.
func Place(grid Grid, ids TileIDs, sp Spawn) (Grid, TileIDs) {
	grid[sp.Row][sp.Col] = sp.Value
	ids[sp.Row][sp.Col] = sp.TileID
	return grid, ids
}
