package t2048

import (
	"github.com/vovakirdan/merge2048/internal/config"
	"github.com/vovakirdan/merge2048/internal/games/t2048/engine"
	"github.com/vovakirdan/merge2048/internal/games/t2048/session"
)

// AnimationPhase represents the current phase of animation.
type AnimationPhase int

const (
	PhaseNone AnimationPhase = iota
	PhaseSlide
	PhasePop
)

// TileAnimation is one tile drawn during the slide phase.
type TileAnimation struct {
	ID       engine.TileID
	Value    int // Value before the move
	FromRow  int
	FromCol  int
	ToRow    int
	ToCol    int
	Progress float64 // 0.0 → 1.0
}

// animator plays back a committed move: tiles slide from their old cells, then
// merge results and the spawned tile pop in. The board itself is already final
// in the session; the animator only changes how it is drawn.
type animator struct {
	phase      AnimationPhase
	ticks      int
	slideTicks int
	popTicks   int

	sliding  []TileAnimation
	pops     []engine.Cell
	progress float64
}

// start builds the animation for out, which was applied to before.
func (a *animator) start(before session.State, out session.Outcome, timing config.T2048Animation) {
	a.stop()
	a.slideTicks = timing.SlideTicks
	a.popTicks = timing.PopTicks

	moved := make(map[engine.TileID]bool, len(out.Result.Moves))
	for _, m := range out.Result.Moves {
		moved[m.TileID] = true
		a.sliding = append(a.sliding, TileAnimation{
			ID:      m.TileID,
			Value:   before.Grid[m.FromRow][m.FromCol],
			FromRow: m.FromRow,
			FromCol: m.FromCol,
			ToRow:   m.ToRow,
			ToCol:   m.ToCol,
		})
	}

	// Tiles that stay put are drawn in place for the whole slide.
	for r := range engine.Size {
		for c := range engine.Size {
			id := before.IDs[r][c]
			if before.Grid[r][c] == 0 || moved[id] {
				continue
			}
			a.sliding = append(a.sliding, TileAnimation{
				ID: id, Value: before.Grid[r][c],
				FromRow: r, FromCol: c, ToRow: r, ToCol: c,
			})
		}
	}

	for _, m := range out.Result.Merges {
		a.pops = append(a.pops, engine.Cell{Row: m.Row, Col: m.Col})
	}
	if out.Spawn != nil {
		a.pops = append(a.pops, engine.Cell{Row: out.Spawn.Row, Col: out.Spawn.Col})
	}

	switch {
	case a.slideTicks > 0:
		a.phase = PhaseSlide
	case a.popTicks > 0 && len(a.pops) > 0:
		a.phase = PhasePop
	default:
		a.stop()
	}
}

// active reports whether an animation is playing.
func (a *animator) active() bool {
	return a.phase != PhaseNone
}

// update advances the animation by one tick.
// Returns true on the tick the animation finishes.
func (a *animator) update() bool {
	if a.phase == PhaseNone {
		return false
	}

	a.ticks++

	var duration int
	switch a.phase {
	case PhaseSlide:
		duration = a.slideTicks
	case PhasePop:
		duration = a.popTicks
	}

	a.progress = float64(a.ticks) / float64(duration)
	if a.progress > 1.0 {
		a.progress = 1.0
	}
	for i := range a.sliding {
		a.sliding[i].Progress = a.progress
	}

	if a.ticks < duration {
		return false
	}

	if a.phase == PhaseSlide && a.popTicks > 0 && len(a.pops) > 0 {
		a.phase = PhasePop
		a.ticks = 0
		a.progress = 0
		return false
	}

	a.stop()
	return true
}

// stop drops any animation in progress.
func (a *animator) stop() {
	a.phase = PhaseNone
	a.ticks = 0
	a.progress = 0
	a.sliding = nil
	a.pops = nil
}

// popping reports whether the cell is highlighted in the pop phase.
func (a *animator) popping(row, col int) bool {
	if a.phase != PhasePop {
		return false
	}
	for _, p := range a.pops {
		if p.Row == row && p.Col == col {
			return true
		}
	}
	return false
}

// easeOutQuad provides smooth deceleration for animation.
func easeOutQuad(t float64) float64 {
	return t * (2 - t)
}

// interpolatePosition calculates the current position during animation, in cells.
func (t *TileAnimation) interpolatePosition() (row, col float64) {
	p := easeOutQuad(t.Progress)
	row = float64(t.FromRow) + (float64(t.ToRow)-float64(t.FromRow))*p
	col = float64(t.FromCol) + (float64(t.ToCol)-float64(t.FromCol))*p
	return row, col
}
