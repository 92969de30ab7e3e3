package t2048

import (
	"fmt"
	"math"
	"strconv"

	"github.com/vovakirdan/merge2048/internal/core"
	"github.com/vovakirdan/merge2048/internal/games/t2048/engine"
)

const (
	cellWidth  = 7 // Width of each cell (including left border)
	cellHeight = 2 // Height of each cell (including top border)

	boardW    = engine.Size*cellWidth + 1
	boardH    = engine.Size*cellHeight + 1
	hudHeight = 3

	minScreenW = boardW + 2
	minScreenH = hudHeight + 1 + boardH + 3
)

// tileStyle returns the foreground and background colors of a tile.
func tileStyle(value int) (fg, bg core.Color) {
	switch value {
	case 2:
		return core.ColorBlack, core.ColorIvory
	case 4:
		return core.ColorBlack, core.ColorBeige
	case 8:
		return core.ColorBrightWhite, core.ColorPeach
	case 16:
		return core.ColorBrightWhite, core.ColorOrange
	case 32:
		return core.ColorBrightWhite, core.ColorCoral
	case 64:
		return core.ColorBrightWhite, core.ColorTomato
	case 128:
		return core.ColorBlack, core.ColorSand
	case 256:
		return core.ColorBlack, core.ColorGold
	case 512:
		return core.ColorBlack, core.ColorAmber
	case 1024:
		return core.ColorBlack, core.ColorMustard
	case 2048:
		return core.ColorBlack, core.ColorYellowGold
	default:
		return core.ColorBrightWhite, core.ColorPurple
	}
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}
	if g.sess == nil {
		return
	}

	boardX := (g.screenW - boardW) / 2
	boardY := hudHeight + 1

	g.renderHUD(dst, boardX)
	g.renderGrid(dst, boardX, boardY)

	if g.anim.phase == PhaseSlide {
		g.renderSliding(dst, boardX, boardY)
	} else {
		g.renderTiles(dst, boardX, boardY)
	}

	g.renderFooter(dst, boardX, boardY+boardH+1)
	g.renderOverlays(dst, core.NewRect(boardX, boardY, boardW, boardH))
}

// renderTooSmall shows a "window too small" message.
func (g *Game) renderTooSmall(dst *core.Screen) {
	y := g.screenH / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", minScreenW, minScreenH))
}

// renderHUD draws score, best score and progress info.
func (g *Game) renderHUD(dst *core.Screen, boardX int) {
	st := g.sess.State()

	title := "2 0 4 8"
	if g.mode == ModeEndless {
		title = "2 0 4 8  endless"
	}
	dst.DrawTextColor(boardX+(boardW-len(title))/2, 0, title, core.ColorYellow, core.ColorDefault)

	dst.DrawText(boardX, 1, fmt.Sprintf("Score %d", st.Score))
	best := fmt.Sprintf("Best %d", st.BestScore)
	dst.DrawText(boardX+boardW-len(best), 1, best)

	maxTile := engine.MaxTile(st.Grid)
	stage := "-"
	if s := StageFor(maxTile); s != nil {
		stage = s.Name
	}
	info := fmt.Sprintf("Stage: %s", stage)
	if next := NextStage(maxTile); next != nil {
		info += fmt.Sprintf("  next %d", next.Tile)
	}
	dst.DrawTextColor(boardX, 2, info, core.ColorGray, core.ColorDefault)
}

// renderGrid draws the 4x4 grid lines.
func (g *Game) renderGrid(dst *core.Screen, boardX, boardY int) {
	for y := range engine.Size + 1 {
		for x := range engine.Size + 1 {
			px := boardX + x*cellWidth
			py := boardY + y*cellHeight

			var corner rune
			switch {
			case y == 0 && x == 0:
				corner = '┌'
			case y == 0 && x == engine.Size:
				corner = '┐'
			case y == engine.Size && x == 0:
				corner = '└'
			case y == engine.Size && x == engine.Size:
				corner = '┘'
			case y == 0:
				corner = '┬'
			case y == engine.Size:
				corner = '┴'
			case x == 0:
				corner = '├'
			case x == engine.Size:
				corner = '┤'
			default:
				corner = '┼'
			}
			dst.SetCell(px, py, core.Cell{Rune: corner, Color: core.ColorDarkGray})

			if x < engine.Size {
				for i := 1; i < cellWidth; i++ {
					dst.SetCell(px+i, py, core.Cell{Rune: '─', Color: core.ColorDarkGray})
				}
			}
			if y < engine.Size {
				for i := 1; i < cellHeight; i++ {
					dst.SetCell(px, py+i, core.Cell{Rune: '│', Color: core.ColorDarkGray})
				}
			}
		}
	}
}

// renderTiles draws the committed board, highlighting cells in the pop phase.
func (g *Game) renderTiles(dst *core.Screen, boardX, boardY int) {
	grid := g.sess.State().Grid
	for r := range engine.Size {
		for c := range engine.Size {
			if grid[r][c] == 0 {
				continue
			}
			x := boardX + c*cellWidth + 1
			y := boardY + r*cellHeight + 1
			drawTile(dst, x, y, grid[r][c], g.anim.popping(r, c))
		}
	}
}

// renderSliding draws tiles at their interpolated positions.
func (g *Game) renderSliding(dst *core.Screen, boardX, boardY int) {
	for i := range g.anim.sliding {
		t := &g.anim.sliding[i]
		row, col := t.interpolatePosition()
		x := boardX + int(math.Round(col*cellWidth)) + 1
		y := boardY + int(math.Round(row*cellHeight)) + 1
		drawTile(dst, x, y, t.Value, false)
	}
}

// drawTile paints one tile's inner area with its value centered.
func drawTile(dst *core.Screen, x, y, value int, highlight bool) {
	fg, bg := tileStyle(value)
	inner := core.NewRect(x, y, cellWidth-1, cellHeight-1)
	dst.FillRect(inner, bg)

	label := strconv.Itoa(value)
	if highlight {
		label = "*" + label + "*"
		fg = core.ColorRed
	}
	pad := (inner.W - len(label)) / 2
	if pad < 0 {
		pad = 0
	}
	dst.DrawTextColor(x+pad, y+(inner.H-1)/2, label, fg, bg)
}

// renderFooter draws the title earned so far and the controls.
func (g *Game) renderFooter(dst *core.Screen, boardX, y int) {
	st := g.sess.State()
	dst.DrawText(boardX, y, TitleFor(st.Score).Name)
	if g.sess.CanUndo() {
		dst.DrawTextColor(boardX+boardW-len("undo ready"), y, "undo ready", core.ColorGreen, core.ColorDefault)
	}
	dst.DrawTextColor(boardX, y+1, g.Controls(), core.ColorGray, core.ColorDefault)
}

// renderOverlays draws game state overlays.
func (g *Game) renderOverlays(dst *core.Screen, board core.Rect) {
	st := g.sess.State()

	switch {
	case g.paused:
		g.drawOverlay(dst, board, "PAUSED", "Press P to resume")
	case g.sess.WinPending():
		g.drawOverlay(dst, board, "YOU REACHED "+strconv.Itoa(g.sess.WinThreshold())+"!",
			TitleFor(st.Score).Name, "C: keep going", "N: new game")
	case st.GameOver:
		g.drawOverlay(dst, board, "GAME OVER",
			fmt.Sprintf("Score %d", st.Score),
			TitleFor(st.Score).Name,
			"U: undo  R: restart")
	}
}

// drawOverlay draws a centered text box over the board.
func (g *Game) drawOverlay(dst *core.Screen, area core.Rect, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		if len(line) > maxLen {
			maxLen = len(line)
		}
	}

	box := area.CenterIn(maxLen+4, len(lines)+2)
	dst.FillRect(box, core.ColorDefault)
	dst.DrawBox(box)

	cx, _ := box.Center()
	for i, line := range lines {
		dst.DrawText(cx-len(line)/2, box.Y+1+i, line)
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "WASD/arrows  U undo  N new"
}
