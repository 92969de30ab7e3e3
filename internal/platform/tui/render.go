package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/merge2048/internal/core"
)

// palette maps core.Color to ANSI 256-color codes. ColorDefault has no entry.
var palette = map[core.Color]lipgloss.Color{
	core.ColorRed:         "1",
	core.ColorGreen:       "2",
	core.ColorYellow:      "3",
	core.ColorBlue:        "4",
	core.ColorMagenta:     "5",
	core.ColorCyan:        "6",
	core.ColorWhite:       "7",
	core.ColorBrightWhite: "15",
	core.ColorGray:        "245",
	core.ColorDarkGray:    "240",
	core.ColorBlack:       "16",

	core.ColorIvory:      "255",
	core.ColorBeige:      "230",
	core.ColorPeach:      "216",
	core.ColorOrange:     "208",
	core.ColorCoral:      "209",
	core.ColorTomato:     "202",
	core.ColorSand:       "222",
	core.ColorGold:       "221",
	core.ColorAmber:      "214",
	core.ColorMustard:    "178",
	core.ColorYellowGold: "220",
	core.ColorPurple:     "99",
}

// cellStyle is the foreground/background pair a run of cells shares.
type cellStyle struct {
	fg, bg core.Color
}

// styleFor returns the lipgloss style for a color pair.
func styleFor(cs cellStyle) lipgloss.Style {
	st := lipgloss.NewStyle()
	if c, ok := palette[cs.fg]; ok {
		st = st.Foreground(c)
	}
	if c, ok := palette[cs.bg]; ok {
		st = st.Background(c)
	}
	return st
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same colors to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			cell := s.GetCell(x, y)
			start := cellStyle{fg: cell.Color, bg: cell.Background}

			var run strings.Builder
			for x < s.Width() {
				cell = s.GetCell(x, y)
				if (cellStyle{fg: cell.Color, bg: cell.Background}) != start {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			if start == (cellStyle{}) {
				sb.WriteString(run.String())
				continue
			}
			sb.WriteString(styleFor(start).Render(run.String()))
		}
	}
	return sb.String()
}
