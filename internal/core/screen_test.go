package core

import (
	"strings"
	"testing"
)

func TestNewScreen(t *testing.T) {
	s := NewScreen(30, 12)

	if s.Width() != 30 || s.Height() != 12 {
		t.Errorf("dimensions = %dx%d, expected 30x12", s.Width(), s.Height())
	}
	for y := 0; y < s.Height(); y++ {
		for x := 0; x < s.Width(); x++ {
			if c := s.GetCell(x, y); c != (Cell{Rune: ' '}) {
				t.Fatalf("New screen should be blank, got %+v at (%d, %d)", c, x, y)
			}
		}
	}
}

func TestScreenSetKeepsColors(t *testing.T) {
	s := NewScreen(10, 3)
	s.SetCell(2, 1, Cell{Rune: 'x', Color: ColorRed, Background: ColorBeige})
	s.Set(2, 1, '4')

	got := s.GetCell(2, 1)
	if got.Rune != '4' || got.Color != ColorRed || got.Background != ColorBeige {
		t.Errorf("Set() should only replace the rune, got %+v", got)
	}

	// Out of bounds is silent
	s.Set(-1, 0, 'A')
	s.SetCell(10, 0, Cell{Rune: 'A'})
	if s.Get(-1, 0) != ' ' || s.GetCell(0, 99) != (Cell{Rune: ' '}) {
		t.Error("Out of bounds reads should return a blank cell")
	}
}

func TestScreenDrawTextColor(t *testing.T) {
	s := NewScreen(12, 2)
	s.DrawTextColor(1, 0, "2048", ColorBrightWhite, ColorGold)

	for i, ch := range "2048" {
		c := s.GetCell(1+i, 0)
		if c.Rune != ch || c.Color != ColorBrightWhite || c.Background != ColorGold {
			t.Errorf("cell %d = %+v", i, c)
		}
	}
	if s.GetCell(5, 0).Background != ColorDefault {
		t.Error("DrawTextColor should not paint past the text")
	}

	// Clipped at the right edge
	s.DrawText(10, 1, "abc")
	if s.Get(10, 1) != 'a' || s.Get(11, 1) != 'b' {
		t.Error("Text should be clipped at right boundary")
	}
}

func TestScreenFillRectAndClear(t *testing.T) {
	s := NewScreen(8, 6)
	s.FillRect(NewRect(1, 1, 3, 2), ColorPeach)

	if s.GetCell(1, 1).Background != ColorPeach || s.GetCell(3, 2).Background != ColorPeach {
		t.Error("FillRect should paint its area")
	}
	if s.GetCell(4, 1).Background != ColorDefault || s.GetCell(1, 3).Background != ColorDefault {
		t.Error("FillRect should not paint outside its area")
	}

	s.Clear()
	if s.GetCell(1, 1) != (Cell{Rune: ' '}) {
		t.Error("Clear should reset colors as well as runes")
	}
}

func TestScreenDrawBox(t *testing.T) {
	s := NewScreen(10, 10)
	s.DrawBox(NewRect(1, 1, 5, 4))

	corners := map[[2]int]rune{
		{1, 1}: '┌', {5, 1}: '┐', {1, 4}: '└', {5, 4}: '┘',
	}
	for pos, want := range corners {
		if got := s.Get(pos[0], pos[1]); got != want {
			t.Errorf("corner at %v = %q, expected %q", pos, got, want)
		}
	}
	if s.Get(3, 1) != '─' || s.Get(1, 2) != '│' {
		t.Error("Box edges not drawn")
	}
}

func TestScreenStringAndResize(t *testing.T) {
	s := NewScreen(5, 2)
	s.DrawText(0, 0, "AAAAA")
	s.DrawTextColor(0, 1, "BBBBB", ColorRed, ColorDefault)

	if got := s.String(); got != "AAAAA\nBBBBB" {
		t.Errorf("String() = %q", got)
	}

	s.Resize(3, 1)
	if s.Row(0) != "AAA" {
		t.Errorf("Resize smaller lost content: %q", s.Row(0))
	}
	s.Resize(6, 3)
	if !strings.HasPrefix(s.Row(0), "AAA") || s.Row(2) != "      " {
		t.Errorf("Resize larger: rows %q / %q", s.Row(0), s.Row(2))
	}
	if s.Row(-1) != "      " {
		t.Error("Out of bounds row should be spaces")
	}
}

func TestInputFrame(t *testing.T) {
	f := NewInputFrame()
	if !f.Empty() {
		t.Error("new frame should be empty")
	}
	f.Set(ActionLeft)
	if !f.Has(ActionLeft) || f.Has(ActionRight) || f.Empty() {
		t.Error("Set/Has mismatch")
	}
	f.Clear()
	if !f.Empty() {
		t.Error("Clear should empty the frame")
	}
	if ActionKeepPlaying.String() != "KeepPlaying" || Action(99).String() != "Unknown" {
		t.Error("unexpected action names")
	}
}
