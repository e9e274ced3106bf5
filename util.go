package virtview

import (
	"github.com/gdamore/tcell/v3"
	"github.com/rivo/uniseg"
)

type Alignment int

const (
	AlignmentLeft Alignment = iota
	AlignmentCenter
	AlignmentRight
)

// Print prints a single line of text into the box at (x,y,maxWidth,1),
// never exceeding it. Text that does not fit is cut at a grapheme cluster
// boundary. It returns the width in cells actually printed.
func Print(screen tcell.Screen, text string, x, y, maxWidth int, alignment Alignment, style tcell.Style) int {
	totalWidth, totalHeight := screen.Size()
	if maxWidth <= 0 || text == "" || y < 0 || y >= totalHeight {
		return 0
	}

	textWidth := StringWidth(text)
	switch alignment {
	case AlignmentRight:
		// Chop off clusters on the left until it fits.
		var state *stepState
		for len(text) > 0 && textWidth > maxWidth {
			_, text, state = step(text, state)
			textWidth -= state.Width()
		}
		x += maxWidth - textWidth
	case AlignmentCenter:
		if textWidth < maxWidth {
			x += (maxWidth - textWidth) / 2
		}
	}

	var (
		state   *stepState
		cluster string
		printed int
	)
	right := min(x+maxWidth, totalWidth)
	for len(text) > 0 {
		cluster, text, state = step(text, state)
		width := state.Width()
		if x+width > right {
			break
		}
		if width > 0 {
			screen.Put(x, y, cluster, style)
		}
		x += width
		printed += width
	}
	return printed
}

// clippedScreen restricts drawing to a rectangle of the underlying screen.
// Rows of a virtual list draw through it so that a row straddling the
// viewport edge cannot paint outside the list.
type clippedScreen struct {
	tcell.Screen
	x, y, width, height int
}

func newClippedScreen(screen tcell.Screen, x, y, width, height int) *clippedScreen {
	return &clippedScreen{
		Screen: screen,
		x:      x,
		y:      y,
		width:  width,
		height: height,
	}
}

func (s *clippedScreen) inBounds(x, y int) bool {
	return x >= s.x && x < s.x+s.width && y >= s.y && y < s.y+s.height
}

func (s *clippedScreen) Put(x int, y int, str string, style tcell.Style) (string, int) {
	if !s.inBounds(x, y) {
		return str, 0
	}
	return s.Screen.Put(x, y, str, style)
}

func (s *clippedScreen) PutStr(x int, y int, str string) {
	s.PutStrStyled(x, y, str, tcell.StyleDefault)
}

func (s *clippedScreen) PutStrStyled(x int, y int, str string, style tcell.Style) {
	if y < s.y || y >= s.y+s.height {
		return
	}

	gr := uniseg.NewGraphemes(str)
	for gr.Next() {
		cluster := gr.Str()
		width := max(uniseg.StringWidth(cluster), 1)
		if x >= s.x+s.width {
			return
		}
		if x >= s.x && x+width <= s.x+s.width {
			s.Screen.Put(x, y, cluster, style)
		}
		x += width
	}
}

func (s *clippedScreen) ShowCursor(x int, y int) {
	if !s.inBounds(x, y) {
		s.Screen.ShowCursor(-1, -1)
		return
	}
	s.Screen.ShowCursor(x, y)
}
