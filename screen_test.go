package virtview

import (
	"strings"

	"github.com/gdamore/tcell/v3"
	"github.com/rivo/uniseg"
)

// fakeScreen records the cells written to it. Only the methods used by the
// package are implemented; calling any other method panics.
type fakeScreen struct {
	tcell.Screen

	width, height int
	cells         [][]string
	styles        [][]tcell.Style

	shows, clears int
	finalized     bool
}

func newFakeScreen(width, height int) *fakeScreen {
	s := &fakeScreen{width: width, height: height}
	s.Clear()
	s.clears = 0
	return s
}

func (s *fakeScreen) Size() (int, int) {
	return s.width, s.height
}

func (s *fakeScreen) Put(x, y int, str string, style tcell.Style) (string, int) {
	if x < 0 || y < 0 || x >= s.width || y >= s.height || str == "" {
		return str, 0
	}
	cluster, rest, width, _ := uniseg.FirstGraphemeClusterInString(str, -1)
	s.cells[y][x] = cluster
	s.styles[y][x] = style
	return rest, width
}

func (s *fakeScreen) Clear() {
	s.clears++
	s.cells = make([][]string, s.height)
	s.styles = make([][]tcell.Style, s.height)
	for y := range s.cells {
		s.cells[y] = make([]string, s.width)
		s.styles[y] = make([]tcell.Style, s.width)
		for x := range s.cells[y] {
			s.cells[y][x] = " "
		}
	}
}

func (s *fakeScreen) Show()               { s.shows++ }
func (s *fakeScreen) HideCursor()         {}
func (s *fakeScreen) ShowCursor(_, _ int) {}
func (s *fakeScreen) Fini()               { s.finalized = true }

// row returns the text of row y with trailing blanks removed.
func (s *fakeScreen) row(y int) string {
	return strings.TrimRight(strings.Join(s.cells[y], ""), " ")
}

// rows returns every row of the screen.
func (s *fakeScreen) rows() []string {
	out := make([]string, s.height)
	for y := range out {
		out[y] = s.row(y)
	}
	return out
}

// fixedRow is a list row with a fixed measured height.
type fixedRow struct {
	*Box
	label    string
	height   int
	selected bool
}

func newFixedRow(label string, height int) *fixedRow {
	return &fixedRow{Box: NewBox(), label: label, height: height}
}

func (r *fixedRow) Height(int) int { return r.height }

func (r *fixedRow) SetSelected(selected bool) { r.selected = selected }

func (r *fixedRow) Draw(screen tcell.Screen) {
	r.DrawForSubclass(screen, r)
	x, y, width, height := r.GetInnerRect()
	label := r.label
	if r.selected {
		label = ">" + label
	}
	for i := range height {
		Print(screen, label, x, y+i, width, AlignmentLeft, tcell.StyleDefault)
	}
}
