package virtview

import "github.com/gdamore/tcell/v3"

const subcell = 8

// GlyphSet defines the vertical track and fractional thumb glyphs.
type GlyphSet struct {
	TrackVertical string

	ThumbVerticalLower [8]string
	ThumbVerticalUpper [8]string
}

// MinimalGlyphSet returns a space track with legacy-computing fractional
// thumbs.
func MinimalGlyphSet() GlyphSet {
	g := LegacyComputingGlyphSet()
	g.TrackVertical = " "
	return g
}

// LegacyComputingGlyphSet returns legacy-computing symbols for full 1/8
// fractional fidelity.
func LegacyComputingGlyphSet() GlyphSet {
	return GlyphSet{
		TrackVertical: "│",

		ThumbVerticalLower: [8]string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"},
		ThumbVerticalUpper: [8]string{"▔", "🮂", "🮃", "▀", "🮄", "🮅", "🮆", "█"},
	}
}

// UnicodeGlyphSet returns a standard-unicode-only approximation set.
func UnicodeGlyphSet() GlyphSet {
	return GlyphSet{
		TrackVertical: "│",

		ThumbVerticalLower: [8]string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"},
		ThumbVerticalUpper: [8]string{"▔", "▔", "▀", "▀", "▀", "▀", "█", "█"},
	}
}

// ScrollBar renders a vertical scroll bar whose thumb is proportional to the
// viewport's share of the content.
type ScrollBar struct {
	*Box

	autoHide    bool
	contentLen  int
	viewportLen int
	offset      int

	trackStyle tcell.Style
	thumbStyle tcell.Style

	glyphSet GlyphSet
}

// NewScrollBar returns a new vertical scroll bar.
func NewScrollBar() *ScrollBar {
	return &ScrollBar{
		Box:        NewBox(),
		autoHide:   true,
		trackStyle: tcell.StyleDefault.Dim(true),
		thumbStyle: tcell.StyleDefault.Foreground(Styles.ScrollBarColor),
		glyphSet:   MinimalGlyphSet(),
	}
}

// SetLengths sets content and viewport lengths, in rows.
func (s *ScrollBar) SetLengths(contentLen, viewportLen int) *ScrollBar {
	contentLen, viewportLen = max(contentLen, 0), max(viewportLen, 0)
	if s.contentLen != contentLen || s.viewportLen != viewportLen {
		s.contentLen, s.viewportLen = contentLen, viewportLen
		s.MarkDirty()
	}
	return s
}

// SetOffset sets the scroll offset, in rows.
func (s *ScrollBar) SetOffset(offset int) *ScrollBar {
	offset = max(offset, 0)
	if s.offset != offset {
		s.offset = offset
		s.MarkDirty()
	}
	return s
}

// SetGlyphSet applies a glyph set.
func (s *ScrollBar) SetGlyphSet(g GlyphSet) *ScrollBar {
	s.glyphSet = g
	s.MarkDirty()
	return s
}

// SetAutoHide controls whether the scroll bar is hidden when there is nothing
// to scroll.
func (s *ScrollBar) SetAutoHide(autoHide bool) *ScrollBar {
	s.autoHide = autoHide
	return s
}

// SetThumbStyle sets the thumb style.
func (s *ScrollBar) SetThumbStyle(style tcell.Style) *ScrollBar {
	s.thumbStyle = style
	return s
}

// SetTrackStyle sets the track style.
func (s *ScrollBar) SetTrackStyle(style tcell.Style) *ScrollBar {
	s.trackStyle = style
	return s
}

func (s *ScrollBar) viewportLength(length int) int {
	if s.viewportLen > 0 {
		return s.viewportLen
	}
	return max(length, 0)
}

type scrollMetrics struct {
	trackCells int
	trackLen   int
	thumbLen   int
	thumbStart int
}

func computeScrollMetrics(trackCells int, contentLen int, viewportLen int, offset int) scrollMetrics {
	trackLen := trackCells * subcell
	if trackLen == 0 {
		return scrollMetrics{}
	}

	contentLen = max(contentLen, 1)
	viewportLen = min(max(viewportLen, 1), contentLen)
	maxOffset := max(contentLen-viewportLen, 0)
	offset = min(max(offset, 0), maxOffset)

	if maxOffset == 0 {
		return scrollMetrics{trackCells: trackCells, trackLen: trackLen, thumbLen: trackLen}
	}

	// Subcell units let the thumb move in 1/8-cell steps.
	thumbLen := min(max((trackLen*viewportLen)/contentLen, subcell), trackLen)
	thumbTravel := max(trackLen-thumbLen, 0)
	thumbStart := (thumbTravel * offset) / maxOffset
	return scrollMetrics{trackCells: trackCells, trackLen: trackLen, thumbLen: thumbLen, thumbStart: thumbStart}
}

// Visible reports whether the bar draws anything at the given height.
func (s *ScrollBar) Visible(length int) bool {
	if length <= 0 || s.contentLen <= 0 {
		return false
	}
	if s.autoHide {
		return s.contentLen > min(s.viewportLength(length), s.contentLen)
	}
	return true
}

func cellFill(m scrollMetrics, cellIndex int) (start int, fillLen int) {
	if m.thumbLen == 0 {
		return 0, 0
	}
	cellStart := cellIndex * subcell
	cellEnd := cellStart + subcell
	thumbEnd := m.thumbStart + m.thumbLen
	start = max(m.thumbStart, cellStart)
	end := min(thumbEnd, cellEnd)
	if end <= start {
		return 0, 0
	}
	fillLen = min(end-start, subcell)
	start = min(max(start-cellStart, 0), subcell)
	return start, fillLen
}

func (s *ScrollBar) glyphForVertical(start, fillLen int) (string, tcell.Style) {
	if fillLen <= 0 {
		return s.glyphSet.TrackVertical, s.trackStyle
	}
	if fillLen >= subcell {
		return s.glyphSet.ThumbVerticalLower[7], s.thumbStyle
	}
	ix := fillLen - 1
	if start == 0 {
		return s.glyphSet.ThumbVerticalUpper[ix], s.thumbStyle
	}
	return s.glyphSet.ThumbVerticalLower[ix], s.thumbStyle
}

// Draw draws the scroll bar.
func (s *ScrollBar) Draw(screen tcell.Screen) {
	s.DrawForSubclass(screen, s)
	defer s.MarkClean()

	x, y, _, height := s.GetInnerRect()
	if !s.Visible(height) {
		return
	}

	m := computeScrollMetrics(height, s.contentLen, s.viewportLength(height), s.offset)
	for cell := range m.trackCells {
		start, fillLen := cellFill(m, cell)
		glyph, style := s.glyphForVertical(start, fillLen)
		screen.Put(x, y+cell, glyph, style)
	}
}

var _ Primitive = &ScrollBar{}
