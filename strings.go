package virtview

import (
	"strings"

	"github.com/rivo/uniseg"
)

// stepState represents the current state of the grapheme parser.
type stepState struct {
	unisegState int
	boundaries  int
	grossLength int
}

// LineBreak returns whether the string can be broken into the next line after
// the returned grapheme cluster.
func (s *stepState) LineBreak() (lineBreak, optional bool) {
	switch s.boundaries & uniseg.MaskLine {
	case uniseg.LineCanBreak:
		return true, true
	case uniseg.LineMustBreak:
		return true, false
	}
	return false, false
}

// Width returns the grapheme cluster's width in cells.
func (s *stepState) Width() int {
	return s.boundaries >> uniseg.ShiftWidth
}

// GrossLength returns the grapheme cluster's length in bytes.
func (s *stepState) GrossLength() int {
	return s.grossLength
}

// step iterates over grapheme clusters of a string.
func step(str string, state *stepState) (cluster, rest string, newState *stepState) {
	if state == nil {
		state = &stepState{
			unisegState: -1,
		}
	}
	if len(str) == 0 {
		newState = state
		return
	}

	cluster, rest, state.boundaries, state.unisegState = uniseg.StepString(str, state.unisegState)
	state.grossLength = len(cluster)
	if rest == "" && !uniseg.HasTrailingLineBreakInString(cluster) {
		state.boundaries &^= uniseg.MaskLine
	}

	newState = state
	return
}

// StringWidth returns the number of cells needed to print text on screen.
func StringWidth(text string) (width int) {
	var state *stepState
	for len(text) > 0 {
		_, text, state = step(text, state)
		width += state.Width()
	}
	return
}

// wrapText splits text into lines no wider than width cells. Lines break at
// the last permitted break opportunity; a word wider than the whole line is
// broken between grapheme clusters. Mandatory breaks (newlines) always start
// a new line. Non-empty text yields at least one line.
func wrapText(text string, width int) []string {
	if width <= 0 {
		return nil
	}

	var (
		lines                     []string
		state                     *stepState
		lineStart, pos, lineWidth int
		lastOption                = -1
		lastOptionWidth           int
	)
	for str := text; len(str) > 0; {
		var cluster string
		cluster, str, state = step(str, state)
		clusterWidth := state.Width()

		// Whitespace at the end of a full line is swallowed by the break.
		if lineWidth+clusterWidth > width && cluster == " " {
			lines = append(lines, text[lineStart:pos])
			pos += state.GrossLength()
			lineStart, lineWidth = pos, 0
			lastOption, lastOptionWidth = -1, 0
			continue
		}

		for lineWidth > 0 && lineWidth+clusterWidth > width {
			if lastOption > lineStart {
				lines = append(lines, strings.TrimRight(text[lineStart:lastOption], " "))
				lineWidth -= lastOptionWidth
				lineStart = lastOption
			} else {
				lines = append(lines, text[lineStart:pos])
				lineStart, lineWidth = pos, 0
			}
			lastOption, lastOptionWidth = -1, 0
		}

		pos += state.GrossLength()
		lineWidth += clusterWidth

		if lineBreak, optional := state.LineBreak(); lineBreak {
			if optional {
				lastOption, lastOptionWidth = pos, lineWidth
			} else {
				lines = append(lines, strings.TrimRight(text[lineStart:pos], "\r\n"))
				lineStart, lineWidth = pos, 0
				lastOption, lastOptionWidth = -1, 0
			}
		}
	}
	if lineStart < len(text) || len(lines) == 0 {
		lines = append(lines, text[lineStart:])
	}
	return lines
}
