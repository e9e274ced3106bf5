// Package help draws a single line of key binding hints.
package help

import (
	"github.com/gdamore/tcell/v3"

	"github.com/ayn2op/virtview"
	"github.com/ayn2op/virtview/keybind"
)

type KeyMap interface {
	// ShortHelp returns the keybinds shown in the help line, in order.
	ShortHelp() []keybind.Keybind
}

type Styles struct {
	KeyStyle       tcell.Style
	DescStyle      tcell.Style
	SeparatorStyle tcell.Style
	EllipsisStyle  tcell.Style
}

func DefaultStyles() Styles {
	dim := tcell.StyleDefault.Dim(true)
	return Styles{
		KeyStyle:       dim,
		DescStyle:      tcell.StyleDefault,
		SeparatorStyle: dim,
		EllipsisStyle:  dim,
	}
}

// Help shows as many hints of a key map as fit into one line. When hints are
// left out, an ellipsis marks the truncation.
type Help struct {
	*virtview.Box
	Styles Styles

	keyMaps   []KeyMap
	separator string
	ellipsis  string
}

func New() *Help {
	return &Help{
		Box:       virtview.NewBox(),
		Styles:    DefaultStyles(),
		separator: " • ",
		ellipsis:  "…",
	}
}

// SetKeyMaps sets the key maps whose hints are shown, in order.
func (h *Help) SetKeyMaps(keyMaps ...KeyMap) *Help {
	h.keyMaps = keyMaps
	h.MarkDirty()
	return h
}

// SetSeparator sets the separator drawn between hints.
func (h *Help) SetSeparator(separator string) *Help {
	h.separator = separator
	h.MarkDirty()
	return h
}

type segment struct {
	text  string
	style tcell.Style
}

// Draw draws this primitive onto the screen.
func (h *Help) Draw(screen tcell.Screen) {
	h.DrawForSubclass(screen, h)
	defer h.MarkClean()

	x, y, width, height := h.GetInnerRect()
	if height <= 0 {
		return
	}

	for _, s := range h.segments(width) {
		printed := virtview.Print(screen, s.text, x, y, width, virtview.AlignmentLeft, s.style)
		x += printed
		width -= printed
	}
}

// Line returns the plain text of the help line for the given width.
func (h *Help) Line(width int) string {
	var line string
	for _, s := range h.segments(width) {
		line += s.text
	}
	return line
}

func (h *Help) segments(maxWidth int) []segment {
	var items [][]segment
	for _, keyMap := range h.keyMaps {
		for _, kb := range keyMap.ShortHelp() {
			if item := h.itemSegments(kb); len(item) > 0 {
				items = append(items, item)
			}
		}
	}

	var out []segment
	for i, item := range items {
		candidate := append([]segment(nil), out...)
		if i > 0 {
			candidate = append(candidate, segment{text: h.separator, style: h.Styles.SeparatorStyle})
		}
		candidate = append(candidate, item...)
		if segmentsWidth(candidate) > maxWidth {
			// The ellipsis is only added when it fits completely.
			tail := segment{text: " " + h.ellipsis, style: h.Styles.EllipsisStyle}
			if len(out) > 0 && segmentsWidth(out)+virtview.StringWidth(tail.text) <= maxWidth {
				out = append(out, tail)
			}
			return out
		}
		out = candidate
	}
	return out
}

func (h *Help) itemSegments(kb keybind.Keybind) []segment {
	if !kb.Enabled() {
		return nil
	}
	help := kb.Help()
	switch {
	case help.Key == "" && help.Desc == "":
		return nil
	case help.Key == "":
		return []segment{{text: help.Desc, style: h.Styles.DescStyle}}
	case help.Desc == "":
		return []segment{{text: help.Key, style: h.Styles.KeyStyle}}
	default:
		return []segment{{text: help.Key, style: h.Styles.KeyStyle}, {text: " " + help.Desc, style: h.Styles.DescStyle}}
	}
}

func segmentsWidth(segments []segment) int {
	width := 0
	for _, s := range segments {
		width += virtview.StringWidth(s.text)
	}
	return width
}
