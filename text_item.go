package virtview

import "github.com/gdamore/tcell/v3"

// TextItem is a list row showing word-wrapped text. Its height depends on the
// width it is given, which makes it a natural row for VirtualList.
type TextItem struct {
	*Box

	text          string
	textStyle     tcell.Style
	selectedStyle tcell.Style
	selected      bool

	// Wrapped lines for wrapWidth, recomputed when either changes.
	lines     []string
	wrapWidth int
}

// NewTextItem returns a new text item.
func NewTextItem(text string) *TextItem {
	return &TextItem{
		Box:           NewBox(),
		text:          text,
		textStyle:     tcell.StyleDefault.Foreground(Styles.PrimaryTextColor).Background(Styles.PrimitiveBackgroundColor),
		selectedStyle: tcell.StyleDefault.Foreground(Styles.SelectedTextColor).Background(Styles.SelectedBackgroundColor),
		wrapWidth:     -1,
	}
}

// SetText sets the text of the item.
func (t *TextItem) SetText(text string) *TextItem {
	if t.text != text {
		t.text = text
		t.wrapWidth = -1
		t.MarkDirty()
	}
	return t
}

// GetText returns the text of the item.
func (t *TextItem) GetText() string {
	return t.text
}

// SetTextStyle sets the style of unselected text.
func (t *TextItem) SetTextStyle(style tcell.Style) *TextItem {
	t.textStyle = style
	t.MarkDirty()
	return t
}

// SetSelectedStyle sets the style used while the item is selected.
func (t *TextItem) SetSelectedStyle(style tcell.Style) *TextItem {
	t.selectedStyle = style
	t.MarkDirty()
	return t
}

// SetSelected implements Selectable.
func (t *TextItem) SetSelected(selected bool) {
	if t.selected != selected {
		t.selected = selected
		t.MarkDirty()
	}
}

// IsSelected returns whether the item is drawn as selected.
func (t *TextItem) IsSelected() bool {
	return t.selected
}

// Height implements Measurable. It returns the rows needed to show the whole
// text at the given width, borders, title and padding included.
func (t *TextItem) Height(width int) int {
	left, top, right, bottom := t.chrome()
	return max(len(t.wrap(width-left-right)), 1) + top + bottom
}

func (t *TextItem) wrap(width int) []string {
	if width != t.wrapWidth {
		t.lines = wrapText(t.text, width)
		t.wrapWidth = width
	}
	return t.lines
}

// Draw draws this primitive onto the screen.
func (t *TextItem) Draw(screen tcell.Screen) {
	t.DrawForSubclass(screen, t)
	defer t.MarkClean()

	x, y, width, height := t.GetInnerRect()
	if width <= 0 || height <= 0 {
		return
	}

	style := t.textStyle
	if t.selected {
		style = t.selectedStyle
		for row := y; row < y+height; row++ {
			for col := x; col < x+width; col++ {
				screen.Put(col, row, " ", style)
			}
		}
	}

	for i, line := range t.wrap(width) {
		if i >= height {
			break
		}
		Print(screen, line, x, y+i, width, AlignmentLeft, style)
	}
}

var (
	_ Primitive  = &TextItem{}
	_ Measurable = &TextItem{}
	_ Selectable = &TextItem{}
)
