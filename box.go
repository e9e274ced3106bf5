package virtview

import (
	"sync/atomic"

	"github.com/gdamore/tcell/v3"
)

// Box implements the Primitive interface with an empty background and optional
// elements such as a border and a title. Box itself does not hold any content
// but serves as the superclass of all other primitives. Subclasses add their
// own content, typically keeping it within the box's inner rectangle.
type Box struct {
	// The position of the rect.
	x, y, width, height int

	// The inner rect reserved for the box's content. If innerX is negative,
	// the rect is undefined and must be calculated.
	innerX, innerY, innerWidth, innerHeight int

	// Border padding.
	paddingTop, paddingBottom, paddingLeft, paddingRight int

	// The box's background color.
	backgroundColor tcell.Color

	// Border
	borders     Borders
	borderSet   BorderSet
	borderStyle tcell.Style

	// Title
	title          string
	titleStyle     tcell.Style
	titleAlignment Alignment

	// Whether or not this box has focus.
	hasFocus bool

	// dirty indicates whether this primitive needs to be redrawn.
	dirty atomic.Bool
	// dirtyParent is marked dirty when this box goes from clean to dirty.
	dirtyParent atomic.Pointer[Box]

	// Optional callback functions invoked when the primitive receives or loses
	// focus.
	focus, blur func()
}

// NewBox returns a Box without a border.
func NewBox() *Box {
	b := &Box{
		width:           15,
		height:          10,
		innerX:          -1, // Mark as uninitialized.
		backgroundColor: Styles.PrimitiveBackgroundColor,

		borderStyle: tcell.StyleDefault.Foreground(Styles.BorderColor).Background(Styles.PrimitiveBackgroundColor),
		borderSet:   BorderSetPlain(),

		titleStyle:     tcell.StyleDefault.Foreground(Styles.TitleColor),
		titleAlignment: AlignmentCenter,
	}
	b.dirty.Store(true)
	return b
}

// SetBorderPadding sets the size of the borders around the box content.
func (b *Box) SetBorderPadding(top, bottom, left, right int) *Box {
	if b.paddingTop != top || b.paddingBottom != bottom || b.paddingLeft != left || b.paddingRight != right {
		b.paddingTop, b.paddingBottom, b.paddingLeft, b.paddingRight = top, bottom, left, right
		b.innerX = -1 // Mark inner rect as uninitialized.
		b.MarkDirty()
	}
	return b
}

// GetRect returns the current position of the rectangle, x, y, width, and
// height.
func (b *Box) GetRect() (int, int, int, int) {
	return b.x, b.y, b.width, b.height
}

// GetInnerRect returns the position of the inner rectangle (x, y, width,
// height), without the border and without any padding. Width and height values
// will clamp to 0 and thus never be negative.
func (b *Box) GetInnerRect() (int, int, int, int) {
	if b.innerX >= 0 {
		return b.innerX, b.innerY, b.innerWidth, b.innerHeight
	}

	left, top, right, bottom := b.chrome()
	x, y, width, height := b.GetRect()
	return x + left, y + top, max(width-left-right, 0), max(height-top-bottom, 0)
}

// chrome returns the number of cells taken by borders, title and padding on
// each side.
func (b *Box) chrome() (left, top, right, bottom int) {
	if b.title != "" || b.borders.Has(BordersTop) {
		top++
	}
	if b.borders.Has(BordersBottom) {
		bottom++
	}
	if b.borders.Has(BordersLeft) {
		left++
	}
	if b.borders.Has(BordersRight) {
		right++
	}
	return left + b.paddingLeft, top + b.paddingTop, right + b.paddingRight, bottom + b.paddingBottom
}

// SetRect sets a new position of the primitive.
func (b *Box) SetRect(x, y, width, height int) {
	if b.x != x || b.y != y || b.width != width || b.height != height {
		b.x = x
		b.y = y
		b.width = width
		b.height = height
		b.innerX = -1 // Mark inner rect as uninitialized.
		b.MarkDirty()
	}
}

// IsDirty returns whether this primitive needs redrawing.
func (b *Box) IsDirty() bool {
	return b.dirty.Load()
}

// MarkDirty marks this primitive as needing a redraw.
func (b *Box) MarkDirty() {
	if b.dirty.Swap(true) {
		return
	}
	if parent := b.dirtyParent.Load(); parent != nil {
		parent.MarkDirty()
	}
}

// MarkClean marks this primitive as clean.
func (b *Box) MarkClean() {
	b.dirty.Store(false)
}

func (b *Box) setDirtyParent(parent *Box) {
	if parent == nil || parent == b {
		return
	}
	b.dirtyParent.Store(parent)
}

func (b *Box) clearDirtyParent(parent *Box) {
	if parent == nil {
		return
	}
	b.dirtyParent.CompareAndSwap(parent, nil)
}

type dirtyParentSetter interface {
	setDirtyParent(parent *Box)
	clearDirtyParent(parent *Box)
}

// BindDirtyParent makes child mark parent dirty whenever child becomes dirty.
// Containers use it so that the application redraws them when a child
// changes outside of input handling.
func BindDirtyParent(child Primitive, parent *Box) {
	if child == nil || parent == nil {
		return
	}
	if setter, ok := child.(dirtyParentSetter); ok {
		setter.setDirtyParent(parent)
	}
}

// UnbindDirtyParent undoes BindDirtyParent.
func UnbindDirtyParent(child Primitive, parent *Box) {
	if child == nil || parent == nil {
		return
	}
	if setter, ok := child.(dirtyParentSetter); ok {
		setter.clearDirtyParent(parent)
	}
}

// InputHandler returns no command.
func (b *Box) InputHandler(event *tcell.EventKey) Command {
	return nil
}

// MouseHandler returns no command and captures nothing.
func (b *Box) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	return nil, nil
}

// InRect returns true if the given coordinate is within the bounds of the box's
// rectangle.
func (b *Box) InRect(x, y int) bool {
	rectX, rectY, width, height := b.GetRect()
	return x >= rectX && x < rectX+width && y >= rectY && y < rectY+height
}

// InInnerRect returns true if the given coordinate is within the bounds of the
// box's inner rectangle (within the border and padding).
func (b *Box) InInnerRect(x, y int) bool {
	rectX, rectY, width, height := b.GetInnerRect()
	return x >= rectX && x < rectX+width && y >= rectY && y < rectY+height
}

// SetBackgroundColor sets the box's background color.
func (b *Box) SetBackgroundColor(color tcell.Color) *Box {
	if b.backgroundColor != color {
		b.backgroundColor = color
		b.borderStyle = b.borderStyle.Background(color)
		b.MarkDirty()
	}
	return b
}

// GetBackgroundColor returns the box's background color.
func (b *Box) GetBackgroundColor() tcell.Color {
	return b.backgroundColor
}

// SetBorders sets which borders to draw.
func (b *Box) SetBorders(flag Borders) *Box {
	if b.borders != flag {
		b.borders = flag
		b.innerX = -1 // Mark inner rect as uninitialized.
		b.MarkDirty()
	}
	return b
}

// SetBorderSet sets the glyphs used for borders.
func (b *Box) SetBorderSet(borderSet BorderSet) *Box {
	if b.borderSet != borderSet {
		b.borderSet = borderSet
		b.MarkDirty()
	}
	return b
}

// SetBorderStyle sets the box's border style.
func (b *Box) SetBorderStyle(style tcell.Style) *Box {
	if b.borderStyle != style {
		b.borderStyle = style
		b.MarkDirty()
	}
	return b
}

// GetTitle returns the box's current title.
func (b *Box) GetTitle() string {
	return b.title
}

// SetTitle sets the box's title.
func (b *Box) SetTitle(title string) *Box {
	if b.title != title {
		b.title = title
		b.innerX = -1 // Mark inner rect as uninitialized.
		b.MarkDirty()
	}
	return b
}

// SetTitleAlignment sets the alignment of the title.
func (b *Box) SetTitleAlignment(alignment Alignment) *Box {
	if b.titleAlignment != alignment {
		b.titleAlignment = alignment
		b.MarkDirty()
	}
	return b
}

// Draw draws this primitive onto the screen.
func (b *Box) Draw(screen tcell.Screen) {
	b.DrawForSubclass(screen, b)
}

// DrawForSubclass draws this box under the assumption that primitive p is a
// subclass of this box.
//
// Only call this function from your own custom primitives.
func (b *Box) DrawForSubclass(screen tcell.Screen, p Primitive) {
	// Don't draw anything if there is no space.
	if b.width <= 0 || b.height <= 0 {
		return
	}

	background := tcell.StyleDefault.Background(b.backgroundColor)
	for y := b.y; y < b.y+b.height; y++ {
		for x := b.x; x < b.x+b.width; x++ {
			screen.Put(x, y, " ", background)
		}
	}

	if b.borders != BordersNone {
		b.drawBorders(screen)
	}

	if b.title != "" && b.width >= 4 {
		printed := Print(screen, b.title, b.x+1, b.y, b.width-2, b.titleAlignment, b.titleStyle)
		if printed < StringWidth(b.title) {
			xEllipsis := b.x + b.width - 2
			if b.titleAlignment == AlignmentRight {
				xEllipsis = b.x + 1
			}
			screen.Put(xEllipsis, b.y, horizontalEllipsis, b.titleStyle)
		}
	}

	// Remember the inner rect.
	b.innerX = -1
	b.innerX, b.innerY, b.innerWidth, b.innerHeight = b.GetInnerRect()
}

func (b *Box) drawBorders(screen tcell.Screen) {
	right, bottom := b.x+b.width-1, b.y+b.height-1

	// Sides stop short of a corner only when the adjoining side is drawn.
	x0, x1, y0, y1 := b.x, right, b.y, bottom
	if b.borders.Has(BordersLeft) {
		x0++
	}
	if b.borders.Has(BordersRight) {
		x1--
	}
	if b.borders.Has(BordersTop) {
		y0++
	}
	if b.borders.Has(BordersBottom) {
		y1--
	}

	if b.borders.Has(BordersTop) {
		for x := x0; x <= x1; x++ {
			screen.Put(x, b.y, b.borderSet.Top, b.borderStyle)
		}
	}
	if b.borders.Has(BordersBottom) {
		for x := x0; x <= x1; x++ {
			screen.Put(x, bottom, b.borderSet.Bottom, b.borderStyle)
		}
	}
	if b.borders.Has(BordersLeft) {
		for y := y0; y <= y1; y++ {
			screen.Put(b.x, y, b.borderSet.Left, b.borderStyle)
		}
	}
	if b.borders.Has(BordersRight) {
		for y := y0; y <= y1; y++ {
			screen.Put(right, y, b.borderSet.Right, b.borderStyle)
		}
	}

	// Corners need both adjoining sides.
	if b.borders.Has(BordersTop) && b.borders.Has(BordersLeft) {
		screen.Put(b.x, b.y, b.borderSet.TopLeft, b.borderStyle)
	}
	if b.borders.Has(BordersTop) && b.borders.Has(BordersRight) {
		screen.Put(right, b.y, b.borderSet.TopRight, b.borderStyle)
	}
	if b.borders.Has(BordersBottom) && b.borders.Has(BordersLeft) {
		screen.Put(b.x, bottom, b.borderSet.BottomLeft, b.borderStyle)
	}
	if b.borders.Has(BordersBottom) && b.borders.Has(BordersRight) {
		screen.Put(right, bottom, b.borderSet.BottomRight, b.borderStyle)
	}
}

// SetFocusFunc sets a callback function which is invoked when this primitive
// receives focus. Set to nil to remove the callback function.
func (b *Box) SetFocusFunc(callback func()) *Box {
	b.focus = callback
	return b
}

// SetBlurFunc sets a callback function which is invoked when this primitive
// loses focus. Set to nil to remove the callback function.
func (b *Box) SetBlurFunc(callback func()) *Box {
	b.blur = callback
	return b
}

// Focus is called when this primitive directly receives focus.
func (b *Box) Focus(delegate func(p Primitive)) {
	if !b.hasFocus {
		b.hasFocus = true
		b.MarkDirty()
	}
	if b.focus != nil {
		b.focus()
	}
}

// Blur is called when this primitive directly loses focus.
func (b *Box) Blur() {
	if b.hasFocus {
		b.hasFocus = false
		b.MarkDirty()
	}
	if b.blur != nil {
		b.blur()
	}
}

// HasFocus returns whether or not this primitive has focus.
func (b *Box) HasFocus() bool {
	return b.hasFocus
}
