package virtview

import "github.com/gdamore/tcell/v3"

// Primitive is the top-most interface for all graphical primitives.
type Primitive interface {
	// Draw draws this primitive onto the screen.
	Draw(screen tcell.Screen)

	// GetRect returns the current position of the primitive, x, y, width, and
	// height.
	GetRect() (int, int, int, int)
	// SetRect sets a new position of the primitive.
	SetRect(x, y, width, height int)

	// InputHandler receives key events when this primitive has focus.
	InputHandler(event *tcell.EventKey) Command
	// MouseHandler receives mouse events.
	// The returned capture primitive (if non-nil) receives follow-up mouse events until the capture is released.
	MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command)

	// HasFocus determines if the primitive has focus.
	HasFocus() bool
	// Focus is called by the application when the primitive receives focus.
	Focus(delegate func(p Primitive))
	// Blur is called by the application when the primitive loses focus.
	Blur()
}

// Measurable is implemented by primitives that can report the height they
// need for a given width. VirtualList reads it after laying a row out and
// feeds the result back into its size cache. Rows that do not implement it
// keep the estimated height.
type Measurable interface {
	Height(width int) int
}

// Selectable is implemented by rows that render differently when they are
// under the list cursor.
type Selectable interface {
	SetSelected(selected bool)
}
