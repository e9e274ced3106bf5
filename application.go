package virtview

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v3"

	"github.com/ayn2op/virtview/virtual"
)

// The size of the queued updates channel.
const updatesQueueSize = 100

// DoubleClickInterval specifies the maximum time between clicks to register a
// double click rather than click.
var DoubleClickInterval = 500 * time.Millisecond

// MouseAction indicates one of the actions the mouse is logically doing.
type MouseAction int16

// Available mouse actions.
const (
	MouseMove MouseAction = iota
	MouseLeftDown
	MouseLeftUp
	MouseLeftClick
	MouseLeftDoubleClick
	MouseScrollUp
	MouseScrollDown
)

// queuedUpdate represented the execution of f queued by
// Application.QueueUpdate(). If "done" is not nil, it receives exactly one
// element after f has executed.
type queuedUpdate struct {
	f    func()
	done chan struct{}
}

// scheduled is implemented by primitives that defer work to the next frame.
// SetRoot hands them the application's frame scheduler.
type scheduled interface {
	attachScheduler(s virtual.Scheduler)
}

// Application represents the top node of an application.
//
// Besides the event loop, the application is a frame scheduler: callbacks
// passed to [Application.Schedule] run on the event loop right before the next
// frame is drawn. Virtual lists use it to coalesce viewport samples and
// measurement reconciles into one pass per frame.
//
// The following command displays a primitive p on the screen until the
// application is stopped (for example via QuitCommand):
//
//	if err := virtview.NewApplication().SetRoot(p).Run(); err != nil {
//	    panic(err)
//	}
type Application struct {
	sync.RWMutex

	// The application's screen. Apart from Run(), this variable should never be
	// set directly.
	screen tcell.Screen

	// The primitive which currently has the keyboard focus.
	focus Primitive

	// The root primitive to be seen on the screen.
	root Primitive

	events chan tcell.Event

	// Functions queued from goroutines, used to serialize updates to primitives.
	updates chan queuedUpdate

	// Callbacks deferred to the next frame. Only touched by the event loop.
	frames    *virtual.FrameQueue
	frameWake chan struct{}
	needsDraw bool

	mouseCapturingPrimitive Primitive        // A Primitive returned by a MouseHandler which will capture future mouse events.
	lastMouseX, lastMouseY  int              // The last position of the mouse.
	mouseDownX, mouseDownY  int              // The position of the mouse when its button was last pressed.
	lastMouseClick          time.Time        // The time when a mouse button was last clicked.
	lastMouseButtons        tcell.ButtonMask // The last mouse button state.

	// forceRedraw requests a full clear before the next frame.
	forceRedraw bool
}

// NewApplication creates and returns a new application.
func NewApplication() *Application {
	a := &Application{
		updates:   make(chan queuedUpdate, updatesQueueSize),
		frameWake: make(chan struct{}, 1),
	}
	a.frames = new(virtual.FrameQueue).SetWakeFunc(a.wake)
	return a
}

// SetScreen sets the application's screen.
func (a *Application) SetScreen(screen tcell.Screen) *Application {
	a.Lock()
	defer a.Unlock()
	if a.screen == nil {
		a.screen = screen
		a.forceRedraw = true
	}
	return a
}

// Schedule queues fn to run on the event loop before the next frame is drawn.
// It implements [virtual.Scheduler] and must only be called from the event
// loop goroutine (input handlers, Draw, queued updates and scheduled
// callbacks).
func (a *Application) Schedule(fn func()) virtual.CancelFunc {
	return a.frames.Schedule(fn)
}

// wake makes sure the event loop runs a frame soon. It never blocks.
func (a *Application) wake() {
	select {
	case a.frameWake <- struct{}{}:
	default:
	}
}

// requestDraw marks the screen as stale and wakes the frame loop.
func (a *Application) requestDraw() {
	a.needsDraw = true
	a.wake()
}

// Run starts the application and thus the event loop. This function returns
// when [Application.Stop] was called.
func (a *Application) Run() error {
	var appErr error
	a.Lock()

	// Make a screen if there is none yet.
	if a.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			a.Unlock()
			return err
		}
		if err = screen.Init(); err != nil {
			a.Unlock()
			return err
		}
		a.screen = screen
	}

	// We catch panics to clean up because they mess up the terminal.
	defer func() {
		if p := recover(); p != nil {
			a.Stop()
			panic(p)
		}
	}()

	screen := a.screen
	a.events = screen.EventQ()
	a.Unlock()

	// Draw the screen for the first time.
	a.draw()

EventLoop:
	for {
		select {
		// If we received an event, handle it.
		case event := <-a.events:
			if event == nil {
				break EventLoop
			}

			switch event := event.(type) {
			case *tcell.EventKey:
				a.RLock()
				root := a.root
				a.RUnlock()

				// Pass key events to the root primitive.
				if root != nil && root.HasFocus() {
					cmd := root.InputHandler(event)
					if a.executeCommand(cmd) {
						a.requestDraw()
					}
				}
			case *tcell.EventResize:
				a.Lock()
				// Resize events can imply terminal state changes even when size
				// reports unchanged, so force one redraw pass.
				a.forceRedraw = true
				a.Unlock()
				a.requestDraw()
			case *tcell.EventMouse:
				handled, isMouseDownAction := a.fireMouseActions(event)
				if handled {
					a.requestDraw()
				}
				a.lastMouseButtons = event.Buttons()
				if isMouseDownAction {
					a.mouseDownX, a.mouseDownY = event.Position()
				}
			case *tcell.EventError:
				appErr = event
				a.Stop()
			}

		// If we have updates, now is the time to execute them.
		case update := <-a.updates:
			update.f()
			if update.done != nil {
				update.done <- struct{}{}
			}

		case <-a.frameWake:
			a.runFrame()
		}

		a.RLock()
		stopped := a.screen == nil
		a.RUnlock()
		if stopped {
			break EventLoop
		}
	}

	return appErr
}

// runFrame runs the callbacks scheduled for this frame and then draws if a
// draw was requested or the root reports itself dirty. Callbacks scheduled by
// the draw itself run in the following frame.
func (a *Application) runFrame() {
	a.frames.RunFrame()

	a.RLock()
	root := a.root
	a.RUnlock()
	if dirty, ok := root.(interface{ IsDirty() bool }); ok && dirty.IsDirty() {
		a.needsDraw = true
	}
	if !a.needsDraw {
		return
	}
	a.needsDraw = false
	a.draw()
}

// fireMouseActions analyzes the provided mouse event, derives mouse actions
// from it and then forwards them to the corresponding primitives.
func (a *Application) fireMouseActions(event *tcell.EventMouse) (handled, isMouseDownAction bool) {
	// We want to relay follow-up events to the same target primitive.
	var targetPrimitive Primitive

	// Helper function to fire a mouse action.
	fire := func(action MouseAction) {
		if action == MouseLeftDown {
			isMouseDownAction = true
		}

		// Determine the target primitive.
		var primitive, capturingPrimitive Primitive
		if a.mouseCapturingPrimitive != nil {
			primitive = a.mouseCapturingPrimitive
			targetPrimitive = a.mouseCapturingPrimitive
		} else if targetPrimitive != nil {
			primitive = targetPrimitive
		} else {
			primitive = a.root
		}
		if primitive != nil {
			var cmd Command
			capturingPrimitive, cmd = primitive.MouseHandler(action, event)
			if a.executeCommand(cmd) {
				handled = true
			}
		}
		a.mouseCapturingPrimitive = capturingPrimitive
	}

	x, y := event.Position()
	buttons := event.Buttons()
	clickMoved := x != a.mouseDownX || y != a.mouseDownY
	buttonChanges := buttons ^ a.lastMouseButtons

	if x != a.lastMouseX || y != a.lastMouseY {
		fire(MouseMove)
		a.lastMouseX = x
		a.lastMouseY = y
	}

	if buttonChanges&tcell.ButtonPrimary != 0 {
		if buttons&tcell.ButtonPrimary != 0 {
			fire(MouseLeftDown)
		} else {
			fire(MouseLeftUp)
			if !clickMoved {
				if a.lastMouseClick.Add(DoubleClickInterval).Before(time.Now()) {
					fire(MouseLeftClick)
					a.lastMouseClick = time.Now()
				} else {
					fire(MouseLeftDoubleClick)
					a.lastMouseClick = time.Time{} // reset
				}
			}
		}
	}

	if buttons&tcell.WheelUp != 0 {
		fire(MouseScrollUp)
	}
	if buttons&tcell.WheelDown != 0 {
		fire(MouseScrollDown)
	}

	return handled, isMouseDownAction
}

// Stop stops the application, causing Run() to return.
func (a *Application) Stop() {
	a.Lock()
	defer a.Unlock()
	screen := a.screen
	if screen == nil {
		return
	}
	screen.Fini()
	a.screen = nil
}

// Draw refreshes the screen during the next frame. It is safe to call from
// any goroutine.
func (a *Application) Draw() *Application {
	a.QueueUpdate(a.requestDraw)
	return a
}

// ForceDraw refreshes the screen immediately without running scheduled
// callbacks first. Never call this function from a goroutine.
func (a *Application) ForceDraw() *Application {
	return a.draw()
}

// draw actually does what Draw() promises to do.
func (a *Application) draw() *Application {
	a.Lock()
	screen := a.screen
	root := a.root
	forceRedraw := a.forceRedraw
	a.Unlock()

	// Maybe we're not ready yet or not anymore.
	if screen == nil || root == nil {
		return a
	}

	drawWidth, drawHeight := screen.Size()
	root.SetRect(0, 0, drawWidth, drawHeight)

	// tcell keeps a logical back buffer and emits only visual deltas in Show().
	// Full clears are reserved for forced redraws.
	if forceRedraw {
		screen.Clear()
	}
	root.Draw(screen)
	screen.Show()

	a.Lock()
	a.forceRedraw = false
	a.Unlock()

	return a
}

// SetRoot sets the root primitive for this application. This function must
// be called at least once or nothing will be displayed when the application
// starts. Primitives that schedule frame work are attached to this
// application's frame scheduler.
//
// It also calls SetFocus() on the primitive.
func (a *Application) SetRoot(root Primitive) *Application {
	a.Lock()
	a.root = root
	if a.screen != nil {
		a.forceRedraw = true
	}
	a.Unlock()

	if s, ok := root.(scheduled); ok {
		s.attachScheduler(a)
	}
	a.SetFocus(root)
	return a
}

// SetFocus sets the focus to a new primitive.
//
// Blur() will be called on the previously focused primitive. Focus() will be
// called on the new primitive.
func (a *Application) SetFocus(p Primitive) *Application {
	a.Lock()
	if a.focus != nil {
		a.focus.Blur()
	}
	a.focus = p
	if a.screen != nil {
		a.screen.HideCursor()
	}
	a.Unlock()
	if p != nil {
		p.Focus(func(p Primitive) {
			a.SetFocus(p)
		})
	}

	return a
}

// GetFocus returns the primitive which has the current focus. If none has it,
// nil is returned.
func (a *Application) GetFocus() Primitive {
	a.RLock()
	defer a.RUnlock()
	return a.focus
}

// QueueUpdate is used to synchronize access to primitives from non-main
// goroutines. The provided function will be executed as part of the event loop
// and thus will not cause race conditions with other such update functions or
// the Draw() function.
//
// This function returns after f has executed.
func (a *Application) QueueUpdate(f func()) *Application {
	ch := make(chan struct{})
	a.updates <- queuedUpdate{f: f, done: ch}
	<-ch
	return a
}

// QueueUpdateDraw works like QueueUpdate() except it requests a frame after
// executing f.
func (a *Application) QueueUpdateDraw(f func()) *Application {
	a.QueueUpdate(func() {
		f()
		a.requestDraw()
	})
	return a
}

// QueueEvent sends an event to the Application event loop.
//
// It is not recommended for event to be nil.
func (a *Application) QueueEvent(event tcell.Event) *Application {
	a.RLock()
	events := a.events
	a.RUnlock()
	if events == nil {
		return a
	}
	events <- event
	return a
}

func (a *Application) executeCommand(cmd Command) bool {
	if cmd == nil {
		return false
	}

	switch c := cmd.(type) {
	case BatchCommand:
		handled := false
		for _, item := range c {
			if a.executeCommand(item) {
				handled = true
			}
		}
		return handled
	case RedrawCommand:
		return true
	case QuitCommand:
		a.Stop()
		return false
	case SetFocusCommand:
		if c.Target == nil {
			return false
		}
		a.RLock()
		changed := a.focus != c.Target
		a.RUnlock()
		a.SetFocus(c.Target)
		return changed
	case ConsumeEventCommand:
		return false
	}

	return false
}

var _ virtual.Scheduler = (*Application)(nil)
