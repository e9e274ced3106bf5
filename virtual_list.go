package virtview

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/gdamore/tcell/v3"

	"github.com/ayn2op/virtview/keybind"
	"github.com/ayn2op/virtview/virtual"
)

const (
	// DefaultEstimatedHeight is the number of rows assumed for items that
	// have not been measured yet.
	DefaultEstimatedHeight = 3
	// DefaultOverscan is the margin, in estimated item heights, built above
	// and below the visible rows.
	DefaultOverscan = 2

	// Rows scrolled per mouse wheel step.
	wheelStep = 3
)

// ItemBuilder returns the primitive showing an item. It is only called for
// items inside the overscanned viewport, on every draw. Rows implementing
// Measurable report their height back to the list; rows implementing
// Selectable are told whether they are under the cursor.
type ItemBuilder[T any] func(item T, index int) Primitive

// ListKeyMap holds the key bindings of a VirtualList.
type ListKeyMap struct {
	Up       keybind.Keybind
	Down     keybind.Keybind
	PageUp   keybind.Keybind
	PageDown keybind.Keybind
	Home     keybind.Keybind
	End      keybind.Keybind
}

// DefaultListKeyMap returns arrow, page and vi-style bindings.
func DefaultListKeyMap() ListKeyMap {
	return ListKeyMap{
		Up:       keybind.NewKeybind(keybind.WithKeys("up", "k"), keybind.WithHelp("↑/k", "up")),
		Down:     keybind.NewKeybind(keybind.WithKeys("down", "j"), keybind.WithHelp("↓/j", "down")),
		PageUp:   keybind.NewKeybind(keybind.WithKeys("pgup", "ctrl+b"), keybind.WithHelp("pgup", "page up")),
		PageDown: keybind.NewKeybind(keybind.WithKeys("pgdn", "ctrl+f"), keybind.WithHelp("pgdn", "page down")),
		Home:     keybind.NewKeybind(keybind.WithKeys("home", "g"), keybind.WithHelp("g/home", "first")),
		End:      keybind.NewKeybind(keybind.WithKeys("end", "G"), keybind.WithHelp("G/end", "last")),
	}
}

// ShortHelp returns the bindings in display order.
func (k ListKeyMap) ShortHelp() []keybind.Keybind {
	return []keybind.Keybind{k.Up, k.Down, k.PageUp, k.PageDown, k.Home, k.End}
}

// VirtualList displays a large collection of variable-height items. Only the
// items inside the viewport (plus overscan) are built and drawn; all others
// are accounted for by their last measured or estimated height.
//
// The list is its own viewport host: the scroll position is the number of
// rows scrolled, the viewport is the inner height and the list origin is the
// height of the optional header, which scrolls with the items.
type VirtualList[T any] struct {
	*Box

	build ItemBuilder[T]
	items []T
	keys  virtual.KeyPolicy[T]
	cfg   virtual.Config

	engine      *virtual.Orchestrator[T, Primitive]
	tracker     *virtual.Tracker
	unsubscribe func()
	sched       virtual.Scheduler

	// Rows scrolled, header included.
	scroll int
	// Item kept aligned to the top while measurements come in, or -1.
	anchor int
	cursor int

	keyMap  ListKeyMap
	changed func(index int)

	header       Primitive
	headerHeight int

	scrollBar     *ScrollBar
	showScrollBar bool

	trackEnd bool
	atEnd    bool

	// The row width measurements were taken at, or -1.
	measuredWidth int
	closed        bool
}

// NewVirtualList returns a new virtual list that builds rows with build.
func NewVirtualList[T any](build ItemBuilder[T]) *VirtualList[T] {
	l := &VirtualList[T]{
		Box:   NewBox(),
		build: build,
		keys:  virtual.KeyByIndex[T](),
		cfg: virtual.Config{
			EstimatedItemExtent: DefaultEstimatedHeight,
			Overscan:            DefaultOverscan,
		},
		anchor:        -1,
		cursor:        -1,
		keyMap:        DefaultListKeyMap(),
		scrollBar:     NewScrollBar(),
		showScrollBar: true,
		measuredWidth: -1,
	}
	l.resetEngine()
	l.SetScheduler(nil)
	return l
}

// resetEngine replaces the orchestrator after a configuration change. Cached
// measurements are dropped.
func (l *VirtualList[T]) resetEngine() {
	engine, err := virtual.New(l.cfg, l.renderItem)
	if err != nil {
		// Setters sanitize every field.
		panic(fmt.Sprintf("virtview: %v", err))
	}
	if l.engine != nil {
		l.engine.Close()
	}
	engine.SetScheduler(l.engineScheduler()).
		SetReconcileFunc(l.MarkDirty).
		SetKeyPolicy(l.keys).
		SetItems(l.items)
	l.engine = engine
	l.MarkDirty()
}

func (l *VirtualList[T]) engineScheduler() virtual.Scheduler {
	if l.sched == nil {
		return virtual.Immediate
	}
	return l.sched
}

func (l *VirtualList[T]) renderItem(item T, index int) Primitive {
	if l.build == nil {
		return nil
	}
	return l.build(item, index)
}

// SetScheduler sets the scheduler that viewport samples and measurement
// reconciles are deferred to. Application.SetRoot calls it with the
// application when the list is the root; nested lists need it called
// explicitly. Without a scheduler, both happen synchronously.
func (l *VirtualList[T]) SetScheduler(sched virtual.Scheduler) *VirtualList[T] {
	l.sched = sched
	l.engine.SetScheduler(l.engineScheduler())

	if l.tracker != nil {
		l.unsubscribe()
		l.tracker.Close()
	}
	l.tracker = virtual.NewTracker(l, sched)
	l.unsubscribe = l.tracker.Subscribe(func(virtual.State) {
		l.MarkDirty()
	})
	return l
}

func (l *VirtualList[T]) attachScheduler(sched virtual.Scheduler) {
	l.SetScheduler(sched)
}

// SetItems replaces the items of the list. The cursor is clamped to the new
// item count.
func (l *VirtualList[T]) SetItems(items []T) *VirtualList[T] {
	l.items = items
	l.engine.SetItems(items)
	if l.cursor >= len(items) {
		l.cursor = len(items) - 1
	}
	if l.anchor >= len(items) {
		l.anchor = -1
	}
	l.MarkDirty()
	return l
}

// AppendItems adds items to the end of the list. The list switches to a new
// backing slice, so the slice passed to SetItems is never written to.
func (l *VirtualList[T]) AppendItems(items ...T) *VirtualList[T] {
	return l.SetItems(slices.Concat(l.items, items))
}

// GetItems returns the items of the list.
func (l *VirtualList[T]) GetItems() []T {
	return l.items
}

// GetItemCount returns the number of items.
func (l *VirtualList[T]) GetItemCount() int {
	return len(l.items)
}

// SetKeyPolicy sets how items are identified in the size cache. Without a
// policy items are identified by their index, which loses measurements when
// items are inserted or reordered.
func (l *VirtualList[T]) SetKeyPolicy(policy virtual.KeyPolicy[T]) *VirtualList[T] {
	l.keys = policy
	l.engine.SetKeyPolicy(policy)
	l.MarkDirty()
	return l
}

// SetEstimatedHeight sets the number of rows assumed for unmeasured items.
// Values below one are raised to one. Measurements are dropped.
func (l *VirtualList[T]) SetEstimatedHeight(rows int) *VirtualList[T] {
	l.cfg.EstimatedItemExtent = float64(max(rows, 1))
	l.resetEngine()
	return l
}

// SetOverscan sets how many estimated item heights are built beyond each
// edge of the viewport. Negative values are treated as zero. Measurements are
// dropped.
func (l *VirtualList[T]) SetOverscan(items int) *VirtualList[T] {
	l.cfg.Overscan = max(items, 0)
	l.resetEngine()
	return l
}

// SetStrictKeys makes duplicate item keys panic instead of being logged.
func (l *VirtualList[T]) SetStrictKeys(strict bool) *VirtualList[T] {
	l.cfg.StrictKeys = strict
	l.resetEngine()
	return l
}

// SetPruneStaleSizes drops measurements of items no longer in the list
// whenever items are replaced.
func (l *VirtualList[T]) SetPruneStaleSizes(prune bool) *VirtualList[T] {
	l.cfg.PruneStaleSizes = prune
	l.resetEngine()
	return l
}

// SetLogger sets the logger receiving diagnostics of the list's engine.
func (l *VirtualList[T]) SetLogger(logger *slog.Logger) *VirtualList[T] {
	l.cfg.Logger = logger
	l.resetEngine()
	return l
}

// Engine returns the orchestrator computing the list geometry.
func (l *VirtualList[T]) Engine() *virtual.Orchestrator[T, Primitive] {
	return l.engine
}

// SetHeader sets a primitive drawn above the first item. It scrolls with
// the items and is height rows high.
func (l *VirtualList[T]) SetHeader(header Primitive, height int) *VirtualList[T] {
	l.header = header
	l.headerHeight = max(height, 0)
	if header == nil {
		l.headerHeight = 0
	}
	l.tracker.Signal()
	l.MarkDirty()
	return l
}

// SetTrackEnd toggles auto-scrolling when the view is already at the end.
func (l *VirtualList[T]) SetTrackEnd(track bool) *VirtualList[T] {
	l.trackEnd = track
	return l
}

// SetScrollBarVisible toggles the scroll bar column.
func (l *VirtualList[T]) SetScrollBarVisible(visible bool) *VirtualList[T] {
	if l.showScrollBar != visible {
		l.showScrollBar = visible
		l.MarkDirty()
	}
	return l
}

// ScrollBar returns the list's scroll bar for styling.
func (l *VirtualList[T]) ScrollBar() *ScrollBar {
	return l.scrollBar
}

// SetKeyMap sets the key bindings.
func (l *VirtualList[T]) SetKeyMap(keyMap ListKeyMap) *VirtualList[T] {
	l.keyMap = keyMap
	return l
}

// KeyMap returns the key bindings.
func (l *VirtualList[T]) KeyMap() ListKeyMap {
	return l.keyMap
}

// SetChangedFunc sets a handler that is called when the cursor changes.
func (l *VirtualList[T]) SetChangedFunc(handler func(index int)) *VirtualList[T] {
	l.changed = handler
	return l
}

// Cursor returns the current cursor index, or -1.
func (l *VirtualList[T]) Cursor() int {
	return l.cursor
}

// SetCursor selects the item at index and scrolls it into view. -1 clears the
// selection.
func (l *VirtualList[T]) SetCursor(index int) *VirtualList[T] {
	index = min(max(index, -1), len(l.items)-1)
	if l.cursor == index {
		return l
	}
	l.cursor = index
	l.MarkDirty()
	if index >= 0 {
		l.ensureVisible(index)
	}
	if l.changed != nil {
		l.changed(index)
	}
	return l
}

// ScrollOffset returns the number of rows scrolled.
func (l *VirtualList[T]) ScrollOffset() int {
	return l.scroll
}

// ScrollToIndex scrolls so that the item at index is at the top of the
// viewport. The item stays aligned while measurements of the items above it
// arrive, until the list is scrolled otherwise.
func (l *VirtualList[T]) ScrollToIndex(index int) *VirtualList[T] {
	if index < 0 || index >= len(l.items) {
		return l
	}
	l.anchor = index
	l.applyAnchor()
	return l
}

// ScrollToStart scrolls to the first row.
func (l *VirtualList[T]) ScrollToStart() *VirtualList[T] {
	l.anchor = -1
	l.scrollTo(0)
	return l
}

// ScrollToEnd scrolls to the last row.
func (l *VirtualList[T]) ScrollToEnd() *VirtualList[T] {
	l.anchor = -1
	l.scrollTo(l.maxScroll())
	l.atEnd = true
	return l
}

// ScrollBy scrolls by delta rows. Positive values scroll down.
func (l *VirtualList[T]) ScrollBy(delta int) *VirtualList[T] {
	l.anchor = -1
	l.scrollTo(l.scroll + delta)
	return l
}

func (l *VirtualList[T]) applyAnchor() {
	if l.anchor < 0 {
		return
	}
	if offset, ok := l.engine.OffsetOf(l.anchor); ok {
		l.scrollTo(l.headerHeight + int(offset))
	}
}

// scrollTo clamps row into the scrollable range and signals the tracker when
// the position changed.
func (l *VirtualList[T]) scrollTo(row int) bool {
	maxScroll := l.maxScroll()
	row = min(max(row, 0), maxScroll)
	l.atEnd = row >= maxScroll
	if row == l.scroll {
		return false
	}
	l.scroll = row
	l.tracker.Signal()
	l.MarkDirty()
	return true
}

// ensureVisible scrolls the minimum distance needed to show the item at
// index completely, or its top if it is taller than the viewport.
func (l *VirtualList[T]) ensureVisible(index int) {
	offset, ok := l.engine.OffsetOf(index)
	if !ok {
		return
	}
	end := l.engine.TotalExtent()
	if next, ok := l.engine.OffsetOf(index + 1); ok {
		end = next
	}
	top := l.headerHeight + int(offset)
	bottom := l.headerHeight + int(math.Ceil(end))
	_, _, _, height := l.GetInnerRect()

	switch {
	case top < l.scroll:
		l.anchor = -1
		l.scrollTo(top)
	case bottom > l.scroll+height:
		l.anchor = -1
		l.scrollTo(min(top, bottom-height))
	}
}

func (l *VirtualList[T]) contentHeight() int {
	return l.headerHeight + int(math.Ceil(l.engine.TotalExtent()))
}

func (l *VirtualList[T]) maxScroll() int {
	_, _, _, height := l.GetInnerRect()
	return max(l.contentHeight()-height, 0)
}

// ScrollPosition implements virtual.Host.
func (l *VirtualList[T]) ScrollPosition() float64 {
	return float64(l.scroll)
}

// ViewportExtent implements virtual.Host.
func (l *VirtualList[T]) ViewportExtent() float64 {
	_, _, _, height := l.GetInnerRect()
	return float64(height)
}

// ListOrigin implements virtual.Host.
func (l *VirtualList[T]) ListOrigin() float64 {
	return float64(l.headerHeight)
}

// SetRect sets a new position of the primitive and signals the viewport
// tracker when it changed.
func (l *VirtualList[T]) SetRect(x, y, width, height int) {
	ox, oy, ow, oh := l.GetRect()
	l.Box.SetRect(x, y, width, height)
	if ox != x || oy != y || ow != width || oh != height {
		l.tracker.Signal()
	}
}

// Draw draws this primitive onto the screen.
func (l *VirtualList[T]) Draw(screen tcell.Screen) {
	l.DrawForSubclass(screen, l)
	// Work scheduled during this draw marks the list dirty again.
	l.MarkClean()

	x, y, width, height := l.GetInnerRect()
	if width <= 0 || height <= 0 || l.closed {
		return
	}
	rowWidth := width
	if l.showScrollBar && width > 1 {
		rowWidth--
	}

	// Heights depend on the width, so a new width invalidates them all.
	if rowWidth != l.measuredWidth {
		if l.measuredWidth >= 0 {
			l.engine.ResetSizes()
		}
		l.measuredWidth = rowWidth
	}

	switch {
	case l.anchor >= 0:
		l.applyAnchor()
	case l.trackEnd && l.atEnd:
		l.scrollTo(l.maxScroll())
	default:
		l.scrollTo(l.scroll)
	}
	if state := l.tracker.State(); state.ScrollPosition != float64(l.scroll) || state.ViewportExtent != float64(height) {
		l.tracker.Signal()
	}

	// Rows are positioned from the published state so that the drawn frame
	// is consistent with the range it was computed for.
	state := l.tracker.State()
	top := y - int(state.ScrollPosition)

	if l.header != nil {
		l.header.SetRect(x, top, rowWidth, l.headerHeight)
		drawClipped(screen, l.header, x, y, rowWidth, height, top, l.headerHeight)
	}

	frame := l.engine.Render(state)
	origin := top + int(state.ListOrigin)
	for _, slot := range frame.Slots {
		item := slot.Content
		if item == nil {
			continue
		}
		rowY, rowHeight := origin+int(slot.Offset), int(slot.Extent)
		item.SetRect(x, rowY, rowWidth, rowHeight)
		if m, ok := item.(Measurable); ok {
			slot.Measurer.Report(float64(m.Height(rowWidth)))
		}
		if s, ok := item.(Selectable); ok {
			s.SetSelected(slot.Index == l.cursor)
		}
		drawClipped(screen, item, x, y, rowWidth, height, rowY, rowHeight)
	}

	if rowWidth < width {
		l.scrollBar.SetRect(x+rowWidth, y, width-rowWidth, height)
		l.scrollBar.SetLengths(l.contentHeight(), height).SetOffset(int(state.ScrollPosition))
		l.scrollBar.Draw(screen)
	}
}

// drawClipped draws p, laid out at rows [rowY, rowY+rowHeight), restricted
// to the part that overlaps the viewport.
func drawClipped(screen tcell.Screen, p Primitive, x, y, width, height, rowY, rowHeight int) {
	top := max(rowY, y)
	bottom := min(rowY+rowHeight, y+height)
	if bottom <= top {
		return
	}
	p.Draw(newClippedScreen(screen, x, top, width, bottom-top))
}

// IndexAtPoint returns the index of the item drawn at the given screen
// coordinate, or -1.
func (l *VirtualList[T]) IndexAtPoint(x, y int) int {
	if !l.InInnerRect(x, y) {
		return -1
	}
	_, innerY, _, _ := l.GetInnerRect()
	state := l.tracker.State()
	row := float64(y-innerY) + state.ScrollPosition - state.ListOrigin
	if row < 0 {
		return -1
	}
	return l.engine.IndexAt(row)
}

func (l *VirtualList[T]) moveCursor(delta int) {
	if len(l.items) == 0 {
		return
	}
	if l.cursor < 0 {
		l.SetCursor(0)
		return
	}
	l.SetCursor(min(max(l.cursor+delta, 0), len(l.items)-1))
}

// InputHandler handles key events for this primitive.
func (l *VirtualList[T]) InputHandler(event *tcell.EventKey) Command {
	_, _, _, height := l.GetInnerRect()
	page := max(height, 1)

	switch {
	case keybind.Matches(event, l.keyMap.Up):
		l.moveCursor(-1)
	case keybind.Matches(event, l.keyMap.Down):
		l.moveCursor(1)
	case keybind.Matches(event, l.keyMap.PageUp):
		l.ScrollBy(-page)
	case keybind.Matches(event, l.keyMap.PageDown):
		l.ScrollBy(page)
	case keybind.Matches(event, l.keyMap.Home):
		l.ScrollToStart()
		if len(l.items) > 0 {
			l.SetCursor(0)
		}
	case keybind.Matches(event, l.keyMap.End):
		l.ScrollToEnd()
		l.SetCursor(len(l.items) - 1)
	default:
		return nil
	}
	return RedrawCommand{}
}

// MouseHandler handles mouse events for this primitive.
func (l *VirtualList[T]) MouseHandler(action MouseAction, event *tcell.EventMouse) (Primitive, Command) {
	x, y := event.Position()
	if !l.InRect(x, y) {
		return nil, nil
	}

	switch action {
	case MouseLeftClick:
		var cmd Command = SetFocusCommand{Target: l}
		if index := l.IndexAtPoint(x, y); index >= 0 {
			l.SetCursor(index)
			cmd = AppendCommand(cmd, RedrawCommand{})
		}
		return nil, cmd
	case MouseScrollUp:
		l.ScrollBy(-wheelStep)
		return nil, RedrawCommand{}
	case MouseScrollDown:
		l.ScrollBy(wheelStep)
		return nil, RedrawCommand{}
	}
	return nil, nil
}

// Close releases the engine and the viewport subscription. A closed list
// draws nothing but its box.
func (l *VirtualList[T]) Close() {
	if l.closed {
		return
	}
	l.closed = true
	l.unsubscribe()
	l.tracker.Close()
	l.engine.Close()
}

var (
	_ Primitive    = &VirtualList[int]{}
	_ virtual.Host = &VirtualList[int]{}
)
