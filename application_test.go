package virtview

import (
	"testing"

	"github.com/gdamore/tcell/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runFrames steps the frame loop until no work is queued and the root is
// clean.
func runFrames(t *testing.T, app *Application, root interface{ IsDirty() bool }) {
	t.Helper()

	for i := 0; i < 20 && (app.frames.Len() > 0 || root.IsDirty()); i++ {
		app.runFrame()
	}
	require.Zero(t, app.frames.Len(), "frame queue did not drain")
	require.False(t, root.IsDirty(), "root did not settle")
}

func Test_Application_Settles_List_When_Frames_Run(t *testing.T) {
	t.Parallel()

	screen := newFakeScreen(20, 10)
	list := newTestList(50, 1, 3, 20, 10)
	app := NewApplication().SetScreen(screen).SetRoot(list)

	runFrames(t, app, list)

	assert.Equal(t, "0", screen.row(0))
	assert.Equal(t, "9", screen.row(9))
	assert.Positive(t, screen.shows)
	assert.Positive(t, list.Engine().Reconciles())
	assert.Same(t, list, app.GetFocus())
}

func Test_Application_Defers_Viewport_Sample_When_List_Scrolls(t *testing.T) {
	t.Parallel()

	screen := newFakeScreen(20, 10)
	list := newTestList(50, 1, 1, 20, 10)
	app := NewApplication().SetScreen(screen).SetRoot(list)
	runFrames(t, app, list)

	list.ScrollBy(2)
	assert.True(t, list.tracker.Pending())
	assert.InDelta(t, 0.0, list.tracker.State().ScrollPosition, 0)

	// A second signal in the same frame is coalesced.
	list.ScrollBy(1)
	assert.Equal(t, 1, app.frames.Len())

	runFrames(t, app, list)
	assert.False(t, list.tracker.Pending())
	assert.InDelta(t, 3.0, list.tracker.State().ScrollPosition, 0)
	assert.Equal(t, "3", screen.row(0))
}

func Test_Application_Routes_Wheel_To_Root_When_Mouse_Scrolls(t *testing.T) {
	t.Parallel()

	screen := newFakeScreen(20, 10)
	list := newTestList(50, 1, 1, 20, 10)
	app := NewApplication().SetScreen(screen).SetRoot(list)
	runFrames(t, app, list)

	handled, down := app.fireMouseActions(tcell.NewEventMouse(1, 1, tcell.WheelDown, tcell.ModNone))
	assert.True(t, handled)
	assert.False(t, down)
	assert.Equal(t, wheelStep, list.ScrollOffset())
}

func Test_Application_Skips_Callback_When_Schedule_Is_Canceled(t *testing.T) {
	t.Parallel()

	app := NewApplication()

	ran := 0
	cancel := app.Schedule(func() { ran++ })
	app.Schedule(func() { ran += 10 })
	cancel()
	assert.Len(t, app.frameWake, 1)

	app.runFrame()
	assert.Equal(t, 10, ran)

	// Cancelling after the callback ran has no effect.
	cancel()
	app.runFrame()
	assert.Equal(t, 10, ran)
}

func Test_Application_Executes_Commands_When_Handlers_Return_Them(t *testing.T) {
	t.Parallel()

	other := NewBox()

	testCases := []struct {
		name string
		cmd  Command
		want bool
	}{
		{name: "Nil", cmd: nil, want: false},
		{name: "Redraw", cmd: RedrawCommand{}, want: true},
		{name: "Consume", cmd: ConsumeEventCommand{}, want: false},
		{name: "Batch", cmd: BatchCommand{ConsumeEventCommand{}, RedrawCommand{}}, want: true},
		{name: "FocusOther", cmd: SetFocusCommand{Target: other}, want: true},
		{name: "FocusNil", cmd: SetFocusCommand{}, want: false},
		{name: "Unknown", cmd: "noop", want: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			app := NewApplication().SetScreen(newFakeScreen(10, 10)).SetRoot(NewBox())
			assert.Equal(t, testCase.want, app.executeCommand(testCase.cmd))
		})
	}
}

func Test_Application_Stops_When_Quit_Command_Is_Executed(t *testing.T) {
	t.Parallel()

	screen := newFakeScreen(10, 10)
	app := NewApplication().SetScreen(screen).SetRoot(NewBox())

	assert.False(t, app.executeCommand(QuitCommand{}))
	assert.True(t, screen.finalized)

	// Drawing after stop is a no-op.
	shows := screen.shows
	app.ForceDraw()
	assert.Equal(t, shows, screen.shows)
}
