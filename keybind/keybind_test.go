package keybind

import (
	"testing"

	"github.com/gdamore/tcell/v3"
	"github.com/stretchr/testify/assert"
)

func Test_NormalizeKey_Produces_Canonical_Form_When_Written_Loosely(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		key  string
		want string
	}{
		{key: "down", want: "down"},
		{key: " Down ", want: "down"},
		{key: "PageDown", want: "pgdn"},
		{key: "Shift+Ctrl+X", want: "ctrl+shift+x"},
		{key: "control+d", want: "ctrl+d"},
		{key: "backtab", want: "shift+tab"},
		{key: "G", want: "G"},
		{key: "g", want: "g"},
		{key: "+", want: "+"},
		{key: "ctrl+", want: ""},
		{key: "", want: ""},
	}

	for _, testCase := range testCases {
		t.Run(testCase.key, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, normalizeKey(testCase.key))
		})
	}
}

func Test_Matches_Reports_Binding_When_Event_Is_One_Of_Its_Keys(t *testing.T) {
	t.Parallel()

	down := NewKeybind(WithKeys("down", "j"), WithHelp("↓/j", "down"))
	page := NewKeybind(WithKeys("pgdn", "ctrl+f"))
	last := NewKeybind(WithKeys("G"))
	enter := NewKeybind(WithKeys("enter"))

	testCases := []struct {
		name  string
		event *tcell.EventKey
		bind  Keybind
		want  bool
	}{
		{name: "Arrow", event: tcell.NewEventKey(tcell.KeyDown, "", tcell.ModNone), bind: down, want: true},
		{name: "Rune", event: tcell.NewEventKey(tcell.KeyRune, "j", tcell.ModNone), bind: down, want: true},
		{name: "OtherRune", event: tcell.NewEventKey(tcell.KeyRune, "k", tcell.ModNone), bind: down, want: false},
		{name: "PageKey", event: tcell.NewEventKey(tcell.KeyPgDn, "", tcell.ModNone), bind: page, want: true},
		{name: "CtrlKey", event: tcell.NewEventKey(tcell.KeyCtrlF, "", tcell.ModCtrl), bind: page, want: true},
		{name: "UpperCase", event: tcell.NewEventKey(tcell.KeyRune, "G", tcell.ModShift), bind: last, want: true},
		{name: "LowerCase", event: tcell.NewEventKey(tcell.KeyRune, "g", tcell.ModNone), bind: last, want: false},
		{name: "Enter", event: tcell.NewEventKey(tcell.KeyEnter, "", tcell.ModNone), bind: enter, want: true},
		{name: "Nil", event: nil, bind: down, want: false},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, Matches(testCase.event, testCase.bind))
		})
	}
}

func Test_Keybind_Is_Disabled_When_Keys_Are_Cleared(t *testing.T) {
	t.Parallel()

	k := NewKeybind(WithKeys("q", ""), WithHelp("q", "quit"))
	assert.True(t, k.Enabled())
	assert.Equal(t, []string{"q"}, k.Keys())
	assert.Equal(t, Help{Key: "q", Desc: "quit"}, k.Help())

	k.SetKeys()
	assert.False(t, k.Enabled())
	assert.False(t, Matches(tcell.NewEventKey(tcell.KeyRune, "q", tcell.ModNone), k))
}
