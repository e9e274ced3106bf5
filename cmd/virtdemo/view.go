package main

import (
	"github.com/gdamore/tcell/v3"

	"github.com/ayn2op/virtview"
	"github.com/ayn2op/virtview/help"
	"github.com/ayn2op/virtview/keybind"
)

type viewKeyMap struct {
	Quit keybind.Keybind
}

func (k viewKeyMap) ShortHelp() []keybind.Keybind {
	return []keybind.Keybind{k.Quit}
}

// view stacks the entry list above a one-line help bar.
type view struct {
	*virtview.Box

	list   *virtview.VirtualList[entry]
	help   *help.Help
	keyMap viewKeyMap
}

func newView(list *virtview.VirtualList[entry]) *view {
	v := &view{
		Box:  virtview.NewBox(),
		list: list,
		help: help.New(),
		keyMap: viewKeyMap{
			Quit: keybind.NewKeybind(keybind.WithKeys("q", "ctrl+c"), keybind.WithHelp("q", "quit")),
		},
	}
	v.help.SetKeyMaps(list.KeyMap(), v.keyMap)
	virtview.BindDirtyParent(list, v.Box)
	virtview.BindDirtyParent(v.help, v.Box)
	return v
}

func (v *view) SetRect(x, y, width, height int) {
	v.Box.SetRect(x, y, width, height)
	v.list.SetRect(x, y, width, max(height-1, 0))
	v.help.SetRect(x, y+height-1, width, 1)
}

func (v *view) Draw(screen tcell.Screen) {
	v.MarkClean()
	v.list.Draw(screen)
	v.help.Draw(screen)
}

func (v *view) InputHandler(event *tcell.EventKey) virtview.Command {
	if keybind.Matches(event, v.keyMap.Quit) {
		return virtview.QuitCommand{}
	}
	return v.list.InputHandler(event)
}

func (v *view) MouseHandler(action virtview.MouseAction, event *tcell.EventMouse) (virtview.Primitive, virtview.Command) {
	return v.list.MouseHandler(action, event)
}

func (v *view) Focus(delegate func(p virtview.Primitive)) {
	v.Box.Focus(delegate)
	v.list.Focus(delegate)
}

func (v *view) Blur() {
	v.list.Blur()
	v.Box.Blur()
}

// HasFocus reports whether the view or the list inside it has focus.
func (v *view) HasFocus() bool {
	return v.Box.HasFocus() || v.list.HasFocus()
}
