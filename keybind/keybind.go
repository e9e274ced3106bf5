// Package keybind matches tcell key events against configurable key
// bindings written as strings such as "down", "j", "ctrl+d" or "pgdn".
package keybind

import (
	"slices"
	"strings"

	"github.com/gdamore/tcell/v3"
)

// Keybind is a set of equivalent keys plus the help shown for them.
type Keybind struct {
	keys []string
	help Help
}

type Option func(*Keybind)

func NewKeybind(options ...Option) Keybind {
	k := &Keybind{}
	for _, option := range options {
		option(k)
	}
	return *k
}

func WithKeys(keys ...string) Option {
	return func(k *Keybind) {
		k.keys = normalizeKeys(keys...)
	}
}

func WithHelp(key, desc string) Option {
	return func(k *Keybind) {
		k.help = Help{Key: key, Desc: desc}
	}
}

// Keys returns the normalized keys of the binding.
func (k Keybind) Keys() []string {
	return k.keys
}

// SetKeys replaces the keys of the binding. An empty list disables it.
func (k *Keybind) SetKeys(keys ...string) {
	k.keys = normalizeKeys(keys...)
}

func (k Keybind) Help() Help {
	return k.help
}

// Enabled reports whether the binding has at least one key.
func (k Keybind) Enabled() bool {
	return len(k.keys) > 0
}

type Help struct {
	Key  string
	Desc string
}

// Matches reports whether event matches any key of any of the bindings.
func Matches(event *tcell.EventKey, keybinds ...Keybind) bool {
	if event == nil {
		return false
	}

	key := eventKeyString(event)
	for _, keybind := range keybinds {
		if slices.Contains(keybind.keys, key) {
			return true
		}
	}
	return false
}

// Modifiers in the order they appear in a normalized key.
var modifierOrder = []string{"ctrl", "alt", "shift", "meta"}

var modifierAliases = map[string]string{
	"ctrl":    "ctrl",
	"control": "ctrl",
	"alt":     "alt",
	"shift":   "shift",
	"meta":    "meta",
}

var keyAliases = map[string]string{
	"escape":   "esc",
	"return":   "enter",
	"pageup":   "pgup",
	"pagedown": "pgdn",
	"backtab":  "shift+tab",
}

func normalizeKeys(keys ...string) []string {
	normalized := make([]string, 0, len(keys))
	for _, key := range keys {
		if key = normalizeKey(key); key != "" {
			normalized = append(normalized, key)
		}
	}
	return normalized
}

// normalizeKey rewrites a key description into canonical form: lower-case
// modifiers in a fixed order followed by the primary key.
func normalizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "+" {
		return key
	}

	mods := make(map[string]bool, len(modifierOrder))
	primary := ""
	for part := range strings.SplitSeq(key, "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if mod, ok := modifierAliases[strings.ToLower(part)]; ok {
			mods[mod] = true
			continue
		}
		primary = part
	}
	if primary == "" {
		return ""
	}

	// Single characters keep their case unless a modifier is held, so "G"
	// and "g" stay distinct.
	if len([]rune(primary)) > 1 {
		primary = strings.ToLower(primary)
		if alias, ok := keyAliases[primary]; ok {
			primary = alias
		}
		if rest, ok := strings.CutPrefix(primary, "shift+"); ok {
			mods["shift"] = true
			primary = rest
		}
	} else if len(mods) > 0 {
		primary = strings.ToLower(primary)
	}

	return joinModifiers(mods, primary)
}

func joinModifiers(mods map[string]bool, primary string) string {
	var b strings.Builder
	for _, mod := range modifierOrder {
		if mods[mod] {
			b.WriteString(mod)
			b.WriteByte('+')
		}
	}
	b.WriteString(primary)
	return b.String()
}

func eventKeyString(event *tcell.EventKey) string {
	key := event.Key()
	if key == tcell.KeyBacktab {
		return "shift+tab"
	}
	// Enter, tab and backspace share codes with ctrl+m, ctrl+i and ctrl+h.
	primary, ok := keyNames[key]
	if !ok && key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		return "ctrl+" + string(rune('a'+(key-tcell.KeyCtrlA)))
	}
	if !ok && key == tcell.KeyRune {
		primary, ok = event.Str(), true
	}
	if !ok {
		return normalizeKey(event.Name())
	}

	m := event.Modifiers()
	mods := map[string]bool{
		"ctrl":  m&tcell.ModCtrl != 0,
		"alt":   m&tcell.ModAlt != 0,
		"shift": m&tcell.ModShift != 0 && key != tcell.KeyRune,
		"meta":  m&tcell.ModMeta != 0,
	}
	return joinModifiers(mods, primary)
}

var keyNames = map[tcell.Key]string{
	tcell.KeyEnter:      "enter",
	tcell.KeyEscape:     "esc",
	tcell.KeyTab:        "tab",
	tcell.KeyHome:       "home",
	tcell.KeyEnd:        "end",
	tcell.KeyUp:         "up",
	tcell.KeyDown:       "down",
	tcell.KeyLeft:       "left",
	tcell.KeyRight:      "right",
	tcell.KeyPgUp:       "pgup",
	tcell.KeyPgDn:       "pgdn",
	tcell.KeyDelete:     "delete",
	tcell.KeyBackspace:  "backspace",
	tcell.KeyBackspace2: "backspace",
	tcell.KeyInsert:     "insert",
}
