package keymap

import (
	"strings"

	"charm.land/bubbles/v2/key"

	"github.com/andyrewlee/carousel/internal/config"
)

// Action identifies a configurable keybinding.
type Action string

const (
	ActionPrev   Action = "prev"
	ActionNext   Action = "next"
	ActionFirst  Action = "first"
	ActionLast   Action = "last"
	ActionJump   Action = "jump"
	ActionFling  Action = "fling"
	ActionFinite Action = "toggle_finite"
	ActionTouch  Action = "toggle_touch"
	ActionCopy   Action = "copy_state"
	ActionHelp   Action = "help"
	ActionQuit   Action = "quit"
)

type bindingDef struct {
	action Action
	keys   []string
	desc   string
}

// KeyMap defines all keybindings for the carousel host.
type KeyMap struct {
	Prev   key.Binding
	Next   key.Binding
	First  key.Binding
	Last   key.Binding
	Jump   key.Binding
	Fling  key.Binding
	Finite key.Binding
	Touch  key.Binding
	Copy   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

var defaults = []bindingDef{
	{ActionPrev, []string{"left", "h"}, "prev"},
	{ActionNext, []string{"right", "l"}, "next"},
	{ActionFirst, []string{"home", "g"}, "first"},
	{ActionLast, []string{"end", "G"}, "last"},
	{ActionJump, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"}, "jump"},
	{ActionFling, []string{"f"}, "fling"},
	{ActionFinite, []string{"i"}, "loop/finite"},
	{ActionTouch, []string{"t"}, "pointer/touch"},
	{ActionCopy, []string{"y"}, "copy state"},
	{ActionHelp, []string{"?"}, "help"},
	{ActionQuit, []string{"q", "ctrl+c"}, "quit"},
}

// New builds a keymap from defaults, applying any user overrides.
func New(cfg config.KeyMapConfig) KeyMap {
	b := make(map[Action]key.Binding, len(defaults))
	for _, def := range defaults {
		b[def.action] = bindingFromDef(cfg, def)
	}
	return KeyMap{
		Prev:   b[ActionPrev],
		Next:   b[ActionNext],
		First:  b[ActionFirst],
		Last:   b[ActionLast],
		Jump:   b[ActionJump],
		Fling:  b[ActionFling],
		Finite: b[ActionFinite],
		Touch:  b[ActionTouch],
		Copy:   b[ActionCopy],
		Help:   b[ActionHelp],
		Quit:   b[ActionQuit],
	}
}

func bindingFromDef(cfg config.KeyMapConfig, def bindingDef) key.Binding {
	keys, ok := cfg.BindingFor(string(def.action))
	if !ok || len(keys) == 0 {
		keys = def.keys
	}
	helpKey := strings.Join(keys, "/")
	if def.action == ActionJump && !ok {
		helpKey = "1-9"
	}
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(helpKey, def.desc),
	)
}

// PrimaryKey returns the first key in the binding, if present.
func PrimaryKey(binding key.Binding) string {
	keys := binding.Keys()
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

// ShortHelp implements help.KeyMap.
func (km KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Prev, km.Next, km.Help, km.Quit}
}

// FullHelp implements help.KeyMap.
func (km KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{km.Prev, km.Next, km.First, km.Last, km.Jump},
		{km.Fling, km.Finite, km.Touch, km.Copy},
		{km.Help, km.Quit},
	}
}
