package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// action is a normalized keystroke, one per controller operation
type action int

const (
	actionNone action = iota
	actionType
	actionUndo
	actionCycle
	actionQuit
)

type keyMap struct {
	Type  key.Binding
	Undo  key.Binding
	Cycle key.Binding
	Quit  key.Binding
}

func typeableKeys() []string {
	keys := make([]string, 0, 56)
	for r := 'a'; r <= 'z'; r++ {
		keys = append(keys, string(r), string(r-'a'+'A'))
	}
	return append(keys, "@", "!", "?", "#")
}

func defaultKeyMap() keyMap {
	return keyMap{
		Type: key.NewBinding(
			key.WithKeys(typeableKeys()...),
			key.WithHelp("A-Z @!?#", "react"),
		),
		Undo: key.NewBinding(
			key.WithKeys("backspace", "delete"),
			key.WithHelp("backspace", "undo (quit when empty)"),
		),
		Cycle: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "color mode"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Type, k.Undo, k.Cycle, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// dispatch maps a key event to an action and, for typing, the character
func (k keyMap) dispatch(msg tea.KeyMsg) (action, rune) {
	switch {
	case key.Matches(msg, k.Quit):
		return actionQuit, 0
	case key.Matches(msg, k.Undo):
		return actionUndo, 0
	case key.Matches(msg, k.Cycle):
		return actionCycle, 0
	case key.Matches(msg, k.Type):
		return actionType, msg.Runes[0]
	}
	return actionNone, 0
}
