package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Advance key.Binding
	Buy     key.Binding
	Sell    key.Binding
	Hint    key.Binding
	Reset   key.Binding
	Up      key.Binding
	Down    key.Binding
	Focus   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap(allowReset bool) keyMap {
	k := keyMap{
		Advance: key.NewBinding(key.WithKeys("n", " ", "space"), key.WithHelp("n/space", "next step")),
		Buy:     key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "buy")),
		Sell:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sell")),
		Hint:    key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hint")),
		Reset:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Focus:   key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "panel")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
	k.Reset.SetEnabled(allowReset)
	return k
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Advance, k.Buy, k.Sell, k.Hint, k.Reset, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Advance, k.Buy, k.Sell, k.Hint, k.Reset},
		{k.Up, k.Down, k.Focus},
		{k.Help, k.Quit},
	}
}
