package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings of the pull request view while the list has
// focus. The search box consumes all keys except submit and cancel.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Prev    key.Binding
	Next    key.Binding
	Search  key.Binding
	Reset   key.Binding
	Filter  key.Binding
	Sort    key.Binding
	Open    key.Binding
	Retry   key.Binding
	Help    key.Binding
	Quit    key.Binding
	Submit  key.Binding
	Dismiss key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Prev: key.NewBinding(
			key.WithKeys("h", "left", "p"),
			key.WithHelp("←/h", "prev page"),
		),
		Next: key.NewBinding(
			key.WithKeys("l", "right", "n"),
			key.WithHelp("→/l", "next page"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Reset: key.NewBinding(
			key.WithKeys("x", "esc"),
			key.WithHelp("x", "reset search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "status"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "o"),
			key.WithHelp("enter", "open"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to list"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Prev, k.Next, k.Filter, k.Sort, k.Open, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open},
		{k.Prev, k.Next, k.Retry},
		{k.Search, k.Reset, k.Filter, k.Sort},
		{k.Help, k.Quit},
	}
}

// inputKeyMap is shown while the search box has focus.
type inputKeyMap struct {
	keys keyMap
}

func (k inputKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.keys.Submit, k.keys.Dismiss}
}

func (k inputKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
