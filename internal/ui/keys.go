package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Edit       key.Binding
	Start      key.Binding
	Recursive  key.Binding
	Categories key.Binding
	Language   key.Binding
	Hidden     key.Binding
	Submit     key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Edit: key.NewBinding(
			key.WithKeys("e", "tab"),
			key.WithHelp("e", "edit folder"),
		),
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		Recursive: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "recursive"),
		),
		Categories: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "categories"),
		),
		Language: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "language"),
		),
		Hidden: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "hidden"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (keys KeyMap) bindings() []key.Binding {
	return []key.Binding{
		keys.Edit, keys.Start, keys.Recursive, keys.Categories, keys.Language,
		keys.Hidden, keys.Confirm, keys.Cancel, keys.Help, keys.Quit,
	}
}
