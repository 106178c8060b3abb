package editor

import "github.com/charmbracelet/bubbles/key"

type editorKeyMap struct {
	confirm     key.Binding
	deleteBack  key.Binding
	focusUp     key.Binding
	focusDown   key.Binding
	save        key.Binding
	copyExport  key.Binding
	paste       key.Binding
	quit        key.Binding
	menuSelect  key.Binding
	menuClose   key.Binding
	menuUp      key.Binding
	menuDown    key.Binding
	promptEnter key.Binding
	promptExit  key.Binding
}

func newEditorKeyMap() *editorKeyMap {
	return &editorKeyMap{
		confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "confirm"),
		),
		deleteBack: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "erase"),
		),
		focusUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous block"),
		),
		focusDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next block"),
		),
		save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		copyExport: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "export"),
		),
		paste: key.NewBinding(
			key.WithKeys("ctrl+v"),
			key.WithHelp("ctrl+v", "paste"),
		),
		quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
		menuSelect: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "apply"),
		),
		menuClose: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close menu"),
		),
		menuUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous command"),
		),
		menuDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next command"),
		),
		promptEnter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "import image"),
		),
		promptExit: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}
