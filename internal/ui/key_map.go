package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	yes     key.Binding
	no      key.Binding
	reorder key.Binding
	grab    key.Binding
	play    key.Binding
	shuffle key.Binding
	search  key.Binding
	remove  key.Binding
	move    key.Binding
	open    key.Binding
	media   key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		yes:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "yes")),
		no:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "no")),
		reorder: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reorder mode")),
		grab:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "grab/drop")),
		play:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play")),
		shuffle: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shuffle")),
		search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		remove:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove")),
		move:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
		open:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open link")),
		media:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "album/track")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.reorder, k.grab, k.play, k.shuffle, k.search},
		{k.remove, k.move, k.open, k.yes, k.no},
		{k.media, k.quit},
	}
}
