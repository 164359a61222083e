package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/verte-zerg/typist/internal/typing"
)

// KeyMap defines the practice keybindings.
type KeyMap struct {
	Skip       key.Binding
	Delete     key.Binding
	DeleteWord key.Binding
	Reset      key.Binding
	End        key.Binding
	NewText    key.Binding
	Quit       key.Binding

	// Review, only active once an attempt has ended.
	Prev  key.Binding
	Next  key.Binding
	First key.Binding
	Last  key.Binding
	Again key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Skip: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "skip char"),
		),
		Delete: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("bksp", "delete"),
		),
		DeleteWord: key.NewBinding(
			key.WithKeys("ctrl+w", "alt+backspace"),
			key.WithHelp("ctrl+w", "delete word"),
		),
		Reset: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "restart"),
		),
		End: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "end"),
		),
		NewText: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "new text"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "prev char"),
		),
		Next: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next char"),
		),
		First: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "first"),
		),
		Last: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "last"),
		),
		Again: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "next text"),
		),
	}
}

// setPhase enables the bindings that make sense in phase.
func (k *KeyMap) setPhase(phase typing.Phase) {
	typingKeys := phase != typing.Ended
	k.Skip.SetEnabled(typingKeys)
	k.Delete.SetEnabled(typingKeys)
	k.DeleteWord.SetEnabled(typingKeys)
	k.End.SetEnabled(typingKeys)
	for _, b := range []*key.Binding{&k.Prev, &k.Next, &k.First, &k.Last, &k.Again} {
		b.SetEnabled(!typingKeys)
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Skip, k.DeleteWord, k.End,
		k.Prev, k.Next, k.Again,
		k.Reset, k.NewText, k.Quit,
	}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Skip, k.Delete, k.DeleteWord, k.End},
		{k.Prev, k.Next, k.First, k.Last, k.Again},
		{k.Reset, k.NewText, k.Quit},
	}
}
