package session

import (
	"github.com/charmbracelet/bubbles/key"

	"ticktodo/internal/config"
)

// Keymap binds the commands available while viewing the list.
type Keymap struct {
	Quit       key.Binding
	Add        key.Binding
	AddDated   key.Binding
	Complete   key.Binding
	Uncomplete key.Binding
}

func NewKeymap(k config.Keymap) Keymap {
	return Keymap{
		Quit:       key.NewBinding(key.WithKeys(k.Quit), key.WithHelp(k.Quit, "quit")),
		Add:        key.NewBinding(key.WithKeys(k.Add), key.WithHelp(k.Add, "add")),
		AddDated:   key.NewBinding(key.WithKeys(k.AddDated), key.WithHelp(k.AddDated, "add with date")),
		Complete:   key.NewBinding(key.WithKeys(k.Complete), key.WithHelp(k.Complete, "complete")),
		Uncomplete: key.NewBinding(key.WithKeys(k.Uncomplete), key.WithHelp(k.Uncomplete, "uncomplete")),
	}
}

func DefaultKeymap() Keymap {
	return NewKeymap(config.Default().Keys)
}

func (k Keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.AddDated, k.Complete, k.Uncomplete, k.Quit}
}

func (k Keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func matches(b key.Binding, r rune) bool {
	if !b.Enabled() {
		return false
	}
	for _, k := range b.Keys() {
		if k == string(r) {
			return true
		}
	}
	return false
}
