// Package input turns terminal key presses into session events and runs the
// capture loop that feeds them, with periodic ticks, into a channel.
package input

import "fmt"

type Kind int

const (
	KeyPress Kind = iota
	Backspace
	Enter
	Escape
	Interrupt
	Tick
)

func (k Kind) String() string {
	switch k {
	case KeyPress:
		return "key"
	case Backspace:
		return "backspace"
	case Enter:
		return "enter"
	case Escape:
		return "escape"
	case Interrupt:
		return "interrupt"
	case Tick:
		return "tick"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Event is one input event. Rune is set only for KeyPress.
type Event struct {
	Kind Kind
	Rune rune
}

func Key(r rune) Event {
	return Event{Kind: KeyPress, Rune: r}
}

func (e Event) String() string {
	if e.Kind == KeyPress {
		return fmt.Sprintf("key(%q)", e.Rune)
	}
	return e.Kind.String()
}

// Keys converts text into one KeyPress per rune.
func Keys(text string) []Event {
	events := make([]Event, 0, len(text))
	for _, r := range text {
		events = append(events, Key(r))
	}
	return events
}
