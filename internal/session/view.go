package session

import (
	"fmt"
	"time"

	"ticktodo/internal/todo"
)

// View is everything a renderer needs to draw one frame.
type View struct {
	Mode Mode
	Step DateStep

	// Prompt labels Input, the live buffer. Both are empty while viewing.
	Prompt string
	Input  string

	// Name and Date hold the fields already entered while adding a task
	// with a date.
	Name string
	Date string

	Banner    Banner
	Pending   []Line
	Completed []Line
	Keys      Keymap
}

// Line is one task as listed on screen.
type Line struct {
	Index     int
	Title     string
	Done      bool
	Due       *time.Time
	Countdown string
}

func (l Line) Glyph() string {
	if l.Done {
		return "[X]"
	}
	return "[ ]"
}

func (l Line) String() string {
	s := fmt.Sprintf("%d. %s %s", l.Index, l.Title, l.Glyph())
	if l.Countdown != "" {
		s += " " + l.Countdown
	}
	return s
}

func (m *Machine) View() View {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.now()
	snap := m.store.Snapshot()
	v := View{
		Mode:      m.mode,
		Step:      m.step,
		Input:     string(m.live),
		Banner:    m.banner,
		Pending:   lines(snap.Pending, now),
		Completed: lines(snap.Completed, now),
		Keys:      m.keys,
	}
	switch m.mode {
	case ModeAddingTask:
		v.Prompt = "Adding: "
	case ModeAddingTaskWithDate:
		v.Prompt = m.step.Prompt()
		v.Name = m.name
		v.Date = m.date
	case ModeCompletingTask:
		v.Prompt = "Complete task #: "
	case ModeUncompletingTask:
		v.Prompt = "Uncomplete task #: "
	}
	return v
}

func lines(items []todo.Item, now time.Time) []Line {
	out := make([]Line, 0, len(items))
	for i, it := range items {
		l := Line{Index: i, Title: it.Title, Done: it.Completed, Due: it.Due}
		if it.HasDue() && !it.Completed {
			l.Countdown = todo.Countdown(*it.Due, now)
		}
		out = append(out, l)
	}
	return out
}
