// Package session implements the interactive session: the mode state machine,
// the keystroke buffers that build commands, and the event loop that applies
// them to the task list and redraws after every event.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode"

	"github.com/charmbracelet/log"

	"ticktodo/internal/input"
	"ticktodo/internal/logging"
	"ticktodo/internal/todo"
)

// Store is the task list the session mutates. *todo.List implements it.
type Store interface {
	Add(title string) (string, error)
	AddWithDate(title, date string, now time.Time) (string, error)
	Complete(index int) error
	Uncomplete(index int) error
	PendingCount() int
	CompletedCount() int
	Snapshot() todo.Snapshot
}

// Renderer draws one frame. A failed draw ends the session.
type Renderer interface {
	Draw(v View) error
}

// ErrInputClosed is returned by Run when the event channel closes while the
// session is not quitting.
var ErrInputClosed = errors.New("input closed before quit")

// Banner is the one-line message shown under the list.
type Banner struct {
	Text    string
	IsError bool
}

type Option func(*Machine)

func WithKeymap(k Keymap) Option {
	return func(m *Machine) { m.keys = k }
}

// WithClock replaces time.Now, which decides whether a due date is in the future.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(m *Machine) { m.logger = l }
}

// WithCommitHook runs fn after every successful commit. A failing hook moves
// the session to ModeError.
func WithCommitHook(fn func() error) Option {
	return func(m *Machine) { m.onCommit = fn }
}

// Machine owns the mode and every text buffer. All of it is guarded by mu;
// the capture loop only reads the mode through Quitting.
type Machine struct {
	mu     sync.RWMutex
	mode   Mode
	step   DateStep
	live   []rune
	name   string
	date   string
	banner Banner

	store    Store
	keys     Keymap
	now      func() time.Time
	logger   *log.Logger
	onCommit func() error
}

func New(store Store, opts ...Option) *Machine {
	m := &Machine{
		mode:   ModeViewing,
		store:  store,
		keys:   DefaultKeymap(),
		now:    time.Now,
		logger: logging.Discard(),
		banner: Banner{Text: "Press n to add a task, c to complete, q to quit."},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) Mode() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mode
}

func (m *Machine) Step() DateStep {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.step
}

// Buffer returns the text typed into the live buffer so far.
func (m *Machine) Buffer() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return string(m.live)
}

func (m *Machine) Quitting() bool {
	return m.Mode() == ModeQuitting
}

// Handle applies one event. A rejected or failed commit is returned and is
// also shown in the banner; the machine is already back in a viewing mode.
func (m *Machine) Handle(ev input.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case ev.Kind == input.Tick || m.mode == ModeQuitting:
		return nil
	case ev.Kind == input.Interrupt:
		m.reset()
		m.mode = ModeQuitting
		return nil
	case m.mode.Collecting():
		return m.handleBuffer(ev)
	default:
		m.handleCommand(ev)
		return nil
	}
}

func (m *Machine) handleCommand(ev input.Event) {
	if ev.Kind == input.Escape && m.mode == ModeError {
		m.mode = ModeViewing
		m.banner = Banner{}
		return
	}
	if ev.Kind != input.KeyPress {
		return
	}
	switch r := ev.Rune; {
	case matches(m.keys.Quit, r):
		m.mode = ModeQuitting
	case matches(m.keys.Add, r):
		m.start(ModeAddingTask)
	case matches(m.keys.AddDated, r):
		m.start(ModeAddingTaskWithDate)
	case matches(m.keys.Complete, r):
		m.start(ModeCompletingTask)
	case matches(m.keys.Uncomplete, r):
		m.start(ModeUncompletingTask)
	}
}

func (m *Machine) handleBuffer(ev input.Event) error {
	switch ev.Kind {
	case input.KeyPress:
		if unicode.IsPrint(ev.Rune) {
			m.live = append(m.live, ev.Rune)
		}
	case input.Backspace:
		if n := len(m.live); n > 0 {
			m.live = m.live[:n-1]
		}
	case input.Escape:
		return m.commit(Command{Kind: CommandCancel})
	case input.Enter:
		return m.submit()
	}
	return nil
}

func (m *Machine) start(mode Mode) {
	m.reset()
	m.mode = mode
	m.banner = Banner{}
}

// reset clears every buffer and the date step. It does not change the mode.
func (m *Machine) reset() {
	m.step = StepName
	m.live = m.live[:0]
	m.name = ""
	m.date = ""
}

// Run draws the first frame and then processes events until the session
// quits. Ticks are consumed without redrawing. Run returns nil on quit; the
// caller restores the terminal.
func (m *Machine) Run(ctx context.Context, events <-chan input.Event, r Renderer) error {
	if err := r.Draw(m.View()); err != nil {
		return fmt.Errorf("draw: %w", err)
	}
	for {
		var ev input.Event
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok = <-events:
		}
		if !ok {
			if m.Quitting() {
				return nil
			}
			return ErrInputClosed
		}
		if ev.Kind == input.Tick {
			continue
		}

		// Rejected input is reported through the banner of the next frame.
		m.Handle(ev)
		if m.Quitting() {
			m.logger.Debug("session quitting")
			return nil
		}
		if err := r.Draw(m.View()); err != nil {
			return fmt.Errorf("draw: %w", err)
		}
	}
}
