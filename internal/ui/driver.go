package ui

import (
	"errors"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ticktodo/internal/input"
	"ticktodo/internal/session"
)

// ErrTerminalClosed is returned by Draw once the terminal program has exited.
var ErrTerminalClosed = errors.New("terminal closed")

// Driver runs a Bubble Tea program that owns the terminal. Key presses are
// queued for Poll and frames arrive through Draw, so Driver serves as both
// the input source of the capture loop and the renderer of the session.
type Driver struct {
	program *tea.Program
	queue   *keyQueue
	done    chan struct{}
	err     error
}

type frameMsg session.View

func NewDriver(opts ...tea.ProgramOption) *Driver {
	q := newKeyQueue()
	return &Driver{
		program: tea.NewProgram(model{queue: q, theme: DefaultTheme()}, opts...),
		queue:   q,
		done:    make(chan struct{}),
	}
}

// Start runs the program in the background. Poll reports the source closed
// once it exits.
func (d *Driver) Start() {
	go func() {
		_, err := d.program.Run()
		d.err = err
		d.queue.close()
		close(d.done)
	}()
}

func (d *Driver) Poll(timeout time.Duration) (input.Event, bool, error) {
	return d.queue.pop(timeout)
}

func (d *Driver) Draw(v session.View) error {
	select {
	case <-d.done:
		return ErrTerminalClosed
	default:
	}
	d.program.Send(frameMsg(v))
	return nil
}

// Close stops the program, restores the terminal and waits for it to exit.
func (d *Driver) Close() error {
	d.program.Quit()
	<-d.done
	return d.err
}

type model struct {
	queue *keyQueue
	theme Theme
	view  *session.View
	width int
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		for _, ev := range translate(msg) {
			m.queue.push(ev)
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case frameMsg:
		v := session.View(msg)
		m.view = &v
	}
	return m, nil
}

func (m model) View() string {
	if m.view == nil {
		return ""
	}
	return Render(*m.view, m.width, m.theme)
}

// translate maps a Bubble Tea key message onto session events. Keys the
// session has no use for map to nothing.
func translate(msg tea.KeyMsg) []input.Event {
	switch msg.Type {
	case tea.KeyRunes:
		return input.Keys(string(msg.Runes))
	case tea.KeySpace:
		return []input.Event{input.Key(' ')}
	case tea.KeyEnter:
		return []input.Event{{Kind: input.Enter}}
	case tea.KeyBackspace:
		return []input.Event{{Kind: input.Backspace}}
	case tea.KeyEsc:
		return []input.Event{{Kind: input.Escape}}
	case tea.KeyCtrlC:
		return []input.Event{{Kind: input.Interrupt}}
	default:
		return nil
	}
}

// keyQueue is an unbounded FIFO between the program's update loop, which must
// never block, and the capture loop polling it.
type keyQueue struct {
	mu     sync.Mutex
	events []input.Event
	closed bool
	ready  chan struct{}
}

func newKeyQueue() *keyQueue {
	return &keyQueue{ready: make(chan struct{}, 1)}
}

func (q *keyQueue) push(ev input.Event) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
	q.signal()
}

func (q *keyQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

func (q *keyQueue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// pop waits up to timeout for the next event. Events queued before close are
// still delivered; after that pop returns input.ErrSourceClosed.
func (q *keyQueue) pop(timeout time.Duration) (input.Event, bool, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		q.mu.Lock()
		if len(q.events) > 0 {
			ev := q.events[0]
			q.events = q.events[1:]
			q.mu.Unlock()
			return ev, true, nil
		}
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return input.Event{}, false, input.ErrSourceClosed
		}

		select {
		case <-q.ready:
		case <-timer.C:
			return input.Event{}, false, nil
		}
	}
}
