package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"ticktodo/internal/config"
	"ticktodo/internal/input"
	"ticktodo/internal/session"
	"ticktodo/internal/storage"
	"ticktodo/internal/todo"
)

func TestRenderListsBothSections(t *testing.T) {
	l := todo.New()
	l.Add("write report")
	l.Add("water plants")
	l.Complete(1)
	v := session.New(l).View()

	out := Render(v, 0, DefaultTheme())
	for _, want := range []string{"TODO LIST", "Pending", "0. write report [ ]", "Completed", "0. water plants [X]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, "quit") {
		t.Fatalf("help line missing:\n%s", out)
	}
}

func TestRenderEmptyList(t *testing.T) {
	out := Render(session.New(todo.New()).View(), 80, DefaultTheme())
	if !strings.Contains(out, "No tasks yet.") {
		t.Fatalf("expected empty placeholder:\n%s", out)
	}
	if strings.Contains(out, "Completed") {
		t.Fatalf("empty completed section rendered:\n%s", out)
	}
}

func TestRenderInputPanel(t *testing.T) {
	m := session.New(todo.New())
	for _, ev := range append(input.Keys("dtrip"), input.Event{Kind: input.Enter}) {
		m.Handle(ev)
	}
	for _, ev := range input.Keys("20") {
		m.Handle(ev)
	}

	out := Render(m.View(), 80, DefaultTheme())
	for _, want := range []string{"Task: trip", "Enter Year (YYYY): ", "20", "esc cancel"} {
		if !strings.Contains(out, want) {
			t.Fatalf("render missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTruncatesLongTitles(t *testing.T) {
	l := todo.New()
	l.Add(strings.Repeat("long ", 30))
	out := Render(session.New(l).View(), 30, DefaultTheme())
	if !strings.Contains(out, "…") {
		t.Fatalf("expected truncated title:\n%s", out)
	}
}

func TestRenderErrorBanner(t *testing.T) {
	m := session.New(todo.New())
	for _, ev := range append(input.Keys("c7"), input.Event{Kind: input.Enter}) {
		m.Handle(ev)
	}
	out := Render(m.View(), 0, DefaultTheme())
	if !strings.Contains(out, "invalid input") {
		t.Fatalf("expected error banner:\n%s", out)
	}
}

func TestTranslate(t *testing.T) {
	cases := []struct {
		name string
		msg  tea.KeyMsg
		want []input.Event
	}{
		{"runes", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("ab")}, []input.Event{input.Key('a'), input.Key('b')}},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, []input.Event{input.Key(' ')}},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, []input.Event{{Kind: input.Enter}}},
		{"backspace", tea.KeyMsg{Type: tea.KeyBackspace}, []input.Event{{Kind: input.Backspace}}},
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, []input.Event{{Kind: input.Escape}}},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, []input.Event{{Kind: input.Interrupt}}},
		{"arrow", tea.KeyMsg{Type: tea.KeyUp}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := translate(tc.msg)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("event %d: got %v, want %v", i, got[i], tc.want[i])
				}
			}
		})
	}
}

func TestModelQueuesKeysAndKeepsLastFrame(t *testing.T) {
	var tm tea.Model = model{queue: newKeyQueue(), theme: DefaultTheme()}
	if tm.View() != "" {
		t.Fatalf("expected blank view before the first frame")
	}
	tm, _ = tm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	tm, _ = tm.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	tm, _ = tm.Update(frameMsg(session.New(todo.New()).View()))
	if !strings.Contains(tm.View(), "TODO LIST") {
		t.Fatalf("frame not rendered: %q", tm.View())
	}

	q := tm.(model).queue
	ev, ok, err := q.pop(time.Millisecond)
	if err != nil || !ok || ev != input.Key('n') {
		t.Fatalf("pop = %v %v %v", ev, ok, err)
	}
}

func TestKeyQueue(t *testing.T) {
	q := newKeyQueue()
	if _, ok, err := q.pop(5 * time.Millisecond); ok || err != nil {
		t.Fatalf("expected timeout, got ok=%v err=%v", ok, err)
	}

	go func() {
		time.Sleep(5 * time.Millisecond)
		q.push(input.Key('x'))
	}()
	ev, ok, err := q.pop(time.Second)
	if err != nil || !ok || ev != input.Key('x') {
		t.Fatalf("pop = %v %v %v", ev, ok, err)
	}

	q.push(input.Key('y'))
	q.close()
	if ev, ok, _ := q.pop(time.Millisecond); !ok || ev != input.Key('y') {
		t.Fatalf("queued event lost on close")
	}
	if _, _, err := q.pop(time.Second); !errors.Is(err, input.ErrSourceClosed) {
		t.Fatalf("expected ErrSourceClosed, got %v", err)
	}
}

// fakeTerminal replays scripted keys and records frames.
type fakeTerminal struct {
	*keyQueue
	mu     sync.Mutex
	frames []session.View
	closed bool
}

func newFakeTerminal(events ...input.Event) *fakeTerminal {
	q := newKeyQueue()
	for _, ev := range events {
		q.push(ev)
	}
	return &fakeTerminal{keyQueue: q}
}

func (f *fakeTerminal) Poll(timeout time.Duration) (input.Event, bool, error) {
	return f.pop(timeout)
}

func (f *fakeTerminal) Draw(v session.View) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, v)
	return nil
}

func (f *fakeTerminal) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.keyQueue.close()
	return nil
}

type countingBackend struct {
	storage.Backend
	saves int
	err   error
}

func (c *countingBackend) Save(l *todo.List) error {
	c.saves++
	if c.err != nil {
		return c.err
	}
	return c.Backend.Save(l)
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Tick = config.Duration{Duration: 10 * time.Millisecond}
	return cfg
}

func script(text string) []input.Event {
	var out []input.Event
	for _, r := range text {
		if r == '\n' {
			out = append(out, input.Event{Kind: input.Enter})
			continue
		}
		out = append(out, input.Key(r))
	}
	return out
}

func openJSON(t *testing.T, path string) storage.Backend {
	t.Helper()
	b, err := storage.Open(storage.KindJSON, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

func TestRunPersistsOnQuit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.json")
	backend := openJSON(t, path)
	list, err := backend.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	cfg := testConfig()
	cfg.Autosave = false
	term := newFakeTerminal(script("nmilk\nneggs\nc0\nq")...)
	if err := Run(context.Background(), cfg, term, backend, list, nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !term.closed {
		t.Fatalf("terminal not closed")
	}

	reloaded, err := openJSON(t, path).Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.PendingCount() != 1 || reloaded.Pending[0].Title != "eggs" {
		t.Fatalf("unexpected pending %+v", reloaded.Pending)
	}
	if reloaded.CompletedCount() != 1 || reloaded.Completed[0].Title != "milk" {
		t.Fatalf("unexpected completed %+v", reloaded.Completed)
	}
}

func TestRunAutosavesEachCommit(t *testing.T) {
	backend := &countingBackend{Backend: openJSON(t, filepath.Join(t.TempDir(), "todo.json"))}
	cfg := testConfig()
	cfg.Autosave = true
	// Two commits, one rejected input and one cancel.
	term := newFakeTerminal(script("na\nc9\nnb\nnx")...)
	term.push(input.Event{Kind: input.Escape})
	term.push(input.Key('q'))

	if err := Run(context.Background(), cfg, term, backend, todo.New(), nil); err != nil {
		t.Fatalf("run: %v", err)
	}
	if backend.saves != 3 {
		t.Fatalf("saved %d times, want 3", backend.saves)
	}
}

func TestRunReportsFailedSave(t *testing.T) {
	fail := errors.New("read-only")
	backend := &countingBackend{Backend: openJSON(t, filepath.Join(t.TempDir(), "todo.json")), err: fail}
	cfg := testConfig()
	cfg.Autosave = false
	term := newFakeTerminal(script("q")...)
	if err := Run(context.Background(), cfg, term, backend, todo.New(), nil); !errors.Is(err, fail) {
		t.Fatalf("expected save error, got %v", err)
	}
}

func TestRunEndsWhenTerminalCloses(t *testing.T) {
	backend := &countingBackend{Backend: openJSON(t, filepath.Join(t.TempDir(), "todo.json"))}
	term := newFakeTerminal(script("nx\n")...)
	term.keyQueue.close()

	err := Run(context.Background(), testConfig(), term, backend, todo.New(), nil)
	if !errors.Is(err, session.ErrInputClosed) {
		t.Fatalf("expected ErrInputClosed, got %v", err)
	}
	if backend.saves == 0 {
		t.Fatalf("list not saved after the terminal closed")
	}
}
