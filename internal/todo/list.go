// Package todo holds the in-memory task list: pending and completed items,
// plus the due-date parsing used when a task is added with a date.
package todo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyTitle = errors.New("title is empty")
	ErrDuplicate  = errors.New("a pending task with that title already exists")
	ErrOutOfRange = errors.New("index out of range")
	ErrDateParse  = errors.New("date could not be parsed")
	ErrPastDate   = errors.New("due date is not in the future")
)

type Item struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Completed bool       `json:"completed"`
	Due       *time.Time `json:"due_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// HasDue reports whether the item carries a due date.
func (it Item) HasDue() bool {
	return it.Due != nil && !it.Due.IsZero()
}

// List keeps pending and completed items in two ordered sub-lists. Completing
// or uncompleting an item moves it to the end of the other sub-list.
type List struct {
	Pending   []Item `json:"todo_items"`
	Completed []Item `json:"completed_items"`
}

func New() *List {
	return &List{
		Pending:   []Item{},
		Completed: []Item{},
	}
}

// Add appends a pending item without a due date and returns its id.
func (l *List) Add(title string) (string, error) {
	title = strings.TrimSpace(title)
	if err := l.checkTitle(title); err != nil {
		return "", err
	}
	it := newItem(title, nil)
	l.Pending = append(l.Pending, it)
	return it.ID, nil
}

// AddWithDate parses date with DateLayout in the local zone and appends a
// pending item due at that moment. The moment must be strictly after now.
func (l *List) AddWithDate(title, date string, now time.Time) (string, error) {
	title = strings.TrimSpace(title)
	if err := l.checkTitle(title); err != nil {
		return "", err
	}
	due, err := ParseDue(date, now.Location())
	if err != nil {
		return "", err
	}
	if !due.After(now) {
		return "", fmt.Errorf("%w: %s", ErrPastDate, due.Format(DateLayout))
	}
	it := newItem(title, &due)
	l.Pending = append(l.Pending, it)
	return it.ID, nil
}

func (l *List) Complete(index int) error {
	if index < 0 || index >= len(l.Pending) {
		return fmt.Errorf("%w: %d (pending tasks: %d)", ErrOutOfRange, index, len(l.Pending))
	}
	it := l.Pending[index]
	it.Completed = true
	l.Pending = append(l.Pending[:index], l.Pending[index+1:]...)
	l.Completed = append(l.Completed, it)
	return nil
}

func (l *List) Uncomplete(index int) error {
	if index < 0 || index >= len(l.Completed) {
		return fmt.Errorf("%w: %d (completed tasks: %d)", ErrOutOfRange, index, len(l.Completed))
	}
	it := l.Completed[index]
	it.Completed = false
	l.Completed = append(l.Completed[:index], l.Completed[index+1:]...)
	l.Pending = append(l.Pending, it)
	return nil
}

func (l *List) PendingCount() int {
	return len(l.Pending)
}

func (l *List) CompletedCount() int {
	return len(l.Completed)
}

// Find returns the index of the pending item with the given title.
func (l *List) Find(title string) (int, bool) {
	for i, it := range l.Pending {
		if it.Title == title {
			return i, true
		}
	}
	return 0, false
}

// Snapshot is a copy of the list that callers may keep across mutations.
type Snapshot struct {
	Pending   []Item
	Completed []Item
}

func (l *List) Snapshot() Snapshot {
	return Snapshot{
		Pending:   cloneItems(l.Pending),
		Completed: cloneItems(l.Completed),
	}
}

func (l *List) checkTitle(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if _, ok := l.Find(title); ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, title)
	}
	return nil
}

func newItem(title string, due *time.Time) Item {
	return Item{
		ID:        uuid.NewString(),
		Title:     title,
		Due:       due,
		CreatedAt: time.Now().UTC(),
	}
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		if it.Due != nil {
			due := *it.Due
			it.Due = &due
		}
		out[i] = it
	}
	return out
}
