package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ticktodo/internal/todo"
)

var (
	// ErrInvalidInput covers empty titles and bad or out-of-range indexes.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupported covers due dates that do not parse or are not in the future.
	ErrUnsupported = errors.New("unsupported date")
)

type CommandKind int

const (
	CommandAddTask CommandKind = iota
	CommandAddTaskWithDate
	CommandCompleteTask
	CommandUncompleteTask
	CommandCancel
)

// Command is a fully assembled mutation, applied once to the store.
type Command struct {
	Kind  CommandKind
	Title string
	Date  string
	Index int
}

func (c Command) String() string {
	switch c.Kind {
	case CommandAddTask:
		return fmt.Sprintf("add %q", c.Title)
	case CommandAddTaskWithDate:
		return fmt.Sprintf("add %q due %q", c.Title, c.Date)
	case CommandCompleteTask:
		return fmt.Sprintf("complete %d", c.Index)
	case CommandUncompleteTask:
		return fmt.Sprintf("uncomplete %d", c.Index)
	default:
		return "cancel"
	}
}

func (c Command) summary() string {
	switch c.Kind {
	case CommandAddTask, CommandAddTaskWithDate:
		return fmt.Sprintf("Added %q", c.Title)
	case CommandCompleteTask:
		return fmt.Sprintf("Completed task %d", c.Index)
	case CommandUncompleteTask:
		return fmt.Sprintf("Uncompleted task %d", c.Index)
	default:
		return "Cancelled"
	}
}

// submit handles Enter in a collecting mode. Only the name and first three
// date fields advance in place; everything else commits or is rejected and
// returns to viewing.
func (m *Machine) submit() error {
	text := string(m.live)
	switch m.mode {
	case ModeAddingTask:
		title := strings.TrimSpace(text)
		if title == "" {
			return m.reject(fmt.Errorf("%w: task title is empty", ErrInvalidInput))
		}
		return m.commit(Command{Kind: CommandAddTask, Title: title})

	case ModeAddingTaskWithDate:
		switch m.step {
		case StepName:
			name := strings.TrimSpace(text)
			if name == "" {
				return m.reject(fmt.Errorf("%w: task name is empty", ErrInvalidInput))
			}
			m.name = name
		case StepYear, StepMonth, StepDay:
			m.date += text + " "
		default:
			m.date += text
			return m.commit(Command{Kind: CommandAddTaskWithDate, Title: m.name, Date: m.date})
		}
		m.live = m.live[:0]
		m.step = m.step.next()
		return nil

	case ModeCompletingTask:
		idx, err := parseIndex(text, m.store.PendingCount(), "pending")
		if err != nil {
			return m.reject(err)
		}
		return m.commit(Command{Kind: CommandCompleteTask, Index: idx})

	case ModeUncompletingTask:
		idx, err := parseIndex(text, m.store.CompletedCount(), "completed")
		if err != nil {
			return m.reject(err)
		}
		return m.commit(Command{Kind: CommandUncompleteTask, Index: idx})
	}
	return nil
}

func parseIndex(text string, count int, list string) (int, error) {
	text = strings.TrimSpace(text)
	n, err := strconv.ParseUint(text, 10, strconv.IntSize-1)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a task number", ErrInvalidInput, text)
	}
	idx := int(n)
	if idx >= count {
		return 0, fmt.Errorf("%w: task %d does not exist (%d %s)", ErrInvalidInput, idx, count, list)
	}
	return idx, nil
}

// commit applies cmd and always leaves the machine viewing with empty buffers.
func (m *Machine) commit(cmd Command) error {
	err := m.apply(cmd)
	m.reset()
	m.mode = ModeViewing
	if err != nil {
		return m.reject(err)
	}
	m.banner = Banner{Text: cmd.summary()}
	if cmd.Kind == CommandCancel {
		return nil
	}
	m.logger.Debug("committed", "command", cmd.String())

	if m.onCommit != nil {
		if err := m.onCommit(); err != nil {
			m.mode = ModeError
			m.banner = Banner{Text: "save failed: " + err.Error(), IsError: true}
			m.logger.Error("save after commit failed", "command", cmd.String(), "err", err)
			return err
		}
	}
	return nil
}

func (m *Machine) reject(err error) error {
	m.reset()
	m.mode = ModeViewing
	m.banner = Banner{Text: err.Error(), IsError: true}
	m.logger.Warn("input rejected", "err", err)
	return err
}

func (m *Machine) apply(cmd Command) error {
	var err error
	switch cmd.Kind {
	case CommandAddTask:
		_, err = m.store.Add(cmd.Title)
	case CommandAddTaskWithDate:
		_, err = m.store.AddWithDate(cmd.Title, cmd.Date, m.now())
	case CommandCompleteTask:
		err = m.store.Complete(cmd.Index)
	case CommandUncompleteTask:
		err = m.store.Uncomplete(cmd.Index)
	}
	return classify(err)
}

// classify maps task list errors onto the two classes the session recovers from.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, todo.ErrDateParse), errors.Is(err, todo.ErrPastDate):
		return fmt.Errorf("%w: %w", ErrUnsupported, err)
	case errors.Is(err, todo.ErrEmptyTitle), errors.Is(err, todo.ErrDuplicate), errors.Is(err, todo.ErrOutOfRange):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return err
	}
}
