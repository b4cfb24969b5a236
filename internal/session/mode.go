package session

import "fmt"

// Mode is the UI state deciding how the next key is interpreted.
type Mode int

const (
	ModeViewing Mode = iota
	ModeQuitting
	ModeAddingTask
	ModeAddingTaskWithDate
	ModeCompletingTask
	ModeUncompletingTask
	// ModeError is viewing with a sticky failure banner, entered when a
	// committed change could not be saved. Escape dismisses it.
	ModeError
)

func (m Mode) String() string {
	switch m {
	case ModeViewing:
		return "viewing"
	case ModeQuitting:
		return "quitting"
	case ModeAddingTask:
		return "adding task"
	case ModeAddingTaskWithDate:
		return "adding task with date"
	case ModeCompletingTask:
		return "completing task"
	case ModeUncompletingTask:
		return "uncompleting task"
	case ModeError:
		return "error"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Collecting reports whether keys accumulate into the text buffer.
func (m Mode) Collecting() bool {
	switch m {
	case ModeAddingTask, ModeAddingTaskWithDate, ModeCompletingTask, ModeUncompletingTask:
		return true
	default:
		return false
	}
}

// DateStep is the field being typed while adding a task with a date.
type DateStep int

const (
	StepName DateStep = iota
	StepYear
	StepMonth
	StepDay
	StepTime
)

func (s DateStep) String() string {
	switch s {
	case StepName:
		return "name"
	case StepYear:
		return "year"
	case StepMonth:
		return "month"
	case StepDay:
		return "day"
	case StepTime:
		return "time"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Prompt is the label shown in front of the field being typed.
func (s DateStep) Prompt() string {
	switch s {
	case StepName:
		return "Task Name: "
	case StepYear:
		return "Enter Year (YYYY): "
	case StepMonth:
		return "Enter Month (Jan): "
	case StepDay:
		return "Enter Day: "
	default:
		return "Enter Time (HH:MM:SS): "
	}
}

func (s DateStep) next() DateStep {
	if s >= StepTime {
		return StepTime
	}
	return s + 1
}
