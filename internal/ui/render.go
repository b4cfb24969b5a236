package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/muesli/reflow/truncate"

	"ticktodo/internal/session"
)

// Render draws one frame of v. A width of zero means the terminal size is not
// known yet and nothing is truncated.
func Render(v session.View, width int, th Theme) string {
	var b strings.Builder

	b.WriteString(th.Title.Render("TODO LIST"))
	b.WriteString("\n\n")

	b.WriteString(th.Section.Render("Pending"))
	b.WriteString("\n")
	if len(v.Pending) == 0 {
		b.WriteString(th.Empty.Render("No tasks yet."))
		b.WriteString("\n")
	} else {
		b.WriteString(renderTaskList(v.Pending, width, th))
	}

	if len(v.Completed) > 0 {
		b.WriteString("\n")
		b.WriteString(th.Section.Render("Completed"))
		b.WriteString("\n")
		b.WriteString(renderTaskList(v.Completed, width, th))
	}

	if v.Mode.Collecting() {
		b.WriteString("\n")
		b.WriteString(renderInput(v, width, th))
		b.WriteString("\n")
	}

	if v.Banner.Text != "" {
		b.WriteString("\n")
		if v.Banner.IsError {
			b.WriteString(th.Error.Render(v.Banner.Text))
		} else {
			b.WriteString(th.Status.Render(v.Banner.Text))
		}
		b.WriteString("\n")
	}

	if !v.Mode.Collecting() {
		b.WriteString("\n")
		b.WriteString(renderHelp(v.Keys, width))
	} else {
		b.WriteString("\n")
		b.WriteString(th.Status.Render("enter submit • esc cancel"))
	}
	return b.String()
}

func renderTaskList(lines []session.Line, width int, th Theme) string {
	var b strings.Builder
	for _, l := range lines {
		prefix := fmt.Sprintf("%d. ", l.Index)
		suffix := " " + l.Glyph()
		title := l.Title
		if width > 0 {
			room := width - len(prefix) - len(suffix) - len(l.Countdown) - 1
			if room < 1 {
				room = 1
			}
			title = truncate.StringWithTail(title, uint(room), "…")
		}

		style := th.Pending
		if l.Done {
			style = th.Done
		}
		b.WriteString(style.Render(prefix + title + suffix))
		switch {
		case l.Countdown == "overdue":
			b.WriteString(" " + th.Overdue.Render(l.Countdown))
		case l.Countdown != "":
			b.WriteString(" " + th.Countdown.Render(l.Countdown))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderInput shows the live buffer as a focused text input, with the fields
// already entered above it while a dated task is being built.
func renderInput(v session.View, width int, th Theme) string {
	var b strings.Builder
	if v.Mode == session.ModeAddingTaskWithDate {
		if v.Name != "" {
			b.WriteString(th.Field.Render("Task: " + v.Name))
			b.WriteString("\n")
		}
		if v.Date != "" {
			b.WriteString(th.Field.Render("Due: " + v.Date))
			b.WriteString("\n")
		}
	}

	ti := textinput.New()
	ti.Prompt = v.Prompt
	if w := width - len(v.Prompt) - 6; w > 0 {
		ti.Width = w
	}
	ti.SetValue(v.Input)
	ti.Focus()
	b.WriteString(ti.View())

	return th.Panel.Render(b.String())
}

func renderHelp(k session.Keymap, width int) string {
	h := help.New()
	h.Width = width
	return h.ShortHelpView(k.ShortHelp())
}
