// Package ui runs the interactive session in the terminal: a Bubble Tea
// program draws frames and collects keys, the capture loop feeds them to the
// session machine, and the task list is saved on every commit and on exit.
package ui

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"ticktodo/internal/config"
	"ticktodo/internal/input"
	"ticktodo/internal/logging"
	"ticktodo/internal/session"
	"ticktodo/internal/storage"
	"ticktodo/internal/todo"
)

// Terminal is what the session needs from the screen. *Driver implements it.
type Terminal interface {
	input.Source
	session.Renderer
	Close() error
}

// Launch takes over the terminal with the alternate screen and runs the
// session until the user quits.
func Launch(ctx context.Context, cfg config.Config, backend storage.Backend, list *todo.List, logger *log.Logger) error {
	d := NewDriver(tea.WithAltScreen())
	d.Start()
	return Run(ctx, cfg, d, backend, list, logger)
}

// Run drives one session on term and closes it before returning. The list is
// saved after each commit when autosave is on, and always once more on exit.
func Run(ctx context.Context, cfg config.Config, term Terminal, backend storage.Backend, list *todo.List, logger *log.Logger) error {
	if logger == nil {
		logger = logging.Discard()
	}
	save := func() error {
		if err := backend.Save(list); err != nil {
			return fmt.Errorf("save %s: %w", backend.Path(), err)
		}
		return nil
	}

	opts := []session.Option{
		session.WithKeymap(session.NewKeymap(cfg.Keys)),
		session.WithLogger(logger),
	}
	if cfg.Autosave {
		opts = append(opts, session.WithCommitHook(save))
	}
	m := session.New(list, opts...)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan input.Event)
	capture := &input.Capture{Source: term, Stop: m, Tick: cfg.Tick.Duration, Logger: logger}
	var (
		wg         sync.WaitGroup
		captureErr error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		captureErr = capture.Run(ctx, events)
	}()

	logger.Info("session started", "data", backend.Path(), "pending", list.PendingCount(), "completed", list.CompletedCount())
	runErr := m.Run(ctx, events, term)
	cancel()
	closeErr := term.Close()
	wg.Wait()

	if captureErr != nil {
		captureErr = fmt.Errorf("capture: %w", captureErr)
	}
	saveErr := save()
	if saveErr != nil {
		logger.Error("final save failed", "err", saveErr)
	}
	logger.Info("session ended", "mode", m.Mode())
	return errors.Join(runErr, captureErr, closeErr, saveErr)
}
