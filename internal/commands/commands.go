// Package commands wires the ticktodo command line: the interactive session
// plus one-shot commands that read or change the stored list.
package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"ticktodo/internal/config"
	"ticktodo/internal/logging"
	"ticktodo/internal/storage"
	"ticktodo/internal/todo"
)

// rootOptions are the persistent flags. Set flags override the config file.
type rootOptions struct {
	ConfigPath string
	DataPath   string
	Backend    string
	LogFile    string
	LogLevel   string
	Tick       time.Duration
}

func New() *cobra.Command {
	ro := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "todo",
		Short:         "A terminal todo list with due date countdowns.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, ro)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&ro.ConfigPath, "config", config.ResolveConfigPath(), "config file")
	f.StringVar(&ro.DataPath, "data", "", "task list location (overrides data_path)")
	f.StringVar(&ro.Backend, "backend", "", "storage backend: sqlite or json")
	f.StringVar(&ro.LogFile, "log-file", "", "write logs to this file")
	f.StringVar(&ro.LogLevel, "log-level", "", "log level: debug, info, warn or error")
	f.DurationVar(&ro.Tick, "tick", 0, "input capture tick")

	addCommands(cmd, ro)
	return cmd
}

func addCommands(topLevel *cobra.Command, ro *rootOptions) {
	addUI(topLevel, ro)
	addList(topLevel, ro)
	addAdd(topLevel, ro)
	addComplete(topLevel, ro)
	addUncomplete(topLevel, ro)
}

// env is everything a command needs once the config and the list are loaded.
type env struct {
	cfg      config.Config
	backend  storage.Backend
	list     *todo.List
	logger   *log.Logger
	closeLog func() error
}

func (o *rootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.LoadOrCreate(o.ConfigPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	if o.DataPath != "" {
		cfg.DataPath = o.DataPath
	}
	if o.Backend != "" {
		cfg.Backend = o.Backend
	}
	if o.LogFile != "" {
		cfg.LogFile = o.LogFile
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.Tick > 0 {
		cfg.Tick.Duration = o.Tick
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", o.ConfigPath, err)
	}
	return cfg, nil
}

func (o *rootOptions) open() (*env, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger, closeLog, err := logging.New(logging.Options{File: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return nil, err
	}

	backend, err := storage.Open(cfg.Backend, cfg.DataPath)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("failed to open %s: %w", cfg.DataPath, err)
	}
	list, err := backend.Load()
	if err != nil {
		backend.Close()
		closeLog()
		if errors.Is(err, storage.ErrInvalidData) {
			return nil, fmt.Errorf("%s is not a valid task list, refusing to overwrite it: %w", cfg.DataPath, err)
		}
		return nil, fmt.Errorf("failed to load %s: %w", cfg.DataPath, err)
	}
	logger.Debug("task list loaded", "backend", cfg.Backend, "path", backend.Path(),
		"pending", list.PendingCount(), "completed", list.CompletedCount())

	return &env{cfg: cfg, backend: backend, list: list, logger: logger, closeLog: closeLog}, nil
}

func (e *env) save() error {
	if err := e.backend.Save(e.list); err != nil {
		return fmt.Errorf("failed to save %s: %w", e.backend.Path(), err)
	}
	return nil
}

func (e *env) close() error {
	return errors.Join(e.backend.Close(), e.closeLog())
}
