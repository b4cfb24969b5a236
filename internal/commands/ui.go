package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"ticktodo/internal/ui"
)

func addUI(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive list (the default).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, ro)
		},
	}

	topLevel.AddCommand(cmd)
}

func runUI(cmd *cobra.Command, ro *rootOptions) error {
	e, err := ro.open()
	if err != nil {
		return err
	}
	runErr := ui.Launch(cmd.Context(), e.cfg, e.backend, e.list, e.logger)
	return errors.Join(runErr, e.close())
}
