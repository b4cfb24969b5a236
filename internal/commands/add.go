package commands

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ticktodo/internal/todo"
)

type addOptions struct {
	Due string
}

func addAdd(topLevel *cobra.Command, ro *rootOptions) {
	ao := &addOptions{}

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a pending task.",
		Example: `
todo add Buy milk
todo add Dentist --due "2026 Apr 2 09:30:00"
`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < 1 {
				return errors.New("requires a task title")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := ro.open()
			if err != nil {
				return err
			}
			defer e.close()

			title := strings.Join(args, " ")
			if ao.Due != "" {
				_, err = e.list.AddWithDate(title, ao.Due, time.Now())
			} else {
				_, err = e.list.Add(title)
			}
			if err != nil {
				return err
			}
			if err := e.save(); err != nil {
				return err
			}
			e.logger.Info("task added", "title", title, "due", ao.Due)
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q as task %d\n", title, e.list.PendingCount()-1)
			return nil
		},
	}
	cmd.Flags().StringVar(&ao.Due, "due", "", fmt.Sprintf("due date in the form %q", todo.DateLayout))

	topLevel.AddCommand(cmd)
}
