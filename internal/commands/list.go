package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"ticktodo/internal/session"
)

func addList(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print the pending and completed tasks.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := ro.open()
			if err != nil {
				return err
			}
			defer e.close()

			printList(cmd.OutOrStdout(), session.New(e.list).View())
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

func printList(w io.Writer, v session.View) {
	if len(v.Pending) == 0 && len(v.Completed) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	fmt.Fprintln(w, "Pending:")
	for _, l := range v.Pending {
		fmt.Fprintln(w, l.String())
	}
	if len(v.Completed) > 0 {
		fmt.Fprintln(w, "Completed:")
		for _, l := range v.Completed {
			fmt.Fprintln(w, l.String())
		}
	}
}
