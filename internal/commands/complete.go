package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func addComplete(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:     "complete <index>",
		Aliases: []string{"done"},
		Short:   "Move a pending task to the completed list.",
		Args:    indexArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return move(cmd, ro, args[0], true)
		},
	}

	topLevel.AddCommand(cmd)
}

func addUncomplete(topLevel *cobra.Command, ro *rootOptions) {
	cmd := &cobra.Command{
		Use:     "uncomplete <index>",
		Aliases: []string{"undo"},
		Short:   "Move a completed task back to the pending list.",
		Args:    indexArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return move(cmd, ro, args[0], false)
		},
	}

	topLevel.AddCommand(cmd)
}

func indexArg(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("requires exactly one task index")
	}
	if _, err := strconv.ParseUint(args[0], 10, strconv.IntSize-1); err != nil {
		return fmt.Errorf("%q is not a task index", args[0])
	}
	return nil
}

func move(cmd *cobra.Command, ro *rootOptions, arg string, complete bool) error {
	idx, _ := strconv.Atoi(arg)
	e, err := ro.open()
	if err != nil {
		return err
	}
	defer e.close()

	verb := "Completed"
	if complete {
		err = e.list.Complete(idx)
	} else {
		verb = "Uncompleted"
		err = e.list.Uncomplete(idx)
	}
	if err != nil {
		return err
	}
	if err := e.save(); err != nil {
		return err
	}
	e.logger.Info("task moved", "index", idx, "complete", complete)
	fmt.Fprintf(cmd.OutOrStdout(), "%s task %d\n", verb, idx)
	return nil
}
