package main

import (
	"context"
	"fmt"
	"os"

	"ticktodo/internal/commands"
)

func main() {
	if err := commands.New().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "todo: %v\n", err)
		os.Exit(1)
	}
}
