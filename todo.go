package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"tableflip.dev/todo/pkg/app"
	"tableflip.dev/todo/pkg/commands"
	"tableflip.dev/todo/pkg/commands/options"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.New().ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, options.ErrReported) {
			_, _ = color.New(color.FgRed).Fprintf(os.Stderr, "error: %s\n", app.Message(err))
		}
		os.Exit(1)
	}
}
