package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/japaniel/vocabbuilder/internal/cli"
)

func main() {
	// Setup context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx); err != nil {
		cancel()
		os.Exit(cli.ExitCode(err))
	}
}
