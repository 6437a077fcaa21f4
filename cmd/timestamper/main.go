package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/derdritte/timestamper/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(1)
		}
		logger.New(logger.Config{}).WithError(err).Fatal("command failed")
	}
}
