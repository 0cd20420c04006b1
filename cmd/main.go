package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/moviedb/internal/catalog"
	"github.com/desertthunder/moviedb/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnv(); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerOpts{Logger: logger})
	err := runner.App().Run(ctx, os.Args)
	runner.Close()

	if err != nil {
		if rej, ok := catalog.IsRejection(err); ok {
			logger.Error("rejected", "reason", rej.Reason, "error", rej)
			os.Exit(1)
		}
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
