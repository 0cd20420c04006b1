package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/moviedb/internal/shared"
	"github.com/desertthunder/moviedb/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for browsing the catalog.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	shared.SetLogLevel(fileLogger, shared.ParseLevel(r.config.Log.Level))
	r.SetLogger(fileLogger)

	m, err := r.Catalog(ctx)
	if err != nil {
		return err
	}
	return ui.Run(ctx, m)
}
