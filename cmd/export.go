package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/moviedb/internal/formatter"
	"github.com/urfave/cli/v3"
)

// Export writes the catalog in the requested format to --output or stdout.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	m, err := r.Catalog(ctx)
	if err != nil {
		return err
	}
	movies := m.List(ctx)

	if path := cmd.String("output"); path != "" {
		if err := formatter.WriteExport(movies, format, path); err != nil {
			return err
		}
		r.logger.Info("catalog exported", "format", format, "path", path, "movies", len(movies))
		return nil
	}

	data, err := formatter.Export(movies, format)
	if err != nil {
		return fmt.Errorf("failed to export catalog: %w", err)
	}
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
