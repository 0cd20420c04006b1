package main

import (
	"context"
	"time"

	"github.com/desertthunder/moviedb/internal/catalog"
	"github.com/urfave/cli/v3"
)

// ImportFile loads a comma-separated batch file into the catalog.
func (r *Runner) ImportFile(ctx context.Context, cmd *cli.Command) error {
	path, err := requireArg(cmd, "path")
	if err != nil {
		return err
	}

	m, err := r.Catalog(ctx)
	if err != nil {
		return err
	}

	r.logger.Info("starting import", "path", path)

	var progressCh chan catalog.ProgressUpdate
	done := make(chan struct{})
	if cmd.Bool("progress") {
		progressCh = make(chan catalog.ProgressUpdate, 50)
		go func() {
			defer close(done)
			for update := range progressCh {
				switch update.Phase {
				case catalog.ReadSource:
					r.writePlain("📥 %s\n", update.Message)
				case catalog.ImportLine:
					r.writePlain("   [%d/%d] %s\n", update.Step, update.Total, update.Message)
				case catalog.ImportDone:
					r.writePlain("\n📝 %s\n", update.Message)
				}
			}
		}()
	} else {
		close(done)
	}

	summary, err := m.Import(ctx, catalog.FileSource{Path: path}, progressCh)
	if progressCh != nil {
		close(progressCh)
	}
	<-done

	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(summary, true)
	}

	r.writePlain("%s\n", summary)
	for _, failure := range summary.Failures {
		r.writePlain("  line %d: %s\n", failure.Line, failure.Message())
	}
	return nil
}

// ImportHistoryList prints recorded batch imports, newest first.
func (r *Runner) ImportHistoryList(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.ImportHistory(ctx)
	if err != nil {
		return err
	}

	jobs, err := repo.List(ctx, int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(jobs, cmd.Bool("pretty"))
	}

	if len(jobs) == 0 {
		return r.writePlain("No imports recorded.\n")
	}

	r.writePlainHeader("Import History")
	for _, job := range jobs {
		r.writePlain("#%d %s %-9s %3d added %3d failed  %s\n",
			job.Sequence, job.StartedAt.Format(time.DateTime), job.Status, job.Added, job.Failed, job.Source)
		if job.Error != "" {
			r.writePlain("   error: %s\n", job.Error)
		}
	}
	return nil
}
