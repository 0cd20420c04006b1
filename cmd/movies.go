package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/moviedb/internal/catalog"
	"github.com/desertthunder/moviedb/internal/formatter"
	"github.com/desertthunder/moviedb/internal/models"
	"github.com/desertthunder/moviedb/internal/shared"
	"github.com/urfave/cli/v3"
)

// MoviesList prints every movie in the catalog.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	m, err := r.Catalog(ctx)
	if err != nil {
		return err
	}

	movies := m.List(ctx)
	if cmd.Bool("json") {
		return r.writeJSON(movies, cmd.Bool("pretty"))
	}

	if len(movies) == 0 {
		return r.writePlain("No movies in the catalog.\n")
	}

	r.writePlainHeader(fmt.Sprintf("Movie Catalog (%d)", len(movies)))
	for _, movie := range movies {
		r.writePlain("%s\n", formatter.FormatMovie(movie))
	}
	return nil
}

// MoviesShow prints a single movie.
func (r *Runner) MoviesShow(ctx context.Context, cmd *cli.Command) error {
	title, err := requireArg(cmd, "title")
	if err != nil {
		return err
	}

	m, err := r.Catalog(ctx)
	if err != nil {
		return err
	}

	movie, ok := m.FindByTitle(ctx, title)
	if !ok {
		return fmt.Errorf("%w: no movie titled %q", catalog.ErrNotFound, title)
	}

	if cmd.Bool("json") {
		return r.writeJSON(movie, true)
	}
	return r.writePlain("%s\n", formatter.FormatMovie(movie))
}

// MoviesAdd creates a movie from flags.
func (r *Runner) MoviesAdd(ctx context.Context, cmd *cli.Command) error {
	movie := models.Movie{
		Title:       cmd.String("title"),
		ReleaseDate: cmd.String("date"),
		Phase:       int(cmd.Int("phase")),
		Director:    cmd.String("director"),
		RunningTime: int(cmd.Int("runtime")),
		Rating:      cmd.Float("rating"),
	}

	m, err := r.Catalog(ctx)
	if err != nil {
		return err
	}
	if err := m.Create(ctx, movie); err != nil {
		return err
	}

	r.logger.Info("movie added", "title", movie.Title)
	return r.writePlain("Added %q.\n", strings.TrimSpace(movie.Title))
}

// MoviesUpdate changes one field of a movie.
func (r *Runner) MoviesUpdate(ctx context.Context, cmd *cli.Command) error {
	title, err := requireArg(cmd, "title")
	if err != nil {
		return err
	}
	field := cmd.String("field")
	value := cmd.String("value")

	m, err := r.Catalog(ctx)
	if err != nil {
		return err
	}
	if err := m.UpdateFieldText(ctx, title, field, value); err != nil {
		return err
	}

	r.logger.Info("movie updated", "title", title, "field", field)
	return r.writePlain("Updated %s of %q.\n", field, title)
}

// MoviesRemove deletes a movie by title.
func (r *Runner) MoviesRemove(ctx context.Context, cmd *cli.Command) error {
	title, err := requireArg(cmd, "title")
	if err != nil {
		return err
	}

	m, err := r.Catalog(ctx)
	if err != nil {
		return err
	}
	if err := m.RemoveByTitle(ctx, title); err != nil {
		return err
	}

	r.logger.Info("movie removed", "title", title)
	return r.writePlain("Removed %q.\n", title)
}

// MoviesAverage prints the average rating of a phase.
func (r *Runner) MoviesAverage(ctx context.Context, cmd *cli.Command) error {
	phase := int(cmd.Int("phase"))

	m, err := r.Catalog(ctx)
	if err != nil {
		return err
	}
	stats, err := m.CategoryAverage(ctx, phase)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(stats, false)
	}
	return r.writePlain("%s\n", formatter.FormatStats(stats))
}

// MoviesClear removes every movie. It refuses to run without --yes.
func (r *Runner) MoviesClear(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: pass --yes to remove every movie", shared.ErrMissingArgument)
	}

	m, err := r.Catalog(ctx)
	if err != nil {
		return err
	}
	if err := m.Clear(ctx); err != nil {
		return err
	}
	return r.writePlain("Catalog cleared.\n")
}

func requireArg(cmd *cli.Command, name string) (string, error) {
	v := strings.TrimSpace(cmd.StringArg(name))
	if v == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	return v, nil
}
