package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/moviedb/internal/models"
	"github.com/desertthunder/moviedb/internal/rules"
	"github.com/desertthunder/moviedb/internal/shared"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// FieldCount is the number of comma separated values in one batch line.
const FieldCount = 6

// LineSource supplies the lines of a batch import.
type LineSource interface {
	Name() string
	Lines(ctx context.Context) ([]string, error)
}

// FileSource reads a batch from a text file.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return s.Path }

func (s FileSource) Lines(ctx context.Context) ([]string, error) {
	return shared.ReadLinesFile(s.Path)
}

// ReaderSource reads a batch from an arbitrary reader, such as a request body.
type ReaderSource struct {
	Label  string
	Reader io.Reader
}

func (s ReaderSource) Name() string { return s.Label }

func (s ReaderSource) Lines(ctx context.Context) ([]string, error) {
	return shared.ReadLines(s.Reader)
}

// ImportBatch creates one movie per non-blank line, continuing past lines that fail.
//
// Each line holds title, release date, phase, director, running time and rating separated by commas.
// Lines added before a failure stay in the catalog. The returned error is non-nil only when the
// context is cancelled or the store becomes unavailable; the summary then covers the lines processed so far.
func (m *Manager) ImportBatch(ctx context.Context, lines []string) (models.BatchSummary, error) {
	return m.ImportLines(ctx, lines, nil)
}

// ImportLines is [Manager.ImportBatch] with progress reporting.
func (m *Manager) ImportLines(ctx context.Context, lines []string, progress chan<- ProgressUpdate) (models.BatchSummary, error) {
	var summary models.BatchSummary
	var limiter *rate.Limiter
	if m.rateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(m.rateLimit), 1)
	}

	total := len(lines)
	for i, line := range lines {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if !rules.IsNonBlank(line) {
			continue
		}

		lineNo := i + 1
		movie, err := ParseLine(line)
		if err == nil {
			if limiter != nil {
				if err := limiter.Wait(ctx); err != nil {
					return summary, err
				}
			}
			err = m.Create(ctx, movie)
		}

		switch {
		case err == nil:
			summary.Added++
			sendProgress(progress, lineAddedUpdate(lineNo, total, movie.Title))
		case errors.Is(err, ErrRejected):
			m.logger.Warn("skipping batch line", "line", lineNo, "reason", err)
			summary.Fail(lineNo, line, err)
			sendProgress(progress, lineFailedUpdate(lineNo, total, err))
		default:
			return summary, err
		}
	}

	sendProgress(progress, importDoneUpdate(total, summary))
	m.logger.Info(summary.String())
	return summary, nil
}

// ImportFile imports every line of src.
//
// A source that cannot be read fails the whole run before any line is processed.
func (m *Manager) ImportFile(ctx context.Context, src LineSource) (models.BatchSummary, error) {
	return m.Import(ctx, src, nil)
}

// Import is [Manager.ImportFile] with progress reporting. Each run is recorded when a [Recorder] is configured.
func (m *Manager) Import(ctx context.Context, src LineSource, progress chan<- ProgressUpdate) (models.BatchSummary, error) {
	job := &models.ImportJob{
		ID:        uuid.NewString(),
		Source:    src.Name(),
		StartedAt: time.Now().UTC(),
	}

	sendProgress(progress, readSourceUpdate(src.Name()))
	lines, err := src.Lines(ctx)
	if err != nil {
		m.logger.Error("failed to read batch source", "source", src.Name(), "error", err)
		m.record(ctx, job, models.BatchSummary{}, err)
		if !errors.Is(err, shared.ErrUnreadableSource) {
			err = fmt.Errorf("%w: %w", shared.ErrUnreadableSource, err)
		}
		return models.BatchSummary{}, err
	}

	summary, err := m.ImportLines(ctx, lines, progress)
	m.record(ctx, job, summary, err)
	return summary, err
}

// record saves job without affecting the outcome of the import.
func (m *Manager) record(ctx context.Context, job *models.ImportJob, summary models.BatchSummary, err error) {
	if m.recorder == nil {
		return
	}

	completed := time.Now().UTC()
	job.CompletedAt = &completed
	job.Added = summary.Added
	job.Failed = summary.Failed
	job.Status = models.ImportCompleted
	if err != nil {
		job.Status = models.ImportFailed
		job.Error = err.Error()
	}

	if rerr := m.recorder.Record(context.WithoutCancel(ctx), job); rerr != nil {
		m.logger.Warn("failed to record import", "id", job.ID, "error", rerr)
	}
}

// ParseLine converts one batch line into a movie without checking value ranges.
func ParseLine(line string) (models.Movie, error) {
	parts := strings.Split(line, ",")
	if len(parts) != FieldCount {
		return models.Movie{}, &RejectionError{
			Reason:  ReasonInvalidValue,
			Message: fmt.Sprintf("expected %d fields, got %d", FieldCount, len(parts)),
		}
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	phase, err := strconv.Atoi(parts[2])
	if err != nil {
		return models.Movie{}, typeError(models.FieldPhase, parts[2])
	}
	runtime, err := strconv.Atoi(parts[4])
	if err != nil {
		return models.Movie{}, typeError(models.FieldRunningTime, parts[4])
	}
	rating, err := strconv.ParseFloat(parts[5], 64)
	if err != nil {
		return models.Movie{}, typeError(models.FieldRating, parts[5])
	}

	return models.Movie{
		Title:       parts[0],
		ReleaseDate: parts[1],
		Phase:       phase,
		Director:    parts[3],
		RunningTime: runtime,
		Rating:      rating,
	}, nil
}

func typeError(f models.Field, raw string) error {
	return &RejectionError{
		Reason:  ReasonTypeMismatch,
		Field:   f,
		Message: fmt.Sprintf("expected %s, got %q", f.Kind(), raw),
	}
}
