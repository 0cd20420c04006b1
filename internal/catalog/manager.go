package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviedb/internal/models"
	"github.com/desertthunder/moviedb/internal/rules"
	"github.com/desertthunder/moviedb/internal/shared"
)

// Recorder persists the history of batch imports. It is optional.
type Recorder interface {
	Record(ctx context.Context, job *models.ImportJob) error
}

// Options configures a [Manager].
type Options struct {
	Logger    *log.Logger // Defaults to shared.NewLogger(nil)
	Recorder  Recorder    // Import history; nil disables recording
	RateLimit float64     // Import inserts per second; 0 is unlimited
}

// Manager enforces the catalog's validation and uniqueness rules over a [models.MovieStore].
//
// Manager holds no state between calls and is safe for concurrent use when its store is.
type Manager struct {
	store     models.MovieStore
	logger    *log.Logger
	recorder  Recorder
	rateLimit float64
}

// NewManager creates a catalog manager over store.
func NewManager(store models.MovieStore, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Manager{
		store:     store,
		logger:    logger,
		recorder:  opts.Recorder,
		rateLimit: opts.RateLimit,
	}
}

// List returns every movie ordered by normalized title.
//
// An unavailable store is logged and reported as an empty catalog.
func (m *Manager) List(ctx context.Context) []models.Movie {
	movies, err := m.store.SelectAll(ctx)
	if err != nil {
		m.logger.Error("failed to list movies", "error", err)
		return []models.Movie{}
	}
	return movies
}

// Count returns the number of movies in the catalog.
func (m *Manager) Count(ctx context.Context) int {
	return len(m.List(ctx))
}

// FindByTitle returns the movie whose title matches case-insensitively after trimming.
func (m *Manager) FindByTitle(ctx context.Context, title string) (models.Movie, bool) {
	movie, err := m.find(ctx, title)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			m.logger.Error("failed to find movie", "title", title, "error", err)
		}
		return models.Movie{}, false
	}
	return movie, true
}

func (m *Manager) find(ctx context.Context, title string) (models.Movie, error) {
	if !rules.IsNonBlank(title) {
		return models.Movie{}, shared.ErrNotFound
	}
	return m.store.SelectByTitle(ctx, strings.TrimSpace(title))
}

// Create validates movie and adds it to the catalog.
func (m *Manager) Create(ctx context.Context, movie models.Movie) error {
	movie = normalize(movie)
	if err := Validate(movie); err != nil {
		return err
	}

	if _, err := m.find(ctx, movie.Title); err == nil {
		return duplicate(movie.Title)
	} else if !errors.Is(err, shared.ErrNotFound) {
		return m.unavailable("create", err)
	}

	if err := m.store.Insert(ctx, movie); err != nil {
		if errors.Is(err, shared.ErrDuplicateKey) {
			return duplicate(movie.Title)
		}
		return m.unavailable("create", err)
	}

	m.logger.Debug("movie created", "title", movie.Title)
	return nil
}

// RemoveByTitle deletes the movie with the given title.
func (m *Manager) RemoveByTitle(ctx context.Context, title string) error {
	if !rules.IsNonBlank(title) {
		return notFound(title)
	}

	n, err := m.store.DeleteByTitle(ctx, strings.TrimSpace(title))
	if err != nil {
		return m.unavailable("remove", err)
	}
	if n == 0 {
		return notFound(strings.TrimSpace(title))
	}

	m.logger.Debug("movie removed", "title", title)
	return nil
}

// UpdateField changes exactly one field of the movie currently titled target.
//
// A rename may only collide with the target itself, so changing the case of a title is allowed.
func (m *Manager) UpdateField(ctx context.Context, target string, update models.FieldUpdate) error {
	if update.IsZero() {
		return &RejectionError{Reason: ReasonUnknownField, Message: "no field given"}
	}

	current, err := m.find(ctx, target)
	if errors.Is(err, shared.ErrNotFound) {
		return notFound(strings.TrimSpace(target))
	} else if err != nil {
		return m.unavailable("update", err)
	}

	if err := ValidateUpdate(update); err != nil {
		return err
	}

	if update.Field() == models.FieldTitle && models.TitleKey(update.Text()) != current.Key() {
		if _, err := m.find(ctx, update.Text()); err == nil {
			return duplicate(update.Text())
		} else if !errors.Is(err, shared.ErrNotFound) {
			return m.unavailable("update", err)
		}
	}

	n, err := m.store.UpdateColumn(ctx, current.Title, update)
	if err != nil {
		if errors.Is(err, shared.ErrDuplicateKey) {
			return duplicate(update.Text())
		}
		return m.unavailable("update", err)
	}
	if n == 0 {
		return notFound(current.Title)
	}

	m.logger.Debug("movie updated", "title", current.Title, "update", update)
	return nil
}

// UpdateFieldValue resolves fieldName and a dynamically typed value into a [models.FieldUpdate] and applies it.
func (m *Manager) UpdateFieldValue(ctx context.Context, target, fieldName string, value any) error {
	update, err := models.NewFieldUpdate(fieldName, value)
	if err != nil {
		return fromFieldError(err)
	}
	return m.UpdateField(ctx, target, update)
}

// UpdateFieldText parses raw as the value of fieldName and applies it. Used for text input such as CLI flags.
func (m *Manager) UpdateFieldText(ctx context.Context, target, fieldName, raw string) error {
	update, err := models.ParseFieldUpdate(fieldName, raw)
	if err != nil {
		return fromFieldError(err)
	}
	return m.UpdateField(ctx, target, update)
}

// AverageRating returns the mean rating of the movies in phase.
//
// It returns 0.0 for a non-positive phase, a phase with no movies, or an unavailable store.
// Use [Manager.CategoryAverage] to tell those cases apart.
func (m *Manager) AverageRating(ctx context.Context, phase int) float64 {
	stats, err := m.CategoryAverage(ctx, phase)
	if err != nil {
		m.logger.Error("failed to average ratings", "phase", phase, "error", err)
		return 0.0
	}
	return stats.Average
}

// CategoryAverage returns the number of movies in phase together with their mean rating.
func (m *Manager) CategoryAverage(ctx context.Context, phase int) (models.CategoryStats, error) {
	stats := models.CategoryStats{Phase: phase}
	if !rules.IsValidCategory(phase) {
		return stats, nil
	}

	avg, count, err := m.store.AverageRating(ctx, phase)
	if err != nil {
		return stats, storeError("average rating", err)
	}
	if count == 0 {
		return stats, nil
	}

	stats.Count = count
	stats.Average = avg
	return stats, nil
}

// Clear removes every movie from the catalog.
func (m *Manager) Clear(ctx context.Context) error {
	n, err := m.store.DeleteAll(ctx)
	if err != nil {
		return m.unavailable("clear", err)
	}
	m.logger.Info("catalog cleared", "removed", n)
	return nil
}

func (m *Manager) unavailable(op string, err error) error {
	m.logger.Error("store operation failed", "op", op, "error", err)
	return storeError(op, err)
}

// storeError guarantees the result matches shared.ErrStoreUnavailable.
func storeError(op string, err error) error {
	if errors.Is(err, shared.ErrStoreUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", shared.ErrStoreUnavailable, op, err)
}

func normalize(movie models.Movie) models.Movie {
	movie.Title = strings.TrimSpace(movie.Title)
	movie.ReleaseDate = strings.TrimSpace(movie.ReleaseDate)
	movie.Director = strings.TrimSpace(movie.Director)
	return movie
}

// Validate checks every field of movie, reporting the first invalid one.
func Validate(movie models.Movie) error {
	for _, f := range models.Fields {
		if err := validateField(f, movie); err != nil {
			return err
		}
	}
	return nil
}

// ValidateUpdate checks the single value carried by update.
func ValidateUpdate(update models.FieldUpdate) error {
	if update.IsZero() {
		return &RejectionError{Reason: ReasonUnknownField, Message: "no field given"}
	}
	return validateField(update.Field(), update.Apply(models.Movie{}))
}

func validateField(f models.Field, movie models.Movie) error {
	switch f {
	case models.FieldTitle:
		if !rules.IsNonBlank(movie.Title) {
			return invalid(f, "title must not be blank")
		}
	case models.FieldReleaseDate:
		if !rules.IsValidDate(movie.ReleaseDate) {
			return invalid(f, "%q is not a valid YYYY-MM-DD date between %d and %d",
				movie.ReleaseDate, rules.MinYear, rules.MaxYear)
		}
	case models.FieldPhase:
		if !rules.IsValidCategory(movie.Phase) {
			return invalid(f, "phase must be positive, got %d", movie.Phase)
		}
	case models.FieldDirector:
		if !rules.IsNonBlank(movie.Director) {
			return invalid(f, "director must not be blank")
		}
	case models.FieldRunningTime:
		if !rules.IsValidDuration(movie.RunningTime) {
			return invalid(f, "running time must be between %d and %d minutes, got %d",
				rules.MinDuration, rules.MaxDuration, movie.RunningTime)
		}
	case models.FieldRating:
		if !rules.IsValidRating(movie.Rating) {
			return invalid(f, "rating must be between %.1f and %.1f, got %v",
				rules.MinRating, rules.MaxRating, movie.Rating)
		}
	}
	return nil
}
