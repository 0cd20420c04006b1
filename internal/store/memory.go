// package store provides a process-local [models.MovieStore].
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/desertthunder/moviedb/internal/models"
	"github.com/desertthunder/moviedb/internal/shared"
	"github.com/shopspring/decimal"
)

// Memory keeps movies in a map keyed by normalized title. The zero value is not usable; call [NewMemory].
type Memory struct {
	mu     sync.Mutex
	movies map[string]models.Movie
}

// NewMemory creates an empty store, optionally seeded with movies.
func NewMemory(seed ...models.Movie) *Memory {
	m := &Memory{movies: make(map[string]models.Movie, len(seed))}
	for _, movie := range seed {
		m.movies[movie.Key()] = movie
	}
	return m
}

func (m *Memory) Insert(ctx context.Context, movie models.Movie) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrStoreUnavailable, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := movie.Key()
	if _, ok := m.movies[key]; ok {
		return fmt.Errorf("%w: %q", shared.ErrDuplicateKey, movie.Title)
	}
	m.movies[key] = movie
	return nil
}

func (m *Memory) DeleteByTitle(ctx context.Context, title string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := models.TitleKey(title)
	if _, ok := m.movies[key]; !ok {
		return 0, nil
	}
	delete(m.movies, key)
	return 1, nil
}

func (m *Memory) SelectAll(ctx context.Context) ([]models.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0, len(m.movies))
	for k := range m.movies {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	movies := make([]models.Movie, 0, len(keys))
	for _, k := range keys {
		movies = append(movies, m.movies[k])
	}
	return movies, nil
}

func (m *Memory) SelectByTitle(ctx context.Context, title string) (models.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	movie, ok := m.movies[models.TitleKey(title)]
	if !ok {
		return models.Movie{}, fmt.Errorf("%w: %q", shared.ErrNotFound, title)
	}
	return movie, nil
}

// UpdateColumn re-keys the record when the title changes.
func (m *Memory) UpdateColumn(ctx context.Context, title string, update models.FieldUpdate) (int64, error) {
	if update.IsZero() {
		return 0, fmt.Errorf("%w: no field given", shared.ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := models.TitleKey(title)
	movie, ok := m.movies[key]
	if !ok {
		return 0, nil
	}

	updated := update.Apply(movie)
	if newKey := updated.Key(); newKey != key {
		if _, taken := m.movies[newKey]; taken {
			return 0, fmt.Errorf("%w: %q", shared.ErrDuplicateKey, updated.Title)
		}
		delete(m.movies, key)
		key = newKey
	}
	m.movies[key] = updated
	return 1, nil
}

// AverageRating sums ratings as decimals so the mean does not depend on insertion order.
func (m *Memory) AverageRating(ctx context.Context, phase int) (float64, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sum := decimal.Zero
	count := 0
	for _, movie := range m.movies {
		if movie.Phase != phase {
			continue
		}
		sum = sum.Add(decimal.NewFromFloat(movie.Rating))
		count++
	}
	if count == 0 {
		return 0, 0, nil
	}

	avg, _ := sum.Div(decimal.NewFromInt(int64(count))).Float64()
	return avg, count, nil
}

func (m *Memory) DeleteAll(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := int64(len(m.movies))
	clear(m.movies)
	return n, nil
}
