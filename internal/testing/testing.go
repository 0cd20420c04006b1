// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/moviedb/internal/models"
	"github.com/desertthunder/moviedb/internal/shared"
)

// ErrBackendDown is the cause wrapped by every [FailingStore] error.
var ErrBackendDown = errors.New("backend down")

// FailingStore is a [models.MovieStore] whose backend is unreachable.
//
// With FailAfter > 0 the first FailAfter inserts are delegated to Store and every later call fails.
type FailingStore struct {
	Store     models.MovieStore
	FailAfter int

	mu      sync.Mutex
	inserts int
}

func (f *FailingStore) down() error {
	return fmt.Errorf("%w: %w", shared.ErrStoreUnavailable, ErrBackendDown)
}

func (f *FailingStore) healthy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Store != nil && f.inserts < f.FailAfter
}

func (f *FailingStore) Insert(ctx context.Context, movie models.Movie) error {
	if !f.healthy() {
		return f.down()
	}
	f.mu.Lock()
	f.inserts++
	f.mu.Unlock()
	return f.Store.Insert(ctx, movie)
}

func (f *FailingStore) DeleteByTitle(ctx context.Context, title string) (int64, error) {
	if !f.healthy() {
		return 0, f.down()
	}
	return f.Store.DeleteByTitle(ctx, title)
}

func (f *FailingStore) SelectAll(ctx context.Context) ([]models.Movie, error) {
	if !f.healthy() {
		return nil, f.down()
	}
	return f.Store.SelectAll(ctx)
}

func (f *FailingStore) SelectByTitle(ctx context.Context, title string) (models.Movie, error) {
	if !f.healthy() {
		return models.Movie{}, f.down()
	}
	return f.Store.SelectByTitle(ctx, title)
}

func (f *FailingStore) UpdateColumn(ctx context.Context, title string, update models.FieldUpdate) (int64, error) {
	if !f.healthy() {
		return 0, f.down()
	}
	return f.Store.UpdateColumn(ctx, title, update)
}

func (f *FailingStore) AverageRating(ctx context.Context, phase int) (float64, int, error) {
	if !f.healthy() {
		return 0, 0, f.down()
	}
	return f.Store.AverageRating(ctx, phase)
}

func (f *FailingStore) DeleteAll(ctx context.Context) (int64, error) {
	if !f.healthy() {
		return 0, f.down()
	}
	return f.Store.DeleteAll(ctx)
}

// SampleMovies returns a small valid catalog spanning two phases.
func SampleMovies() []models.Movie {
	return []models.Movie{
		{Title: "Iron Man", ReleaseDate: "2008-05-02", Phase: 1, Director: "Jon Favreau", RunningTime: 126, Rating: 7.9},
		{Title: "The Incredible Hulk", ReleaseDate: "2008-06-13", Phase: 1, Director: "Louis Leterrier", RunningTime: 112, Rating: 6.6},
		{Title: "Thor", ReleaseDate: "2011-05-06", Phase: 1, Director: "Kenneth Branagh", RunningTime: 115, Rating: 7.0},
		{Title: "Iron Man 3", ReleaseDate: "2013-05-03", Phase: 2, Director: "Shane Black", RunningTime: 130, Rating: 7.1},
		{Title: "Guardians of the Galaxy", ReleaseDate: "2014-08-01", Phase: 2, Director: "James Gunn", RunningTime: 121, Rating: 8.0},
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// FReader always returns an error on Read
type FReader struct{}

func (f *FReader) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
