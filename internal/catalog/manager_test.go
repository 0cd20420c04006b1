package catalog

import (
	"context"
	"errors"
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviedb/internal/models"
	"github.com/desertthunder/moviedb/internal/repositories"
	"github.com/desertthunder/moviedb/internal/shared"
	"github.com/desertthunder/moviedb/internal/store"
	tu "github.com/desertthunder/moviedb/internal/testing"
)

var ironMan = models.Movie{
	Title:       "Iron Man",
	ReleaseDate: "2008-05-02",
	Phase:       1,
	Director:    "Jon Favreau",
	RunningTime: 126,
	Rating:      7.9,
}

func quietLogger() *log.Logger {
	return shared.NewLogger(io.Discard)
}

// backends builds a fresh store for every MovieStore implementation under test.
var backends = map[string]func(t *testing.T) models.MovieStore{
	"memory": func(t *testing.T) models.MovieStore { return store.NewMemory() },
	"sqlite": func(t *testing.T) models.MovieStore {
		db, err := shared.NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to create test database: %v", err)
		}
		t.Cleanup(func() { db.Close() })
		if err := shared.RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
		return repositories.NewMovieRepository(db)
	},
}

func eachBackend(t *testing.T, fn func(t *testing.T, m *Manager)) {
	for name, newStore := range backends {
		t.Run(name, func(t *testing.T) {
			fn(t, NewManager(newStore(t), Options{Logger: quietLogger()}))
		})
	}
}

func mustCreate(t *testing.T, m *Manager, movies ...models.Movie) {
	t.Helper()
	for _, movie := range movies {
		if err := m.Create(context.Background(), movie); err != nil {
			t.Fatalf("failed to create %q: %v", movie.Title, err)
		}
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	eachBackend(t, func(t *testing.T, m *Manager) {
		t.Run("valid record is listed", func(t *testing.T) {
			mustCreate(t, m, ironMan)

			movies := m.List(ctx)
			if len(movies) != 1 || movies[0] != ironMan {
				t.Fatalf("expected [%+v], got %+v", ironMan, movies)
			}
			got, ok := m.FindByTitle(ctx, "iron man")
			if !ok || got != ironMan {
				t.Errorf("expected case-insensitive lookup to find %q", ironMan.Title)
			}
		})

		t.Run("duplicate title differing in case and whitespace", func(t *testing.T) {
			dup := ironMan
			dup.Title = "  IRON MAN "
			dup.Rating = 9.0

			err := m.Create(ctx, dup)
			if !errors.Is(err, ErrDuplicateTitle) {
				t.Fatalf("expected ErrDuplicateTitle, got %v", err)
			}
			if !errors.Is(err, ErrRejected) {
				t.Error("duplicate should also match ErrRejected")
			}
			if m.Count(ctx) != 1 {
				t.Errorf("expected 1 movie, got %d", m.Count(ctx))
			}
		})

		t.Run("text fields are trimmed", func(t *testing.T) {
			padded := models.Movie{Title: "  Thor  ", ReleaseDate: " 2011-05-06 ", Phase: 1, Director: " Kenneth Branagh ", RunningTime: 115, Rating: 7.0}
			mustCreate(t, m, padded)

			got, ok := m.FindByTitle(ctx, "thor")
			if !ok {
				t.Fatal("expected trimmed title to be found")
			}
			if got.Title != "Thor" || got.ReleaseDate != "2011-05-06" || got.Director != "Kenneth Branagh" {
				t.Errorf("expected trimmed fields, got %+v", got)
			}
		})
	})
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()

	tt := []struct {
		name  string
		edit  func(*models.Movie)
		field models.Field
	}{
		{"blank title", func(m *models.Movie) { m.Title = "   " }, models.FieldTitle},
		{"empty title", func(m *models.Movie) { m.Title = "" }, models.FieldTitle},
		{"february 30", func(m *models.Movie) { m.ReleaseDate = "2020-02-30" }, models.FieldReleaseDate},
		{"non-leap february 29", func(m *models.Movie) { m.ReleaseDate = "2019-02-29" }, models.FieldReleaseDate},
		{"unpadded date", func(m *models.Movie) { m.ReleaseDate = "2008-5-2" }, models.FieldReleaseDate},
		{"year too early", func(m *models.Movie) { m.ReleaseDate = "1899-12-31" }, models.FieldReleaseDate},
		{"year too late", func(m *models.Movie) { m.ReleaseDate = "2026-01-01" }, models.FieldReleaseDate},
		{"zero phase", func(m *models.Movie) { m.Phase = 0 }, models.FieldPhase},
		{"negative phase", func(m *models.Movie) { m.Phase = -1 }, models.FieldPhase},
		{"blank director", func(m *models.Movie) { m.Director = " " }, models.FieldDirector},
		{"runtime too short", func(m *models.Movie) { m.RunningTime = 29 }, models.FieldRunningTime},
		{"runtime too long", func(m *models.Movie) { m.RunningTime = 301 }, models.FieldRunningTime},
		{"rating too low", func(m *models.Movie) { m.Rating = 0.99 }, models.FieldRating},
		{"rating too high", func(m *models.Movie) { m.Rating = 10.01 }, models.FieldRating},
		{"rating NaN", func(m *models.Movie) { m.Rating = math.NaN() }, models.FieldRating},
	}

	eachBackend(t, func(t *testing.T, m *Manager) {
		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				movie := ironMan
				tc.edit(&movie)

				err := m.Create(ctx, movie)
				if !errors.Is(err, ErrInvalidValue) {
					t.Fatalf("expected ErrInvalidValue, got %v", err)
				}
				rej, ok := IsRejection(err)
				if !ok || rej.Field != tc.field {
					t.Errorf("expected rejection on %v, got %+v", tc.field, rej)
				}
				if m.Count(ctx) != 0 {
					t.Errorf("invalid record must not be stored")
				}
			})
		}

		t.Run("boundaries are accepted", func(t *testing.T) {
			edges := []models.Movie{
				{Title: "Early", ReleaseDate: "1900-01-01", Phase: 1, Director: "A", RunningTime: 30, Rating: 1.0},
				{Title: "Late", ReleaseDate: "2025-12-31", Phase: 99, Director: "B", RunningTime: 300, Rating: 10.0},
				{Title: "Leap", ReleaseDate: "2000-02-29", Phase: 2, Director: "C", RunningTime: 90, Rating: 5.5},
			}
			mustCreate(t, m, edges...)
			if m.Count(ctx) != 3 {
				t.Errorf("expected 3 movies, got %d", m.Count(ctx))
			}
		})
	})
}

func TestRemoveByTitle(t *testing.T) {
	ctx := context.Background()

	eachBackend(t, func(t *testing.T, m *Manager) {
		mustCreate(t, m, tu.SampleMovies()...)

		t.Run("removes only the match", func(t *testing.T) {
			if err := m.RemoveByTitle(ctx, " THOR "); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, ok := m.FindByTitle(ctx, "Thor"); ok {
				t.Error("removed movie should not be found")
			}
			if m.Count(ctx) != 4 {
				t.Errorf("expected 4 movies, got %d", m.Count(ctx))
			}
		})

		t.Run("absent title", func(t *testing.T) {
			if err := m.RemoveByTitle(ctx, "Thor"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
			if err := m.RemoveByTitle(ctx, "  "); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound for blank title, got %v", err)
			}
		})
	})
}

func TestUpdateField(t *testing.T) {
	ctx := context.Background()

	eachBackend(t, func(t *testing.T, m *Manager) {
		mustCreate(t, m, tu.SampleMovies()...)

		t.Run("changes exactly one field", func(t *testing.T) {
			before := m.List(ctx)
			if err := m.UpdateField(ctx, "iron man", models.SetRating(8.0)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			after := m.List(ctx)

			for i := range before {
				want := before[i]
				if want.Title == "Iron Man" {
					want.Rating = 8.0
				}
				if after[i] != want {
					t.Errorf("expected %+v, got %+v", want, after[i])
				}
			}
		})

		t.Run("invalid value leaves record unchanged", func(t *testing.T) {
			before, _ := m.FindByTitle(ctx, "Iron Man")
			err := m.UpdateField(ctx, "Iron Man", models.SetRating(11.0))
			if !errors.Is(err, ErrInvalidValue) {
				t.Fatalf("expected ErrInvalidValue, got %v", err)
			}
			after, _ := m.FindByTitle(ctx, "Iron Man")
			if after != before {
				t.Errorf("record changed: %+v -> %+v", before, after)
			}
		})

		t.Run("each field uses its own validator", func(t *testing.T) {
			bad := []models.FieldUpdate{
				models.SetTitle(" "),
				models.SetReleaseDate("2010-13-01"),
				models.SetPhase(0),
				models.SetDirector(""),
				models.SetRunningTime(10),
				models.SetRating(0.5),
			}
			for _, u := range bad {
				if err := m.UpdateField(ctx, "Thor", u); !errors.Is(err, ErrInvalidValue) {
					t.Errorf("%v: expected ErrInvalidValue, got %v", u, err)
				}
			}
		})

		t.Run("missing target", func(t *testing.T) {
			err := m.UpdateField(ctx, "Eternals", models.SetPhase(4))
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})

		t.Run("zero update", func(t *testing.T) {
			err := m.UpdateField(ctx, "Thor", models.FieldUpdate{})
			if !errors.Is(err, ErrUnknownField) {
				t.Errorf("expected ErrUnknownField, got %v", err)
			}
		})

		t.Run("rename onto another record", func(t *testing.T) {
			err := m.UpdateField(ctx, "Thor", models.SetTitle("iron man 3"))
			if !errors.Is(err, ErrDuplicateTitle) {
				t.Fatalf("expected ErrDuplicateTitle, got %v", err)
			}
			if _, ok := m.FindByTitle(ctx, "Thor"); !ok {
				t.Error("rejected rename must leave the original title")
			}
		})

		t.Run("rename changing only case", func(t *testing.T) {
			if err := m.UpdateField(ctx, "Thor", models.SetTitle("THOR")); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, ok := m.FindByTitle(ctx, "thor")
			if !ok || got.Title != "THOR" {
				t.Errorf("expected title THOR, got %+v", got)
			}
		})

		t.Run("rename to a new title", func(t *testing.T) {
			if err := m.UpdateField(ctx, "THOR", models.SetTitle("Thor: The Dark World")); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, ok := m.FindByTitle(ctx, "Thor"); ok {
				t.Error("old title should no longer resolve")
			}
			if _, ok := m.FindByTitle(ctx, "thor: the dark world"); !ok {
				t.Error("new title should resolve")
			}
		})
	})
}

func TestUpdateFieldValue(t *testing.T) {
	ctx := context.Background()

	eachBackend(t, func(t *testing.T, m *Manager) {
		mustCreate(t, m, ironMan)

		t.Run("matching type", func(t *testing.T) {
			if err := m.UpdateFieldValue(ctx, "Iron Man", "imdbRating", 8.0); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err := m.UpdateFieldValue(ctx, "Iron Man", "runningTimeMin", 130); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, _ := m.FindByTitle(ctx, "Iron Man")
			if got.Rating != 8.0 || got.RunningTime != 130 {
				t.Errorf("unexpected record: %+v", got)
			}
		})

		t.Run("string where number expected", func(t *testing.T) {
			err := m.UpdateFieldValue(ctx, "Iron Man", "imdbRating", "a string")
			if !errors.Is(err, ErrTypeMismatch) {
				t.Fatalf("expected ErrTypeMismatch, got %v", err)
			}
			if !errors.Is(err, ErrRejected) {
				t.Error("type mismatch should match ErrRejected")
			}
			got, _ := m.FindByTitle(ctx, "Iron Man")
			if got.Rating != 8.0 {
				t.Errorf("rating should be unchanged, got %v", got.Rating)
			}
		})

		t.Run("unknown field", func(t *testing.T) {
			err := m.UpdateFieldValue(ctx, "Iron Man", "budget", 200)
			if !errors.Is(err, ErrUnknownField) {
				t.Fatalf("expected ErrUnknownField, got %v", err)
			}
		})
	})
}

func TestUpdateFieldText(t *testing.T) {
	ctx := context.Background()

	eachBackend(t, func(t *testing.T, m *Manager) {
		mustCreate(t, m, ironMan)

		t.Run("parses numeric text", func(t *testing.T) {
			if err := m.UpdateFieldText(ctx, "iron man", "phase", " 2 "); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, _ := m.FindByTitle(ctx, "Iron Man")
			if got.Phase != 2 {
				t.Errorf("expected phase 2, got %d", got.Phase)
			}
		})

		t.Run("unparseable number", func(t *testing.T) {
			err := m.UpdateFieldText(ctx, "Iron Man", "runtime", "long")
			if !errors.Is(err, ErrTypeMismatch) {
				t.Fatalf("expected ErrTypeMismatch, got %v", err)
			}
		})

		t.Run("parsed value still validated", func(t *testing.T) {
			err := m.UpdateFieldText(ctx, "Iron Man", "rating", "11")
			if !errors.Is(err, ErrInvalidValue) {
				t.Fatalf("expected ErrInvalidValue, got %v", err)
			}
		})
	})
}

func TestAverageRating(t *testing.T) {
	ctx := context.Background()

	eachBackend(t, func(t *testing.T, m *Manager) {
		mustCreate(t, m,
			models.Movie{Title: "A", ReleaseDate: "2008-01-01", Phase: 1, Director: "X", RunningTime: 100, Rating: 7.0},
			models.Movie{Title: "B", ReleaseDate: "2009-01-01", Phase: 1, Director: "Y", RunningTime: 100, Rating: 9.0},
			models.Movie{Title: "C", ReleaseDate: "2013-01-01", Phase: 2, Director: "Z", RunningTime: 100, Rating: 5.0},
		)

		if got := m.AverageRating(ctx, 1); !almostEqual(got, 8.0) {
			t.Errorf("phase 1: expected 8.0, got %v", got)
		}
		if got := m.AverageRating(ctx, 2); !almostEqual(got, 5.0) {
			t.Errorf("phase 2: expected 5.0, got %v", got)
		}
		if got := m.AverageRating(ctx, 3); got != 0.0 {
			t.Errorf("empty phase: expected 0.0, got %v", got)
		}
		if got := m.AverageRating(ctx, 0); got != 0.0 {
			t.Errorf("invalid phase: expected 0.0, got %v", got)
		}

		t.Run("CategoryAverage", func(t *testing.T) {
			stats, err := m.CategoryAverage(ctx, 1)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if stats.Count != 2 || !almostEqual(stats.Average, 8.0) {
				t.Errorf("expected 2 movies averaging 8.0, got %+v", stats)
			}

			stats, err = m.CategoryAverage(ctx, 3)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !stats.Empty() {
				t.Errorf("expected empty stats, got %+v", stats)
			}

			stats, err = m.CategoryAverage(ctx, -2)
			if err != nil || !stats.Empty() {
				t.Errorf("expected empty stats for invalid phase, got %+v (%v)", stats, err)
			}
		})
	})
}

func TestClear(t *testing.T) {
	ctx := context.Background()

	eachBackend(t, func(t *testing.T, m *Manager) {
		mustCreate(t, m, tu.SampleMovies()...)
		if err := m.Clear(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if m.Count(ctx) != 0 {
			t.Errorf("expected empty catalog, got %d", m.Count(ctx))
		}
	})
}

func TestStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	m := NewManager(&tu.FailingStore{}, Options{Logger: quietLogger()})

	if movies := m.List(ctx); len(movies) != 0 {
		t.Errorf("expected empty list, got %d movies", len(movies))
	}
	if _, ok := m.FindByTitle(ctx, "Iron Man"); ok {
		t.Error("expected not found")
	}
	if got := m.AverageRating(ctx, 1); got != 0.0 {
		t.Errorf("expected 0.0, got %v", got)
	}

	checks := map[string]error{
		"Create":        m.Create(ctx, ironMan),
		"RemoveByTitle": m.RemoveByTitle(ctx, "Iron Man"),
		"UpdateField":   m.UpdateField(ctx, "Iron Man", models.SetPhase(2)),
		"Clear":         m.Clear(ctx),
	}
	for name, err := range checks {
		if !errors.Is(err, shared.ErrStoreUnavailable) {
			t.Errorf("%s: expected ErrStoreUnavailable, got %v", name, err)
		}
		if errors.Is(err, ErrRejected) {
			t.Errorf("%s: unavailability must not look like a rejection", name)
		}
	}

	if _, err := m.CategoryAverage(ctx, 1); !errors.Is(err, shared.ErrStoreUnavailable) {
		t.Errorf("CategoryAverage: expected ErrStoreUnavailable, got %v", err)
	}
}

// racyStore hides existing records from lookups so the duplicate check falls through to the
// store's own unique constraint.
type racyStore struct {
	models.MovieStore
}

func (racyStore) SelectByTitle(ctx context.Context, title string) (models.Movie, error) {
	return models.Movie{}, shared.ErrNotFound
}

func TestCreateMapsStoreDuplicate(t *testing.T) {
	ctx := context.Background()
	m := NewManager(racyStore{store.NewMemory(ironMan)}, Options{Logger: quietLogger()})

	if err := m.Create(ctx, ironMan); !errors.Is(err, ErrDuplicateTitle) {
		t.Fatalf("expected ErrDuplicateTitle, got %v", err)
	}
}

func TestRejectionError(t *testing.T) {
	err := invalid(models.FieldRating, "rating must be between %.1f and %.1f, got %v", 1.0, 10.0, 11.0)

	if err.Error() != "imdbRating: rating must be between 1.0 and 10.0, got 11" {
		t.Errorf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, ErrInvalidValue) || errors.Is(err, ErrNotFound) {
		t.Error("rejection should only match its own reason")
	}

	rej, ok := IsRejection(err)
	if !ok || rej.Reason.String() != "invalid_value" {
		t.Errorf("unexpected rejection: %+v", rej)
	}
	if _, ok := IsRejection(shared.ErrStoreUnavailable); ok {
		t.Error("store errors are not rejections")
	}
}
