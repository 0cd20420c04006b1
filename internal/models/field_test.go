package models

import (
	"errors"
	"testing"
)

func TestParseField(t *testing.T) {
	tt := []struct {
		name string
		want Field
	}{
		{"title", FieldTitle},
		{"Title", FieldTitle},
		{"releaseDate", FieldReleaseDate},
		{"release_date", FieldReleaseDate},
		{"date", FieldReleaseDate},
		{"phase", FieldPhase},
		{"category", FieldPhase},
		{"director", FieldDirector},
		{"attribution", FieldDirector},
		{"runningTimeMin", FieldRunningTime},
		{"runtime", FieldRunningTime},
		{"duration", FieldRunningTime},
		{"imdbRating", FieldRating},
		{" RATING ", FieldRating},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseField(tc.name)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("expected %v, got %v", tc.want, got)
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		got, err := ParseField("budget")
		if !errors.Is(err, ErrUnknownField) {
			t.Errorf("expected ErrUnknownField, got %v", err)
		}
		if got != FieldUnknown {
			t.Errorf("expected FieldUnknown, got %v", got)
		}
	})
}

func TestFieldMetadata(t *testing.T) {
	kinds := map[Field]Kind{
		FieldTitle:       KindText,
		FieldReleaseDate: KindText,
		FieldPhase:       KindInt,
		FieldDirector:    KindText,
		FieldRunningTime: KindInt,
		FieldRating:      KindReal,
	}

	for _, f := range Fields {
		t.Run(f.String(), func(t *testing.T) {
			if f.Column() == "" {
				t.Error("expected a column name")
			}
			if f.Kind() != kinds[f] {
				t.Errorf("expected kind %v, got %v", kinds[f], f.Kind())
			}
			parsed, err := ParseField(f.String())
			if err != nil || parsed != f {
				t.Errorf("display name %q does not round trip: %v, %v", f, parsed, err)
			}
		})
	}

	if FieldUnknown.Column() != "" {
		t.Error("unknown field must not map to a column")
	}
}

func TestNewFieldUpdate(t *testing.T) {
	t.Run("matching types", func(t *testing.T) {
		tt := []struct {
			name  string
			value any
			want  FieldUpdate
		}{
			{"title", "  Iron Man 2 ", SetTitle("Iron Man 2")},
			{"date", "2010-05-07", SetReleaseDate("2010-05-07")},
			{"phase", 2, SetPhase(2)},
			{"director", "Jon Favreau", SetDirector("Jon Favreau")},
			{"runtime", 124, SetRunningTime(124)},
			{"rating", 7.0, SetRating(7.0)},
		}

		for _, tc := range tt {
			got, err := NewFieldUpdate(tc.name, tc.value)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", tc.name, err)
			}
			if got != tc.want {
				t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
			}
		}
	})

	t.Run("mismatched types", func(t *testing.T) {
		tt := []struct {
			name  string
			value any
		}{
			{"rating", "8.0"},
			{"rating", 8},
			{"phase", 2.0},
			{"phase", "2"},
			{"runtime", int64(120)},
			{"title", 42},
			{"director", nil},
		}

		for _, tc := range tt {
			_, err := NewFieldUpdate(tc.name, tc.value)
			if !errors.Is(err, ErrTypeMismatch) {
				t.Errorf("%s=%#v: expected ErrTypeMismatch, got %v", tc.name, tc.value, err)
			}
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		if _, err := NewFieldUpdate("budget", 100); !errors.Is(err, ErrUnknownField) {
			t.Errorf("expected ErrUnknownField, got %v", err)
		}
	})
}

func TestParseFieldUpdate(t *testing.T) {
	t.Run("parses by kind", func(t *testing.T) {
		got, err := ParseFieldUpdate("rating", " 8.5 ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Field() != FieldRating || got.Float() != 8.5 {
			t.Errorf("expected rating 8.5, got %v", got)
		}

		got, err = ParseFieldUpdate("phase", "3")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Field() != FieldPhase || got.Int() != 3 {
			t.Errorf("expected phase 3, got %v", got)
		}

		got, err = ParseFieldUpdate("director", " Joss Whedon ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Text() != "Joss Whedon" {
			t.Errorf("expected trimmed director, got %q", got.Text())
		}
	})

	t.Run("parse failures", func(t *testing.T) {
		for _, tc := range [][2]string{{"phase", "two"}, {"runtime", "12.5"}, {"rating", "high"}} {
			if _, err := ParseFieldUpdate(tc[0], tc[1]); !errors.Is(err, ErrTypeMismatch) {
				t.Errorf("%s=%q: expected ErrTypeMismatch, got %v", tc[0], tc[1], err)
			}
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		if _, err := ParseFieldUpdate("studio", "Marvel"); !errors.Is(err, ErrUnknownField) {
			t.Errorf("expected ErrUnknownField, got %v", err)
		}
	})
}

func TestFieldUpdateApply(t *testing.T) {
	base := Movie{
		Title:       "Iron Man",
		ReleaseDate: "2008-05-02",
		Phase:       1,
		Director:    "Jon Favreau",
		RunningTime: 126,
		Rating:      7.9,
	}

	tt := []struct {
		update FieldUpdate
		want   Movie
	}{
		{SetTitle("Iron Man 2"), Movie{"Iron Man 2", "2008-05-02", 1, "Jon Favreau", 126, 7.9}},
		{SetReleaseDate("2010-05-07"), Movie{"Iron Man", "2010-05-07", 1, "Jon Favreau", 126, 7.9}},
		{SetPhase(2), Movie{"Iron Man", "2008-05-02", 2, "Jon Favreau", 126, 7.9}},
		{SetDirector("Shane Black"), Movie{"Iron Man", "2008-05-02", 1, "Shane Black", 126, 7.9}},
		{SetRunningTime(130), Movie{"Iron Man", "2008-05-02", 1, "Jon Favreau", 130, 7.9}},
		{SetRating(8.0), Movie{"Iron Man", "2008-05-02", 1, "Jon Favreau", 126, 8.0}},
		{FieldUpdate{}, base},
	}

	for _, tc := range tt {
		t.Run(tc.update.String(), func(t *testing.T) {
			if got := tc.update.Apply(base); got != tc.want {
				t.Errorf("expected %+v, got %+v", tc.want, got)
			}
		})
	}

	if !(FieldUpdate{}).IsZero() {
		t.Error("zero update should report IsZero")
	}
}

func TestBatchSummary(t *testing.T) {
	var s BatchSummary
	s.Added = 2
	s.Fail(3, "bad,line", errors.New("wrong field count"))

	if got := s.String(); got != "Batch Load Complete: 2 added, 1 failed." {
		t.Errorf("unexpected summary: %q", got)
	}
	if len(s.Failures) != 1 || s.Failures[0].Line != 3 {
		t.Errorf("expected failure on line 3, got %+v", s.Failures)
	}
	if s.Failures[0].Message() != "wrong field count" {
		t.Errorf("unexpected message: %q", s.Failures[0].Message())
	}
}

func TestTitleKey(t *testing.T) {
	if TitleKey("  The Avengers ") != TitleKey("the avengers") {
		t.Error("title keys should ignore case and surrounding whitespace")
	}
	m := Movie{Title: "Thor"}
	if m.Key() != "thor" {
		t.Errorf("expected key thor, got %q", m.Key())
	}
}
