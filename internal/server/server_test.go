package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviedb/internal/catalog"
	"github.com/desertthunder/moviedb/internal/models"
	"github.com/desertthunder/moviedb/internal/shared"
	"github.com/desertthunder/moviedb/internal/store"
	tu "github.com/desertthunder/moviedb/internal/testing"
)

func quietLogger() *log.Logger {
	return shared.NewLogger(io.Discard)
}

func newTestServer(t *testing.T, s models.MovieStore) *httptest.Server {
	t.Helper()
	m := catalog.NewManager(s, catalog.Options{Logger: quietLogger()})
	srv := httptest.NewServer(New(m, quietLogger()))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, contentType, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return v
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d", want, resp.StatusCode)
	}
}

func TestMovieEndpoints(t *testing.T) {
	srv := newTestServer(t, store.NewMemory(tu.SampleMovies()...))

	t.Run("GET /healthz", func(t *testing.T) {
		resp := do(t, http.MethodGet, srv.URL+"/healthz", "", "")
		expectStatus(t, resp, http.StatusOK)
		body := decode[map[string]any](t, resp)
		if body["movies"] != float64(5) {
			t.Errorf("expected 5 movies, got %v", body["movies"])
		}
	})

	t.Run("GET /movies", func(t *testing.T) {
		resp := do(t, http.MethodGet, srv.URL+"/movies", "", "")
		expectStatus(t, resp, http.StatusOK)
		movies := decode[[]models.Movie](t, resp)
		if len(movies) != 5 || movies[0].Title != "Guardians of the Galaxy" {
			t.Errorf("unexpected listing: %+v", movies)
		}
	})

	t.Run("GET /movies/{title}", func(t *testing.T) {
		resp := do(t, http.MethodGet, srv.URL+"/movies/iron%20man%203", "", "")
		expectStatus(t, resp, http.StatusOK)
		if movie := decode[models.Movie](t, resp); movie.Director != "Shane Black" {
			t.Errorf("unexpected movie: %+v", movie)
		}

		resp = do(t, http.MethodGet, srv.URL+"/movies/Eternals", "", "")
		expectStatus(t, resp, http.StatusNotFound)
		if body := decode[ErrorResponse](t, resp); body.Error != "not_found" {
			t.Errorf("unexpected error body: %+v", body)
		}
	})

	t.Run("POST /movies", func(t *testing.T) {
		body := `{"title":"Black Panther","release_date":"2018-02-16","phase":3,"director":"Ryan Coogler","running_time":134,"rating":7.3}`
		resp := do(t, http.MethodPost, srv.URL+"/movies", "application/json", body)
		expectStatus(t, resp, http.StatusCreated)
		if movie := decode[models.Movie](t, resp); movie.Title != "Black Panther" {
			t.Errorf("unexpected movie: %+v", movie)
		}

		resp = do(t, http.MethodPost, srv.URL+"/movies", "application/json", body)
		expectStatus(t, resp, http.StatusConflict)

		invalid := strings.Replace(body, `"rating":7.3`, `"rating":12`, 1)
		invalid = strings.Replace(invalid, "Black Panther", "Wakanda Forever", 1)
		resp = do(t, http.MethodPost, srv.URL+"/movies", "application/json", invalid)
		expectStatus(t, resp, http.StatusUnprocessableEntity)
		if e := decode[ErrorResponse](t, resp); e.Error != "invalid_value" {
			t.Errorf("unexpected error body: %+v", e)
		}

		resp = do(t, http.MethodPost, srv.URL+"/movies", "application/json", `{"title":`)
		expectStatus(t, resp, http.StatusBadRequest)
	})

	t.Run("PATCH /movies/{title}", func(t *testing.T) {
		resp := do(t, http.MethodPatch, srv.URL+"/movies/Thor", "application/json", `{"field":"imdbRating","value":7.4}`)
		expectStatus(t, resp, http.StatusOK)
		if movie := decode[models.Movie](t, resp); movie.Rating != 7.4 {
			t.Errorf("expected rating 7.4, got %v", movie.Rating)
		}

		resp = do(t, http.MethodPatch, srv.URL+"/movies/Thor", "application/json", `{"field":"phase","value":2}`)
		expectStatus(t, resp, http.StatusOK)
		if movie := decode[models.Movie](t, resp); movie.Phase != 2 {
			t.Errorf("expected phase 2, got %v", movie.Phase)
		}

		resp = do(t, http.MethodPatch, srv.URL+"/movies/Thor", "application/json", `{"field":"title","value":"Thor: Ragnarok"}`)
		expectStatus(t, resp, http.StatusOK)
		if movie := decode[models.Movie](t, resp); movie.Title != "Thor: Ragnarok" {
			t.Errorf("expected renamed movie, got %+v", movie)
		}

		cases := []struct {
			name, title, body string
			status            int
			code              string
		}{
			{"string for number", "Iron%20Man", `{"field":"rating","value":"8.0"}`, http.StatusUnprocessableEntity, "type_mismatch"},
			{"fraction for integer", "Iron%20Man", `{"field":"runtime","value":120.5}`, http.StatusUnprocessableEntity, "type_mismatch"},
			{"number for text", "Iron%20Man", `{"field":"director","value":3}`, http.StatusUnprocessableEntity, "type_mismatch"},
			{"unknown field", "Iron%20Man", `{"field":"budget","value":1}`, http.StatusUnprocessableEntity, "unknown_field"},
			{"invalid value", "Iron%20Man", `{"field":"runtime","value":500}`, http.StatusUnprocessableEntity, "invalid_value"},
			{"rename collision", "Iron%20Man", `{"field":"title","value":"iron man 3"}`, http.StatusConflict, "duplicate_title"},
			{"missing target", "Eternals", `{"field":"phase","value":4}`, http.StatusNotFound, "not_found"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				resp := do(t, http.MethodPatch, srv.URL+"/movies/"+tc.title, "application/json", tc.body)
				expectStatus(t, resp, tc.status)
				if e := decode[ErrorResponse](t, resp); e.Error != tc.code {
					t.Errorf("expected code %q, got %+v", tc.code, e)
				}
			})
		}
	})

	t.Run("DELETE /movies/{title}", func(t *testing.T) {
		resp := do(t, http.MethodDelete, srv.URL+"/movies/The%20Incredible%20Hulk", "", "")
		expectStatus(t, resp, http.StatusNoContent)

		resp = do(t, http.MethodDelete, srv.URL+"/movies/The%20Incredible%20Hulk", "", "")
		expectStatus(t, resp, http.StatusNotFound)
	})

	t.Run("GET /phases/{phase}/average", func(t *testing.T) {
		resp := do(t, http.MethodGet, srv.URL+"/phases/2/average", "", "")
		expectStatus(t, resp, http.StatusOK)
		stats := decode[models.CategoryStats](t, resp)
		if stats.Phase != 2 || stats.Count == 0 {
			t.Errorf("unexpected stats: %+v", stats)
		}

		resp = do(t, http.MethodGet, srv.URL+"/phases/42/average", "", "")
		expectStatus(t, resp, http.StatusOK)
		if stats := decode[models.CategoryStats](t, resp); stats.Count != 0 || stats.Average != 0 {
			t.Errorf("expected empty stats, got %+v", stats)
		}

		resp = do(t, http.MethodGet, srv.URL+"/phases/two/average", "", "")
		expectStatus(t, resp, http.StatusBadRequest)
	})
}

func TestImportEndpoint(t *testing.T) {
	srv := newTestServer(t, store.NewMemory())

	body := "Iron Man,2008-05-02,1,Jon Favreau,126,7.9\nnot,a,movie\n\nThor,2011-05-06,1,Kenneth Branagh,115,7.0\n"
	resp := do(t, http.MethodPost, srv.URL+"/imports", "text/plain", body)
	expectStatus(t, resp, http.StatusOK)

	result := decode[ImportResponse](t, resp)
	if result.Added != 2 || result.Failed != 1 {
		t.Errorf("expected 2 added and 1 failed, got %+v", result)
	}
	if result.Summary != "Batch Load Complete: 2 added, 1 failed." {
		t.Errorf("unexpected summary: %q", result.Summary)
	}
	if len(result.Failures) != 1 || result.Failures[0].Line != 2 || result.Failures[0].Reason == "" {
		t.Errorf("unexpected failures: %+v", result.Failures)
	}
}

func TestStoreUnavailable(t *testing.T) {
	srv := newTestServer(t, &tu.FailingStore{})

	resp := do(t, http.MethodPost, srv.URL+"/movies", "application/json",
		`{"title":"Iron Man","release_date":"2008-05-02","phase":1,"director":"Jon Favreau","running_time":126,"rating":7.9}`)
	expectStatus(t, resp, http.StatusServiceUnavailable)
	if e := decode[ErrorResponse](t, resp); e.Error != "store_unavailable" {
		t.Errorf("unexpected error body: %+v", e)
	}

	resp = do(t, http.MethodGet, srv.URL+"/phases/1/average", "", "")
	expectStatus(t, resp, http.StatusServiceUnavailable)

	resp = do(t, http.MethodGet, srv.URL+"/movies", "", "")
	expectStatus(t, resp, http.StatusOK)
	if movies := decode[[]models.Movie](t, resp); len(movies) != 0 {
		t.Errorf("expected empty list, got %+v", movies)
	}
}

func TestStart(t *testing.T) {
	m := catalog.NewManager(store.NewMemory(), catalog.Options{Logger: quietLogger()})
	s := New(m, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Start(ctx, "127.0.0.1:0"); err != nil {
		t.Errorf("expected clean shutdown, got %v", err)
	}
}
