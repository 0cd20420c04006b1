package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/moviedb/internal/catalog"
	"github.com/desertthunder/moviedb/internal/models"
	"github.com/desertthunder/moviedb/internal/shared"
	"github.com/go-chi/chi/v5"
)

// maxImportBytes bounds the body of a batch import request.
const maxImportBytes = 8 << 20

// MovieHandler serves the catalog operations as JSON.
type MovieHandler struct {
	manager *catalog.Manager
	logger  *log.Logger
}

// NewMovieHandler creates a handler over m.
func NewMovieHandler(m *catalog.Manager, logger *log.Logger) *MovieHandler {
	return &MovieHandler{manager: m, logger: logger}
}

// Routes registers the catalog endpoints.
func (h *MovieHandler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)

	r.Route("/movies", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{title}", h.handleShow)
		r.Patch("/{title}", h.handleUpdate)
		r.Delete("/{title}", h.handleRemove)
	})

	r.Get("/phases/{phase}/average", h.handleAverage)
	r.Post("/imports", h.handleImport)
}

// UpdateRequest is the body of a PATCH request: one field and its new value.
type UpdateRequest struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// LineFailureResponse describes one rejected import line.
type LineFailureResponse struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// ImportResponse is the result of a batch import.
type ImportResponse struct {
	Added    int                   `json:"added"`
	Failed   int                   `json:"failed"`
	Summary  string                `json:"summary"`
	Failures []LineFailureResponse `json:"failures"`
}

func (h *MovieHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok", "movies": h.manager.Count(r.Context())})
}

func (h *MovieHandler) handleList(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.manager.List(r.Context()))
}

func (h *MovieHandler) handleShow(w http.ResponseWriter, r *http.Request) {
	title := titleParam(r)
	movie, ok := h.manager.FindByTitle(r.Context(), title)
	if !ok {
		respondJSON(w, http.StatusNotFound, ErrorResponse{
			Error:   catalog.ReasonNotFound.String(),
			Message: fmt.Sprintf("no movie titled %q", title),
		})
		return
	}
	respondJSON(w, http.StatusOK, movie)
}

func (h *MovieHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var movie models.Movie
	if err := json.NewDecoder(r.Body).Decode(&movie); err != nil {
		respondError(w, h.logger, fmt.Errorf("%w: invalid JSON body: %v", shared.ErrInvalidInput, err))
		return
	}

	if err := h.manager.Create(r.Context(), movie); err != nil {
		respondError(w, h.logger, err)
		return
	}

	created, _ := h.manager.FindByTitle(r.Context(), movie.Title)
	respondJSON(w, http.StatusCreated, created)
}

func (h *MovieHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var req UpdateRequest
	if err := dec.Decode(&req); err != nil {
		respondError(w, h.logger, fmt.Errorf("%w: invalid JSON body: %v", shared.ErrInvalidInput, err))
		return
	}

	update, err := decodeUpdate(req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	title := titleParam(r)
	if err := h.manager.UpdateField(r.Context(), title, update); err != nil {
		respondError(w, h.logger, err)
		return
	}

	if update.Field() == models.FieldTitle {
		title = update.Text()
	}
	updated, _ := h.manager.FindByTitle(r.Context(), title)
	respondJSON(w, http.StatusOK, updated)
}

func (h *MovieHandler) handleRemove(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.RemoveByTitle(r.Context(), titleParam(r)); err != nil {
		respondError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *MovieHandler) handleAverage(w http.ResponseWriter, r *http.Request) {
	phase, err := strconv.Atoi(chi.URLParam(r, "phase"))
	if err != nil {
		respondError(w, h.logger, fmt.Errorf("%w: phase must be an integer", shared.ErrInvalidInput))
		return
	}

	stats, err := h.manager.CategoryAverage(r.Context(), phase)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (h *MovieHandler) handleImport(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	src := catalog.ReaderSource{Label: "http:" + r.RemoteAddr, Reader: body}

	summary, err := h.manager.ImportFile(r.Context(), src)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	resp := ImportResponse{
		Added:    summary.Added,
		Failed:   summary.Failed,
		Summary:  summary.String(),
		Failures: make([]LineFailureResponse, 0, len(summary.Failures)),
	}
	for _, f := range summary.Failures {
		resp.Failures = append(resp.Failures, LineFailureResponse{Line: f.Line, Text: f.Text, Reason: f.Message()})
	}
	respondJSON(w, http.StatusOK, resp)
}

// titleParam returns the decoded {title} path segment.
func titleParam(r *http.Request) string {
	raw := chi.URLParam(r, "title")
	if title, err := url.PathUnescape(raw); err == nil {
		return title
	}
	return raw
}

// decodeUpdate converts a JSON value into the Go type the field declares.
//
// JSON numbers become int for integer fields (fractions are rejected) and float64 for the rating.
// Strings are never coerced into numbers.
func decodeUpdate(req UpdateRequest) (models.FieldUpdate, error) {
	field, err := models.ParseField(req.Field)
	if err != nil {
		return models.FieldUpdate{}, &catalog.RejectionError{Reason: catalog.ReasonUnknownField, Message: err.Error()}
	}

	value := req.Value
	if n, ok := req.Value.(json.Number); ok {
		switch field.Kind() {
		case models.KindInt:
			i, err := strconv.Atoi(n.String())
			if err != nil {
				return models.FieldUpdate{}, mismatch(field, n.String())
			}
			value = i
		case models.KindReal:
			f, err := n.Float64()
			if err != nil {
				return models.FieldUpdate{}, mismatch(field, n.String())
			}
			value = f
		}
	}

	update, err := models.NewFieldUpdate(req.Field, value)
	if err != nil {
		return models.FieldUpdate{}, &catalog.RejectionError{Reason: catalog.ReasonTypeMismatch, Message: err.Error()}
	}
	return update, nil
}

func mismatch(f models.Field, raw string) error {
	return &catalog.RejectionError{
		Reason:  catalog.ReasonTypeMismatch,
		Field:   f,
		Message: fmt.Sprintf("expected %s, got %s", f.Kind(), raw),
	}
}
