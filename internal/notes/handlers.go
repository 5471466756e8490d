package notes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type Handlers struct {
	store    Store
	validate *validator.Validate
}

// Store is an abstraction over the notes storage.
// It allows unit-testing handlers without the real store.
type Store interface {
	Create(ctx context.Context, content string) (Note, error)
	List(ctx context.Context) ([]Note, error)
	Delete(ctx context.Context, id string) (Note, error)
}

func NewHandlers(store Store) *Handlers {
	return &Handlers{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Routes serves the collection at "/", to be mounted at /api/notes.
func (h *Handlers) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Delete("/", h.delete)
	return r
}

func (h *Handlers) create(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeCreate(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	n, err := h.store.Create(r.Context(), *req.Content)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	zerolog.Ctx(r.Context()).Info().Str("note_id", n.ID).Msg("note created")
	writeJSON(w, http.StatusCreated, n)
}

// decodeCreate parses and validates the POST body. An undecodable body is
// a *MalformedInputError; a body with bad fields is a *ValidationError.
func (h *Handlers) decodeCreate(r *http.Request) (CreateNoteRequest, error) {
	var req CreateNoteRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "content" {
			return req, &ValidationError{Field: "content", Message: msgContentType}
		}
		return req, &MalformedInputError{Err: err}
	}
	// The body must hold exactly one JSON value.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errTrailingData
		}
		return req, &MalformedInputError{Err: err}
	}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return req, &ValidationError{Field: "content", Message: msgContentRequired}
		}
		return req, err
	}
	return req, nil
}

func (h *Handlers) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if items == nil {
		items = []Note{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handlers) delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		h.fail(w, r, &ValidationError{Field: "id", Message: msgIDRequired})
		return
	}

	n, err := h.store.Delete(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	zerolog.Ctx(r.Context()).Info().Str("note_id", n.ID).Msg("note deleted")
	writeJSON(w, http.StatusOK, DeleteNoteResponse{Message: msgDeleted, Note: n})
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusFor(err)
	if status == http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("method", r.Method).Msg("notes request failed")
	}
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
