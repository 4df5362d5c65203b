package web

import (
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/charmbracelet/log"

	"inlay/internal/config"
	"inlay/internal/errors"
	"inlay/internal/ops"
)

// Handlers contains HTTP route handlers for the JSON API.
type Handlers struct {
	db     *sql.DB
	cfg    *config.Config
	logger *log.Logger
}

// HandleList handles GET /records — list record summaries.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	result, err := ops.List(h.db)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleFetch handles GET /records/{id} — fetch a single record.
func (h *Handlers) HandleFetch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		renderError(w, errors.NewInvalidRequest("record ID is required"))
		return
	}

	result, err := ops.Fetch(h.db, ops.FetchInput{RecordID: id})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleImages handles GET /records/{id}/images — extract image references.
func (h *Handlers) HandleImages(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		renderError(w, errors.NewInvalidRequest("record ID is required"))
		return
	}

	result, err := ops.Images(h.db, h.cfg, h.logger, ops.ImagesInput{RecordID: id})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleFiles handles GET /files — list stored file entities.
func (h *Handlers) HandleFiles(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Files(h.db)
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// HandleResolve handles GET /files/{uuid} — resolve a UUID to an entity.
func (h *Handlers) HandleResolve(w http.ResponseWriter, r *http.Request) {
	uuid := r.PathValue("uuid")
	if uuid == "" {
		renderError(w, errors.NewInvalidRequest("uuid is required"))
		return
	}

	result, err := ops.Resolve(h.db, ops.ResolveInput{UUID: uuid})
	if err != nil {
		renderError(w, err)
		return
	}
	renderJSON(w, http.StatusOK, result)
}

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderError writes a JSON error response, mapping coded errors to their
// HTTP status.
func renderError(w http.ResponseWriter, err error) {
	var iErr *errors.InlayError
	if !stderrors.As(err, &iErr) {
		iErr = errors.NewInternal(err)
	}

	renderJSON(w, iErr.Status, map[string]any{
		"error": map[string]any{
			"code":    string(iErr.Code),
			"message": iErr.Message,
			"status":  iErr.Status,
		},
	})
}
