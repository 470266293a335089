package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/figgen/figgen-cli/internal/api/models"
	"github.com/figgen/figgen-cli/internal/coordinator"
	"github.com/figgen/figgen-cli/internal/scene"
	"github.com/figgen/figgen-cli/internal/store"
	"github.com/figgen/figgen-cli/pkg/render"
)

// renderStoreError maps the store failures to HTTP statuses.
func renderStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrDocumentNotFound):
		render.EncodeResponse(w, http.StatusNotFound, models.ErrorResponse{Details: err.Error()})
	case errors.Is(err, store.ErrInvalidName), errors.Is(err, scene.ErrNodeNotFound):
		render.EncodeResponse(w, http.StatusBadRequest, models.ErrorResponse{Details: err.Error()})
	case errors.Is(err, store.ErrLocked):
		render.EncodeResponse(w, http.StatusConflict, models.ErrorResponse{Details: err.Error()})
	default:
		slog.Error("Document operation failed", slog.String("error", err.Error()))
		render.EncodeResponse(w, http.StatusInternalServerError, models.ErrorResponse{Details: "unable to access the document"})
	}
}

func documentResponse(doc *scene.MemoryDocument) models.DocumentResponse {
	ids := make([]string, 0)
	for _, n := range doc.Selection() {
		ids = append(ids, n.ID)
	}
	return models.DocumentResponse{Name: doc.Name(), Page: doc.CurrentPage(), Selection: ids}
}

func HandleDocumentList(docs *store.DocumentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := docs.List()
		if err != nil {
			renderStoreError(w, err)
			return
		}
		render.EncodeResponse(w, http.StatusOK, models.DocumentListResponse{Documents: list})
	}
}

func HandleDocumentDetails(docs *store.DocumentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := docs.Load(r.PathValue("name"))
		if err != nil {
			renderStoreError(w, err)
			return
		}
		render.EncodeResponse(w, http.StatusOK, documentResponse(doc))
	}
}

func HandleDocumentDelete(docs *store.DocumentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := docs.Delete(r.PathValue("name")); err != nil {
			renderStoreError(w, err)
			return
		}
		render.EncodeResponse(w, http.StatusNoContent, nil)
	}
}

// HandleSelectionUpdate replaces the selection of a document and publishes
// the new context to the event subscribers.
func HandleSelectionUpdate(docs *store.DocumentStore, coord *coordinator.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.SelectionRequest
		if err := render.DecodeRequest(w, r, &req); err != nil {
			render.EncodeResponse(w, http.StatusBadRequest, models.ErrorResponse{Details: err.Error()})
			return
		}

		name := r.PathValue("name")
		if _, err := docs.Load(name); err != nil {
			renderStoreError(w, err)
			return
		}
		doc, err := docs.Update(name, false, func(doc *scene.MemoryDocument) error {
			return doc.SetSelection(req.IDs...)
		})
		if err != nil {
			renderStoreError(w, err)
			return
		}
		coord.SelectionChanged(doc, nil)
		render.EncodeResponse(w, http.StatusOK, documentResponse(doc))
	}
}
