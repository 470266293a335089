package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/figgen/figgen-cli/internal/api/models"
	"github.com/figgen/figgen-cli/internal/coordinator"
	"github.com/figgen/figgen-cli/internal/scene"
	"github.com/figgen/figgen-cli/internal/store"
	"github.com/figgen/figgen-cli/pkg/render"
)

// GenerateDefaults fill the fields a generate request leaves empty.
type GenerateDefaults struct {
	APIKey string
	Model  string
	Device string
}

// Apply fills the empty fields of req.
func (d GenerateDefaults) Apply(req *coordinator.Request) {
	if req.APIKey == "" {
		req.APIKey = d.APIKey
	}
	if req.Model == "" {
		req.Model = d.Model
	}
	if req.DeviceType == "" {
		req.DeviceType = d.Device
	}
}

// dispatch runs req against the stored document name. Context requests only
// read the document, a missing one being described as empty. Generate
// requests create the document when needed and save it even when the
// generation fails half way.
//
// The returned error is nil when the coordinator ran, since it reports its
// own failures to send. Only store failures are returned.
func dispatch(ctx context.Context, docs *store.DocumentStore, coord *coordinator.Coordinator, name string, req coordinator.Request, send coordinator.SendFunc) error {
	if req.Type == coordinator.TypeGetContext {
		doc, err := docs.Load(name)
		if errors.Is(err, store.ErrDocumentNotFound) {
			doc, err = scene.NewMemoryDocument(name), nil
		}
		if err != nil {
			return err
		}
		_ = coord.Handle(ctx, doc, req, send)
		return nil
	}

	var handled error
	_, err := docs.Update(name, true, func(doc *scene.MemoryDocument) error {
		handled = coord.Handle(ctx, doc, req, send)
		return handled
	})
	if err == handled {
		return nil
	}
	return err
}

// HandleDocumentMessage runs one message against a document and streams the
// outbound messages as server-sent events.
func HandleDocumentMessage(docs *store.DocumentStore, coord *coordinator.Coordinator, defaults GenerateDefaults, streamOpts ...render.StreamOption) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		if _, err := store.FileName(name); err != nil {
			renderStoreError(w, err)
			return
		}
		var req coordinator.Request
		if err := render.DecodeRequest(w, r, &req); err != nil {
			render.EncodeResponse(w, http.StatusBadRequest, models.ErrorResponse{Details: err.Error()})
			return
		}
		defaults.Apply(&req)

		sseStream, err := render.NewSSEStream(r.Context(), w, streamOpts...)
		if err != nil {
			slog.Error("Unable to create SSE stream", slog.String("error", err.Error()))
			render.EncodeResponse(w, http.StatusInternalServerError, models.ErrorResponse{Details: "unable to create SSE stream"})
			return
		}
		defer sseStream.Close()

		err = dispatch(r.Context(), docs, coord, name, req, func(msg coordinator.Message) {
			sseStream.Send(render.SSEEvent{Type: string(msg.Type), Data: msg})
		})
		if err != nil {
			slog.Error("Unable to process message", slog.String("document", name), slog.String("error", err.Error()))
			sseStream.SendError(render.SSEErrorData{Code: render.InternalServiceErr, Message: err.Error()})
		}
	}
}
