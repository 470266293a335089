package handlers

import (
	"log/slog"
	"net/http"

	"github.com/figgen/figgen-cli/internal/api/models"
	"github.com/figgen/figgen-cli/internal/coordinator"
	"github.com/figgen/figgen-cli/pkg/render"
)

// HandleEvents streams the outbound messages of every document. The optional
// document query parameter restricts the stream to one document.
func HandleEvents(coord *coordinator.Coordinator, streamOpts ...render.StreamOption) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		document := r.URL.Query().Get("document")

		sseStream, err := render.NewSSEStream(r.Context(), w, streamOpts...)
		if err != nil {
			slog.Error("Unable to create SSE stream", slog.String("error", err.Error()))
			render.EncodeResponse(w, http.StatusInternalServerError, models.ErrorResponse{Details: "unable to create SSE stream"})
			return
		}
		defer sseStream.Close()

		ch := coord.Subscribe()
		defer coord.Unsubscribe(ch)

		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					slog.Info("Event channel closed, stopping SSE stream")
					return
				}
				if document != "" && msg.Document != document {
					continue
				}
				sseStream.Send(render.SSEEvent{Type: string(msg.Type), Data: msg})
			case <-r.Context().Done():
				return
			}
		}
	}
}
