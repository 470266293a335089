// Package api exposes documents and the generation pipeline over HTTP so
// that a UI panel can drive them.
package api

import (
	"net/http"

	"github.com/figgen/figgen-cli/internal/api/handlers"
	"github.com/figgen/figgen-cli/internal/coordinator"
	"github.com/figgen/figgen-cli/internal/preset"
	"github.com/figgen/figgen-cli/internal/store"
	"github.com/figgen/figgen-cli/pkg/render"
)

func NewHTTPRouter(
	version string,
	reg *preset.Registry,
	docs *store.DocumentStore,
	coord *coordinator.Coordinator,
	defaults handlers.GenerateDefaults,
	streamOpts ...render.StreamOption,
) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /v1/version", handlers.HandleVersion(version))

	mux.Handle("GET /v1/presets/devices", handlers.HandleDeviceList(reg))
	mux.Handle("GET /v1/presets/models", handlers.HandleModelList(reg))

	mux.Handle("GET /v1/documents", handlers.HandleDocumentList(docs))
	mux.Handle("GET /v1/documents/{name}", handlers.HandleDocumentDetails(docs))
	mux.Handle("DELETE /v1/documents/{name}", handlers.HandleDocumentDelete(docs))
	mux.Handle("PUT /v1/documents/{name}/selection", handlers.HandleSelectionUpdate(docs, coord))
	mux.Handle("POST /v1/documents/{name}/messages", handlers.HandleDocumentMessage(docs, coord, defaults, streamOpts...))
	mux.Handle("GET /v1/documents/{name}/plugin", handlers.HandlePluginWS(docs, coord, defaults))

	mux.Handle("GET /v1/events", handlers.HandleEvents(coord, streamOpts...))

	return mux
}
