package handlers

import (
	"net/http"

	"github.com/figgen/figgen-cli/internal/api/models"
	"github.com/figgen/figgen-cli/pkg/render"
)

func HandleVersion(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.EncodeResponse(w, http.StatusOK, models.VersionResponse{Version: version})
	}
}
