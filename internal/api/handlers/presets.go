package handlers

import (
	"net/http"

	"github.com/figgen/figgen-cli/internal/api/models"
	"github.com/figgen/figgen-cli/internal/preset"
	"github.com/figgen/figgen-cli/pkg/render"
)

func HandleDeviceList(reg *preset.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.EncodeResponse(w, http.StatusOK, models.DeviceListResponse{Devices: reg.GetDevices()})
	}
}

func HandleModelList(reg *preset.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.EncodeResponse(w, http.StatusOK, models.ModelListResponse{
			Models:       reg.GetModels(),
			DefaultModel: reg.DefaultModel,
		})
	}
}
