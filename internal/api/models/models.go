// Package models holds the payloads of the daemon HTTP API.
package models

import (
	"github.com/figgen/figgen-cli/internal/preset"
	"github.com/figgen/figgen-cli/internal/scene"
	"github.com/figgen/figgen-cli/internal/store"
)

type ErrorResponse struct {
	Details string `json:"details"`
}

type VersionResponse struct {
	Version string `json:"version"`
}

type DeviceListResponse struct {
	Devices []preset.Device `json:"devices"`
}

type ModelListResponse struct {
	Models       []preset.Model `json:"models"`
	DefaultModel string         `json:"default_model"`
}

type DocumentListResponse struct {
	Documents []store.DocumentInfo `json:"documents"`
}

type DocumentResponse struct {
	Name      string      `json:"name"`
	Page      *scene.Node `json:"page"`
	Selection []string    `json:"selection"`
}

type SelectionRequest struct {
	IDs []string `json:"ids"`
}
