package coordinator

import "github.com/figgen/figgen-cli/internal/framemanager"

type MessageType string

const (
	// Inbound.
	TypeGetContext MessageType = "getContext"
	TypeGenerate   MessageType = "generate"

	// Outbound.
	TypeContextUpdate MessageType = "contextUpdate"
	TypeSuccess       MessageType = "success"
	TypeAlert         MessageType = "alert"
	TypeProgress      MessageType = "progress"
)

type AlertType string

const (
	AlertSuccess AlertType = "success"
	AlertError   AlertType = "error"
	AlertWarning AlertType = "warning"
	AlertInfo    AlertType = "info"
)

// Request is a message sent by the UI panel.
type Request struct {
	Type           MessageType                 `json:"type"`
	Prompt         string                      `json:"prompt,omitempty"`
	APIKey         string                      `json:"apiKey,omitempty"`
	Model          string                      `json:"model,omitempty"`
	DeviceType     string                      `json:"deviceType,omitempty"`
	SelectedFrame  *framemanager.SelectedFrame `json:"selectedFrame,omitempty"`
	IsAdaptation   bool                        `json:"isAdaptation,omitempty"`
	HasCustomRules bool                        `json:"hasCustomRules,omitempty"`
}

// Message is a message sent to the UI panel.
type Message struct {
	Type        MessageType                 `json:"type"`
	Message     string                      `json:"message,omitempty"`
	AlertType   AlertType                   `json:"alertType,omitempty"`
	Suggestions []string                    `json:"suggestions,omitempty"`
	Frame       *framemanager.SelectedFrame `json:"frame,omitempty"`
	Document    string                      `json:"document,omitempty"`
}

// SendFunc delivers an outbound message to the peer that sent the request.
type SendFunc func(Message)
