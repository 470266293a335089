package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/figgen/figgen-cli/internal/api/models"
	"github.com/figgen/figgen-cli/internal/coordinator"
	"github.com/figgen/figgen-cli/internal/store"
	"github.com/figgen/figgen-cli/pkg/render"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func logWebsocketError(msg string, err error) {
	// Do not log simple close or interruption errors
	if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived, websocket.CloseAbnormalClosure) {
		if e, ok := err.(*websocket.CloseError); ok {
			slog.Error(msg, slog.String("closecause", fmt.Sprintf("%d: %s", e.Code, err)))
		} else {
			slog.Error(msg, slog.String("error", err.Error()))
		}
	}
}

type pluginConn struct {
	ws   *websocket.Conn
	name string
	mu   sync.Mutex
}

func (c *pluginConn) alert(err error) {
	c.write(coordinator.Message{
		Type:      coordinator.TypeAlert,
		AlertType: coordinator.AlertError,
		Message:   err.Error(),
		Document:  c.name,
	})
}

func (c *pluginConn) write(msg any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ws.WriteJSON(msg); err != nil {
		logWebsocketError("Error writing to websocket", err)
	}
}

// forward relays the selection updates of the document, whoever caused them.
func (c *pluginConn) forward(ch chan coordinator.Message) {
	for msg := range ch {
		if msg.Type == coordinator.TypeContextUpdate && msg.Document == c.name {
			c.write(msg)
		}
	}
}

// HandlePluginWS serves the UI panel of one document over a websocket. Each
// inbound text message is a request, processed in arrival order.
func HandlePluginWS(docs *store.DocumentStore, coord *coordinator.Coordinator, defaults GenerateDefaults) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		if _, err := store.FileName(name); err != nil {
			renderStoreError(w, err)
			return
		}

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			render.EncodeResponse(w, http.StatusInternalServerError, models.ErrorResponse{Details: "Failed to upgrade connection"})
			return
		}
		defer ws.Close()

		conn := &pluginConn{ws: ws, name: name}
		ch := coord.Subscribe()
		defer coord.Unsubscribe(ch)
		go conn.forward(ch)

		// Selection updates reach the panel through the broker, so they are
		// not written twice.
		send := func(msg coordinator.Message) {
			if msg.Type != coordinator.TypeContextUpdate {
				conn.write(msg)
			}
		}

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				logWebsocketError("Error reading from websocket", err)
				return
			}
			var req coordinator.Request
			if err := json.Unmarshal(data, &req); err != nil {
				conn.alert(fmt.Errorf("invalid message: %w", err))
				continue
			}
			defaults.Apply(&req)
			if err := dispatch(r.Context(), docs, coord, name, req, send); err != nil {
				slog.Error("Unable to process message", slog.String("document", name), slog.String("error", err.Error()))
				conn.alert(err)
			}
		}
	}
}
