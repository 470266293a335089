package render

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequest(t *testing.T) {
	var v struct {
		IDs []string `json:"ids"`
	}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"ids":["a","b"]}`))
	require.NoError(t, DecodeRequest(w, r, &v))
	assert.Equal(t, []string{"a", "b"}, v.IDs)

	r = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"ids":`))
	require.ErrorContains(t, DecodeRequest(w, r, &v), "invalid request body")

	r = httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`"`+strings.Repeat("x", maxRequestBody)+`"`))
	require.Error(t, DecodeRequest(w, r, &v))
}

func TestEncodeResponse(t *testing.T) {
	w := httptest.NewRecorder()
	EncodeResponse(w, http.StatusCreated, map[string]string{"name": "Home"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"name":"Home"}`, w.Body.String())

	w = httptest.NewRecorder()
	EncodeResponse(w, http.StatusNoContent, map[string]string{"ignored": "yes"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestSSEStream(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	w := httptest.NewRecorder()
	stream, err := NewSSEStream(ctx, w)
	require.NoError(t, err)

	stream.Send(SSEEvent{Type: "progress", Data: map[string]string{"message": "Creating frames..."}})
	stream.SendError(SSEErrorData{Code: InternalServiceErr, Message: "boom"})
	cancel()
	stream.Close()

	// Sending after the stream stopped must not block.
	done := make(chan struct{})
	go func() {
		stream.Send(SSEEvent{Type: "late"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Send blocked on a stopped stream")
	}

	body := w.Body.String()
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Contains(t, body, "event: progress\ndata: {\"message\":\"Creating frames...\"}\n\n")
	assert.Contains(t, body, "event: error\n")
	assert.NotContains(t, body, "late")
}
