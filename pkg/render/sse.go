package render

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"
)

type SSEErrCode string

const (
	InternalServiceErr SSEErrCode = "INTERNAL_SERVER_ERROR"
	ServerCloseErr     SSEErrCode = "SERVER_CLOSED"
)

type SSEErrorData struct {
	Code    SSEErrCode `json:"code"`
	Message string     `json:"message,omitempty"`
}

type SSEEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type sseFlusher interface {
	http.Flusher
	io.Writer
}

type SSEStream struct {
	sseFlusher sseFlusher

	heartbeatInterval time.Duration
	messageCh         chan SSEEvent
	isClosing         atomic.Bool

	shutdownFn context.CancelFunc
	stoppedCh  chan struct{}
	ctx        context.Context
}

const defaultHeartbeatInterval = 30 * time.Second

type StreamOption func(*SSEStream)

// WithHeartbeat sets how often an idle stream sends a heartbeat event.
func WithHeartbeat(interval time.Duration) StreamOption {
	return func(s *SSEStream) { s.heartbeatInterval = interval }
}

func NewSSEStream(ctx context.Context, w http.ResponseWriter, opts ...StreamOption) (*SSEStream, error) {
	// set the write deadline to avoid the connection to be closed by the server
	err := http.NewResponseController(w).SetWriteDeadline(time.Time{})
	if err != nil && !errors.Is(err, http.ErrNotSupported) {
		return nil, fmt.Errorf("failed to set write deadline: %w", err)
	}

	flusher, ok := w.(sseFlusher)
	if !ok {
		return nil, fmt.Errorf("failed to cast http.ResponseWriter to http.Flusher")
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")

	const maxStreamTime = 24 * time.Hour

	ctx, cancel := context.WithTimeout(ctx, maxStreamTime)
	s := &SSEStream{
		sseFlusher:        flusher,
		heartbeatInterval: defaultHeartbeatInterval,
		messageCh:         make(chan SSEEvent),
		isClosing:         atomic.Bool{},
		shutdownFn:        cancel,
		stoppedCh:         make(chan struct{}),
		ctx:               ctx,
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.loop()

	return s, nil
}

func (s *SSEStream) loop() {
	defer func() {
		_ = s.send(SSEEvent{Type: "error", Data: SSEErrorData{Code: ServerCloseErr}})
		close(s.stoppedCh)
	}()

	for {
		select {
		case <-s.ctx.Done():
			slog.Debug("stream SSE request context done")
			return
		case <-time.After(s.heartbeatInterval):
			if err := s.heartbeat(); err != nil {
				slog.Error("failed to send ping", slog.Any("error", err))
				return
			}
		case event, canProduce := <-s.messageCh:
			if !canProduce {
				slog.Debug("events channel is closed")
				return
			}
			if err := s.send(event); err != nil {
				slog.Debug("failed to send SSE event", slog.String("event", event.Type), slog.Any("error", err))
				return
			}
		}
	}
}

func (s *SSEStream) Send(event SSEEvent) {
	if s.isClosing.Load() {
		slog.Debug("SSE stream is closing, ignoring event", slog.String("event", event.Type))
		return
	}
	s.push(event)
}

func (s *SSEStream) SendError(event SSEErrorData) {
	if s.isClosing.Load() {
		slog.Debug("SSE stream is closing, ignoring event", slog.String("event", "error"))
		return
	}
	s.push(SSEEvent{Type: "error", Data: event})
}

// push hands the event to the loop, dropping it once the peer is gone.
func (s *SSEStream) push(event SSEEvent) {
	select {
	case s.messageCh <- event:
	case <-s.stoppedCh:
		slog.Debug("SSE stream stopped, dropping event", slog.String("event", event.Type))
	}
}

func (s *SSEStream) Close() {
	if !s.isClosing.CompareAndSwap(false, true) {
		// already closed
		return
	}
	s.shutdownFn()
	<-s.stoppedCh
}

func (s *SSEStream) send(e SSEEvent) error {
	if e.Type != "" {
		if _, err := s.sseFlusher.Write([]byte("event: " + e.Type + "\n")); err != nil {
			return err
		}
	}
	if _, err := s.sseFlusher.Write([]byte("data: ")); err != nil {
		return err
	}
	if err := json.NewEncoder(s.sseFlusher).Encode(e.Data); err != nil {
		return err
	}

	// Json add a default \n at the end of the json, so we need to add another one
	if _, err := s.sseFlusher.Write([]byte("\n")); err != nil {
		return err
	}

	s.sseFlusher.Flush()
	return nil
}

func (s *SSEStream) heartbeat() error {
	if s.isClosing.Load() {
		slog.Debug("SSE stream is closing, ignoring event", slog.String("event", "error"))
		return nil
	}
	if _, err := s.sseFlusher.Write([]byte("event: heartbeat\n\n")); err != nil {
		return fmt.Errorf("failed to send heartbeat: %w", err)
	}
	s.sseFlusher.Flush()
	return nil
}
