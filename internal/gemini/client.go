// Package gemini talks to the Gemini generateContent endpoint and turns its
// answer into a layout response.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/figgen/figgen-cli/internal/errhandler"
	"github.com/figgen/figgen-cli/internal/layout"
	"github.com/figgen/figgen-cli/internal/preset"
	"github.com/figgen/figgen-cli/internal/prompt"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// RetryFunc is invoked before waiting for the next attempt.
type RetryFunc func(attempt, maxAttempts int)

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	reg        *preset.Registry
	prompts    *prompt.Builder
	logger     *slog.Logger
	onRetry    RetryFunc
	sleep      func(ctx context.Context, d time.Duration) error
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) { client.httpClient = c }
}

func WithBaseURL(u string) Option {
	return func(client *Client) { client.baseURL = strings.TrimSuffix(u, "/") }
}

func WithLogger(l *slog.Logger) Option {
	return func(client *Client) { client.logger = l }
}

func WithRetryHook(fn RetryFunc) Option {
	return func(client *Client) { client.onRetry = fn }
}

func NewClient(apiKey string, reg *preset.Registry, opts ...Option) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		reg:        reg,
		prompts:    prompt.NewBuilder(reg),
		logger:     slog.Default(),
		onRetry:    func(int, int) {},
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content               `json:"contents"`
	GenerationConfig preset.GenerationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content *content `json:"content"`
	} `json:"candidates"`
}

// Generate builds the device prompt for userPrompt, asks modelID for a layout
// and returns the decoded response.
func (c *Client) Generate(ctx context.Context, userPrompt, modelID string, deviceType preset.DeviceType) (*layout.Response, error) {
	text, err := c.prompts.Build(userPrompt, deviceType)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Role: "user", Parts: []part{{Text: text}}}},
		GenerationConfig: c.reg.Generation,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	raw, err := c.postWithRetry(ctx, c.endpoint(modelID), body)
	if err != nil {
		return nil, err
	}
	generated, err := candidateText(raw)
	if err != nil {
		return nil, err
	}
	return ParseLayout(generated)
}

func (c *Client) endpoint(modelID string) string {
	return fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, url.PathEscape(modelID), url.QueryEscape(c.apiKey))
}

// postWithRetry retries overloaded answers (HTTP 503), and transport errors
// mentioning 503, with a linear backoff. Any other failure is returned
// immediately.
func (c *Client) postWithRetry(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	policy := c.reg.Retry
	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		status, respBody, err := c.post(ctx, endpoint, body)
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if !strings.Contains(err.Error(), "503") {
				return nil, &errhandler.TerminalServiceError{Err: err}
			}
			lastErr = &errhandler.TransientServiceError{Attempts: attempt, Err: err}
		case status == http.StatusServiceUnavailable:
			lastErr = &errhandler.TransientServiceError{StatusCode: status, Body: string(respBody), Attempts: attempt}
		case status < 200 || status > 299:
			return nil, &errhandler.TerminalServiceError{StatusCode: status, Body: string(respBody)}
		default:
			return respBody, nil
		}

		if attempt == policy.MaxAttempts {
			break
		}
		c.logger.WarnContext(ctx, "generation service overloaded, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", policy.MaxAttempts),
			slog.String("error", lastErr.Error()),
		)
		c.onRetry(attempt, policy.MaxAttempts)
		if err := c.sleep(ctx, policy.BaseDelay()*time.Duration(attempt)); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) post(ctx context.Context, endpoint string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, withoutURL(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, withoutURL(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

// withoutURL drops the endpoint from a *url.Error, since it carries the API
// key.
func withoutURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s request: %w", strings.ToLower(urlErr.Op), urlErr.Err)
	}
	return err
}

func candidateText(raw []byte) (string, error) {
	var resp generateResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", &errhandler.FormatError{Kind: errhandler.FormatStructure, Preview: preview(string(raw)), Err: err}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &errhandler.FormatError{Kind: errhandler.FormatStructure, Preview: preview(string(raw)), Err: errNoCandidate}
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
