package daemon

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/figgen/figgen-cli/internal/e2e"
)

const loginLayout = `{"frames":[{"name":"Login","nodes":[` +
	`{"type":"TEXT","name":"Title","characters":"Sign in","fontSize":24},` +
	`{"type":"RECTANGLE","name":"Email","height":48}` +
	`]}]}`

func fakeGemini(t *testing.T, calls *atomic.Int32) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.True(t, strings.HasSuffix(r.URL.Path, ":generateContent"), r.URL.Path)
		assert.Equal(t, e2e.TestAPIKey, r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{
				map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": loginLayout}}}},
			},
		})
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func setup(t *testing.T) (*e2e.FiggenCLI, *atomic.Int32) {
	t.Helper()
	calls := &atomic.Int32{}
	cli := e2e.NewFiggenCLI(t, fakeGemini(t, calls))
	t.Cleanup(cli.CleanUp)
	return cli, calls
}

func TestGenerateCommand(t *testing.T) {
	cli, calls := setup(t)

	stdout, stderr, err := cli.Run(t.Context(), "generate", "-d", "Home", "--format", "json", "a", "login", "screen")
	require.NoError(t, err, string(stderr))
	assert.Equal(t, int32(1), calls.Load())

	var res struct {
		Document string `json:"document"`
		Frames   []struct {
			Name     string `json:"name"`
			Children int    `json:"children"`
		} `json:"frames"`
	}
	require.NoError(t, json.Unmarshal(stdout, &res))
	assert.Equal(t, "Home", res.Document)
	require.Len(t, res.Frames, 1)
	assert.Equal(t, "Login", res.Frames[0].Name)
	assert.Equal(t, 2, res.Frames[0].Children)

	stdout, stderr, err = cli.Run(t.Context(), "document", "list", "--format", "json")
	require.NoError(t, err, string(stderr))
	var list struct {
		Documents []struct {
			Name   string `json:"name"`
			Frames int    `json:"frames"`
		} `json:"documents"`
	}
	require.NoError(t, json.Unmarshal(stdout, &list))
	require.Len(t, list.Documents, 1)
	assert.Equal(t, "Home", list.Documents[0].Name)
	assert.Equal(t, 1, list.Documents[0].Frames)
	assert.True(t, cli.DataDir().Join("documents", "home.figgen").Exist())
}

func TestGenerateBadArgument(t *testing.T) {
	cli, calls := setup(t)

	_, _, err := cli.Run(t.Context(), "generate", "--device", "watch", "a", "login", "screen")
	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr), "unexpected error: %v", err)
	assert.Equal(t, 3, exitErr.ExitCode())
	assert.Zero(t, calls.Load())
}

func TestDaemon(t *testing.T) {
	cli, calls := setup(t)
	addr := cli.StartDaemon()

	body, err := json.Marshal(map[string]any{"type": "generate", "prompt": "a login screen"})
	require.NoError(t, err)
	resp, err := http.Post(addr+"/v1/documents/Home/messages", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	var stream bytes.Buffer
	_, _ = stream.ReadFrom(resp.Body)
	assert.Contains(t, stream.String(), "event: success")
	assert.Equal(t, int32(1), calls.Load())

	resp, err = http.Get(addr + "/v1/documents/Home")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var doc struct {
		Name string `json:"name"`
		Page struct {
			Children []struct {
				Name string `json:"name"`
			} `json:"children"`
		} `json:"page"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	require.Len(t, doc.Page.Children, 1)
	assert.Equal(t, "Login", doc.Page.Children[0].Name)
}

func TestDaemonCORS(t *testing.T) {
	cli, _ := setup(t)
	addr := cli.StartDaemon()

	tests := []struct {
		origin      string
		shouldAllow bool
	}{
		{"http://localhost", true},
		{"http://localhost:8002", true},
		{"https://localhost", true},

		// not valid, should not be allowed
		{"http://randomsite.com", false},
	}

	for _, tc := range tests {
		t.Run(tc.origin, func(t *testing.T) {
			req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, addr+"/v1/version", nil)
			require.NoError(t, err)
			req.Header.Set("origin", tc.origin)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, 200, resp.StatusCode)
			if tc.shouldAllow {
				require.Equal(t, tc.origin, resp.Header.Get("Access-Control-Allow-Origin"))
			} else {
				require.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
			}
		})
	}
}
