package feedback

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frameResult struct {
	Name   string `json:"name"`
	Frames int    `json:"frames"`
}

func (r frameResult) String() string { return r.Name }
func (r frameResult) Data() any      { return r }

func setup(t *testing.T, f OutputFormat) (out, errOut *bytes.Buffer, code *int) {
	t.Helper()
	reset()
	t.Cleanup(reset)
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	SetOut(out)
	SetErr(errOut)
	SetFormat(f)
	code = new(int)
	*code = -1
	exit = func(c int) { *code = c }
	return out, errOut, code
}

func TestParseOutputFormat(t *testing.T) {
	for _, name := range []string{"text", "json", "jsonmini", "yaml"} {
		f, ok := ParseOutputFormat(name)
		require.True(t, ok, name)
		assert.Equal(t, name, f.String())
	}
	_, ok := ParseOutputFormat("xml")
	assert.False(t, ok)
}

func TestPrintResult(t *testing.T) {
	res := frameResult{Name: "Home", Frames: 2}

	t.Run("text", func(t *testing.T) {
		out, _, _ := setup(t, Text)
		PrintResult(res)
		assert.Equal(t, "Home\n", out.String())
	})

	t.Run("json with warnings", func(t *testing.T) {
		out, errOut, _ := setup(t, JSON)
		Warnf("%d frames skipped", 1)
		PrintResult(res)
		assert.JSONEq(t, `{"name":"Home","frames":2,"warnings":["1 frames skipped"]}`, out.String())
		assert.Empty(t, errOut.String())
	})

	t.Run("minified json", func(t *testing.T) {
		out, _, _ := setup(t, MinifiedJSON)
		PrintResult(res)
		assert.Equal(t, `{"name":"Home","frames":2}`+"\n", out.String())
	})

	t.Run("yaml", func(t *testing.T) {
		out, _, _ := setup(t, YAML)
		PrintResult(res)
		assert.Equal(t, "name: Home\nframes: 2\n", out.String())
	})
}

func TestFatal(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		_, errOut, code := setup(t, Text)
		Fatal("document is locked", ErrDocument)
		assert.Equal(t, "document is locked\n", errOut.String())
		assert.Equal(t, int(ErrDocument), *code)
	})

	t.Run("json keeps the printed output", func(t *testing.T) {
		_, errOut, code := setup(t, JSON)
		Print("Generating design...")
		Fatal("service unavailable", ErrService)
		assert.JSONEq(t, `{"error":"service unavailable","output":{"stdout":"Generating design...\n","stderr":""}}`, errOut.String())
		assert.Equal(t, int(ErrService), *code)
	})
}
