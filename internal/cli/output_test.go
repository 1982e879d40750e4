package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func formatterFor(format string, verbose bool) (*OutputFormatter, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return &OutputFormatter{Format: format, Writer: buf, Verbose: verbose}, buf
}

func decodeResponse(t *testing.T, buf *bytes.Buffer) CLIResponse {
	t.Helper()
	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp), "output: %s", buf.String())
	return resp
}

func TestOutputFormatter_JSON(t *testing.T) {
	f, buf := formatterFor("json", false)
	require.NoError(t, f.Success(map[string]int{"games": 2}))

	resp := decodeResponse(t, buf)
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
	assert.Equal(t, map[string]any{"games": float64(2)}, resp.Data)

	f, buf = formatterFor("json", false)
	require.NoError(t, f.Error("R002", "expected operand", map[string]int{"line": 42}))

	resp = decodeResponse(t, buf)
	assert.Equal(t, "error", resp.Status)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "R002", resp.Error.Code)
	assert.Equal(t, "expected operand", resp.Error.Message)
	assert.Equal(t, map[string]any{"line": float64(42)}, resp.Error.Details)
}

func TestOutputFormatter_JSONOmitsEmptyFields(t *testing.T) {
	f, buf := formatterFor("json", false)
	require.NoError(t, f.Error("N001", "name bank too small", nil))

	assert.NotContains(t, buf.String(), `"data"`)
	assert.NotContains(t, buf.String(), `"details"`)
}

func TestOutputFormatter_Text(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		details any
		want    string
	}{
		{"plain", false, nil, "Error [R003]: rules file invalid\n"},
		{"details hidden", false, "strict.cue", "Error [R003]: rules file invalid\n"},
		{"details shown", true, "strict.cue", "Error [R003]: rules file invalid\nDetails: strict.cue\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, buf := formatterFor("text", tt.verbose)
			require.NoError(t, f.Error("R003", "rules file invalid", tt.details))
			assert.Equal(t, tt.want, buf.String())
		})
	}

	f, buf := formatterFor("text", false)
	require.NoError(t, f.Success("3 file(s) valid"))
	assert.Equal(t, "3 file(s) valid\n", buf.String())
}

func TestOutputFormatter_Emit(t *testing.T) {
	data := map[string]int{"games": 3}
	text := func(w io.Writer) error {
		_, err := fmt.Fprintln(w, "3 game(s)")
		return err
	}

	f, buf := formatterFor("text", false)
	require.NoError(t, f.Emit(data, text))
	assert.Equal(t, "3 game(s)\n", buf.String())

	f, buf = formatterFor("json", false)
	require.NoError(t, f.Emit(data, text))
	resp := decodeResponse(t, buf)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, map[string]any{"games": float64(3)}, resp.Data)
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	f, buf := formatterFor("text", false)
	f.VerboseLog("validating %s", "strict.cue")
	assert.Empty(t, buf.String())

	f, buf = formatterFor("text", true)
	f.VerboseLog("validating %s", "strict.cue")
	assert.Equal(t, "validating strict.cue\n", buf.String())

	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	f = &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: true}
	f.VerboseLog("replayed %s", "game-1")
	assert.Empty(t, out.String())
	assert.Equal(t, "replayed game-1\n", errOut.String())
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain error", errors.New("boom"), ExitFailure},
		{"exit error", NewExitError(ExitCommandError, "bad flag"), ExitCommandError},
		{"wrapped exit error", fmt.Errorf("outer: %w", NewExitError(ExitFailure, "failed")), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestExitError_Message(t *testing.T) {
	assert.Equal(t, "bad flag", NewExitError(ExitCommandError, "bad flag").Error())

	cause := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "failed to open database", cause)
	assert.Equal(t, "failed to open database: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
}
