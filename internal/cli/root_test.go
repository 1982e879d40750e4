package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs cmd with args and returns everything written to stdout and
// stderr.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestNewRootCommand(t *testing.T) {
	root := NewRootCommand()
	assert.Equal(t, "switchboard", root.Use)
	assert.Contains(t, root.Long, "SWITCHBOARD_DB")

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"run", "board", "history", "stats", "replay", "validate", "test"} {
		assert.Contains(t, names, want)
	}
}

// lookupFlag finds a persistent flag on root or a local flag on the command
// at path.
func lookupFlag(t *testing.T, path, name string) *pflag.Flag {
	t.Helper()
	root := NewRootCommand()
	if path == "" {
		f := root.PersistentFlags().Lookup(name)
		require.NotNil(t, f, "--%s", name)
		return f
	}
	sub, _, err := root.Find(strings.Fields(path))
	require.NoError(t, err)
	f := sub.Flags().Lookup(name)
	require.NotNil(t, f, "%s --%s", path, name)
	return f
}

func TestFlagDefaults(t *testing.T) {
	tests := []struct {
		cmd, flag string
		def       string
		short     string
	}{
		{"", "verbose", "false", "v"},
		{"", "format", "text", ""},
		{"run", "db", "", ""},
		{"run", "games", "1", "n"},
		{"run", "seed", "0", ""},
		{"run", "parallel", "1", "p"},
		{"run", "red", "random", ""},
		{"run", "blue", "random", ""},
		{"run", "referee", "rules", ""},
		{"test", "update", "false", ""},
		{"test", "filter", "", ""},
		{"history", "db", "", ""},
		{"stats", "db", "", ""},
		{"replay", "db", "", ""},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.cmd+" "+tt.flag), func(t *testing.T) {
			f := lookupFlag(t, tt.cmd, tt.flag)
			assert.Equal(t, tt.def, f.DefValue)
			assert.Equal(t, tt.short, f.Shorthand)
		})
	}
}

func TestIsValidFormat(t *testing.T) {
	for format, want := range map[string]bool{
		"text": true, "json": true, "xml": false, "": false, "TEXT": false,
	} {
		assert.Equal(t, want, isValidFormat(format), "%q", format)
	}
}

func TestInvalidFormatIsCommandError(t *testing.T) {
	_, err := execute(t, NewRootCommand(), "--format", "invalid", "board")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestEnvironmentFillsFlags(t *testing.T) {
	t.Setenv("SWITCHBOARD_FORMAT", "json")
	t.Setenv("SWITCHBOARD_SEED", "42")

	out, err := execute(t, NewRootCommand(), "board")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   BoardOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, int64(42), resp.Data.Seed)
	assert.Len(t, resp.Data.Cells, 25)
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("SWITCHBOARD_SEED", "42")

	fromEnv, err := execute(t, NewRootCommand(), "board")
	require.NoError(t, err)
	fromFlag, err := execute(t, NewRootCommand(), "board", "--seed", "43")
	require.NoError(t, err)

	assert.Contains(t, fromEnv, "seed 42,")
	assert.Contains(t, fromFlag, "seed 43,")
}

func TestEnvironmentBadValue(t *testing.T) {
	t.Setenv("SWITCHBOARD_SEED", "many")

	_, err := execute(t, NewRootCommand(), "board")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SWITCHBOARD_SEED")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestUnderscoreFlagNames(t *testing.T) {
	_, err := execute(t, NewRootCommand(), "board", "--names_file", "does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load name bank")
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	quiet := (&RootOptions{}).logger(&buf)
	quiet.Info("hidden")
	quiet.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	loud := (&RootOptions{Verbose: true}).logger(&buf)
	loud.Debug("details")
	assert.Contains(t, buf.String(), "details")
}
