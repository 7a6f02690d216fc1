package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/spigot/internal/network"
	"github.com/specialistvlad/spigot/internal/path"
	"github.com/specialistvlad/spigot/internal/replay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const buildScript = `
modify add-bucket .
modify add-bucket .
modify fill-bucket .0 a1 a2
modify fill-bucket .1 b1
modify set-weight .0 2
peek 6
`

func TestApp_RunScriptPersists(t *testing.T) {
	// --- Arrange ---
	ctx := context.Background()
	a, logs := SetupAppTest(t, Config{})

	// --- Act ---
	log, err := a.RunScript(ctx, strings.NewReader(buildScript), "build")

	// --- Assert ---
	require.NoError(t, err)
	assert.Contains(t, log.String(), "peek 6 => [a1 a2 b1 a1 a2 b1]")
	assert.Contains(t, logs.String(), "State file not found")

	n, err := a.LoadNetwork(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"add-bucket .",
		"set-weight .0 2",
		"fill-bucket .0 a1 a2",
		"add-bucket .",
		"fill-bucket .1 b1",
	}, commandLines(n.Commands()))
}

func TestApp_FailedScriptSavesNothing(t *testing.T) {
	ctx := context.Background()
	a, _ := SetupAppTest(t, Config{})

	_, err := a.RunScript(ctx, strings.NewReader("modify add-bucket .\nmodify add-joint .4\n"), "broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "script broken: line 2")

	_, statErr := os.Stat(a.Config().StateFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestApp_PeekDoesNotChangeState(t *testing.T) {
	ctx := context.Background()
	a, _ := SetupAppTest(t, Config{})
	_, err := a.RunScript(ctx, strings.NewReader(buildScript), "build")
	require.NoError(t, err)

	for range 2 {
		peeked, err := a.Peek(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, []string{"a1", "a2", "b1", "a1"}, peeked.Items())
	}
}

func TestApp_ViewAndLog(t *testing.T) {
	ctx := context.Background()
	a, _ := SetupAppTest(t, Config{StateFile: filepath.Join(t.TempDir(), "state.yaml")})
	_, err := a.RunScript(ctx, strings.NewReader(buildScript), "build")
	require.NoError(t, err)

	view, err := a.View(ctx, path.Root(), network.NoDepthLimit)
	require.NoError(t, err)
	require.Len(t, view, 3)
	assert.Equal(t, uint32(2), view[1].Weight)

	_, err = a.View(ctx, path.Of(9), 0)
	assert.ErrorIs(t, err, network.ErrInvalidPath)

	var buf bytes.Buffer
	require.NoError(t, a.WriteLog(ctx, &buf, replay.FormatHCL))
	assert.Contains(t, buf.String(), `command "set-weight"`)

	raw, err := os.ReadFile(a.Config().StateFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "kind: set-weight")
}

func TestApp_WritesMetrics(t *testing.T) {
	ctx := context.Background()
	metricsFile := filepath.Join(t.TempDir(), "metrics.prom")
	a, _ := SetupAppTest(t, Config{MetricsFile: metricsFile})

	_, err := a.RunScript(ctx, strings.NewReader(buildScript), "build")
	require.NoError(t, err)

	raw, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `spigot_network_commands_total{command="add-bucket",result="ok"} 2`)
	assert.Contains(t, string(raw), "spigot_network_peeks_total 1")
}

func TestApp_LoadingDoesNotCountReplayedCommands(t *testing.T) {
	// --- Arrange ---
	ctx := context.Background()
	metricsFile := filepath.Join(t.TempDir(), "metrics.prom")
	a, _ := SetupAppTest(t, Config{MetricsFile: metricsFile})
	_, err := a.RunScript(ctx, strings.NewReader(buildScript), "build")
	require.NoError(t, err)

	// --- Act ---
	for range 3 {
		_, err := a.Peek(ctx, 2)
		require.NoError(t, err)
	}

	// --- Assert ---
	raw, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `spigot_network_commands_total{command="add-bucket",result="ok"} 2`)
	assert.Contains(t, string(raw), "spigot_network_peeks_total 4")
}

func TestApp_CorruptStateFile(t *testing.T) {
	ctx := context.Background()
	state := filepath.Join(t.TempDir(), "state.hcl")
	require.NoError(t, os.WriteFile(state, []byte("command \"add-bucket\" {\n"), 0o600))
	a, _ := SetupAppTest(t, Config{StateFile: state})

	_, err := a.LoadNetwork(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse HCL file")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("warn", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":1`)
}

func commandLines(cmds []network.Command[string, string]) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.String()
	}
	return out
}

func TestApp_Modify(t *testing.T) {
	ctx := context.Background()
	a, _ := SetupAppTest(t, Config{})

	require.NoError(t, a.Modify(ctx,
		network.AddJoint[string, string](path.Root()),
		network.AddBucket[string, string](path.Of(0)),
	))
	err := a.Modify(ctx,
		network.FillBucket[string, string](path.Of(0, 0), "x"),
		network.DeleteEmpty[string, string](path.Of(0)),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete-empty .0: cannot delete non-empty joint")

	n, err := a.LoadNetwork(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"add-joint .", "add-bucket .0"}, commandLines(n.Commands()))
}
