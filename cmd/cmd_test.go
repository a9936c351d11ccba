package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-trace/config"
	"github.com/Carmen-Shannon/oxy-trace/engine/profiler"
	"github.com/Carmen-Shannon/oxy-trace/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-trace/engine/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := NewApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"oxy-trace"}, args...))
	return out.String(), err
}

func TestReplayCommand(t *testing.T) {
	out, err := runApp(t, "replay", "--frames", "9", "--width", "32", "--height", "16")
	require.NoError(t, err)

	assert.Contains(t, out, "DispatchCompute")
	assert.Contains(t, out, "MemoryBarrier")
	assert.Contains(t, out, "9 frames")
}

func TestReplayReadsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oxy.toml")
	require.NoError(t, os.WriteFile(path, []byte("width = 16\nheight = 8\nsync_timing = false\n"), 0o644))

	out, err := runApp(t, "--config", path, "replay", "--frames", "2")
	require.NoError(t, err)
	assert.NotContains(t, out, "Finish")
}

func TestReplayRejectsBadInput(t *testing.T) {
	_, err := runApp(t, "replay", "--frames", "0")
	assert.Error(t, err)

	_, err = runApp(t, "replay", "--width=-1")
	assert.ErrorIs(t, err, config.ErrInvalidSize)
}

func TestRunRejectsTraceBackend(t *testing.T) {
	_, err := runApp(t, "run", "--backend", "trace")
	assert.Error(t, err)

	_, err = runApp(t, "run", "--backend", "vulkan")
	assert.ErrorIs(t, err, config.ErrUnknownBackend)
}

func TestReplayScriptCycles(t *testing.T) {
	script := replayScript(17)
	require.Len(t, script, 17)
	assert.Equal(t, []window.Event{window.KeyDownEvent{Key: 87}}, script[0])
	assert.Equal(t, script[0], script[8])
	assert.Equal(t, script[0], script[16])
	assert.Empty(t, script[7])
}

func TestShaderLanguageForBackend(t *testing.T) {
	assert.Equal(t, shader.LanguageWGSL, shaderLanguage(config.BackendWGPU))
	assert.Equal(t, shader.LanguageGLSL, shaderLanguage(config.BackendGL))
	assert.Equal(t, shader.LanguageGLSL, shaderLanguage(config.BackendTrace))
}

func TestDisplayShadersSkipsGLSL(t *testing.T) {
	programs, err := shader.LoadPrograms(shader.LanguageGLSL)
	require.NoError(t, err)

	var out bytes.Buffer
	failed := displayShaders(&out, append(programs.Compute.Shaders, programs.Present.Shaders...))
	assert.Zero(t, failed)
	assert.Contains(t, out.String(), shader.RayTracerGLSL)
	assert.Contains(t, out.String(), "skipped")
}

func TestFormatBindings(t *testing.T) {
	assert.Equal(t, "-", formatBindings(nil))
	assert.Equal(t, "0:0 camera, 0:1 outputImage", formatBindings([]shader.Binding{
		{Binding: 0, Name: "camera"},
		{Binding: 1, Name: "outputImage"},
	}))
}

func TestDisplaySummary(t *testing.T) {
	var out bytes.Buffer
	displaySummary(&out, profiler.Summary{Frames: 3})
	assert.Contains(t, out.String(), "events")
	assert.Contains(t, out.String(), "3 frames")
}

func TestGroundPlane(t *testing.T) {
	w, err := groundPlane()
	require.NoError(t, err)
	assert.EqualValues(t, 1, w.VoxelAt(0, -1, 0))
	assert.EqualValues(t, 1, w.VoxelAt(-16, -1, 15))
	assert.EqualValues(t, 0, w.VoxelAt(0, 0, 0))
	assert.EqualValues(t, 0, w.VoxelAt(16, -1, 0))
}
