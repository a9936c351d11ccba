package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "Game", cfg.Title)
	assert.Equal(t, 900, cfg.Width)
	assert.Equal(t, 700, cfg.Height)
	assert.Equal(t, 10*time.Millisecond, cfg.Pacing.Duration)
	assert.Equal(t, 2*time.Second, cfg.ReportInterval.Duration)
	assert.Equal(t, [2]float32{90, 90}, cfg.Fov)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesOnlyPresentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oxy.toml")
	doc := `
title = "Voxels"
backend = "wgpu"
pacing = "1ms"
fov = [70.0, 60.0]
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Voxels", cfg.Title)
	assert.Equal(t, BackendWGPU, cfg.Backend)
	assert.Equal(t, time.Millisecond, cfg.Pacing.Duration)
	assert.Equal(t, [2]float32{70, 60}, cfg.Fov)
	assert.Equal(t, 900, cfg.Width)
	assert.Equal(t, float32(15), cfg.RollStep)
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero width", func(c *Config) { c.Width = 0 }, ErrInvalidSize},
		{"negative height", func(c *Config) { c.Height = -1 }, ErrInvalidSize},
		{"unknown backend", func(c *Config) { c.Backend = "vulkan" }, ErrUnknownBackend},
		{"trace backend", func(c *Config) { c.Backend = BackendTrace }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	cfg := Default()
	cfg.Pacing = Duration{3 * time.Millisecond}

	data, err := Encode(cfg)
	require.NoError(t, err)
	assert.Contains(t, string(data), "3ms")

	decoded := Config{}
	require.NoError(t, Decode(data, &decoded))
	assert.Equal(t, cfg, decoded)
}
