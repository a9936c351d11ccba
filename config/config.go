package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Backend names accepted by the Backend field.
const (
	BackendGL    = "gl"
	BackendWGPU  = "wgpu"
	BackendTrace = "trace"
)

var (
	// ErrInvalidSize is returned when the window dimensions are not positive.
	ErrInvalidSize = errors.New("config: width and height must be positive")

	// ErrUnknownBackend is returned when Backend names no known implementation.
	ErrUnknownBackend = errors.New("config: unknown backend")
)

// Duration wraps time.Duration so it can be written as "10ms" in TOML.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Config holds every tunable of the renderer. Zero-valued fields in a loaded file keep their defaults.
type Config struct {
	Title   string `toml:"title"`
	Width   int    `toml:"width"`
	Height  int    `toml:"height"`
	Backend string `toml:"backend"`

	Pacing         Duration `toml:"pacing"`
	ReportInterval Duration `toml:"report_interval"`
	SyncTiming     bool     `toml:"sync_timing"`

	MoveStep         float32    `toml:"move_step"`
	RollStep         float32    `toml:"roll_step"`
	LookSensitivity  float32    `toml:"look_sensitivity"`
	Fov              [2]float32 `toml:"fov"`
	ClearColor       [4]float32 `toml:"clear_color"`
	ValidateShaders  bool       `toml:"validate_shaders"`
	GPUDebugMessages bool       `toml:"gpu_debug_messages"`
}

// Default returns the configuration the renderer starts with when no file or flag overrides it.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Title:            "Game",
		Width:            900,
		Height:           700,
		Backend:          BackendGL,
		Pacing:           Duration{10 * time.Millisecond},
		ReportInterval:   Duration{2 * time.Second},
		SyncTiming:       true,
		MoveStep:         1,
		RollStep:         15,
		LookSensitivity:  1,
		Fov:              [2]float32{90, 90},
		ClearColor:       [4]float32{0.1, 0.2, 0.3, 1},
		GPUDebugMessages: true,
	}
}

// Load reads a TOML file on top of the defaults. An empty path returns the defaults.
//
// Parameters:
//   - path: the TOML file to read, or "" for none
//
// Returns:
//   - Config: the merged configuration
//   - error: error if the file cannot be read, decoded or validated
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Decode unmarshals TOML data into cfg. Keys that are absent leave cfg untouched.
//
// Parameters:
//   - data: TOML document
//   - cfg: the configuration to update
//
// Returns:
//   - error: decoding error
func Decode(data []byte, cfg *Config) error {
	return toml.Unmarshal(data, cfg)
}

// Encode renders cfg as a TOML document.
func Encode(cfg Config) ([]byte, error) {
	return toml.Marshal(cfg)
}

// Validate checks the fields that would otherwise fail deep inside setup.
//
// Returns:
//   - error: ErrInvalidSize or ErrUnknownBackend, nil when the configuration is usable
func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, c.Width, c.Height)
	}
	switch c.Backend {
	case BackendGL, BackendWGPU, BackendTrace:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
	}
	return nil
}
