package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/lucasb-eyer/go-colorful"

	"scanline-renderer/internal/output"
	"scanline-renderer/internal/render"
	"scanline-renderer/internal/scene"
)

// DefaultFile is the config file looked for next to the scenes when no
// --config flag is given.
const DefaultFile = "scanrender.json"

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	OutputDir string `json:"output_dir"`

	// Render settings
	Format       string `json:"format"`
	Supersample  int    `json:"supersample"`
	Workers      int    `json:"workers"`
	Blend        string `json:"blend"`
	Background   string `json:"background"`
	Transparent  bool   `json:"transparent"`
	PreviewWidth int    `json:"preview_width"`
	ColorProfile string `json:"color_profile"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOptional is Load, except that a missing file yields an empty Config.
func LoadOptional(path string) (Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	return cfg, err
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir    string
	Format       string
	Supersample  int
	Workers      int
	Blend        string
	Background   string
	Transparent  bool
	PreviewWidth int
	ColorProfile string
}

// Resolve applies flags over the file settings and fills in defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Supersample > 0 {
		c.Supersample = flags.Supersample
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Blend != "" {
		c.Blend = flags.Blend
	}
	if flags.Background != "" {
		c.Background = flags.Background
	}
	if flags.Transparent {
		c.Transparent = true
	}
	if flags.PreviewWidth > 0 {
		c.PreviewWidth = flags.PreviewWidth
	}
	if flags.ColorProfile != "" {
		c.ColorProfile = flags.ColorProfile
	}

	// Relative output dirs stay relative to the working directory.
	if c.OutputDir != "" {
		c.OutputDir = filepath.Clean(c.OutputDir)
	}

	if c.Format == "" {
		c.Format = string(output.PNG)
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Blend == "" {
		c.Blend = string(scene.BlendRGB)
	}
	if c.Background == "" {
		c.Background = "#000000"
	}
	if c.PreviewWidth <= 0 {
		c.PreviewWidth = 80
	}
	if c.ColorProfile == "" {
		c.ColorProfile = "auto"
	}
}

// Validate checks a resolved config.
func (c *Config) Validate() error {
	if _, err := output.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Supersample > render.MaxSupersample {
		return fmt.Errorf("config: supersample %d exceeds %d", c.Supersample, render.MaxSupersample)
	}
	if _, err := scene.ParseBlend(c.Blend); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := colorful.Hex(c.Background); err != nil {
		return fmt.Errorf("config: background %q: %w", c.Background, err)
	}
	return nil
}

// RenderOptions converts a validated config into render options.
func (c *Config) RenderOptions() render.Options {
	bg, _ := colorful.Hex(c.Background)
	return render.Options{
		Supersample: c.Supersample,
		Workers:     c.Workers,
		Blend:       scene.Blend(c.Blend),
		Background:  bg,
		Transparent: c.Transparent,
	}
}

// OutputFormat returns the validated output format.
func (c *Config) OutputFormat() output.Format {
	f, _ := output.ParseFormat(c.Format)
	return f
}
