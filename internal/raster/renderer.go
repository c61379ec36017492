package raster

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is matched by every *ConfigError.
var ErrInvalidConfig = errors.New("raster: invalid configuration")

// ConfigError reports a Config value New cannot accept.
type ConfigError struct {
	Field  string
	Value  int
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("raster: invalid %s %d: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// Config holds the fixed parameters of a Renderer.
type Config struct {
	Width     int // image width in pixels, > 0
	Height    int // image height in pixels, > 0
	Triangles int // number of triangles the accessor serves, >= 0
	Registers int // mixing registers the client provides; 0 means RegisterCount
}

func (c Config) validate() error {
	if c.Width <= 0 {
		return &ConfigError{Field: "width", Value: c.Width, Reason: "must be positive"}
	}
	if c.Height <= 0 {
		return &ConfigError{Field: "height", Value: c.Height, Reason: "must be positive"}
	}
	if c.Triangles < 0 {
		return &ConfigError{Field: "triangle count", Value: c.Triangles, Reason: "must not be negative"}
	}
	if c.Registers != 0 && c.Registers != RegisterCount {
		return &ConfigError{
			Field:  "register count",
			Value:  c.Registers,
			Reason: fmt.Sprintf("must be %d", RegisterCount),
		}
	}
	return nil
}

// Renderer rasterizes the accessor's triangles one scanline at a time.
// It is immutable after New and keeps no state between scanlines, so the
// client owns every buffer: its scanline buffer behind the accessor and
// the depth row passed to RenderScanline.
//
// A Renderer is not safe for concurrent RenderScanline calls. Rows can be
// rendered in parallel with one Renderer per worker, each built over an
// independent accessor and depth row.
type Renderer struct {
	width     int
	height    int
	triangles int
	acc       Accessor
}

// New creates a Renderer, or returns a *ConfigError if cfg or acc is
// invalid.
func New(cfg Config, acc Accessor) (*Renderer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, &ConfigError{Field: "accessor", Reason: "must not be nil"}
	}

	Logger().Debug("raster: renderer created",
		"width", cfg.Width, "height", cfg.Height, "triangles", cfg.Triangles)

	return &Renderer{
		width:     cfg.Width,
		height:    cfg.Height,
		triangles: cfg.Triangles,
		acc:       acc,
	}, nil
}

func (r *Renderer) Width() int     { return r.width }
func (r *Renderer) Height() int    { return r.height }
func (r *Renderer) Triangles() int { return r.triangles }

// NewDepthRow allocates a depth row sized for this renderer.
func (r *Renderer) NewDepthRow() []float64 {
	return NewDepthRow(r.width)
}

// RenderScanline renders row y. It clears the client scanline buffer,
// resets depth[:Width] to NoDepth, then rasterizes every triangle that
// crosses the row. Afterwards the client buffer holds the row's pixels and
// depth holds the nearest Z per column, both valid until the next call.
//
// Rows are expected top to bottom, once each, but calling again for the
// same row recomputes it from scratch with identical results.
//
// RenderScanline panics if y is outside [0, Height) or depth is shorter
// than Width.
func (r *Renderer) RenderScanline(y int, depth []float64) {
	if y < 0 || y >= r.height {
		panic(fmt.Sprintf("raster: scanline %d out of range [0,%d)", y, r.height))
	}
	if len(depth) < r.width {
		panic(fmt.Sprintf("raster: depth row has %d columns, need %d", len(depth), r.width))
	}
	depth = depth[:r.width]

	r.acc.Clear()
	resetDepth(depth)

	for tri := 0; tri < r.triangles; tri++ {
		r.rasterizeTriangle(tri, y, depth)
	}
}
