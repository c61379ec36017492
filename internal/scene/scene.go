// Package scene is a client of the raster package: it stores projected
// vertices and triangles with RGB colors, reads them from scene scripts and
// serves them to a raster.Renderer through Target.
package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"scanline-renderer/internal/raster"
)

// Limits on scene size.
const (
	MaxDim       = 16384
	MaxVertices  = 16384
	MaxTriangles = 16384
)

var (
	ErrDimension        = errors.New("image output dimension out of range")
	ErrTooManyVertices  = errors.New("too many declared vertices")
	ErrTooManyTriangles = errors.New("too many declared triangles")
	ErrVertexIndex      = errors.New("vertex index out of range")
	ErrDepth            = errors.New("vertex depth must be finite and not negative")
	ErrColor            = errors.New("color out of range")
	ErrShade            = errors.New("unrecognized shading mode")
)

// Vertex is a projected vertex with its interpolated-shading color.
type Vertex struct {
	X, Y  int
	Z     float64
	Color colorful.Color
}

// Triangle references three vertices by index. Color is used for flat
// shading. Mode overrides the scene's shading mode when non-zero.
type Triangle struct {
	V     [3]int
	Color colorful.Color
	Mode  raster.ShadingMode
}

// Scene is a complete set of triangles to render into a Width x Height
// image.
type Scene struct {
	Width     int
	Height    int
	Mode      raster.ShadingMode
	Vertices  []Vertex
	Triangles []Triangle
}

// TriangleMode returns the effective shading mode of triangle i.
func (s *Scene) TriangleMode(i int) raster.ShadingMode {
	if m := s.Triangles[i].Mode; m != 0 {
		return m
	}
	return s.Mode
}

// Validate checks everything the renderer trusts the accessor for.
func (s *Scene) Validate() error {
	if s.Width < 1 || s.Width > MaxDim {
		return fmt.Errorf("scene: width %d: %w", s.Width, ErrDimension)
	}
	if s.Height < 1 || s.Height > MaxDim {
		return fmt.Errorf("scene: height %d: %w", s.Height, ErrDimension)
	}
	if !validMode(s.Mode) {
		return fmt.Errorf("scene: mode %d: %w", s.Mode, ErrShade)
	}
	if len(s.Vertices) > MaxVertices {
		return fmt.Errorf("scene: %d vertices: %w", len(s.Vertices), ErrTooManyVertices)
	}
	if len(s.Triangles) > MaxTriangles {
		return fmt.Errorf("scene: %d triangles: %w", len(s.Triangles), ErrTooManyTriangles)
	}
	for i, v := range s.Vertices {
		if math.IsNaN(v.Z) || math.IsInf(v.Z, 0) || v.Z < 0 {
			return fmt.Errorf("scene: vertex %d: z %v: %w", i, v.Z, ErrDepth)
		}
	}
	for i, t := range s.Triangles {
		for _, vi := range t.V {
			if vi < 0 || vi >= len(s.Vertices) {
				return fmt.Errorf("scene: triangle %d: index %d: %w", i, vi, ErrVertexIndex)
			}
		}
		if t.Mode != 0 && !validMode(t.Mode) {
			return fmt.Errorf("scene: triangle %d: mode %d: %w", i, t.Mode, ErrShade)
		}
	}
	return nil
}

func validMode(m raster.ShadingMode) bool {
	return m == raster.Flat || m == raster.Interpolated
}

// Scaled returns a copy of s with image size and vertex X and Y multiplied
// by k. Depths and colors are unchanged.
func (s *Scene) Scaled(k int) *Scene {
	out := &Scene{
		Width:     s.Width * k,
		Height:    s.Height * k,
		Mode:      s.Mode,
		Vertices:  make([]Vertex, len(s.Vertices)),
		Triangles: s.Triangles,
	}
	for i, v := range s.Vertices {
		v.X *= k
		v.Y *= k
		out.Vertices[i] = v
	}
	return out
}

// Info summarises a scene header.
type Info struct {
	Width     int
	Height    int
	Shade     raster.ShadingMode
	Triangles int
	Vertices  int
}

func (s *Scene) Info() Info {
	return Info{
		Width:     s.Width,
		Height:    s.Height,
		Shade:     s.Mode,
		Triangles: len(s.Triangles),
		Vertices:  len(s.Vertices),
	}
}

func (i Info) String() string {
	return fmt.Sprintf("Width:  %d\nHeight: %d\nShade:  %s\nTcount: %d\nVcount: %d\n",
		i.Width, i.Height, i.Shade, i.Triangles, i.Vertices)
}

// RGB converts a packed 0xRRGGBB value to a color.
func RGB(c uint32) colorful.Color {
	return colorful.Color{
		R: float64((c>>16)&0xff) / 255,
		G: float64((c>>8)&0xff) / 255,
		B: float64(c&0xff) / 255,
	}
}

// packedRGB validates a packed color value coming from a script.
func packedRGB(v int64) (colorful.Color, error) {
	if v < 0 || v > 0xffffff {
		return colorful.Color{}, fmt.Errorf("%#x: %w", v, ErrColor)
	}
	return RGB(uint32(v)), nil
}
