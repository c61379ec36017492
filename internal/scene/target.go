package scene

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"scanline-renderer/internal/raster"
)

// Pixel is one scanline buffer slot.
type Pixel struct {
	C       colorful.Color
	Covered bool // written by a triangle since the last Clear
}

// NRGBA converts the pixel for an image, with uncovered pixels fully
// transparent when transparent is set.
func (p Pixel) NRGBA(transparent bool) color.NRGBA {
	r, g, b := p.C.Clamped().RGB255()
	a := uint8(255)
	if transparent && !p.Covered {
		a = 0
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// Target serves a Scene to a raster.Renderer and receives its pixels in
// Row. Each Target owns its scanline buffer and registers, so several
// Targets over one Scene can render different rows concurrently.
type Target struct {
	scene      *Scene
	blend      Blend
	background colorful.Color
	regs       [raster.RegisterCount]colorful.Color

	// Row is the scanline buffer, Width pixels long.
	Row []Pixel
}

// NewTarget creates a Target over s. The scene must be valid.
func NewTarget(s *Scene, blend Blend, background colorful.Color) *Target {
	return &Target{
		scene:      s,
		blend:      blend,
		background: background,
		Row:        make([]Pixel, s.Width),
	}
}

// Renderer builds a raster.Renderer drawing into this target.
func (t *Target) Renderer() (*raster.Renderer, error) {
	return raster.New(raster.Config{
		Width:     t.scene.Width,
		Height:    t.scene.Height,
		Triangles: len(t.scene.Triangles),
	}, t)
}

func (t *Target) Vertex(tri, local int) raster.Vertex {
	v := &t.scene.Vertices[t.scene.Triangles[tri].V[local]]
	return raster.Vertex{X: v.X, Y: v.Y, Z: v.Z}
}

func (t *Target) Mode(tri int) raster.ShadingMode {
	return t.scene.TriangleMode(tri)
}

func (t *Target) Clear() {
	for i := range t.Row {
		t.Row[i] = Pixel{C: t.background}
	}
}

func (t *Target) Flat(x, tri int) {
	t.Row[x] = Pixel{C: t.scene.Triangles[tri].Color, Covered: true}
}

func (t *Target) Load(reg, tri, local int) {
	t.regs[reg] = t.scene.Vertices[t.scene.Triangles[tri].V[local]].Color
}

func (t *Target) Store(x, reg int) {
	t.Row[x] = Pixel{C: t.regs[reg], Covered: true}
}

func (t *Target) Mix(dst, a, b int, f float64) {
	t.regs[dst] = t.blend.Mix(t.regs[a], t.regs[b], f)
}
