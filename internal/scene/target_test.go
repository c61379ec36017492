package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"scanline-renderer/internal/raster"
)

const eps = 1e-9

func renderRow(t *testing.T, s *Scene, blend Blend, y int) []Pixel {
	t.Helper()
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	tg := NewTarget(s, blend, RGB(0x000000))
	r, err := tg.Renderer()
	if err != nil {
		t.Fatalf("Renderer() error = %v", err)
	}
	r.RenderScanline(y, r.NewDepthRow())
	return tg.Row
}

// gradientScene spans black at x=0 to white at x=100 on row 0.
func gradientScene(mode raster.ShadingMode) *Scene {
	return &Scene{
		Width:  101,
		Height: 1,
		Mode:   mode,
		Vertices: []Vertex{
			{X: 0, Y: -100, Z: 1, Color: RGB(0x000000)},
			{X: 0, Y: 100, Z: 1, Color: RGB(0x000000)},
			{X: 100, Y: 0, Z: 1, Color: RGB(0xffffff)},
		},
		Triangles: []Triangle{{V: [3]int{0, 1, 2}, Color: RGB(0x336699)}},
	}
}

func TestTargetInterpolated(t *testing.T) {
	row := renderRow(t, gradientScene(raster.Interpolated), BlendRGB, 0)

	for _, x := range []int{0, 25, 50, 100} {
		p := row[x]
		if !p.Covered {
			t.Errorf("pixel %d not covered", x)
			continue
		}
		want := float64(x) / 100
		if math.Abs(p.C.R-want) > eps || math.Abs(p.C.G-want) > eps || math.Abs(p.C.B-want) > eps {
			t.Errorf("pixel %d = %+v, want gray %v", x, p.C, want)
		}
	}
}

func TestTargetFlat(t *testing.T) {
	row := renderRow(t, gradientScene(raster.Flat), BlendRGB, 0)
	for x, p := range row {
		if !p.Covered || p.C.Hex() != "#336699" {
			t.Fatalf("pixel %d = %+v covered=%v, want #336699", x, p.C, p.Covered)
		}
	}
}

func TestTargetPerTriangleMode(t *testing.T) {
	s := gradientScene(raster.Interpolated)
	s.Triangles[0].Mode = raster.Flat
	row := renderRow(t, s, BlendRGB, 0)
	if got := row[50].C.Hex(); got != "#336699" {
		t.Errorf("pixel 50 = %s, want flat #336699", got)
	}
}

func TestTargetBackground(t *testing.T) {
	s := &Scene{
		Width:  4,
		Height: 4,
		Mode:   raster.Flat,
		Vertices: []Vertex{
			{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 0, Y: 1, Z: 1},
		},
		Triangles: []Triangle{{V: [3]int{0, 1, 2}, Color: RGB(0xffffff)}},
	}
	tg := NewTarget(s, BlendRGB, RGB(0x102030))
	r, err := tg.Renderer()
	if err != nil {
		t.Fatalf("Renderer() error = %v", err)
	}
	r.RenderScanline(3, r.NewDepthRow())

	for x, p := range tg.Row {
		if p.Covered {
			t.Errorf("pixel %d covered on empty row", x)
		}
		if got := p.C.Hex(); got != "#102030" {
			t.Errorf("pixel %d = %s, want background #102030", x, got)
		}
		if a := p.NRGBA(true).A; a != 0 {
			t.Errorf("pixel %d transparent alpha = %d, want 0", x, a)
		}
		if a := p.NRGBA(false).A; a != 255 {
			t.Errorf("pixel %d opaque alpha = %d, want 255", x, a)
		}
	}
}

func TestTargetNearerWins(t *testing.T) {
	s := &Scene{
		Width:  8,
		Height: 1,
		Mode:   raster.Flat,
		Vertices: []Vertex{
			{X: -10, Y: -10, Z: 5}, {X: 20, Y: -10, Z: 5}, {X: -10, Y: 20, Z: 5},
			{X: -10, Y: -10, Z: 2}, {X: 20, Y: -10, Z: 2}, {X: -10, Y: 20, Z: 2},
		},
		Triangles: []Triangle{
			{V: [3]int{0, 1, 2}, Color: RGB(0xff0000)},
			{V: [3]int{3, 4, 5}, Color: RGB(0x0000ff)},
		},
	}
	row := renderRow(t, s, BlendRGB, 0)
	for x, p := range row {
		if got := p.C.Hex(); got != "#0000ff" {
			t.Errorf("pixel %d = %s, want nearer #0000ff", x, got)
		}
	}
}

func TestParseBlend(t *testing.T) {
	for _, b := range Blends {
		got, err := ParseBlend(string(b))
		if err != nil || got != b {
			t.Errorf("ParseBlend(%q) = %q, %v", b, got, err)
		}
	}
	if got, err := ParseBlend(""); err != nil || got != BlendRGB {
		t.Errorf("ParseBlend(\"\") = %q, %v; want rgb", got, err)
	}
	if _, err := ParseBlend("cmyk"); err == nil {
		t.Error("ParseBlend(cmyk) succeeded")
	}
}

func TestBlendEndpoints(t *testing.T) {
	c1 := RGB(0xff8000)
	c2 := RGB(0x2040c0)
	for _, b := range Blends {
		t.Run(string(b), func(t *testing.T) {
			if got := b.Mix(c1, c2, 0); !got.AlmostEqualRgb(c1) {
				t.Errorf("Mix(t=0) = %s, want %s", got.Hex(), c1.Hex())
			}
			if got := b.Mix(c1, c2, 1); !got.AlmostEqualRgb(c2) {
				t.Errorf("Mix(t=1) = %s, want %s", got.Hex(), c2.Hex())
			}
		})
	}
}

func TestBlendLinearMidpoint(t *testing.T) {
	got := BlendLinear.Mix(RGB(0x000000), RGB(0xffffff), 0.5)
	want := colorful.LinearRgb(0.5, 0.5, 0.5)
	if !got.AlmostEqualRgb(want) {
		t.Errorf("linear midpoint = %s, want %s", got.Hex(), want.Hex())
	}
	if got.R <= 0.5 {
		t.Errorf("linear midpoint R = %v, want brighter than sRGB midpoint", got.R)
	}
}

func TestSceneValidate(t *testing.T) {
	valid := func() *Scene { return gradientScene(raster.Flat) }

	tests := []struct {
		name   string
		modify func(*Scene)
		want   error
	}{
		{"zero width", func(s *Scene) { s.Width = 0 }, ErrDimension},
		{"tall", func(s *Scene) { s.Height = MaxDim + 1 }, ErrDimension},
		{"no mode", func(s *Scene) { s.Mode = 0 }, ErrShade},
		{"bad triangle mode", func(s *Scene) { s.Triangles[0].Mode = 9 }, ErrShade},
		{"nan depth", func(s *Scene) { s.Vertices[0].Z = math.NaN() }, ErrDepth},
		{"inf depth", func(s *Scene) { s.Vertices[0].Z = math.Inf(1) }, ErrDepth},
		{"index", func(s *Scene) { s.Triangles[0].V[2] = 3 }, ErrVertexIndex},
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("Validate() on valid scene = %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.modify(s)
			if err := s.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestScaled(t *testing.T) {
	s := gradientScene(raster.Interpolated)
	k := s.Scaled(3)

	if k.Width != 303 || k.Height != 3 {
		t.Errorf("scaled size = %dx%d, want 303x3", k.Width, k.Height)
	}
	if v := k.Vertices[2]; v.X != 300 || v.Y != 0 || v.Z != 1 {
		t.Errorf("scaled vertex = %+v", v)
	}
	if s.Vertices[2].X != 100 {
		t.Error("Scaled modified the source scene")
	}
}

func TestInfoString(t *testing.T) {
	got := gradientScene(raster.Interpolated).Info().String()
	want := "Width:  101\nHeight: 1\nShade:  vertex\nTcount: 1\nVcount: 3\n"
	if got != want {
		t.Errorf("Info().String() = %q, want %q", got, want)
	}
}
