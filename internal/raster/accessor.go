package raster

// RegisterCount is the number of mixing registers a client must provide
// for interpolated shading.
const RegisterCount = 8

// Register layout used by interpolated shading. Registers 0..2 always hold
// the triangle's vertices in local order, so a vertex index doubles as its
// register index.
const (
	regLeft  = 3 // blend along the left edge at the current row
	regRight = 4 // blend along the right edge at the current row
	regPixel = 5 // blend across the span at the current pixel
)

// ShadingMode selects how a triangle's covered pixels are shaded.
type ShadingMode int

const (
	// Interpolated blends per-vertex values across the triangle.
	Interpolated ShadingMode = 1
	// Flat copies one per-triangle value into every covered pixel.
	Flat ShadingMode = 2
)

func (m ShadingMode) String() string {
	switch m {
	case Flat:
		return "triangle"
	case Interpolated:
		return "vertex"
	default:
		return "unknown"
	}
}

// Vertex is a projected triangle vertex in image space, where (0, 0) is
// the top-left pixel. X and Y may lie outside the image and may be
// negative. Z must be finite and >= 0; lesser Z is nearer the viewer.
type Vertex struct {
	X, Y int
	Z    float64
}

// Accessor is implemented by the client. It is the renderer's only way to
// read triangle data and write pixels, so the renderer never sees how the
// client stores vertices, triangles or "colors".
//
// Triangle indices are in [0, N), local vertex indices in [0, 2], pixel
// indices in [0, width) and register indices in [0, RegisterCount).
// Returned data is trusted: it is not validated on the hot path.
type Accessor interface {
	// Vertex returns vertex local of triangle tri. Vertices must not
	// change while a scanline is being rendered.
	Vertex(tri, local int) Vertex

	// Mode returns the shading mode of triangle tri.
	Mode(tri int) ShadingMode

	// Clear resets the client scanline buffer to its default value.
	Clear()

	// Flat writes the flat "color" of triangle tri into pixel x.
	Flat(x, tri int)

	// Load copies the "color" of vertex local of triangle tri into
	// register reg, overwriting it.
	Load(reg, tri, local int)

	// Store copies register reg into pixel x.
	Store(x, reg int)

	// Mix writes into dst the linear interpolation of registers a and b,
	// with t = 0 meaning a and t = 1 meaning b. dst, a and b are always
	// distinct and t is in [0, 1]. Sources must not be modified.
	Mix(dst, a, b int, t float64)
}

// Funcs adapts a set of functions to the Accessor interface. Functions for
// a shading mode the client never reports may be left nil.
type Funcs struct {
	VertexFunc func(tri, local int) Vertex
	ModeFunc   func(tri int) ShadingMode
	ClearFunc  func()
	FlatFunc   func(x, tri int)
	LoadFunc   func(reg, tri, local int)
	StoreFunc  func(x, reg int)
	MixFunc    func(dst, a, b int, t float64)
}

func (f *Funcs) Vertex(tri, local int) Vertex { return f.VertexFunc(tri, local) }

// Mode defaults to Flat when ModeFunc is nil.
func (f *Funcs) Mode(tri int) ShadingMode {
	if f.ModeFunc == nil {
		return Flat
	}
	return f.ModeFunc(tri)
}

func (f *Funcs) Clear() {
	if f.ClearFunc != nil {
		f.ClearFunc()
	}
}

func (f *Funcs) Flat(x, tri int)              { f.FlatFunc(x, tri) }
func (f *Funcs) Load(reg, tri, local int)     { f.LoadFunc(reg, tri, local) }
func (f *Funcs) Store(x, reg int)             { f.StoreFunc(x, reg) }
func (f *Funcs) Mix(dst, a, b int, t float64) { f.MixFunc(dst, a, b, t) }
