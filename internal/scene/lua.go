package scene

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	glua "github.com/yuin/gopher-lua"
)

// Libraries opened for Lua scene scripts. io, os, debug and package stay
// closed.
var luaLibs = []struct {
	name string
	fn   glua.LGFunction
}{
	{glua.BaseLibName, glua.OpenBase},
	{glua.TabLibName, glua.OpenTable},
	{glua.StringLibName, glua.OpenString},
	{glua.MathLibName, glua.OpenMath},
}

// luaBuilder accumulates a scene from Lua calls. err keeps the first Go-side
// error so callers can match it with errors.Is.
type luaBuilder struct {
	scene              Scene
	haveDim, haveShade bool
	err                error
}

func (b *luaBuilder) raise(L *glua.LState, err error) int {
	if b.err == nil {
		b.err = err
	}
	L.RaiseError("%v", err)
	return 0
}

// ParseLua runs a Lua scene script. The script builds the scene with four
// globals:
//
//	dim(w, h)                  -- output size, once
//	shade("vertex"|"triangle") -- default shading mode, once
//	v(x, y, z, color) -> index -- declare a vertex
//	t(i, j, k, color [, mode]) -> index -- declare a triangle
//
// Indices start at zero. Colors are packed 0xRRGGBB numbers or "#rrggbb"
// strings. Cancelling ctx stops a running script.
func ParseLua(ctx context.Context, r io.Reader, name string) (*Scene, error) {
	L := glua.NewState(glua.Options{SkipOpenLibs: true})
	defer L.Close()
	L.SetContext(ctx)

	for _, lib := range luaLibs {
		if err := L.CallByParam(glua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, glua.LString(lib.name)); err != nil {
			return nil, fmt.Errorf("scene: open lua %q library: %w", lib.name, err)
		}
	}

	// The base library reaches the filesystem through these.
	for _, global := range []string{"dofile", "loadfile", "require", "module"} {
		L.SetGlobal(global, glua.LNil)
	}

	b := &luaBuilder{}
	L.SetGlobal("dim", L.NewFunction(b.dim))
	L.SetGlobal("shade", L.NewFunction(b.shade))
	L.SetGlobal("v", L.NewFunction(b.vertex))
	L.SetGlobal("t", L.NewFunction(b.triangle))

	fn, err := L.Load(r, name)
	if err != nil {
		return nil, fmt.Errorf("scene: compile %s: %w", name, err)
	}
	L.Push(fn)
	if err := L.PCall(0, 0, nil); err != nil {
		if b.err != nil {
			return nil, fmt.Errorf("scene: run %s: %w", name, b.err)
		}
		return nil, fmt.Errorf("scene: run %s: %w", name, err)
	}

	if !b.haveDim {
		return nil, fmt.Errorf("scene: %s: %w", name, ErrNoDim)
	}
	if !b.haveShade {
		return nil, fmt.Errorf("scene: %s: %w", name, ErrNoShade)
	}
	if err := b.scene.Validate(); err != nil {
		return nil, err
	}
	return &b.scene, nil
}

func (b *luaBuilder) dim(L *glua.LState) int {
	if b.haveDim {
		return b.raise(L, ErrHeaderRepeat)
	}
	w, h := L.CheckInt(1), L.CheckInt(2)
	if w < 1 || w > MaxDim || h < 1 || h > MaxDim {
		return b.raise(L, fmt.Errorf("%dx%d: %w", w, h, ErrDimension))
	}
	b.scene.Width, b.scene.Height = w, h
	b.haveDim = true
	return 0
}

func (b *luaBuilder) shade(L *glua.LState) int {
	if b.haveShade {
		return b.raise(L, ErrHeaderRepeat)
	}
	mode, err := ParseMode(L.CheckString(1))
	if err != nil {
		return b.raise(L, err)
	}
	b.scene.Mode = mode
	b.haveShade = true
	return 0
}

func (b *luaBuilder) vertex(L *glua.LState) int {
	if len(b.scene.Vertices) >= MaxVertices {
		return b.raise(L, ErrTooManyVertices)
	}
	x, y := L.CheckInt(1), L.CheckInt(2)
	z := float64(L.CheckNumber(3))
	if math.IsNaN(z) || math.IsInf(z, 0) || z < 0 {
		return b.raise(L, fmt.Errorf("z %v: %w", z, ErrDepth))
	}
	c, err := luaColor(L, 4)
	if err != nil {
		return b.raise(L, err)
	}
	b.scene.Vertices = append(b.scene.Vertices, Vertex{X: x, Y: y, Z: z, Color: c})
	L.Push(glua.LNumber(len(b.scene.Vertices) - 1))
	return 1
}

func (b *luaBuilder) triangle(L *glua.LState) int {
	if len(b.scene.Triangles) >= MaxTriangles {
		return b.raise(L, ErrTooManyTriangles)
	}
	var tri Triangle
	for i := range tri.V {
		idx := L.CheckInt(i + 1)
		if idx < 0 || idx >= MaxVertices {
			return b.raise(L, fmt.Errorf("index %d: %w", idx, ErrVertexIndex))
		}
		tri.V[i] = idx
	}
	c, err := luaColor(L, 4)
	if err != nil {
		return b.raise(L, err)
	}
	tri.Color = c
	if name := L.OptString(5, ""); name != "" {
		if tri.Mode, err = ParseMode(name); err != nil {
			return b.raise(L, err)
		}
	}
	b.scene.Triangles = append(b.scene.Triangles, tri)
	L.Push(glua.LNumber(len(b.scene.Triangles) - 1))
	return 1
}

func luaColor(L *glua.LState, n int) (colorful.Color, error) {
	switch v := L.CheckAny(n).(type) {
	case glua.LNumber:
		f := float64(v)
		if f != math.Trunc(f) {
			return colorful.Color{}, fmt.Errorf("%v: %w", f, ErrColor)
		}
		return packedRGB(int64(f))
	case glua.LString:
		c, err := colorful.Hex(string(v))
		if err != nil {
			return colorful.Color{}, fmt.Errorf("%q: %w", string(v), ErrColor)
		}
		return c, nil
	default:
		L.TypeError(n, glua.LTNumber)
		return colorful.Color{}, nil
	}
}
