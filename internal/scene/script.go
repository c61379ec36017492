package scene

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"scanline-renderer/internal/raster"
)

// Script errors. A *ScriptError wraps one of these, or one of the scene
// validation errors, with the line it was found on.
var (
	ErrNoSignature    = errors.New("failed to read script signature")
	ErrHeaderCommand  = errors.New("invalid header metacommand")
	ErrHeaderRepeat   = errors.New("repetition of header metacommand")
	ErrHeaderSyntax   = errors.New("header metacommand syntax error")
	ErrNoDim          = errors.New("you must declare output dimensions in header")
	ErrNoShade        = errors.New("you must declare shading mode in header")
	ErrStray          = errors.New("stray metacommand after metacommand header")
	ErrUnknownOp      = errors.New("unrecognized operation")
	ErrStackUnderflow = errors.New("operation needs more values on the stack")
	ErrStackLeftover  = errors.New("values left on the stack at end of script")
	ErrNoEOF          = errors.New("missing |; at end of script")
	ErrTrailing       = errors.New("content after |; at end of script")
)

// ScriptError locates a script error. Line is zero when the error does not
// belong to one line.
type ScriptError struct {
	Line int
	Err  error
}

func (e *ScriptError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[Line %d] %v", e.Line, e.Err)
	}
	return e.Err.Error()
}

func (e *ScriptError) Unwrap() error { return e.Err }

const signature = "dhrender"

type token struct {
	text string
	line int
}

// tokenize splits a script into tokens. "%", ";" and "|" stand alone even
// without surrounding space; "#" starts a comment running to end of line.
func tokenize(src string) []token {
	var toks []token
	line := 1
	start := -1

	flush := func(end int) {
		if start >= 0 {
			toks = append(toks, token{text: src[start:end], line: line})
			start = -1
		}
	}

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == '\n':
			flush(i)
			line++
		case c == '#':
			flush(i)
			for i < len(src) && src[i] != '\n' {
				i++
			}
			i--
		case c == '%' || c == ';' || c == '|':
			flush(i)
			toks = append(toks, token{text: string(c), line: line})
		case unicode.IsSpace(rune(c)):
			flush(i)
		default:
			if start < 0 {
				start = i
			}
		}
	}
	flush(len(src))
	return toks
}

type parser struct {
	toks  []token
	pos   int
	stack []int64
	scene *Scene
}

func (p *parser) next() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	t := p.toks[p.pos]
	p.pos++
	return t, true
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.toks) {
		return token{}, false
	}
	return p.toks[p.pos], true
}

// lastLine is the line of the most recently read token.
func (p *parser) lastLine() int {
	if p.pos == 0 || len(p.toks) == 0 {
		return 0
	}
	return p.toks[min(p.pos, len(p.toks))-1].line
}

func (p *parser) fail(line int, err error) error {
	return &ScriptError{Line: line, Err: err}
}

// Parse reads a scene script:
//
//	%dhrender;
//	%dim 64 48;
//	%shade vertex;
//	0 0 1 0xff0000 v    # x y z rgb v: declare a vertex
//	63 0 1 0x00ff00 v
//	0 47 1 0x0000ff v
//	0 1 2 0x808080 t    # i j k rgb t: declare a triangle
//	|;
//
// The header must declare dimensions and shading mode once each. Vertex
// and triangle indices count declarations from zero; a triangle may refer
// to a vertex declared after it.
func Parse(r io.Reader) (*Scene, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	p := &parser{toks: tokenize(string(raw)), scene: &Scene{}}
	if err := p.signature(); err != nil {
		return nil, err
	}
	if err := p.header(); err != nil {
		return nil, err
	}
	if err := p.body(); err != nil {
		return nil, err
	}
	if err := p.scene.Validate(); err != nil {
		return nil, &ScriptError{Err: err}
	}
	return p.scene, nil
}

func (p *parser) signature() error {
	for _, want := range []string{"%", signature, ";"} {
		t, ok := p.next()
		if !ok || t.text != want {
			return p.fail(t.line, ErrNoSignature)
		}
	}
	return nil
}

func (p *parser) header() error {
	var haveDim, haveShade bool

	for {
		t, ok := p.peek()
		if !ok || t.text != "%" {
			break
		}
		p.next()

		cmd, ok := p.next()
		if !ok || isPunct(cmd.text) {
			return p.fail(p.lastLine(), ErrHeaderCommand)
		}

		switch cmd.text {
		case "dim":
			if haveDim {
				return p.fail(cmd.line, ErrHeaderRepeat)
			}
			for i := 0; i < 2; i++ {
				t, ok := p.next()
				if !ok || isPunct(t.text) {
					return p.fail(p.lastLine(), ErrHeaderSyntax)
				}
				v, err := parseInt(t.text)
				if err != nil {
					return p.fail(t.line, ErrHeaderSyntax)
				}
				if v < 1 || v > MaxDim {
					return p.fail(t.line, ErrDimension)
				}
				if i == 0 {
					p.scene.Width = int(v)
				} else {
					p.scene.Height = int(v)
				}
			}
			haveDim = true

		case "shade":
			if haveShade {
				return p.fail(cmd.line, ErrHeaderRepeat)
			}
			t, ok := p.next()
			if !ok || isPunct(t.text) {
				return p.fail(p.lastLine(), ErrHeaderSyntax)
			}
			mode, err := ParseMode(t.text)
			if err != nil {
				return p.fail(t.line, ErrShade)
			}
			p.scene.Mode = mode
			haveShade = true

		default:
			return p.fail(cmd.line, ErrHeaderCommand)
		}

		if t, ok := p.next(); !ok || t.text != ";" {
			return p.fail(p.lastLine(), ErrHeaderCommand)
		}
	}

	if !haveDim {
		return p.fail(0, ErrNoDim)
	}
	if !haveShade {
		return p.fail(0, ErrNoShade)
	}
	return nil
}

func (p *parser) body() error {
	for {
		t, ok := p.next()
		if !ok {
			return p.fail(p.lastLine(), ErrNoEOF)
		}

		switch t.text {
		case "%", ";":
			return p.fail(t.line, ErrStray)
		case "|":
			return p.end(t)
		case "v":
			if err := p.vertex(t.line); err != nil {
				return err
			}
		case "t":
			if err := p.triangle(t.line); err != nil {
				return err
			}
		default:
			v, err := parseInt(t.text)
			if err != nil {
				return p.fail(t.line, fmt.Errorf("%w %q", ErrUnknownOp, t.text))
			}
			p.stack = append(p.stack, v)
		}
	}
}

// end handles the |; terminator: nothing may follow it and the stack must
// be empty.
func (p *parser) end(bar token) error {
	if t, ok := p.next(); !ok || t.text != ";" {
		return p.fail(bar.line, ErrNoEOF)
	}
	if t, ok := p.next(); ok {
		return p.fail(t.line, ErrTrailing)
	}
	if len(p.stack) > 0 {
		return p.fail(bar.line, ErrStackLeftover)
	}
	return nil
}

func (p *parser) pop4(line int) ([4]int64, error) {
	var out [4]int64
	if len(p.stack) < 4 {
		return out, p.fail(line, ErrStackUnderflow)
	}
	copy(out[:], p.stack[len(p.stack)-4:])
	p.stack = p.stack[:len(p.stack)-4]
	return out, nil
}

func (p *parser) vertex(line int) error {
	if len(p.scene.Vertices) >= MaxVertices {
		return p.fail(line, ErrTooManyVertices)
	}
	args, err := p.pop4(line)
	if err != nil {
		return err
	}
	if args[2] < 0 {
		return p.fail(line, ErrDepth)
	}
	c, err := packedRGB(args[3])
	if err != nil {
		return p.fail(line, err)
	}
	p.scene.Vertices = append(p.scene.Vertices, Vertex{
		X:     int(args[0]),
		Y:     int(args[1]),
		Z:     float64(args[2]),
		Color: c,
	})
	return nil
}

func (p *parser) triangle(line int) error {
	if len(p.scene.Triangles) >= MaxTriangles {
		return p.fail(line, ErrTooManyTriangles)
	}
	args, err := p.pop4(line)
	if err != nil {
		return err
	}
	var tri Triangle
	for i := 0; i < 3; i++ {
		if args[i] < 0 || args[i] >= MaxVertices {
			return p.fail(line, ErrVertexIndex)
		}
		tri.V[i] = int(args[i])
	}
	if tri.Color, err = packedRGB(args[3]); err != nil {
		return p.fail(line, err)
	}
	p.scene.Triangles = append(p.scene.Triangles, tri)
	return nil
}

// ParseMode parses a shading mode name as scripts spell it.
func ParseMode(name string) (raster.ShadingMode, error) {
	switch name {
	case "vertex":
		return raster.Interpolated, nil
	case "triangle":
		return raster.Flat, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrShade, name)
	}
}

// parseInt parses a signed 32-bit integer, decimal or 0x-prefixed hex.
func parseInt(s string) (int64, error) {
	if rest, ok := strings.CutPrefix(strings.ToLower(s), "0x"); ok {
		return strconv.ParseInt(rest, 16, 32)
	}
	return strconv.ParseInt(s, 10, 32)
}

func isPunct(s string) bool {
	return s == "%" || s == ";" || s == "|"
}
