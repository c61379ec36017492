// Package preview draws images in a terminal with half-block characters:
// each text cell shows two vertically stacked pixels, the upper one as the
// foreground color of "▀" and the lower one as the background.
package preview

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
	"golang.org/x/image/draw"
)

const (
	upperHalf = "▀"
	lowerHalf = "▄"

	styleCacheSize = 4096
)

// cell is the pair of pixel colors one text cell shows. An empty string
// means the pixel is transparent.
type cell struct {
	top, bottom string
}

// Terminal renders images for one output stream and color profile.
type Terminal struct {
	renderer *lipgloss.Renderer
	styles   *lru.Cache[cell, lipgloss.Style]
}

// NewTerminal creates a Terminal writing to w, detecting its color profile.
func NewTerminal(w io.Writer) *Terminal {
	styles, _ := lru.New[cell, lipgloss.Style](styleCacheSize)
	return &Terminal{
		renderer: lipgloss.NewRenderer(w),
		styles:   styles,
	}
}

// SetProfile overrides the detected color profile.
func (t *Terminal) SetProfile(p termenv.Profile) {
	t.renderer.SetColorProfile(p)
	t.styles.Purge()
}

// Profile returns the color profile in use.
func (t *Terminal) Profile() termenv.Profile {
	return t.renderer.ColorProfile()
}

// ParseProfile parses a color profile name. "auto" and "" return ok=false
// so the detected profile is kept.
func ParseProfile(name string) (p termenv.Profile, ok bool, err error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return termenv.TrueColor, false, nil
	case "truecolor", "24bit":
		return termenv.TrueColor, true, nil
	case "ansi256", "256":
		return termenv.ANSI256, true, nil
	case "ansi", "16":
		return termenv.ANSI, true, nil
	case "ascii", "none":
		return termenv.Ascii, true, nil
	}
	return termenv.Ascii, false, fmt.Errorf("preview: unknown color profile %q", name)
}

// Render draws img width cells wide, keeping its aspect ratio. Each line
// covers two pixel rows.
func (t *Terminal) Render(img image.Image, width int) string {
	b := img.Bounds()
	if width <= 0 || b.Empty() {
		return ""
	}

	rows := max(1, (b.Dy()*width+b.Dx()-1)/b.Dx())
	if rows%2 == 1 {
		rows++
	}
	small := image.NewNRGBA(image.Rect(0, 0, width, rows))
	scaler := draw.Scaler(draw.CatmullRom)
	if width >= b.Dx() {
		scaler = draw.NearestNeighbor
	}
	scaler.Scale(small, small.Bounds(), img, b, draw.Src, nil)

	var sb strings.Builder
	for y := 0; y < rows; y += 2 {
		for x := 0; x < width; x++ {
			c := cell{
				top:    hex(small.NRGBAAt(x, y)),
				bottom: hex(small.NRGBAAt(x, y+1)),
			}
			sb.WriteString(t.cell(c))
		}
		if y+2 < rows {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (t *Terminal) cell(c cell) string {
	glyph := upperHalf
	if c.top == "" {
		if c.bottom == "" {
			return " "
		}
		// Only the lower pixel is visible; draw it as a foreground glyph so
		// the terminal background shows above it.
		glyph, c = lowerHalf, cell{top: c.bottom}
	}

	s, ok := t.styles.Get(c)
	if !ok {
		s = t.renderer.NewStyle().Foreground(lipgloss.Color(c.top))
		if c.bottom != "" {
			s = s.Background(lipgloss.Color(c.bottom))
		}
		t.styles.Add(c, s)
	}
	return s.Render(glyph)
}

// hex returns the pixel's color as #rrggbb, or "" when it is mostly
// transparent.
func hex(p color.NRGBA) string {
	if p.A < 0x80 {
		return ""
	}
	c, _ := colorful.MakeColor(color.NRGBA{R: p.R, G: p.G, B: p.B, A: 0xff})
	return c.Hex()
}
