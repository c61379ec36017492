package scene

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"scanline-renderer/internal/raster"
)

// Blend names the color space Target mixes registers in. The renderer only
// ever asks for pairwise mixes, so any of these spaces stays correct for
// interpolated shading.
type Blend string

const (
	BlendRGB    Blend = "rgb"    // sRGB components, as stored
	BlendLinear Blend = "linear" // linear-light RGB
	BlendLab    Blend = "lab"    // CIE L*a*b*
	BlendLuv    Blend = "luv"    // CIE L*u*v*
	BlendHCL    Blend = "hcl"    // polar L*a*b*
)

// Blends lists the supported blend spaces.
var Blends = []Blend{BlendRGB, BlendLinear, BlendLab, BlendLuv, BlendHCL}

// ParseBlend parses a blend space name. An empty name selects BlendRGB.
func ParseBlend(name string) (Blend, error) {
	if name == "" {
		return BlendRGB, nil
	}
	for _, b := range Blends {
		if string(b) == name {
			return b, nil
		}
	}
	return "", fmt.Errorf("scene: unknown blend space %q", name)
}

// Mix interpolates from c1 (t = 0) to c2 (t = 1).
func (b Blend) Mix(c1, c2 colorful.Color, t float64) colorful.Color {
	switch b {
	case BlendLinear:
		r1, g1, b1 := c1.LinearRgb()
		r2, g2, b2 := c2.LinearRgb()
		return colorful.LinearRgb(
			raster.Lerp(r1, r2, t),
			raster.Lerp(g1, g2, t),
			raster.Lerp(b1, b2, t),
		)
	case BlendLab:
		return c1.BlendLab(c2, t)
	case BlendLuv:
		return c1.BlendLuv(c2, t)
	case BlendHCL:
		return c1.BlendHcl(c2, t).Clamped()
	default:
		return c1.BlendRgb(c2, t)
	}
}
