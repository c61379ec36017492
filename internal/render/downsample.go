package render

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample filters a supersampled render down to w x h with CatmullRom.
//
// A transparent render is filtered in premultiplied form and converted
// back, so uncovered pixels fade triangle edges out instead of darkening
// them. An opaque render has nothing to premultiply and always comes out
// fully opaque.
func Downsample(img *image.NRGBA, w, h int, transparent bool) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return img
	}

	src := image.NewRGBA(b)
	draw.Draw(src, b, img, b.Min, draw.Src)
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, b, draw.Src, nil)

	out := image.NewNRGBA(scaled.Bounds())
	for i := 0; i < len(scaled.Pix); i += 4 {
		px := scaled.Pix[i : i+4 : i+4]
		if !transparent {
			copy(out.Pix[i:i+3], px[:3])
			out.Pix[i+3] = 0xff
			continue
		}
		unpremultiply(out.Pix[i:i+4:i+4], px)
	}
	return out
}

// unpremultiply converts one premultiplied RGBA pixel to straight alpha.
// The filter can ring past alpha, so channels are capped at 255.
func unpremultiply(dst, src []uint8) {
	a := int(src[3])
	dst[3] = src[3]
	if a == 0 {
		return
	}
	for c := 0; c < 3; c++ {
		dst[c] = uint8(min(255, (int(src[c])*255+a/2)/a))
	}
}
