package output

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 5, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 50), G: uint8(y * 100), B: 0x40, A: 0xff})
		}
	}
	return img
}

func sameImage(t *testing.T, got image.Image, want *image.NRGBA) {
	t.Helper()
	if got.Bounds().Size() != want.Bounds().Size() {
		t.Fatalf("size = %v, want %v", got.Bounds().Size(), want.Bounds().Size())
	}
	gb := got.Bounds()
	for y := 0; y < want.Bounds().Dy(); y++ {
		for x := 0; x < want.Bounds().Dx(); x++ {
			g := color.NRGBAModel.Convert(got.At(gb.Min.X+x, gb.Min.Y+y)).(color.NRGBA)
			if w := want.NRGBAAt(x, y); g != w {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, g, w)
			}
		}
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	src := testImage()
	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, src, f); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			// TGA has no magic number for image.Decode to sniff.
			if f == TGA {
				img, err := tga.Decode(&buf)
				if err != nil {
					t.Fatalf("tga.Decode() error = %v", err)
				}
				sameImage(t, img, src)
				return
			}

			img, name, err := image.Decode(&buf)
			if err != nil {
				t.Fatalf("image.Decode() error = %v", err)
			}
			if name != string(f) {
				t.Errorf("decoded as %q, want %q", name, f)
			}
			sameImage(t, img, src)
		})
	}
}

func TestEncodeWebPMagic(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, testImage(), WebP); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	b := buf.Bytes()
	if len(b) < 12 || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WEBP" {
		t.Errorf("missing RIFF/WEBP header: % x", b[:min(len(b), 12)])
	}
}

func TestEncodeUnknown(t *testing.T) {
	if err := Encode(&bytes.Buffer{}, testImage(), Format("gif")); err == nil {
		t.Error("Encode(gif) succeeded")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"png", PNG, true},
		{".WEBP", WebP, true},
		{"tga", TGA, true},
		{"bmp", BMP, true},
		{"tif", TIFF, true},
		{"tiff", TIFF, true},
		{"jpeg", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q ok=%v", tt.in, got, err, tt.want, tt.ok)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	if f, err := FormatFromPath("out/scene.Tga"); err != nil || f != TGA {
		t.Errorf("FormatFromPath(scene.Tga) = %q, %v", f, err)
	}
	if _, err := FormatFromPath("out/scene"); err == nil {
		t.Error("FormatFromPath without extension succeeded")
	}
}

func TestSwapExt(t *testing.T) {
	if got := SwapExt("scenes/cube.dhs", WebP); got != "scenes/cube.webp" {
		t.Errorf("SwapExt() = %q", got)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.png")

	if err := WriteFile(path, testImage()); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	sameImage(t, img, testImage())
}
