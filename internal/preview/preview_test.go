package preview

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

// split returns a w x h image, red on top and blue below.
func split(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		c := color.NRGBA{R: 0xff, A: 0xff}
		if y >= h/2 {
			c = color.NRGBA{B: 0xff, A: 0xff}
		}
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func newTerminal(p termenv.Profile) *Terminal {
	t := NewTerminal(&bytes.Buffer{})
	t.SetProfile(p)
	return t
}

func TestRenderAscii(t *testing.T) {
	term := newTerminal(termenv.Ascii)
	out := term.Render(split(8, 4), 8)

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out)
	}
	for i, line := range lines {
		if strings.Contains(line, "\x1b[") {
			t.Errorf("line %d has escape sequences under Ascii profile: %q", i, line)
		}
		if got := strings.Count(line, upperHalf); got != 8 {
			t.Errorf("line %d has %d half blocks, want 8", i, got)
		}
	}
}

func TestRenderTrueColor(t *testing.T) {
	term := newTerminal(termenv.TrueColor)
	if term.Profile() != termenv.TrueColor {
		t.Fatalf("Profile() = %v, want TrueColor", term.Profile())
	}

	// Two pixel rows per line: the single line holds red over blue.
	out := term.Render(split(2, 2), 2)
	if strings.Contains(out, "\n") {
		t.Fatalf("got multiple lines: %q", out)
	}
	if !strings.Contains(out, "38;2;255;0;0") {
		t.Errorf("output %q lacks red foreground", out)
	}
	if !strings.Contains(out, "48;2;0;0;255") {
		t.Errorf("output %q lacks blue background", out)
	}
}

func TestRenderScalesToWidth(t *testing.T) {
	term := newTerminal(termenv.Ascii)
	out := term.Render(split(100, 50), 20)

	lines := strings.Split(out, "\n")
	// 50 * 20 / 100 = 10 pixel rows = 5 lines.
	if len(lines) != 5 {
		t.Errorf("got %d lines, want 5", len(lines))
	}
	for i, line := range lines {
		if n := len([]rune(line)); n != 20 {
			t.Errorf("line %d is %d cells, want 20", i, n)
		}
	}
}

func TestRenderTransparent(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 2))
	img.SetNRGBA(1, 1, color.NRGBA{G: 0xff, A: 0xff})

	term := newTerminal(termenv.TrueColor)
	out := term.Render(img, 3)

	if !strings.HasPrefix(out, " ") || !strings.HasSuffix(out, " ") {
		t.Errorf("transparent cells not blank: %q", out)
	}
	if !strings.Contains(out, lowerHalf) {
		t.Errorf("lone lower pixel not drawn with %q: %q", lowerHalf, out)
	}
	if strings.Contains(out, "48;2;") {
		t.Errorf("transparent pixel got a background color: %q", out)
	}
}

func TestRenderEmpty(t *testing.T) {
	term := newTerminal(termenv.Ascii)
	if out := term.Render(split(4, 4), 0); out != "" {
		t.Errorf("Render(width=0) = %q, want empty", out)
	}
	if out := term.Render(image.NewNRGBA(image.Rect(0, 0, 0, 0)), 10); out != "" {
		t.Errorf("Render(empty image) = %q, want empty", out)
	}
}

func TestStyleCache(t *testing.T) {
	term := newTerminal(termenv.TrueColor)
	term.Render(split(16, 16), 16)
	// Only two distinct cells: red/red and blue/blue.
	if n := term.styles.Len(); n != 2 {
		t.Errorf("style cache holds %d entries, want 2", n)
	}

	term.SetProfile(termenv.ANSI256)
	if n := term.styles.Len(); n != 0 {
		t.Errorf("SetProfile left %d cached styles", n)
	}
}

func TestParseProfile(t *testing.T) {
	tests := []struct {
		name string
		want termenv.Profile
		ok   bool
		err  bool
	}{
		{"", termenv.TrueColor, false, false},
		{"auto", termenv.TrueColor, false, false},
		{"truecolor", termenv.TrueColor, true, false},
		{"ANSI256", termenv.ANSI256, true, false},
		{"ansi", termenv.ANSI, true, false},
		{"ascii", termenv.Ascii, true, false},
		{"sixel", termenv.Ascii, false, true},
	}
	for _, tt := range tests {
		p, ok, err := ParseProfile(tt.name)
		if (err != nil) != tt.err || ok != tt.ok || (ok && p != tt.want) {
			t.Errorf("ParseProfile(%q) = %v, %v, %v", tt.name, p, ok, err)
		}
	}
}
