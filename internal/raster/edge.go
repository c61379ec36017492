package raster

import "math"

// Lerp linearly interpolates between a and b; t = 0 gives a, t = 1 gives b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// EdgeIntersect intersects scanline y with the edge running from vertex a
// to vertex b. It returns the x and z of the crossing and the parameter t
// along a→b. Horizontal edges and edges whose y-range excludes y report
// ok = false. The two edges meeting a horizontal edge's endpoints already
// bound the span.
func EdgeIntersect(a, b Vertex, y int) (x, z, t float64, ok bool) {
	if a.Y == b.Y {
		return 0, 0, 0, false
	}
	lo, hi := a.Y, b.Y
	if lo > hi {
		lo, hi = hi, lo
	}
	if y < lo || y > hi {
		return 0, 0, 0, false
	}

	// Differences in float64: coordinates span the full int range.
	t = (float64(y) - float64(a.Y)) / (float64(b.Y) - float64(a.Y))
	if a.X == b.X {
		x = float64(a.X)
	} else {
		x = Lerp(float64(a.X), float64(b.X), t)
	}
	z = Lerp(a.Z, b.Z, t)
	return x, z, t, true
}

// ClampSpan selects the integer columns enclosing [left, right] and clips
// them to [0, width). ok is false when nothing remains.
func ClampSpan(left, right float64, width int) (x0, x1 int, ok bool) {
	if right < left || width <= 0 {
		return 0, 0, false
	}
	maxX := float64(width - 1)
	if right < 0 || left > maxX {
		return 0, 0, false
	}

	l := math.Floor(left)
	r := math.Ceil(right)
	if l < 0 {
		l = 0
	}
	if r > maxX {
		r = maxX
	}
	return int(l), int(r), true
}

// crossing is where a triangle edge meets the current scanline.
type crossing struct {
	x, z float64
	a, b int     // local vertex indices of the edge
	t    float64 // parameter along a→b
}

// span is the horizontal extent of a triangle on one scanline. Its ends
// remember which edge produced them so interpolated shading can blend
// along the same edges with the same parameters as depth.
type span struct {
	left, right crossing
}

// width returns the span length in pixels, zero for a single point.
func (s *span) width() float64 {
	return s.right.x - s.left.x
}

// at returns the span parameter of column x, clamped to [0, 1]. Columns of
// the enclosing integer range can lie just outside the exact span.
func (s *span) at(x int) float64 {
	w := s.width()
	if w <= 0 {
		return 0
	}
	p := (float64(x) - s.left.x) / w
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// triangleSpan intersects scanline y with the three edges of v. A vertex
// lying exactly on the row yields the same point from both of its edges,
// which still forms a (single point) span. Fewer than two crossings means
// the triangle does not cover the row.
func triangleSpan(v *[3]Vertex, y int) (span, bool) {
	var s span
	n := 0
	for a := 0; a < 3; a++ {
		b := (a + 1) % 3
		x, z, t, ok := EdgeIntersect(v[a], v[b], y)
		if !ok {
			continue
		}
		c := crossing{x: x, z: z, a: a, b: b, t: t}
		if n == 0 {
			s.left, s.right = c, c
		} else {
			if c.x < s.left.x {
				s.left = c
			}
			if c.x > s.right.x {
				s.right = c
			}
		}
		n++
	}
	return s, n >= 2
}

// yExtent reports whether row y lies within the triangle's vertical extent.
func yExtent(v *[3]Vertex, y int) bool {
	lo := min(v[0].Y, v[1].Y, v[2].Y)
	hi := max(v[0].Y, v[1].Y, v[2].Y)
	return y >= lo && y <= hi
}
