package raster

// rasterizeTriangle covers one triangle's span on row y with depth testing.
//
// This is the HOT PATH: no allocations, and accessor data is trusted.
func (r *Renderer) rasterizeTriangle(tri, y int, depth []float64) {
	acc := r.acc

	var v [3]Vertex
	v[0] = acc.Vertex(tri, 0)
	v[1] = acc.Vertex(tri, 1)
	v[2] = acc.Vertex(tri, 2)

	// Entirely above or below the row
	if !yExtent(&v, y) {
		return
	}

	s, ok := triangleSpan(&v, y)
	if !ok {
		return
	}
	x0, x1, ok := ClampSpan(s.left.x, s.right.x, r.width)
	if !ok {
		return
	}

	mode := acc.Mode(tri)
	loaded := false

	for x := x0; x <= x1; x++ {
		p := s.at(x)
		z := Lerp(s.left.z, s.right.z, p)

		// Strict-less: among equal depths the earlier triangle keeps the pixel.
		if !(z < depth[x]) {
			continue
		}
		depth[x] = z

		if mode == Flat {
			acc.Flat(x, tri)
			continue
		}

		if !loaded {
			loadEdges(acc, tri, &s)
			loaded = true
		}
		acc.Mix(regPixel, regLeft, regRight, p)
		acc.Store(x, regPixel)
	}
}

// loadEdges stages an interpolated triangle for the current row: the three
// vertex values go to registers 0..2, then each span end is blended along
// the edge that produced it. Per pixel only the span blend remains.
func loadEdges(acc Accessor, tri int, s *span) {
	for local := 0; local < 3; local++ {
		acc.Load(local, tri, local)
	}
	acc.Mix(regLeft, s.left.a, s.left.b, s.left.t)
	acc.Mix(regRight, s.right.a, s.right.b, s.right.t)
}
