package raster

import "math"

// NoDepth marks a depth row column that no triangle has covered yet.
var NoDepth = math.Inf(1)

// NewDepthRow allocates a depth row of the given width with every column
// at NoDepth.
func NewDepthRow(width int) []float64 {
	row := make([]float64, width)
	resetDepth(row)
	return row
}

// HasDepth reports whether a depth value was written by a triangle.
func HasDepth(z float64) bool {
	return !math.IsInf(z, 1)
}

func resetDepth(row []float64) {
	for i := range row {
		row[i] = NoDepth
	}
}
