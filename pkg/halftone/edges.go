package halftone

import "math"

// EdgeMap holds per-pixel edge strength in [0, 1], derived once from the
// brightness field and consumed read-only. Strength 1 is the strongest
// gradient found in the image.
type EdgeMap struct {
	W, H int
	Pix  []float64
}

// ComputeEdges detects edges on the brightness field using the Sobel
// gradient-magnitude operator, with border pixels sampled via edge
// replication. Magnitudes are normalized so the strongest edge is 1; a
// perfectly flat field yields an all-zero map.
func ComputeEdges(f *Field) *EdgeMap {
	e := &EdgeMap{W: f.W, H: f.H, Pix: make([]float64, f.W*f.H)}

	maxMag := 0.0
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			gx := -f.At(x-1, y-1) + f.At(x+1, y-1) +
				-2*f.At(x-1, y) + 2*f.At(x+1, y) +
				-f.At(x-1, y+1) + f.At(x+1, y+1)
			gy := -f.At(x-1, y-1) - 2*f.At(x, y-1) - f.At(x+1, y-1) +
				f.At(x-1, y+1) + 2*f.At(x, y+1) + f.At(x+1, y+1)
			mag := math.Hypot(gx, gy)
			e.Pix[y*f.W+x] = mag
			if mag > maxMag {
				maxMag = mag
			}
		}
	}
	if maxMag > 0 {
		for i := range e.Pix {
			e.Pix[i] /= maxMag
		}
	}
	return e
}

// Strength returns the mean edge strength over a cell, in [0, 1].
func (e *EdgeMap) Strength(c Cell) float64 {
	var sum float64
	for y := c.Y; y < c.Y+c.H; y++ {
		for x := c.X; x < c.X+c.W; x++ {
			sum += e.Pix[y*e.W+x]
		}
	}
	return sum / float64(c.W*c.H)
}

// BoostRadius increases a mark radius near strong edges. Without this,
// thin high-gradient features (jawline, nose bridge, eye contours) vanish
// under cell averaging and the subject loses recognizability.
//
// The boost is multiplicative: r * (1 + boost*strength), capped at
// maxRadius. With boost ≥ 0 and strength ≥ 0 the result never decreases,
// and BoostRadius never creates a mark the mapper declined to emit; it
// only modifies existing radii, preserving the negative-space rule.
func BoostRadius(r, strength, boost, maxRadius float64) float64 {
	boosted := r * (1 + boost*strength)
	if boosted > maxRadius {
		return maxRadius
	}
	return boosted
}
