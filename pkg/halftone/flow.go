package halftone

import (
	"math"
	"math/rand"
)

// flowPlacer traces streamlines through a vector field derived from the
// brightness gradient and drops marks along them, spaced by local
// brightness (darker regions get tighter spacing). The field direction at
// any point is the isophote direction, perpendicular to the gradient, so
// streamlines follow the contours of the subject rather than crossing them.
//
// Tracing is a bounded iterative loop, never recursion. Each streamline
// terminates when it exits the image, exceeds the hard step cap, or
// re-enters a cell already covered past the saturation limit.
type flowPlacer struct{}

// flowSeedDensity divides the cell count to size the streamline seed set.
const flowSeedDensity = 4

func (flowPlacer) Place(f *Field, cells []Cell, edges *EdgeMap, cfg Config, rng *rand.Rand) (Placement, error) {
	cs := float64(cfg.CellSize)
	cols := gridCols(f, cfg.CellSize)
	rows := (f.H + cfg.CellSize - 1) / cfg.CellSize

	visits := make([]int, rows*cols)
	maxSteps := cfg.flowMaxSteps()
	saturation := cfg.flowSaturation()
	stepLen := cs / 2
	if stepLen < 1 {
		stepLen = 1
	}

	seedCount := len(cells) / flowSeedDensity
	if seedCount < 1 {
		seedCount = 1
	}

	var placement Placement
	order := 0
	for s := 0; s < seedCount; s++ {
		// Seed points are drawn from the per-render generator, making the
		// whole seed set a deterministic function of Config.Seed.
		x := rng.Float64() * float64(f.W)
		y := rng.Float64() * float64(f.H)

		sinceMark := math.MaxFloat64 // place a mark at the seed when possible
		lastCell := -1
		steps := 0
		for {
			if x < 0 || y < 0 || x >= float64(f.W) || y >= float64(f.H) {
				break // left the image
			}
			ci := (int(y)/cfg.CellSize)*cols + int(x)/cfg.CellSize
			if ci != lastCell {
				visits[ci]++
				if visits[ci] > saturation {
					break // region already covered, stop piling up
				}
				lastCell = ci
			}

			c := cells[ci]
			if r, emit := markRadius(c, edges, cfg); emit {
				spacing := cs * (0.5 + 1.5*math.Pow(clamp01(c.Avg), cfg.Gamma))
				if sinceMark >= spacing {
					placement.Marks = append(placement.Marks, Mark{X: x, Y: y, Radius: r, Order: order})
					order++
					sinceMark = 0
				}
			}

			dx, dy := flowDirection(f, x, y)
			x += dx * stepLen
			y += dy * stepLen
			sinceMark += stepLen

			steps++
			if steps >= maxSteps {
				// Hard cap so no render can hang on a degenerate field.
				// Recoverable: truncate this streamline, keep the rest.
				placement.Truncated++
				break
			}
		}
	}
	return placement, nil
}

// flowDirection returns the unit flow direction at (x, y): the brightness
// gradient rotated 90°, so streamlines run along isophotes. In flat regions
// with no usable gradient it falls back to a deterministic pseudo-random
// angle derived from the sample position, keeping traces identical across
// runs without consuming generator state.
func flowDirection(f *Field, x, y float64) (float64, float64) {
	ix, iy := int(x), int(y)
	gx := f.At(ix+1, iy) - f.At(ix-1, iy)
	gy := f.At(ix, iy+1) - f.At(ix, iy-1)
	mag := math.Hypot(gx, gy)

	const flatEps = 1e-4
	if mag < flatEps {
		ang := hashAngle(ix, iy)
		return math.Cos(ang), math.Sin(ang)
	}
	return -gy / mag, gx / mag
}

// hashAngle maps integer coordinates to a stable angle in [0, 2π).
func hashAngle(x, y int) float64 {
	h := uint64(x)*0x9e3779b97f4a7c15 ^ uint64(y)*0xbf58476d1ce4e5b9
	h ^= h >> 31
	h *= 0x94d049bb133111eb
	h ^= h >> 29
	return 2 * math.Pi * float64(h%100000) / 100000
}
