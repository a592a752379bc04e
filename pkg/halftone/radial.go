package halftone

import (
	"math"
	"math/rand"
)

// radialPlacer regroups the image into concentric distance rings around the
// image center and places marks at even angular intervals per ring. Ring
// spacing and arc spacing both equal the cell size, so the average mark
// density matches the classic grid for the same config: one mark per
// cellSize² of covered area.
type radialPlacer struct{}

func (radialPlacer) Place(f *Field, cells []Cell, edges *EdgeMap, cfg Config, rng *rand.Rand) (Placement, error) {
	cx, cy := float64(f.W)/2, float64(f.H)/2
	cs := float64(cfg.CellSize)

	// Rings must reach the farthest corner so boundary cells keep coverage.
	maxDist := math.Hypot(cx, cy)

	var marks []Mark
	order := 0
	for ring := cs / 2; ring <= maxDist; ring += cs {
		count := int(math.Round(2 * math.Pi * ring / cs))
		if count < 1 {
			count = 1
		}
		step := 2 * math.Pi / float64(count)

		// Angular start offset is fixed at 0 unless jitter is set, in which
		// case the seeded generator perturbs it per ring, deterministically.
		offset := 0.0
		if cfg.Jitter > 0 {
			offset = (rng.Float64() - 0.5) * step * cfg.Jitter
		}

		for i := 0; i < count; i++ {
			ang := offset + float64(i)*step
			x := cx + ring*math.Cos(ang)
			y := cy + ring*math.Sin(ang)

			// Radius is driven by the brightness of the nearest sampled cell.
			c, ok := cellAt(cells, f, cfg.CellSize, x, y)
			if !ok {
				continue
			}
			r, emit := markRadius(c, edges, cfg)
			if !emit {
				continue
			}
			marks = append(marks, Mark{X: x, Y: y, Radius: r, Order: order})
			order++
		}
	}
	return Placement{Marks: marks}, nil
}
