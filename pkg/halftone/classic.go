package halftone

import "math/rand"

// classicPlacer emits one mark per grid cell, centered on the cell, with
// optional seeded sub-cell jitter. It is the fully deterministic baseline
// the other styles are validated against.
type classicPlacer struct{}

func (classicPlacer) Place(f *Field, cells []Cell, edges *EdgeMap, cfg Config, rng *rand.Rand) (Placement, error) {
	marks := make([]Mark, 0, len(cells))
	order := 0
	for _, c := range cells {
		r, ok := markRadius(c, edges, cfg)
		if !ok {
			continue
		}
		x, y := c.CenterX(), c.CenterY()
		if cfg.Jitter > 0 {
			// Jitter is consumed per emitted mark, so the mark count is a
			// pure function of brightness and threshold regardless of seed.
			x += (rng.Float64() - 0.5) * cfg.Jitter * float64(cfg.CellSize)
			y += (rng.Float64() - 0.5) * cfg.Jitter * float64(cfg.CellSize)
		}
		marks = append(marks, Mark{X: x, Y: y, Radius: r, Order: order})
		order++
	}
	return Placement{Marks: marks}, nil
}
