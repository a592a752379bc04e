package halftone

// Mark is a single rendered unit: one dot (or flow segment sample) in image
// space. Marks are generated by a placement style, handed to the renderer
// as an ordered sequence, and never mutated.
type Mark struct {
	X, Y   float64 // center in image space
	Radius float64 // in (0, maxRadius]
	Order  int     // deterministic draw sequence index
}

// Placement is the output of a placement style: the ordered mark sequence
// plus recoverable diagnostics accumulated while placing.
type Placement struct {
	Marks []Mark

	// Truncated counts flow-field streamlines that hit the hard step cap
	// and were cut short. Always zero for the classic and radial styles.
	// Non-zero truncation is logged, not fatal: the rest of the image
	// renders normally.
	Truncated int
}
