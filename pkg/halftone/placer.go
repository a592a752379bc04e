package halftone

import (
	"math/rand"

	"github.com/Bh3ky/themambacode/pkg/errors"
)

// Placer decides where marks are centered and in what order. The three
// implementations share the sampling grid, the radius mapper, and the edge
// signal; only topology differs. Place must be deterministic for a fixed
// (field, config) pair: all randomness comes from rng, which the caller
// seeds once per render from Config.Seed.
type Placer interface {
	Place(f *Field, cells []Cell, edges *EdgeMap, cfg Config, rng *rand.Rand) (Placement, error)
}

// NewPlacer returns the placer for a style name.
func NewPlacer(style string) (Placer, error) {
	switch style {
	case StyleClassic:
		return classicPlacer{}, nil
	case StyleRadial:
		return radialPlacer{}, nil
	case StyleFlowField:
		return flowPlacer{}, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q", style)
	}
}

// Place runs the full placement stage for a field: validates the config,
// samples the grid, computes the edge map when edge boosting is enabled,
// and dispatches to the configured style.
func Place(f *Field, cfg Config) (Placement, error) {
	if err := cfg.Validate(); err != nil {
		return Placement{}, err
	}
	p, err := NewPlacer(cfg.Style)
	if err != nil {
		return Placement{}, err
	}

	cells := Grid(f, cfg.CellSize)
	var edges *EdgeMap
	if cfg.EdgeBoost > 0 {
		edges = ComputeEdges(f)
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	return p.Place(f, cells, edges, cfg, rng)
}

// markRadius maps a cell's brightness through the radius mapper and edge
// booster. The second return is false when the cell is negative space;
// edge boost is applied only to marks the mapper emitted.
func markRadius(c Cell, edges *EdgeMap, cfg Config) (float64, bool) {
	r, ok := RadiusFor(c.Avg, cfg.Gamma, cfg.MaxRadius, cfg.Threshold)
	if !ok {
		return 0, false
	}
	if edges != nil && cfg.EdgeBoost > 0 {
		r = BoostRadius(r, edges.Strength(c), cfg.EdgeBoost, cfg.MaxRadius)
	}
	return r, true
}
