package halftone

import "github.com/Bh3ky/themambacode/pkg/errors"

// Placement style names. These are the only values Config.Style accepts.
const (
	StyleClassic   = "classic"    // one dot per grid cell
	StyleRadial    = "radial"     // dots on concentric rings
	StyleFlowField = "flow_field" // dots along traced streamlines
)

// ValidStyles is the set of supported placement styles.
var ValidStyles = map[string]bool{
	StyleClassic:   true,
	StyleRadial:    true,
	StyleFlowField: true,
}

// Flow-field tracing caps. The step cap guarantees termination even in
// degenerate flat fields; the saturation cap stops streamlines that
// re-enter already-covered cells, preventing overlap pile-up.
const (
	DefaultFlowMaxSteps   = 512
	DefaultFlowSaturation = 3
)

// DefaultSeed is the default random seed for reproducible output.
const DefaultSeed = int64(42)

// Config bundles the halftone engine's knobs. It is constructed once per
// render call and passed by value; the engine never mutates it. Build one
// from a preset, tweak fields, then call Validate before rendering.
type Config struct {
	CellSize  int     // sampling grid edge length in pixels, > 0
	MaxRadius float64 // largest mark radius in pixels, > 0
	Gamma     float64 // dot-size sculpting exponent, > 0
	Threshold float64 // post-gamma negative-space cutoff, in [0, 1]
	Style     string  // classic | radial | flow_field
	Seed      int64   // seeds the per-render generator
	Jitter    float64 // sub-cell position perturbation, ≥ 0 (0 = off)
	EdgeBoost float64 // edge-adjacent radius boost factor, ≥ 0 (0 = off)
	FeatherPx float64 // border feather distance in pixels, ≥ 0 (0 = off)

	// Flow-field tracing limits. Zero values take the package defaults.
	FlowMaxSteps   int
	FlowSaturation int
}

// DefaultConfig returns the engine defaults: the classic_dots preset
// geometry with a hard threshold close to pure white.
func DefaultConfig() Config {
	return Config{
		CellSize:       12,
		MaxRadius:      7,
		Gamma:          0.7,
		Threshold:      0.92,
		Style:          StyleClassic,
		Seed:           DefaultSeed,
		FlowMaxSteps:   DefaultFlowMaxSteps,
		FlowSaturation: DefaultFlowSaturation,
	}
}

// Validate checks all fields against their documented ranges. It returns an
// ErrCodeInvalidConfig (or ErrCodeInvalidStyle) error on the first violation;
// no partial render is ever attempted with an invalid config.
func (c Config) Validate() error {
	if c.CellSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cell_size must be positive, got %d", c.CellSize)
	}
	if c.MaxRadius <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_radius must be positive, got %g", c.MaxRadius)
	}
	if c.Gamma <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "gamma must be positive, got %g", c.Gamma)
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "threshold must be in [0, 1], got %g", c.Threshold)
	}
	if !ValidStyles[c.Style] {
		return errors.New(errors.ErrCodeInvalidStyle, "unknown style %q (must be classic, radial, or flow_field)", c.Style)
	}
	if c.Jitter < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "jitter must be non-negative, got %g", c.Jitter)
	}
	if c.EdgeBoost < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "edge_boost must be non-negative, got %g", c.EdgeBoost)
	}
	if c.FeatherPx < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "feather must be non-negative, got %g", c.FeatherPx)
	}
	if c.FlowMaxSteps < 0 || c.FlowSaturation < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "flow limits must be non-negative")
	}
	return nil
}

// flowMaxSteps returns the effective streamline step cap.
func (c Config) flowMaxSteps() int {
	if c.FlowMaxSteps == 0 {
		return DefaultFlowMaxSteps
	}
	return c.FlowMaxSteps
}

// flowSaturation returns the effective per-cell coverage cap.
func (c Config) flowSaturation() int {
	if c.FlowSaturation == 0 {
		return DefaultFlowSaturation
	}
	return c.FlowSaturation
}
