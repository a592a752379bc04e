// Package halftone implements the halftone rendering engine.
//
// The engine is a single-threaded, synchronous pipeline over immutable
// inputs. A decoded image becomes a normalized brightness [Field], the field
// is sampled into [Cell]s, each cell's brightness maps to a mark radius
// ([RadiusFor]), an [EdgeMap] boosts marks near high-gradient features, a
// placement style (classic grid, radial rings, or flow-field streamlines)
// decides where marks go, and [Render] draws them onto a raster canvas.
//
// Every stage is pure or near-pure: [Field], [EdgeMap], and []Cell are
// computed once and read-only afterward, and all randomness (jitter, flow
// seed points) comes from one generator seeded from [Config].Seed. Two
// renders with the same image and config produce byte-identical output.
// Batch callers can run one pipeline per image concurrently; nothing is
// shared across renders.
package halftone
