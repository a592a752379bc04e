// Package pkg provides the core libraries for the themambacode halftone
// art generator.
//
// # Overview
//
// themambacode converts continuous-tone portrait photos into poster-grade
// halftone artwork: a pattern of discrete marks whose local size and density
// encode the underlying brightness. The pkg directory is organized into:
//
//  1. [halftone] - The rendering engine (brightness field, sampling grid,
//     brightness-to-radius mapping, edge boosting, placement styles, raster
//     renderer)
//  2. [theme] - Color schemes and gradient palettes
//  3. [preset] - Named halftone style presets (cell size, radius, gamma)
//  4. [quote] - Motivational quote banner overlay
//  5. [pipeline] - Orchestration (load → normalize → place → render → encode)
//  6. [cache] - Artifact caching (file, redis, null backends)
//  7. [observability] - Optional instrumentation hooks
//  8. [errors] - Structured, code-based errors
//
// # Architecture
//
// The typical data flow through a render:
//
//	Input photo (JPEG/PNG)
//	         ↓
//	    [halftone.Normalize] (luminance + percentile contrast rescale)
//	         ↓
//	    [halftone.Grid] (cell sampling) + [halftone.ComputeEdges]
//	         ↓
//	    [halftone.Placer] (classic | radial | flow_field)
//	         ↓
//	    [halftone.Render] (raster canvas) + [quote.Overlay]
//	         ↓
//	    PNG output
//
// # Quick Start
//
// Render a halftone from a decoded image:
//
//	import (
//	    "github.com/Bh3ky/themambacode/pkg/halftone"
//	    "github.com/Bh3ky/themambacode/pkg/theme"
//	)
//
//	field, _ := halftone.Normalize(img, halftone.NormalizeOptions{})
//	cfg := halftone.DefaultConfig()
//	placement, _ := halftone.Place(field, cfg)
//	scheme, _ := theme.Lookup("classic")
//	out := halftone.Render(placement.Marks, field.W, field.H, halftone.RenderOptions{
//	    Background: scheme.Background,
//	    Foreground: scheme.Marks,
//	})
//
// Determinism: all randomness (jitter, flow seed points) is drawn from one
// generator seeded from Config.Seed, so identical (image, config) pairs
// always produce byte-identical output.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/halftone/... # Engine only
//
// [halftone]: https://pkg.go.dev/github.com/Bh3ky/themambacode/pkg/halftone
// [theme]: https://pkg.go.dev/github.com/Bh3ky/themambacode/pkg/theme
// [preset]: https://pkg.go.dev/github.com/Bh3ky/themambacode/pkg/preset
// [quote]: https://pkg.go.dev/github.com/Bh3ky/themambacode/pkg/quote
// [pipeline]: https://pkg.go.dev/github.com/Bh3ky/themambacode/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/Bh3ky/themambacode/pkg/cache
// [observability]: https://pkg.go.dev/github.com/Bh3ky/themambacode/pkg/observability
// [errors]: https://pkg.go.dev/github.com/Bh3ky/themambacode/pkg/errors
package pkg
