// Package pipeline provides the complete poster rendering pipeline.
//
// This package implements the load → normalize → place → render flow that
// can be used by CLI, batch, and server components. By centralizing this
// logic, we ensure consistent behavior across all entry points.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: Decode the source portrait and resample it to the target canvas
//  2. Normalize: Convert to a brightness field with percentile rescaling
//  3. Place: Run the configured placement style to produce marks
//  4. Render: Rasterize marks with the theme and optional quote banner
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:  "kobe.jpg",
//	    Preset: "classic_dots",
//	    Theme:  "lakers_gold",
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
package pipeline

import (
	"image"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Bh3ky/themambacode/pkg/cache"
	"github.com/Bh3ky/themambacode/pkg/errors"
	"github.com/Bh3ky/themambacode/pkg/halftone"
	"github.com/Bh3ky/themambacode/pkg/preset"
	"github.com/Bh3ky/themambacode/pkg/quote"
	"github.com/Bh3ky/themambacode/pkg/theme"
)

const (
	// DefaultWidth is the default canvas width in pixels (4K poster).
	DefaultWidth = 2160

	// DefaultHeight is the default canvas height in pixels (4:5 portrait).
	DefaultHeight = 2700

	// DefaultPreset is the default halftone style preset.
	DefaultPreset = "classic_dots"

	// DefaultTheme is the default color scheme.
	DefaultTheme = "classic"
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatJSON: true,
}

// Options contains all configuration for the rendering pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Source. Input is a file path; Image bypasses loading for callers
	// that already decoded the portrait (the preview server).
	Input string      `json:"input,omitempty"`
	Image image.Image `json:"-"`

	// Canvas
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// Look
	Preset string `json:"preset,omitempty"`
	Theme  string `json:"theme,omitempty"`

	// Engine overrides. Zero values defer to the preset.
	Style     string  `json:"style,omitempty"`
	CellSize  int     `json:"cell_size,omitempty"`
	MaxRadius float64 `json:"max_radius,omitempty"`
	Gamma     float64 `json:"gamma,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Seed      int64   `json:"seed,omitempty"`
	Jitter    float64 `json:"jitter,omitempty"`
	EdgeBoost float64 `json:"edge_boost,omitempty"`
	FeatherPx float64 `json:"feather_px,omitempty"`

	// Normalization. SuppressBackground is the subtraction strength for the
	// border-estimated background (0 disables, 1 subtracts the full border
	// mean). PreGamma is a contrast pre-curve applied to the luminance before
	// rescaling (0 leaves the curve untouched); it is distinct from Gamma,
	// which sculpts mark sizes after sampling.
	SuppressBackground float64 `json:"suppress_background,omitempty"`
	PreGamma           float64 `json:"pre_gamma,omitempty"`

	// Quote banner
	Quote         string `json:"quote,omitempty"`
	NoQuote       bool   `json:"no_quote,omitempty"`
	QuotePosition string `json:"quote_position,omitempty"`
	FontPath      string `json:"-"`

	// Output
	Formats []string `json:"formats,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Image is the final rendered poster.
	Image *image.RGBA

	// ImageHash is the content hash of the resampled source pixels.
	ImageHash string

	// Quote is the banner text that was used, if any.
	Quote string

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	CellCount        int
	MarkCount        int
	TruncatedStreams int

	NormalizeTime time.Duration
	PlaceTime     time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	ArtifactHit bool // Whether all artifacts came from cache
	FieldHit    bool // Whether the normalized field came from cache
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" && o.Image == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "input image is required")
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas dimensions must be positive")
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Preset == "" {
		o.Preset = DefaultPreset
	}
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if _, err := preset.Lookup(o.Preset); err != nil {
		return err
	}
	if _, err := theme.Lookup(o.Theme); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	for _, f := range o.Formats {
		if !ValidFormats[f] {
			return errors.New(errors.ErrCodeInvalidConfig, "invalid format %q (must be png or json)", f)
		}
	}
	if o.SuppressBackground < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "suppress_background must be >= 0, got %g", o.SuppressBackground)
	}
	if o.PreGamma < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "pre_gamma must be >= 0, got %g", o.PreGamma)
	}
	if o.QuotePosition != "" {
		switch o.QuotePosition {
		case quote.PositionTop, quote.PositionBottom, quote.PositionCenter:
		default:
			return errors.New(errors.ErrCodeInvalidConfig, "invalid quote position %q", o.QuotePosition)
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	// Assembling the engine config validates the override fields.
	if _, err := o.EngineConfig(); err != nil {
		return err
	}

	o.validated = true
	return nil
}

// EngineConfig assembles the halftone configuration: defaults, then the
// preset, then explicit overrides.
func (o *Options) EngineConfig() (halftone.Config, error) {
	cfg := halftone.DefaultConfig()

	p, err := preset.Lookup(o.preset())
	if err != nil {
		return cfg, err
	}
	cfg = p.Apply(cfg)

	if o.Style != "" {
		cfg.Style = o.Style
	}
	if o.CellSize > 0 {
		cfg.CellSize = o.CellSize
	}
	if o.MaxRadius > 0 {
		cfg.MaxRadius = o.MaxRadius
	}
	if o.Gamma > 0 {
		cfg.Gamma = o.Gamma
	}
	if o.Threshold > 0 {
		cfg.Threshold = o.Threshold
	}
	if o.Seed != 0 {
		cfg.Seed = o.Seed
	}
	if o.Jitter > 0 {
		cfg.Jitter = o.Jitter
	}
	if o.EdgeBoost > 0 {
		cfg.EdgeBoost = o.EdgeBoost
	}
	if o.FeatherPx > 0 {
		cfg.FeatherPx = o.FeatherPx
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (o *Options) preset() string {
	if o.Preset == "" {
		return DefaultPreset
	}
	return o.Preset
}

// ArtifactKeyOpts returns cache key options for one output format.
// quoteText is the resolved banner text (empty when the banner is off),
// so seeded random quotes key correctly.
func (o *Options) ArtifactKeyOpts(cfg halftone.Config, format, quoteText string) cache.ArtifactKeyOpts {
	position := ""
	if quoteText != "" {
		position = o.QuotePosition
	}
	return cache.ArtifactKeyOpts{
		Format:             format,
		Width:              o.Width,
		Height:             o.Height,
		Preset:             o.Preset,
		Theme:              o.Theme,
		Style:              cfg.Style,
		CellSize:           cfg.CellSize,
		MaxRadius:          cfg.MaxRadius,
		Gamma:              cfg.Gamma,
		PreGamma:           o.PreGamma,
		Threshold:          cfg.Threshold,
		Seed:               cfg.Seed,
		Jitter:             cfg.Jitter,
		EdgeBoost:          cfg.EdgeBoost,
		FeatherPx:          cfg.FeatherPx,
		SuppressBackground: o.SuppressBackground,
		Quote:              quoteText,
		QuotePosition:      position,
	}
}

// FieldKeyOpts returns cache key options for the normalized brightness
// field. enhanceContrast comes from the resolved preset, not the options.
func (o *Options) FieldKeyOpts(enhanceContrast bool) cache.FieldKeyOpts {
	return cache.FieldKeyOpts{
		Width:              o.Width,
		Height:             o.Height,
		PreGamma:           o.PreGamma,
		EnhanceContrast:    enhanceContrast,
		SuppressBackground: o.SuppressBackground,
	}
}
