package pipeline

import (
	"bytes"
	"context"
	"encoding/gob"
	"encoding/json"
	"image/color"
	"image/png"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Bh3ky/themambacode/pkg/cache"
	"github.com/Bh3ky/themambacode/pkg/errors"
	"github.com/Bh3ky/themambacode/pkg/halftone"
	"github.com/Bh3ky/themambacode/pkg/observability"
	"github.com/Bh3ky/themambacode/pkg/preset"
	"github.com/Bh3ky/themambacode/pkg/quote"
	"github.com/Bh3ky/themambacode/pkg/theme"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → normalize → place → render pipeline
// with artifact caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	cfg, err := opts.EngineConfig()
	if err != nil {
		return nil, err
	}
	scheme, err := theme.Lookup(opts.Theme)
	if err != nil {
		return nil, err
	}
	stylePreset, err := preset.Lookup(opts.Preset)
	if err != nil {
		return nil, err
	}

	// Stage 1: Load
	src := opts.Image
	if src == nil {
		src, err = LoadImage(opts.Input)
		if err != nil {
			return nil, err
		}
	}
	resized, err := PrepareImage(src, opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}

	result := &Result{
		ImageHash: cache.Hash(resized.Pix),
		Artifacts: make(map[string][]byte),
	}

	// Resolve the banner text up front so it participates in cache keys.
	quoteText := ""
	if !opts.NoQuote {
		quoteText = opts.Quote
		if quoteText == "" {
			quoteText = quote.Random(rand.New(rand.NewSource(cfg.Seed)))
		}
	}
	result.Quote = quoteText

	// Try cache for every requested format before doing any work.
	if !opts.Refresh {
		if r.fetchCached(ctx, result, opts, cfg, quoteText) {
			result.CacheInfo.ArtifactHit = true
			logger.Debug("all artifacts served from cache", "formats", opts.Formats)
			return result, nil
		}
		result.Artifacts = make(map[string][]byte)
	}

	// Stage 2: Normalize
	normStart := time.Now()
	observability.Pipeline().OnNormalizeStart(ctx, opts.Width, opts.Height)
	normOpts := halftone.NormalizeOptions{
		Gamma:              opts.PreGamma,
		SuppressBackground: opts.SuppressBackground,
	}
	if stylePreset.EnhanceContrast {
		normOpts.ClipLow = 0.05
		normOpts.ClipHigh = 0.95
	}

	fieldKey := r.Keyer.FieldKey(result.ImageHash, opts.FieldKeyOpts(stylePreset.EnhanceContrast))
	field := r.fetchField(ctx, fieldKey, opts)
	if field != nil {
		result.CacheInfo.FieldHit = true
	} else {
		field, err = halftone.Normalize(resized, normOpts)
		if err != nil {
			if errors.Is(err, errors.ErrCodeDegenerateImage) {
				logger.Warn("source image has almost no contrast, output will be flat", "input", opts.Input)
			} else {
				observability.Pipeline().OnNormalizeComplete(ctx, opts.Width, opts.Height, time.Since(normStart), err)
				return nil, err
			}
		} else {
			r.storeField(ctx, fieldKey, field, logger)
		}
	}
	result.Stats.NormalizeTime = time.Since(normStart)
	observability.Pipeline().OnNormalizeComplete(ctx, opts.Width, opts.Height, result.Stats.NormalizeTime, nil)

	// Stage 3: Place
	placeStart := time.Now()
	cellCount := gridCellCount(opts.Width, opts.Height, cfg.CellSize)
	result.Stats.CellCount = cellCount
	observability.Pipeline().OnPlaceStart(ctx, cfg.Style, cellCount)
	placement, err := halftone.Place(field, cfg)
	result.Stats.PlaceTime = time.Since(placeStart)
	observability.Pipeline().OnPlaceComplete(ctx, cfg.Style, len(placement.Marks), result.Stats.PlaceTime, err)
	if err != nil {
		return nil, err
	}
	result.Stats.MarkCount = len(placement.Marks)
	result.Stats.TruncatedStreams = placement.Truncated
	if placement.Truncated > 0 {
		logger.Warn("some flow streams hit the step limit", "err", stepLimitCondition(placement.Truncated))
	}

	logger.Info("placed marks",
		"style", cfg.Style,
		"marks", result.Stats.MarkCount,
		"duration", result.Stats.PlaceTime)

	// Stage 4: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Width, opts.Height)
	renderOpts := halftone.RenderOptions{
		Background: scheme.Background,
		Foreground: scheme.Marks,
		FeatherPx:  cfg.FeatherPx,
	}
	if len(scheme.Gradient) > 0 {
		renderOpts.ColorFor = func(m halftone.Mark) color.Color {
			return scheme.MarkColor(m.Radius / cfg.MaxRadius)
		}
	}
	img := halftone.Render(placement.Marks, opts.Width, opts.Height, renderOpts)

	if quoteText != "" {
		qopts := quote.DefaultOptions()
		qopts.Band = scheme.QuoteBand
		qopts.Text = scheme.QuoteText
		qopts.FontPath = opts.FontPath
		if opts.QuotePosition != "" {
			qopts.Position = opts.QuotePosition
		}
		overlaid, qerr := quote.Overlay(img, quoteText, qopts)
		if qerr != nil {
			if errors.Is(qerr, errors.ErrCodeFontNotFound) {
				logger.Warn("no usable font found, rendering without quote banner")
				result.Quote = ""
				quoteText = ""
			} else {
				observability.Pipeline().OnRenderComplete(ctx, opts.Width, opts.Height, time.Since(renderStart), qerr)
				return nil, qerr
			}
		} else {
			img = overlaid
		}
	}
	result.Image = img

	// Encode artifacts
	for _, format := range opts.Formats {
		data, err := r.encode(format, result, placement, cfg, opts)
		if err != nil {
			observability.Pipeline().OnRenderComplete(ctx, opts.Width, opts.Height, time.Since(renderStart), err)
			return nil, err
		}
		result.Artifacts[format] = data

		key := r.Keyer.ArtifactKey(result.ImageHash, opts.ArtifactKeyOpts(cfg, format, quoteText))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			logger.Debug("artifact cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	result.Stats.RenderTime = time.Since(renderStart)
	observability.Pipeline().OnRenderComplete(ctx, opts.Width, opts.Height, result.Stats.RenderTime, nil)

	logger.Info("rendered poster",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// stepLimitCondition describes truncated flow streamlines as a coded
// condition. Truncation is recoverable, so it is logged, never returned.
func stepLimitCondition(n int) error {
	return errors.New(errors.ErrCodeStepLimit, "%d flow streamline(s) hit the step cap", n)
}

// fetchField tries to serve a normalized brightness field from cache.
// Returns nil on miss, decode failure, or when the caller asked for a
// refresh.
func (r *Runner) fetchField(ctx context.Context, key string, opts Options) *halftone.Field {
	if opts.Refresh {
		return nil
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "field")
		return nil
	}
	field, err := decodeField(data)
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "field")
		return nil
	}
	observability.Cache().OnCacheHit(ctx, "field")
	return field
}

// storeField writes a normalized field to cache. Failures only cost a
// recomputation next run, so they are logged and swallowed.
func (r *Runner) storeField(ctx context.Context, key string, field *halftone.Field, logger *log.Logger) {
	data, err := encodeField(field)
	if err != nil {
		logger.Debug("field encode failed", "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLField); err != nil {
		logger.Debug("field cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "field", len(data))
}

func encodeField(f *halftone.Field) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode field")
	}
	return buf.Bytes(), nil
}

func decodeField(data []byte) (*halftone.Field, error) {
	var f halftone.Field
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode field")
	}
	if f.W <= 0 || f.H <= 0 || len(f.Pix) != f.W*f.H {
		return nil, errors.New(errors.ErrCodeInternal, "decoded field has inconsistent extent")
	}
	return &f, nil
}

// fetchCached tries to serve every requested format from cache. Returns
// true only when all formats hit.
func (r *Runner) fetchCached(ctx context.Context, result *Result, opts Options, cfg halftone.Config, quoteText string) bool {
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(result.ImageHash, opts.ArtifactKeyOpts(cfg, format, quoteText))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			return false
		}
		observability.Cache().OnCacheHit(ctx, "artifact")
		result.Artifacts[format] = data
	}
	return true
}

// markDump is the JSON debugging artifact: every placed mark plus the
// settings that produced them.
type markDump struct {
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Style     string     `json:"style"`
	Seed      int64      `json:"seed"`
	MarkCount int        `json:"mark_count"`
	Truncated int        `json:"truncated"`
	Quote     string     `json:"quote,omitempty"`
	Marks     []markJSON `json:"marks"`
}

type markJSON struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"r"`
	Order  int     `json:"order"`
}

func (r *Runner) encode(format string, result *Result, placement halftone.Placement, cfg halftone.Config, opts Options) ([]byte, error) {
	switch format {
	case FormatPNG:
		var buf bytes.Buffer
		if err := png.Encode(&buf, result.Image); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
		}
		return buf.Bytes(), nil

	case FormatJSON:
		dump := markDump{
			Width:     opts.Width,
			Height:    opts.Height,
			Style:     cfg.Style,
			Seed:      cfg.Seed,
			MarkCount: len(placement.Marks),
			Truncated: placement.Truncated,
			Quote:     result.Quote,
			Marks:     make([]markJSON, len(placement.Marks)),
		}
		for i, m := range placement.Marks {
			dump.Marks[i] = markJSON{X: m.X, Y: m.Y, Radius: m.Radius, Order: m.Order}
		}
		return marshalJSON(dump)

	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown format %q", format)
	}
}

func marshalJSON(v interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode json")
	}
	return data, nil
}

func gridCellCount(w, h, cellSize int) int {
	cols := (w + cellSize - 1) / cellSize
	rows := (h + cellSize - 1) / cellSize
	return cols * rows
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
