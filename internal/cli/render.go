package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Bh3ky/themambacode/pkg/cache"
	"github.com/Bh3ky/themambacode/pkg/pipeline"
	"github.com/Bh3ky/themambacode/pkg/preset"
	"github.com/Bh3ky/themambacode/pkg/theme"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output        string   // output file path (or base path for multiple formats)
	formats       []string // output formats: "png", "json"
	presetName    string   // halftone style preset
	themeName     string   // color scheme
	style         string   // placement style override: classic, radial, flow_field
	width         int      // canvas width in pixels
	height        int      // canvas height in pixels
	cellSize      int      // sampling cell size override
	maxRadius     float64  // maximum mark radius override
	gamma         float64  // tone curve override
	threshold     float64  // negative-space threshold override
	seed          int64    // random seed
	jitter        float64  // placement jitter fraction
	edgeBoost     float64  // edge radius boost factor
	feather       float64  // border feather distance in pixels
	suppressBG    float64  // background subtraction strength (0 disables)
	preGamma      float64  // contrast pre-curve before rescaling
	quoteText     string   // explicit quote (random when empty)
	noQuote       bool     // disable the quote banner
	quotePosition string   // banner position: top, bottom, center
	fontPath      string   // explicit TTF font
	presetsFile   string   // extra presets TOML
	themesFile    string   // extra themes TOML
	refresh       bool     // bypass the artifact cache
	noCache       bool     // disable caching entirely
	redisURL      string   // redis cache backend URL
}

// newRenderCmd creates the render command for generating posters.
//
// Default settings:
//   - preset: classic_dots, theme: classic
//   - canvas: 2160x2700 (4:5 portrait)
//   - quote banner on, random seeded quote
func newRenderCmd() *cobra.Command {
	var formatsStr string
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render [image]",
		Short: "Render a portrait into a halftone poster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := loadCustomFiles(opts.presetsFile, opts.themesFile); err != nil {
				return err
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png (default), json (comma-separated)")
	cmd.Flags().StringVarP(&opts.presetName, "preset", "p", "", "style preset (see 'themambacode styles')")
	cmd.Flags().StringVarP(&opts.themeName, "theme", "t", "", "color theme (see 'themambacode styles')")
	cmd.Flags().StringVar(&opts.style, "style", "", "placement style: classic, radial, flow_field")
	cmd.Flags().IntVar(&opts.width, "width", 0, "canvas width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", 0, "canvas height in pixels")
	cmd.Flags().IntVar(&opts.cellSize, "cell-size", 0, "sampling cell size in pixels")
	cmd.Flags().Float64Var(&opts.maxRadius, "max-radius", 0, "maximum mark radius")
	cmd.Flags().Float64Var(&opts.gamma, "gamma", 0, "tone curve exponent")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", 0, "brightness above which no mark is drawn")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed (default 42)")
	cmd.Flags().Float64Var(&opts.jitter, "jitter", 0, "placement jitter as a fraction of cell size")
	cmd.Flags().Float64Var(&opts.edgeBoost, "edge-boost", 0, "enlarge marks near edges by this factor")
	cmd.Flags().Float64Var(&opts.feather, "feather", 0, "fade marks within this many pixels of the border")
	cmd.Flags().Float64Var(&opts.suppressBG, "suppress-background", 0, "subtract border-estimated background scaled by this factor (1 = full)")
	cmd.Flags().Float64Var(&opts.preGamma, "pre-gamma", 0, "contrast pre-curve applied before rescaling")
	cmd.Flags().StringVarP(&opts.quoteText, "quote", "q", "", "banner quote (random when empty)")
	cmd.Flags().BoolVar(&opts.noQuote, "no-quote", false, "disable the quote banner")
	cmd.Flags().StringVar(&opts.quotePosition, "quote-position", "", "banner position: top (default), bottom, center")
	cmd.Flags().StringVar(&opts.fontPath, "font", "", "TTF font for the banner")
	cmd.Flags().StringVar(&opts.presetsFile, "presets-file", "", "TOML file with custom presets")
	cmd.Flags().StringVar(&opts.themesFile, "themes-file", "", "TOML file with custom themes")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().StringVar(&opts.redisURL, "cache-redis", "", "redis URL for a shared artifact cache")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["png"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatPNG}
	}
	return strings.Split(s, ",")
}

// loadCustomFiles merges user preset/theme TOML files into the registries.
func loadCustomFiles(presetsFile, themesFile string) error {
	if presetsFile != "" {
		if err := preset.LoadFile(presetsFile); err != nil {
			return err
		}
	}
	if themesFile != "" {
		if err := theme.LoadFile(themesFile); err != nil {
			return err
		}
	}
	return nil
}

// cacheDir returns the artifact cache directory.
func cacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "themambacode"), nil
}

// buildCache creates the cache backend selected by the flags.
func buildCache(ctx context.Context, noCache bool, redisURL string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisURL != "" {
		return cache.NewRedisCache(ctx, redisURL)
	}
	dir, err := cacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewFileCache(dir)
}

// pipelineOptions converts command flags to pipeline options.
func (o *renderOpts) pipelineOptions(input string) pipeline.Options {
	return pipeline.Options{
		Input:              input,
		Width:              o.width,
		Height:             o.height,
		Preset:             o.presetName,
		Theme:              o.themeName,
		Style:              o.style,
		CellSize:           o.cellSize,
		MaxRadius:          o.maxRadius,
		Gamma:              o.gamma,
		Threshold:          o.threshold,
		Seed:               o.seed,
		Jitter:             o.jitter,
		EdgeBoost:          o.edgeBoost,
		FeatherPx:          o.feather,
		SuppressBackground: o.suppressBG,
		PreGamma:           o.preGamma,
		Quote:              o.quoteText,
		NoQuote:            o.noQuote,
		QuotePosition:      o.quotePosition,
		FontPath:           o.fontPath,
		Formats:            o.formats,
		Refresh:            o.refresh,
	}
}

// runRender executes the pipeline for one portrait and writes the outputs.
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	c, err := buildCache(ctx, opts.noCache, opts.redisURL)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(c, nil, logger)
	defer runner.Close()

	popts := opts.pipelineOptions(input)
	popts.Logger = logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s", filepath.Base(input)))
	spinner.Start()

	result, err := runner.Execute(ctx, popts)
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Render failed: %v", err))
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %s", filepath.Base(input)))

	for _, format := range popts.Formats {
		path := outputPath(opts.output, input, format, len(popts.Formats) > 1)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return err
		}
		printFile(path)
	}

	printRenderStats(result.Stats.MarkCount, result.Stats.CellCount,
		result.Stats.TruncatedStreams, result.CacheInfo.ArtifactHit)
	if result.Quote != "" {
		printDetail("Quote: %s", result.Quote)
	}
	return nil
}

// outputPath derives the output file path for one format.
// With no --output the input name gets a _halftone suffix; an explicit
// --output is used verbatim for a single format, or as a base path when
// multiple formats are requested.
func outputPath(output, input, format string, multi bool) string {
	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		return base + "_halftone." + format
	}
	if multi {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			output = strings.TrimSuffix(output, ext)
		}
		return output + "." + format
	}
	return output
}
