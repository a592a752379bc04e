package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Bh3ky/themambacode/pkg/pipeline"
	"github.com/Bh3ky/themambacode/pkg/preset"
	"github.com/Bh3ky/themambacode/pkg/theme"
)

// batchOpts holds the command-line flags for the batch command.
type batchOpts struct {
	outputDir  string
	count      int   // variations per image
	workers    int   // concurrent renders
	seed       int64 // base seed for look selection and per-job seeds
	presetName string
	themeName  string
	noQuote    bool
	width      int
	height     int
	noCache    bool
	plain      bool // plain log output instead of the progress UI
}

// batchJob is one render task: a source image plus a chosen look.
type batchJob struct {
	Index  int
	Input  string
	Preset string
	Theme  string
	Seed   int64
}

// batchResult records the outcome of one job for the manifest.
type batchResult struct {
	Input  string `json:"input"`
	Output string `json:"output,omitempty"`
	Preset string `json:"preset"`
	Theme  string `json:"theme"`
	Seed   int64  `json:"seed"`
	Quote  string `json:"quote,omitempty"`
	Error  string `json:"error,omitempty"`
}

// batchManifest is written as manifest.json next to the outputs.
type batchManifest struct {
	BatchID   string        `json:"batch_id"`
	CreatedAt time.Time     `json:"created_at"`
	Rendered  int           `json:"rendered"`
	Failed    int           `json:"failed"`
	Results   []batchResult `json:"results"`
}

// newBatchCmd creates the batch command: render every image in a directory,
// each with randomized (but seeded) preset/theme/quote variations.
func newBatchCmd() *cobra.Command {
	opts := batchOpts{count: 1, workers: 4, seed: 42}

	cmd := &cobra.Command{
		Use:   "batch [dir]",
		Short: "Render every portrait in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "", "output directory (default: <dir>/halftone)")
	cmd.Flags().IntVarP(&opts.count, "count", "n", opts.count, "variations per image")
	cmd.Flags().IntVar(&opts.workers, "workers", opts.workers, "concurrent renders")
	cmd.Flags().Int64Var(&opts.seed, "seed", opts.seed, "base random seed")
	cmd.Flags().StringVarP(&opts.presetName, "preset", "p", "", "fix the preset (random per job when empty)")
	cmd.Flags().StringVarP(&opts.themeName, "theme", "t", "", "fix the theme (random per job when empty)")
	cmd.Flags().BoolVar(&opts.noQuote, "no-quote", false, "disable the quote banner")
	cmd.Flags().IntVar(&opts.width, "width", 0, "canvas width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", 0, "canvas height in pixels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "plain log output instead of the progress UI")

	return cmd
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true, ".tif": true, ".tiff": true,
}

// listImages returns the renderable images in dir, sorted for determinism.
func listImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var images []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			images = append(images, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(images)
	return images, nil
}

// buildJobs draws all random look choices up front from one seeded
// generator, so a batch is reproducible from its seed regardless of
// worker scheduling.
func buildJobs(images []string, opts *batchOpts) ([]batchJob, error) {
	if opts.presetName != "" {
		if _, err := preset.Lookup(opts.presetName); err != nil {
			return nil, err
		}
	}
	if opts.themeName != "" {
		if _, err := theme.Lookup(opts.themeName); err != nil {
			return nil, err
		}
	}

	rng := rand.New(rand.NewSource(opts.seed))
	presets := preset.Names()
	themes := theme.Names()

	var jobs []batchJob
	for _, img := range images {
		for v := 0; v < opts.count; v++ {
			job := batchJob{
				Index:  len(jobs),
				Input:  img,
				Preset: opts.presetName,
				Theme:  opts.themeName,
				Seed:   opts.seed + int64(len(jobs)),
			}
			if job.Preset == "" {
				job.Preset = presets[rng.Intn(len(presets))]
			}
			if job.Theme == "" {
				job.Theme = themes[rng.Intn(len(themes))]
			}
			jobs = append(jobs, job)
		}
	}
	return jobs, nil
}

// runBatch renders all jobs with a bounded worker pool. Per-image failures
// are recorded and skipped; invalid settings abort before any work starts.
func runBatch(ctx context.Context, dir string, opts *batchOpts) error {
	logger := loggerFromContext(ctx)

	images, err := listImages(dir)
	if err != nil {
		return err
	}
	if len(images) == 0 {
		return fmt.Errorf("no images found in %s", dir)
	}

	jobs, err := buildJobs(images, opts)
	if err != nil {
		return err
	}

	outDir := opts.outputDir
	if outDir == "" {
		outDir = filepath.Join(dir, "halftone")
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	c, err := buildCache(ctx, opts.noCache, "")
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(c, nil, logger)
	defer runner.Close()

	batchID := uuid.NewString()
	logger.Info("starting batch", "id", batchID, "images", len(images), "jobs", len(jobs), "workers", opts.workers)

	tracker := newBatchProgress(len(jobs), opts.plain)
	tracker.start()

	results := make([]batchResult, len(jobs))
	jobCh := make(chan batchJob)
	var wg sync.WaitGroup

	workers := opts.workers
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				results[job.Index] = runBatchJob(ctx, runner, logger, outDir, job, opts)
				tracker.jobDone(filepath.Base(job.Input), results[job.Index].Error == "")
			}
		}()
	}

dispatch:
	for _, job := range jobs {
		select {
		case <-ctx.Done():
			break dispatch
		case jobCh <- job:
		}
	}
	close(jobCh)
	wg.Wait()
	tracker.finish()

	markUndispatched(jobs, results)
	manifest := buildManifest(batchID, results)

	manifestPath := filepath.Join(outDir, "manifest.json")
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(manifestPath, data, 0o644); err != nil {
		return err
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printSuccess("Batch complete: %d rendered, %d failed", manifest.Rendered, manifest.Failed)
	printFile(manifestPath)
	return nil
}

// markUndispatched fills in results for jobs that were never handed to a
// worker (the batch was cancelled mid-dispatch). A dispatched job always
// records its input, so an empty input identifies an untouched slot.
func markUndispatched(jobs []batchJob, results []batchResult) {
	for i := range results {
		if results[i].Input == "" {
			results[i] = batchResult{
				Input:  jobs[i].Input,
				Preset: jobs[i].Preset,
				Theme:  jobs[i].Theme,
				Seed:   jobs[i].Seed,
				Error:  "cancelled before start",
			}
		}
	}
}

// buildManifest tallies results into the manifest written next to the
// outputs. Cancelled jobs count as failed so the totals always add up.
func buildManifest(batchID string, results []batchResult) batchManifest {
	manifest := batchManifest{
		BatchID:   batchID,
		CreatedAt: time.Now().UTC(),
		Results:   results,
	}
	for _, r := range results {
		if r.Error == "" && r.Output != "" {
			manifest.Rendered++
		} else if r.Error != "" {
			manifest.Failed++
		}
	}
	return manifest
}

// runBatchJob executes one render. Failures are returned in the result,
// never as an error: a broken source image must not sink the batch.
func runBatchJob(ctx context.Context, runner *pipeline.Runner, logger *log.Logger, outDir string, job batchJob, opts *batchOpts) batchResult {
	res := batchResult{
		Input:  job.Input,
		Preset: job.Preset,
		Theme:  job.Theme,
		Seed:   job.Seed,
	}

	popts := pipeline.Options{
		Input:   job.Input,
		Width:   opts.width,
		Height:  opts.height,
		Preset:  job.Preset,
		Theme:   job.Theme,
		Seed:    job.Seed,
		NoQuote: opts.noQuote,
	}

	result, err := runner.Execute(ctx, popts)
	if err != nil {
		logger.Warn("render failed, skipping", "input", job.Input, "err", err)
		res.Error = err.Error()
		return res
	}
	res.Quote = result.Quote

	base := strings.TrimSuffix(filepath.Base(job.Input), filepath.Ext(job.Input))
	name := fmt.Sprintf("%s_%s.png", base, uuid.NewString()[:8])
	out := filepath.Join(outDir, name)
	if err := os.WriteFile(out, result.Artifacts[pipeline.FormatPNG], 0o644); err != nil {
		logger.Warn("write failed, skipping", "output", out, "err", err)
		res.Error = err.Error()
		return res
	}
	res.Output = out
	return res
}
