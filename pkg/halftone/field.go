package halftone

import (
	"image"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/Bh3ky/themambacode/pkg/errors"
)

// Field is a normalized brightness map: one float64 per pixel, in [0, 1],
// 0 = black and 1 = white, stored row-major. It is computed once per input
// image and treated as read-only by every downstream stage.
type Field struct {
	W, H int
	Pix  []float64
}

// NewField allocates a zeroed brightness field of the given extent.
func NewField(w, h int) *Field {
	return &Field{W: w, H: h, Pix: make([]float64, w*h)}
}

// At returns the brightness at (x, y). Out-of-bounds coordinates are clamped
// to the nearest edge pixel, matching replicate-border sampling.
func (f *Field) At(x, y int) float64 {
	if x < 0 {
		x = 0
	} else if x >= f.W {
		x = f.W - 1
	}
	if y < 0 {
		y = 0
	} else if y >= f.H {
		y = f.H - 1
	}
	return f.Pix[y*f.W+x]
}

// Set stores a brightness value at (x, y). Panics on out-of-bounds access;
// Set is only used during field construction.
func (f *Field) Set(x, y int, v float64) {
	f.Pix[y*f.W+x] = v
}

// NormalizeOptions configures brightness normalization.
type NormalizeOptions struct {
	// Gamma applies a contrast pre-curve to the luminance before rescaling.
	// 1.0 (or 0) leaves the curve untouched. This is distinct from the dot
	// gamma in Config, which sculpts mark sizes after sampling.
	Gamma float64

	// ClipLow and ClipHigh are the percentiles mapped to 0 and 1 during
	// rescale. Zero values default to 0.01 and 0.99, which stabilizes the
	// output across varied lighting by clipping outliers.
	ClipLow, ClipHigh float64

	// SuppressBackground subtracts the estimated background brightness
	// (sampled from the image border) scaled by this factor, clipped at 0.
	// Zero disables suppression.
	SuppressBackground float64
}

// minContrastSpan is the smallest usable percentile span. Below this the
// field is considered degenerate (effectively one flat value).
const minContrastSpan = 0.05

// Normalize converts a decoded image into a brightness Field.
//
// The image is reduced to single-channel luminance (Rec. 601 weights), an
// optional gamma pre-curve and background suppression are applied, and the
// result is rescaled so the configured low/high percentiles map to 0 and 1.
//
// An image with zero spatial extent returns a nil field and an
// ErrCodeInvalidImage error. A degenerate image (all pixels effectively one
// value) returns the unscaled field together with an ErrCodeDegenerateImage
// error: callers may log a warning and proceed with the flat field.
func Normalize(img image.Image, opts NormalizeOptions) (*Field, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidImage, "image has zero spatial extent (%dx%d)", w, h)
	}

	f := NewField(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			lum := (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(bl)) / 65535.0
			f.Pix[y*w+x] = clamp01(lum)
		}
	}

	if opts.Gamma > 0 && opts.Gamma != 1.0 {
		for i, v := range f.Pix {
			f.Pix[i] = math.Pow(v, opts.Gamma)
		}
	}

	if opts.SuppressBackground > 0 {
		bg := borderMean(f)
		for i, v := range f.Pix {
			f.Pix[i] = math.Max(0, v-bg*opts.SuppressBackground)
		}
	}

	lowP, highP := opts.ClipLow, opts.ClipHigh
	if lowP == 0 {
		lowP = 0.01
	}
	if highP == 0 {
		highP = 0.99
	}

	sorted := make([]float64, len(f.Pix))
	copy(sorted, f.Pix)
	sort.Float64s(sorted)
	lo := stat.Quantile(lowP, stat.Empirical, sorted, nil)
	hi := stat.Quantile(highP, stat.Empirical, sorted, nil)

	if hi-lo <= minContrastSpan {
		return f, errors.New(errors.ErrCodeDegenerateImage,
			"degenerate contrast: percentile span %.4f below %.2f", hi-lo, minContrastSpan)
	}

	span := hi - lo
	for i, v := range f.Pix {
		f.Pix[i] = clamp01((v - lo) / span)
	}
	return f, nil
}

// borderMean estimates the background brightness as the mean of the
// outermost pixel ring.
func borderMean(f *Field) float64 {
	if f.W == 1 || f.H == 1 {
		return mean(f.Pix)
	}
	var sum float64
	var n int
	for x := 0; x < f.W; x++ {
		sum += f.Pix[x] + f.Pix[(f.H-1)*f.W+x]
		n += 2
	}
	for y := 1; y < f.H-1; y++ {
		sum += f.Pix[y*f.W] + f.Pix[y*f.W+f.W-1]
		n += 2
	}
	return sum / float64(n)
}

func mean(xs []float64) float64 {
	var sum float64
	for _, v := range xs {
		sum += v
	}
	return sum / float64(len(xs))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
