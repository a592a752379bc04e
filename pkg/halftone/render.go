package halftone

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/fogleman/gg"
)

// RenderOptions controls the raster stage. The canvas gets a hard
// background fill (no gradient bleed) and every mark is drawn in its
// given order on top of it.
type RenderOptions struct {
	// Background fills the canvas before any mark is drawn.
	Background color.Color

	// Foreground is the mark color when ColorFor is nil.
	Foreground color.Color

	// ColorFor, when set, supplies a per-mark color (gradient/palette
	// themes key it by radius or position).
	ColorFor func(Mark) color.Color

	// FeatherPx blends marks within this distance of the canvas border
	// toward the background instead of hard-drawing them, avoiding abrupt
	// cutoffs. Zero disables feathering.
	FeatherPx float64
}

// Render draws an ordered mark sequence onto a fresh canvas. The canvas is
// the only mutable state in the engine and is owned exclusively by this
// invocation; concurrent renders each get their own.
func Render(marks []Mark, w, h int, opts RenderOptions) *image.RGBA {
	dc := gg.NewContext(w, h)
	dc.SetColor(opts.Background)
	dc.Clear()

	for _, m := range marks {
		col := opts.Foreground
		if opts.ColorFor != nil {
			col = opts.ColorFor(m)
		}
		if opts.FeatherPx > 0 {
			if t := borderDistance(m, w, h) / opts.FeatherPx; t < 1 {
				col = lerpColor(opts.Background, col, t)
			}
		}
		dc.SetColor(col)
		dc.DrawCircle(m.X, m.Y, m.Radius)
		dc.Fill()
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), dc.Image(), image.Point{}, draw.Src)
	return out
}

// BlendMask composites the halftone over the original image using a subject
// mask: output = original*(1-mask) + halftone*mask per pixel. The mask is a
// same-extent scalar field in [0, 1] where 1 marks the subject; it comes
// from an external segmentation step, never from this package.
func BlendMask(original, halftone image.Image, mask *Field) *image.RGBA {
	b := halftone.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			m := clamp01(mask.At(x, y))
			or, og, ob, oa := original.At(original.Bounds().Min.X+x, original.Bounds().Min.Y+y).RGBA()
			hr, hg, hb, ha := halftone.At(b.Min.X+x, b.Min.Y+y).RGBA()
			out.SetRGBA(x, y, color.RGBA{
				R: blend8(or, hr, m),
				G: blend8(og, hg, m),
				B: blend8(ob, hb, m),
				A: blend8(oa, ha, m),
			})
		}
	}
	return out
}

// blend8 mixes two 16-bit channel samples by t and narrows to 8 bits.
func blend8(a, b uint32, t float64) uint8 {
	v := float64(a)*(1-t) + float64(b)*t
	return uint8(v / 257)
}

// borderDistance returns the distance from a mark center to the nearest
// canvas edge.
func borderDistance(m Mark, w, h int) float64 {
	d := m.X
	if v := m.Y; v < d {
		d = v
	}
	if v := float64(w) - m.X; v < d {
		d = v
	}
	if v := float64(h) - m.Y; v < d {
		d = v
	}
	if d < 0 {
		return 0
	}
	return d
}

// lerpColor interpolates between two colors in 16-bit channel space.
func lerpColor(a, b color.Color, t float64) color.Color {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return color.RGBA{
		R: blend8(ar, br, t),
		G: blend8(ag, bg, t),
		B: blend8(ab, bb, t),
		A: blend8(aa, ba, t),
	}
}
