// Package quote renders the motivational banner overlay. A quote is
// repeated across a solid band at the top, bottom, or center of the
// poster, the way ticker tape runs across a broadcast.
package quote

import (
	"image"
	"image/color"
	"image/draw"
	"math/rand"
	"strings"

	"github.com/flopp/go-findfont"
	"github.com/fogleman/gg"

	"github.com/Bh3ky/themambacode/pkg/errors"
)

// Quotes is the built-in rotation. Random picks from it; callers can also
// pass their own text straight to Overlay.
var Quotes = []string{
	"HARD WORK OUTWEIGHS TALENT - EVERY TIME",
	"THE MOST IMPORTANT THING IS TO TRY AND INSPIRE PEOPLE",
	"MAMBA MENTALITY IS ABOUT OBSESSION",
	"EVERYTHING NEGATIVE IS AN OPPORTUNITY TO RISE",
	"THE MOMENT YOU GIVE UP IS THE MOMENT YOU LET SOMEONE ELSE WIN",
	"DEDICATION MAKES DREAMS COME TRUE",
	"I DON'T WANT TO BE THE NEXT MICHAEL JORDAN, I ONLY WANT TO BE KOBE BRYANT",
	"ONCE YOU KNOW WHAT FAILURE FEELS LIKE, DETERMINATION CHASES SUCCESS",
	"IF YOU'RE AFRAID TO FAIL, YOU DON'T DESERVE TO BE SUCCESSFUL",
	"THE MOST IMPORTANT THING IS YOU MUST PUT EVERYBODY ON NOTICE",
	"I CREATE MY OWN PATH",
	"BE WILLING TO SACRIFICE ANYTHING, BUT COMPROMISE NOTHING",
	"PAIN DOESN'T TELL YOU WHEN YOU OUGHT TO STOP",
	"I FOCUS ON ONE THING AND ONE THING ONLY - THAT'S TRYING TO WIN",
	"THERE'S NOTHING TRULY TO BE AFRAID OF, WHEN YOU THINK ABOUT IT",
	"I'LL DO WHATEVER IT TAKES TO WIN GAMES",
	"THE MINDSET ISN'T ABOUT SEEKING A RESULT",
	"I CREATE MY OWN REALITY",
	"FRIENDS CAN COME AND GO, BUT BANNERS HANG FOREVER",
	"I'M REFLECTIVE ONLY IN THE SENSE THAT I LEARN TO MOVE FORWARD",
}

// Random picks a quote with the caller's generator, so the same seed that
// drives mark placement also fixes the quote.
func Random(rng *rand.Rand) string {
	return Quotes[rng.Intn(len(Quotes))]
}

// Position of the banner on the canvas.
const (
	PositionTop    = "top"
	PositionBottom = "bottom"
	PositionCenter = "center"
)

// Options controls banner layout. Zero values fall back to the defaults
// the project has always shipped with.
type Options struct {
	Position    string
	Padding     float64 // vertical padding around the text line
	FontSize    float64
	RepeatCount int // times the quote repeats in the running line
	Opacity     float64

	Band color.Color // banner background
	Text color.Color // banner text

	// FontPath points at a TTF file. When empty, Overlay searches the
	// system for a bold sans face via findfont.
	FontPath string
}

// DefaultOptions returns the stock banner layout.
func DefaultOptions() Options {
	return Options{
		Position:    PositionTop,
		Padding:     40,
		FontSize:    64,
		RepeatCount: 12,
		Opacity:     1.0,
		Band:        color.RGBA{200, 0, 0, 255},
		Text:        color.RGBA{255, 255, 255, 255},
	}
}

// candidate font files, tried in order when no path is given.
var fontCandidates = []string{
	"DejaVuSans-Bold.ttf",
	"DejaVuSans.ttf",
	"Arial Bold.ttf",
	"arialbd.ttf",
	"arial.ttf",
	"LiberationSans-Bold.ttf",
	"FreeSansBold.ttf",
}

// FindFont locates a usable TTF file, honoring the explicit path when one
// is given. Returns ErrCodeFontNotFound when nothing on the system matches.
func FindFont(explicit string) (string, error) {
	if explicit != "" {
		if path, err := findfont.Find(explicit); err == nil {
			return path, nil
		}
		return "", errors.New(errors.ErrCodeFontNotFound, "font %q not found", explicit)
	}
	for _, name := range fontCandidates {
		if path, err := findfont.Find(name); err == nil {
			return path, nil
		}
	}
	return "", errors.New(errors.ErrCodeFontNotFound, "no usable TTF font found on this system")
}

// Overlay draws the repeating quote band onto a copy of img. The input is
// never modified.
func Overlay(img image.Image, text string, opts Options) (*image.RGBA, error) {
	if text == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "quote text is empty")
	}
	def := DefaultOptions()
	if opts.Position == "" {
		opts.Position = def.Position
	}
	switch opts.Position {
	case PositionTop, PositionBottom, PositionCenter:
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "quote position must be top, bottom, or center, got %q", opts.Position)
	}
	if opts.Padding <= 0 {
		opts.Padding = def.Padding
	}
	if opts.FontSize <= 0 {
		opts.FontSize = def.FontSize
	}
	if opts.RepeatCount <= 0 {
		opts.RepeatCount = def.RepeatCount
	}
	if opts.Opacity <= 0 || opts.Opacity > 1 {
		opts.Opacity = def.Opacity
	}
	if opts.Band == nil {
		opts.Band = def.Band
	}
	if opts.Text == nil {
		opts.Text = def.Text
	}

	fontPath, err := FindFont(opts.FontPath)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	dc := gg.NewContext(w, h)
	dc.DrawImage(img, 0, 0)
	if err := dc.LoadFontFace(fontPath, opts.FontSize); err != nil {
		return nil, errors.Wrap(errors.ErrCodeFontNotFound, err, "load font %s", fontPath)
	}

	line := strings.Repeat(" • "+text, opts.RepeatCount)
	lineW, lineH := dc.MeasureString(line)
	bannerH := lineH + 2*opts.Padding

	var bannerY float64
	switch opts.Position {
	case PositionTop:
		bannerY = 0
	case PositionBottom:
		bannerY = float64(h) - bannerH
	case PositionCenter:
		bannerY = (float64(h) - bannerH) / 2
	}

	br, bg, bb, _ := opts.Band.RGBA()
	dc.SetRGBA(float64(br)/65535, float64(bg)/65535, float64(bb)/65535, opts.Opacity)
	dc.DrawRectangle(0, bannerY, float64(w), bannerH)
	dc.Fill()

	dc.SetColor(opts.Text)
	baseline := bannerY + opts.Padding + lineH
	for x := 0.0; x < float64(w); x += lineW {
		dc.DrawString(line, x, baseline)
	}

	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(out, out.Bounds(), dc.Image(), image.Point{}, draw.Src)
	return out, nil
}
