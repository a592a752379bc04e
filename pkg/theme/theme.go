// Package theme provides the color schemes used by the halftone renderer
// and quote overlay. A scheme resolves to concrete colors before the engine
// runs; the engine itself never looks up theme names.
//
// Built-in schemes mirror the poster palettes the project ships with
// (classic black/white, lakers_gold, copper, mamba_red, inverted,
// blue_steel). Additional schemes can be loaded from a TOML file.
package theme

import (
	"image/color"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/Bh3ky/themambacode/pkg/errors"
)

// Scheme is a resolved color theme. All fields are concrete colors; the
// optional gradient supplies per-mark color keyed by normalized radius.
type Scheme struct {
	Name       string
	Background color.RGBA // canvas fill
	Marks      color.RGBA // dot/stroke color when no gradient is set
	QuoteBand  color.RGBA // quote banner background
	QuoteText  color.RGBA // quote banner text

	// Gradient holds ordered color stops. When non-empty, MarkColor
	// interpolates between them instead of returning Marks.
	Gradient []color.RGBA
}

// MarkColor returns the color for a mark whose radius is t of the maximum
// (t in [0, 1]; larger marks sit later in the gradient). Without gradient
// stops it returns the flat mark color. Interpolation runs in Lab space
// via go-colorful, which avoids the muddy midpoints of naive RGB blending.
func (s Scheme) MarkColor(t float64) color.Color {
	if len(s.Gradient) == 0 {
		return s.Marks
	}
	if len(s.Gradient) == 1 {
		return s.Gradient[0]
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	pos := t * float64(len(s.Gradient)-1)
	i := int(pos)
	if i >= len(s.Gradient)-1 {
		return s.Gradient[len(s.Gradient)-1]
	}
	frac := pos - float64(i)

	a, _ := colorful.MakeColor(s.Gradient[i])
	b, _ := colorful.MakeColor(s.Gradient[i+1])
	blended := a.BlendLab(b, frac).Clamped()
	r, g, bl := blended.RGB255()
	return color.RGBA{R: r, G: g, B: bl, A: 255}
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// builtin is the set of schemes compiled into the binary.
var builtin = map[string]Scheme{
	"classic": {
		Name:       "classic",
		Background: rgb(0, 0, 0),
		Marks:      rgb(255, 255, 255),
		QuoteBand:  rgb(200, 0, 0),
		QuoteText:  rgb(255, 255, 255),
	},
	"lakers_gold": {
		Name:       "lakers_gold",
		Background: rgb(20, 20, 25),
		Marks:      rgb(253, 185, 39),
		QuoteBand:  rgb(85, 37, 130),
		QuoteText:  rgb(253, 185, 39),
	},
	"copper": {
		Name:       "copper",
		Background: rgb(15, 20, 25),
		Marks:      rgb(184, 115, 51),
		QuoteBand:  rgb(50, 30, 20),
		QuoteText:  rgb(184, 115, 51),
	},
	"mamba_red": {
		Name:       "mamba_red",
		Background: rgb(0, 0, 0),
		Marks:      rgb(255, 255, 255),
		QuoteBand:  rgb(200, 0, 0),
		QuoteText:  rgb(0, 0, 0),
	},
	"inverted": {
		Name:       "inverted",
		Background: rgb(255, 255, 255),
		Marks:      rgb(0, 0, 0),
		QuoteBand:  rgb(0, 0, 0),
		QuoteText:  rgb(255, 255, 255),
	},
	"blue_steel": {
		Name:       "blue_steel",
		Background: rgb(10, 15, 25),
		Marks:      rgb(180, 200, 220),
		QuoteBand:  rgb(30, 60, 100),
		QuoteText:  rgb(220, 230, 240),
		Gradient:   []color.RGBA{rgb(90, 110, 140), rgb(180, 200, 220), rgb(235, 242, 250)},
	},
}

// Lookup resolves a scheme by name.
func Lookup(name string) (Scheme, error) {
	s, ok := builtin[name]
	if !ok {
		return Scheme{}, errors.New(errors.ErrCodeInvalidTheme, "unknown theme %q (run 'themambacode styles' to list)", name)
	}
	return s, nil
}

// Names returns the available scheme names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for n := range builtin {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// tomlScheme is the on-disk shape of a custom scheme. Colors are [r, g, b]
// triplets in 0-255.
type tomlScheme struct {
	Background []uint8   `toml:"background"`
	Marks      []uint8   `toml:"marks"`
	QuoteBand  []uint8   `toml:"quote_band"`
	QuoteText  []uint8   `toml:"quote_text"`
	Gradient   [][]uint8 `toml:"gradient"`
}

// LoadFile merges schemes from a TOML file into the registry. Each top-level
// table defines one scheme:
//
//	[midnight]
//	background = [5, 5, 12]
//	marks      = [240, 240, 255]
//	quote_band = [40, 40, 80]
//	quote_text = [240, 240, 255]
func LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "read theme file %s", path)
	}

	var raw map[string]tomlScheme
	if err := toml.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTheme, err, "parse theme file %s", path)
	}

	for name, ts := range raw {
		s := Scheme{Name: name}
		var convErr error
		s.Background, convErr = triplet(ts.Background, name, "background")
		if convErr != nil {
			return convErr
		}
		s.Marks, convErr = triplet(ts.Marks, name, "marks")
		if convErr != nil {
			return convErr
		}
		s.QuoteBand, convErr = triplet(ts.QuoteBand, name, "quote_band")
		if convErr != nil {
			return convErr
		}
		s.QuoteText, convErr = triplet(ts.QuoteText, name, "quote_text")
		if convErr != nil {
			return convErr
		}
		for _, stop := range ts.Gradient {
			c, convErr := triplet(stop, name, "gradient")
			if convErr != nil {
				return convErr
			}
			s.Gradient = append(s.Gradient, c)
		}
		builtin[name] = s
	}
	return nil
}

func triplet(v []uint8, scheme, field string) (color.RGBA, error) {
	if len(v) != 3 {
		return color.RGBA{}, errors.New(errors.ErrCodeInvalidTheme,
			"theme %s: %s must be an [r, g, b] triplet, got %d values", scheme, field, len(v))
	}
	return rgb(v[0], v[1], v[2]), nil
}
