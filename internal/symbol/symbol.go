// Package symbol renders CODE39 barcodes as vector (SVG) and raster (PNG)
// images.
//
// A Symbol is the rendered handle for one code. It carries the module
// pattern produced by the encoder plus the display options, so the same
// handle can be drawn inline in a page or rasterized for a PDF.
package symbol

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/boombuler/barcode/code39"
)

// ErrInvalidContent is returned when a value cannot be encoded as CODE39.
var ErrInvalidContent = errors.New("invalid CODE39 content")

// code39Charset lists the characters the standard (non full-ASCII) symbology
// encodes.
const code39Charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ-. $/+%"

// Options controls the geometry of a rendered symbol. Lengths are in user
// units (CSS pixels in SVG, pixels before scaling in rasters).
type Options struct {
	ModuleWidth  float64 // width of one narrow bar
	Height       float64 // bar height
	DisplayValue bool    // draw the human-readable value under the bars
	Margin       float64 // quiet zone on every side
	FontSize     float64
	TextMargin   float64 // gap between bars and text
}

// DefaultOptions returns the display parameters used throughout the app:
// module width 1.5, height 50, value shown.
func DefaultOptions() Options {
	return Options{
		ModuleWidth:  1.5,
		Height:       50,
		DisplayValue: true,
		Margin:       10,
		FontSize:     20,
		TextMargin:   2,
	}
}

// withDefaults fills zero-valued geometry from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.ModuleWidth <= 0 {
		o.ModuleWidth = d.ModuleWidth
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Margin < 0 {
		o.Margin = d.Margin
	}
	if o.FontSize <= 0 {
		o.FontSize = d.FontSize
	}
	if o.TextMargin < 0 {
		o.TextMargin = d.TextMargin
	}
	return o
}

// Symbol is a rendered CODE39 barcode.
type Symbol struct {
	Value   string
	modules []bool // true = dark module
	opts    Options
}

// Bar is one dark run of modules, positioned in user units.
type Bar struct {
	X     float64
	Width float64
}

// Render encodes value as CODE39 without a check digit. Lowercase letters
// are folded to uppercase before encoding.
func Render(value string, opts Options) (*Symbol, error) {
	value = strings.ToUpper(value)
	if !ValidContent(value) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidContent, value)
	}

	bc, err := code39.Encode(value, false, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}

	b := bc.Bounds()
	modules := make([]bool, b.Dx())
	for x := range modules {
		modules[x] = isDark(bc.At(b.Min.X+x, b.Min.Y))
	}

	return &Symbol{
		Value:   value,
		modules: modules,
		opts:    opts.withDefaults(),
	}, nil
}

// ValidContent reports whether value (already uppercased) is encodable.
func ValidContent(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if !strings.ContainsRune(code39Charset, r) {
			return false
		}
	}
	return true
}

// Options returns the geometry the symbol was rendered with.
func (s *Symbol) Options() Options {
	return s.opts
}

// Modules returns a copy of the module pattern.
func (s *Symbol) Modules() []bool {
	out := make([]bool, len(s.modules))
	copy(out, s.modules)
	return out
}

// Width is the intrinsic width including margins.
func (s *Symbol) Width() float64 {
	return 2*s.opts.Margin + float64(len(s.modules))*s.opts.ModuleWidth
}

// Height is the intrinsic height including margins and text.
func (s *Symbol) Height() float64 {
	h := 2*s.opts.Margin + s.opts.Height
	if s.opts.DisplayValue {
		h += s.opts.TextMargin + s.opts.FontSize
	}
	return h
}

// Bars merges adjacent dark modules into runs.
func (s *Symbol) Bars() []Bar {
	var bars []Bar
	mw := s.opts.ModuleWidth
	for i := 0; i < len(s.modules); {
		if !s.modules[i] {
			i++
			continue
		}
		start := i
		for i < len(s.modules) && s.modules[i] {
			i++
		}
		bars = append(bars, Bar{
			X:     s.opts.Margin + float64(start)*mw,
			Width: float64(i-start) * mw,
		})
	}
	return bars
}

func isDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return (r+g+b)/3 < math.MaxUint16/2
}
