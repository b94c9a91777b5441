package symbol

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultRasterScale is the pixel density used when RasterOptions.Scale is unset.
const DefaultRasterScale = 2

// RasterOptions controls rasterization.
type RasterOptions struct {
	// Scale multiplies the intrinsic size. Module widths such as 1.5 only
	// land on whole pixels at even scales.
	Scale int
}

// Rasterize draws the symbol once onto a surface sized to its intrinsic
// dimensions (times Scale) and encodes it as PNG.
//
// A nil symbol yields (nil, nil): the caller treats it as "no image".
func Rasterize(ctx context.Context, s *Symbol, opts RasterOptions) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img := s.Image(opts.Scale)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png for %q: %w", s.Value, err)
	}
	return buf.Bytes(), nil
}

// Image renders the symbol into an RGBA image.
func (s *Symbol) Image(scale int) *image.RGBA {
	if scale <= 0 {
		scale = DefaultRasterScale
	}
	k := float64(scale)

	w := int(math.Ceil(s.Width() * k))
	h := int(math.Ceil(s.Height() * k))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	top := int(math.Round(s.opts.Margin * k))
	bottom := int(math.Round((s.opts.Margin + s.opts.Height) * k))
	for _, bar := range s.Bars() {
		x0 := int(math.Round(bar.X * k))
		x1 := int(math.Round((bar.X + bar.Width) * k))
		draw.Draw(img, image.Rect(x0, top, x1, bottom), image.Black, image.Point{}, draw.Src)
	}

	if s.opts.DisplayValue {
		s.drawValue(img, k, bottom)
	}
	return img
}

// drawValue renders the value centered under the bars. The bitmap face is
// drawn at its native size and scaled up by nearest neighbour so glyph
// edges stay sharp.
func (s *Symbol) drawValue(img *image.RGBA, k float64, barsBottom int) {
	face := basicfont.Face7x13
	tw := font.MeasureString(face, s.Value).Ceil()
	th := face.Height
	if tw == 0 {
		return
	}

	glyphs := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.Draw(glyphs, glyphs.Bounds(), image.White, image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  glyphs,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(s.Value)

	factor := int(math.Round(s.opts.FontSize * k / float64(th)))
	if factor < 1 {
		factor = 1
	}
	dw, dh := tw*factor, th*factor

	top := barsBottom + int(math.Round(s.opts.TextMargin*k))
	left := (img.Bounds().Dx() - dw) / 2
	dst := image.Rect(left, top, left+dw, top+dh)
	draw.NearestNeighbor.Scale(img, dst, glyphs, glyphs.Bounds(), draw.Src, nil)
}
