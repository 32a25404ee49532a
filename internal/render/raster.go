package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// MaxRasterSide bounds either side of one bitmap. Taller layouts must be
// painted in bands with RasterizeBand.
const MaxRasterSide = 16384

// bandSlack is how far, in logical pixels, a box may sit outside a band
// and still be painted into it.
const bandSlack = 8

var ErrRasterTooLarge = errors.New("layout too large to rasterize")

// Rasterize paints l into a new RGBA bitmap at the given integer scale.
func Rasterize(l Layout, scale int) (*image.RGBA, error) {
	return RasterizeBand(l, scale, 0, l.Height)
}

// RasterizeBand paints the logical rows [y0, y1) of l. The bitmap keeps
// layout coordinates: its bounds start at y0*scale, not zero.
func RasterizeBand(l Layout, scale, y0, y1 int) (*image.RGBA, error) {
	if scale < 1 {
		return nil, fmt.Errorf("invalid raster scale %d", scale)
	}
	if l.Width <= 0 || l.Height <= 0 {
		return nil, fmt.Errorf("empty layout %dx%d", l.Width, l.Height)
	}
	if y0 < 0 || y1 > l.Height || y0 >= y1 {
		return nil, fmt.Errorf("band %d..%d outside layout height %d", y0, y1, l.Height)
	}
	w, h := l.Width*scale, (y1-y0)*scale
	if w > MaxRasterSide || h > MaxRasterSide {
		return nil, fmt.Errorf("%w: %dx%d", ErrRasterTooLarge, w, h)
	}

	img := image.NewRGBA(image.Rect(0, y0*scale, w, y1*scale))
	fill(img, img.Bounds(), l.Background)

	fs := newFaces(float64(scale))
	defer fs.close()

	for _, b := range l.Boxes {
		r := scaleRect(b.Rect, scale)
		// Glyphs may overhang their box slightly.
		if !r.Inset(-bandSlack * scale).Overlaps(img.Bounds()) {
			continue
		}
		if b.Fill.A > 0 {
			fill(img, r, b.Fill)
		}
		if b.Border.A > 0 && b.BorderWidth > 0 {
			stroke(img, r, b.BorderWidth*scale, b.Border)
		}
		if len(b.Lines) == 0 {
			continue
		}
		face, err := fs.get(b.Style.Role, b.Style.Size)
		if err != nil {
			return nil, err
		}
		drawLines(img, face, b, r, scale)
	}
	return img, nil
}

func scaleRect(r image.Rectangle, s int) image.Rectangle {
	return image.Rect(r.Min.X*s, r.Min.Y*s, r.Max.X*s, r.Max.Y*s)
}

func fill(dst *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
}

func stroke(dst *image.RGBA, r image.Rectangle, t int, c color.RGBA) {
	fill(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t), c)
	fill(dst, image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y), c)
	fill(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y), c)
	fill(dst, image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y), c)
}

func drawLines(dst *image.RGBA, face font.Face, b Box, r image.Rectangle, scale int) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(b.Style.Color), Face: face}
	m := face.Metrics()
	lh := lineHeight(b.Style.Size) * scale
	pad := b.Pad * scale
	innerW := r.Dx() - 2*pad
	for i, line := range b.Lines {
		x := r.Min.X + pad
		if b.Style.Align == AlignCenter {
			if lw := d.MeasureString(line).Ceil(); lw < innerW {
				x += (innerW - lw) / 2
			}
		}
		baseline := r.Min.Y + pad + i*lh + (lh+m.Ascent.Ceil()-m.Descent.Ceil())/2
		d.Dot = fixed.P(x, baseline)
		d.DrawString(line)
	}
}
