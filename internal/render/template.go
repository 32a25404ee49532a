package render

import (
	"fmt"
	"image"
	"image/color"

	"lockin-cli/internal/model"

	"github.com/lucasb-eyer/go-colorful"
)

const TemplateWidth = 850

// TemplateView renders the fixed-slot template with its presentation colors.
type TemplateView struct {
	view
	tpl    model.Template
	colors model.Colors
}

func NewTemplateView(t model.Template, c model.Colors) *TemplateView {
	v := &TemplateView{tpl: t.Clone(), colors: c}
	v.layoutFn = v.layout
	return v
}

// ParseColor converts a hex color to RGBA.
func ParseColor(hex string) (color.RGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q", hex)
	}
	r, g, b := c.RGB255()
	return color.RGBA{r, g, b, 0xff}, nil
}

// headerText picks white or ink for text on a colored bar.
func headerText(bar color.RGBA) color.RGBA {
	c, _ := colorful.MakeColor(bar)
	l, _, _ := c.Lab()
	if l > 0.6 {
		return ink
	}
	return white
}

func (v *TemplateView) layout(controls bool) (Layout, error) {
	primary, err := ParseColor(v.colors.Primary)
	if err != nil {
		return Layout{}, err
	}
	bg, err := ParseColor(v.colors.Background)
	if err != nil {
		return Layout{}, err
	}
	onPrimary := headerText(primary)

	const pad = 32
	b := newBuilder(TemplateWidth)
	x := pad
	w := TemplateWidth - 2*pad

	b.gap(pad)
	if controls {
		settings := b.textBox(x+w-120, 120, SettingsLabel, TextStyle{Role: Bold, Size: 12, Color: ink, Align: AlignCenter}, 6)
		settings.Kind = KindControls
		settings.Fill = controlBg
		b.add(settings)
	}
	b.line(x, w, v.tpl.Title, TextStyle{Role: Bold, Size: 32, Color: ink, Align: AlignCenter}, 0)
	b.gap(8)
	b.divider(x, w, 4, primary)
	b.gap(16)
	b.line(x, w, v.tpl.Tagline, TextStyle{Role: Bold, Size: 18, Color: ink, Align: AlignCenter}, 0)
	b.gap(8)
	b.divider(x, w, 1, primary)
	b.gap(24)

	// Rule box.
	b.y = v.card(b, x, w, primary, bg, onPrimary, v.tpl.RuleHeading, func(ix, iw int) {
		b.line(ix, iw, v.tpl.RuleBody, TextStyle{Size: 14, Color: ink}, 0)
	}) + 32

	b.y = v.block(b, x, w, primary, bg, onPrimary, v.tpl.BlockA, "") + 32
	b.y = v.block(b, x, w, primary, bg, onPrimary, v.tpl.BlockB, v.tpl.LeisureLimit) + 32

	b.divider(x, w, 1, primary)
	b.gap(20)
	b.line(x, w, v.tpl.Footer, TextStyle{Role: Bold, Size: 18, Color: ink, Align: AlignCenter}, 0)

	return b.finish(white, pad)
}

// block lays out a titled block with two cards side by side. limit, when
// set, is drawn under the first card's items.
func (v *TemplateView) block(b *builder, x, w int, primary, bg, onPrimary color.RGBA, blk model.TemplateBlock, limit string) int {
	b.line(x, w, blk.Title, TextStyle{Role: Bold, Size: 26, Color: primary}, 0)
	b.gap(6)
	b.line(x, w, blk.Description, TextStyle{Size: 14, Color: muted}, 0)
	b.gap(14)

	top := b.y
	bottom := top
	colW := (w - columnGap) / 2
	for i, c := range blk.Cards {
		b.y = top
		cx := x + i*(colW+columnGap)
		end := v.card(b, cx, colW, primary, bg, onPrimary, c.Heading, func(ix, iw int) {
			for _, item := range c.Items {
				b.line(ix, iw, "• "+item, TextStyle{Size: 14, Color: ink}, 0)
				b.gap(4)
			}
			if i == 0 && limit != "" {
				b.gap(10)
				b.line(ix, iw, limit, TextStyle{Role: Bold, Size: 16, Color: alertRed, Align: AlignCenter}, 0)
			}
		})
		if end > bottom {
			bottom = end
		}
	}
	// Equalize card heights in the row.
	for i := range b.boxes {
		if b.boxes[i].Kind == KindPanel && b.boxes[i].Rect.Min.Y == top && b.boxes[i].BorderWidth == 2 {
			b.boxes[i].Rect.Max.Y = bottom
		}
	}
	return bottom
}

// card draws a bordered panel with a colored header bar and returns its
// bottom edge. body lays out content at the given inner x and width.
func (v *TemplateView) card(b *builder, x, w int, primary, bg, onPrimary color.RGBA, heading string, body func(ix, iw int)) int {
	const pad = 20
	top := b.y
	frame := len(b.boxes)
	b.add(Box{})

	b.y = top + pad
	bar := b.textBox(x+pad, w-2*pad, heading, TextStyle{Role: Bold, Size: 18, Color: onPrimary}, 12)
	bar.Kind = KindPanel
	bar.Fill = primary
	b.add(bar)
	b.y = bar.Rect.Max.Y + 14

	body(x+pad, w-2*pad)

	bottom := b.y + pad
	b.boxes[frame] = Box{
		Kind:        KindPanel,
		Rect:        image.Rect(x, top, x+w, bottom),
		Fill:        bg,
		Border:      primary,
		BorderWidth: 2,
	}
	return bottom
}
