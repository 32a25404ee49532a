package render

import (
	"image"

	"lockin-cli/internal/model"
)

const (
	PlanWidth   = 800
	planPadding = 24
	columnGap   = 16
)

const (
	PlanHeading    = "Daily Structure"
	PlanSubheading = "Customize your blocks and rules. This is what gets exported."
	PlanFooter     = "Stay consistent. Stay locked in."
	SettingsLabel  = "Settings"
)

// PlanView is the exportable rendering of a Document.
type PlanView struct {
	view
	doc model.Document
}

func NewPlanView(doc model.Document) *PlanView {
	v := &PlanView{doc: doc.Clone()}
	v.layoutFn = v.layout
	return v
}

func (v *PlanView) layout(controls bool) (Layout, error) {
	b := newBuilder(PlanWidth)
	x := planPadding
	w := PlanWidth - 2*planPadding

	b.gap(planPadding)
	if controls {
		settings := b.textBox(x+w-120, 120, SettingsLabel, TextStyle{Role: Bold, Size: 12, Color: ink, Align: AlignCenter}, 6)
		settings.Kind = KindControls
		settings.Fill = controlBg
		b.add(settings)
	}
	b.line(x, w, PlanHeading, TextStyle{Role: Bold, Size: 24, Color: ink, Align: AlignCenter}, 0)
	b.gap(4)
	b.line(x, w, PlanSubheading, TextStyle{Size: 13, Color: muted, Align: AlignCenter}, 0)
	b.gap(16)
	b.divider(x, w, 1, lineGray)
	b.gap(16)

	b.line(x, w, "Rules", TextStyle{Role: Bold, Size: 18, Color: ink}, 0)
	b.gap(10)
	for _, r := range v.doc.Rules {
		row := b.textBox(x, w, r.Text, TextStyle{Size: 13, Color: ink}, 12)
		row.Kind = KindPanel
		row.Fill = rowFill
		row.Border = lineGray
		row.BorderWidth = 1
		b.add(row)
		b.y = row.Rect.Max.Y + 8
	}
	b.gap(8)
	b.divider(x, w, 1, lineGray)
	b.gap(16)

	b.line(x, w, "Blocks", TextStyle{Role: Bold, Size: 18, Color: ink}, 0)
	b.gap(10)
	colW := (w - columnGap) / 2
	for i := 0; i < len(v.doc.Blocks); i += 2 {
		top := b.y
		bottom := top
		for j := 0; j < 2 && i+j < len(v.doc.Blocks); j++ {
			b.y = top
			cx := x + j*(colW+columnGap)
			if end := v.blockCard(b, cx, colW, v.doc.Blocks[i+j]); end > bottom {
				bottom = end
			}
		}
		b.y = bottom + columnGap
	}
	b.divider(x, w, 1, lineGray)
	b.gap(24)
	b.line(x, w, PlanFooter, TextStyle{Role: Italic, Size: 14, Color: muted, Align: AlignCenter}, 0)

	return b.finish(white, planPadding)
}

// blockCard lays out one block at (x, b.y) and returns its bottom edge.
func (v *PlanView) blockCard(b *builder, x, w int, blk model.Block) int {
	const pad = 16
	top := b.y
	frame := len(b.boxes)
	b.add(Box{}) // placeholder for the card frame, sized below

	b.y = top + pad
	b.line(x+pad, w-2*pad, blk.Title, TextStyle{Role: Bold, Size: 18, Color: ink}, 0)
	if blk.Subtitle != "" {
		b.gap(4)
		b.line(x+pad, w-2*pad, blk.Subtitle, TextStyle{Size: 13, Color: muted}, 0)
	}
	b.gap(12)
	for _, t := range blk.Subtasks {
		row := b.textBox(x+pad, w-2*pad, t.Text, TextStyle{Size: 13, Color: ink}, 8)
		row.Kind = KindPanel
		row.Fill = rowFill
		b.add(row)
		b.y = row.Rect.Max.Y + 6
	}
	bottom := b.y + pad
	b.boxes[frame] = Box{
		Kind:        KindPanel,
		Rect:        image.Rect(x, top, x+w, bottom),
		Fill:        white,
		Border:      lineGray,
		BorderWidth: 1,
	}
	return bottom
}
