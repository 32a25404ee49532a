package render

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/font"
)

type Kind int

const (
	KindText Kind = iota
	KindPanel
	KindDivider
	KindControls
)

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

type TextStyle struct {
	Role  FontRole
	Size  float64
	Color color.RGBA
	Align Align
}

// Box is one laid-out element in logical pixels. A zero Fill or Border
// alpha means none.
type Box struct {
	Kind        Kind
	Rect        image.Rectangle
	Fill        color.RGBA
	Border      color.RGBA
	BorderWidth int
	Pad         int
	Lines       []string
	Style       TextStyle
}

type Layout struct {
	Width      int
	Height     int
	Background color.RGBA
	Boxes      []Box
}

// Text returns every laid-out line, top to bottom. Useful for tests and
// accessibility output.
func (l Layout) Text() []string {
	var out []string
	for _, b := range l.Boxes {
		out = append(out, b.Lines...)
	}
	return out
}

var (
	white     = color.RGBA{0xff, 0xff, 0xff, 0xff}
	ink       = color.RGBA{0x11, 0x18, 0x27, 0xff}
	muted     = color.RGBA{0x6b, 0x72, 0x80, 0xff}
	rowFill   = color.RGBA{0xf9, 0xfa, 0xfb, 0xff}
	lineGray  = color.RGBA{0xe5, 0xe7, 0xeb, 0xff}
	alertRed  = color.RGBA{0xdc, 0x26, 0x26, 0xff}
	controlBg = color.RGBA{0xee, 0xf2, 0xff, 0xff}
)

// builder stacks boxes top to bottom.
type builder struct {
	faces *faces
	width int
	y     int
	boxes []Box
	err   error
}

func newBuilder(width int) *builder {
	return &builder{faces: newFaces(1), width: width}
}

func (b *builder) gap(px int) { b.y += px }

// textBox wraps s into w pixels and places it at (x, b.y) without advancing.
func (b *builder) textBox(x, w int, s string, st TextStyle, pad int) Box {
	face, err := b.faces.get(st.Role, st.Size)
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return Box{}
	}
	lines := wrap(face, s, w-2*pad)
	h := 2*pad + len(lines)*lineHeight(st.Size)
	return Box{
		Kind:  KindText,
		Rect:  image.Rect(x, b.y, x+w, b.y+h),
		Pad:   pad,
		Lines: lines,
		Style: st,
	}
}

func (b *builder) add(box Box) Box {
	b.boxes = append(b.boxes, box)
	return box
}

// line places a full-width text box and advances.
func (b *builder) line(x, w int, s string, st TextStyle, pad int) Box {
	box := b.add(b.textBox(x, w, s, st, pad))
	b.y = box.Rect.Max.Y
	return box
}

func (b *builder) divider(x, w, thickness int, c color.RGBA) {
	b.add(Box{Kind: KindDivider, Rect: image.Rect(x, b.y, x+w, b.y+thickness), Fill: c})
	b.y += thickness
}

func (b *builder) finish(bg color.RGBA, bottomPad int) (Layout, error) {
	defer b.faces.close()
	if b.err != nil {
		return Layout{}, b.err
	}
	return Layout{Width: b.width, Height: b.y + bottomPad, Background: bg, Boxes: b.boxes}, nil
}

// wrap breaks s into lines no wider than maxW. Explicit newlines are kept.
// A single word wider than maxW gets its own line.
func wrap(face font.Face, s string, maxW int) []string {
	var out []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			next := cur + " " + w
			if font.MeasureString(face, next).Ceil() > maxW {
				out = append(out, cur)
				cur = w
				continue
			}
			cur = next
		}
		out = append(out, cur)
	}
	return out
}
