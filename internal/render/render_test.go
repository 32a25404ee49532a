package render

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"lockin-cli/internal/model"
)

func sampleDoc() model.Document {
	return model.Document{
		Rules: []model.Rule{{ID: "rule-1", Text: "No phone before noon"}},
		Blocks: []model.Block{
			{ID: "block-1", Title: "Deep Work", Subtitle: "Morning", Subtasks: []model.Subtask{{ID: "task-1", Text: "Write"}}},
			{ID: "block-2", Title: "Fitness", Subtasks: []model.Subtask{{ID: "task-2", Text: "Run 5k"}}},
			{ID: "block-3", Title: "Reading", Subtasks: []model.Subtask{}},
		},
	}
}

func containsLine(lines []string, want string) bool {
	for _, l := range lines {
		if strings.Contains(l, want) {
			return true
		}
	}
	return false
}

func TestPlanView_LayoutContainsDocumentText(t *testing.T) {
	v := NewPlanView(sampleDoc())
	l, err := v.Layout()
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	for _, want := range []string{PlanHeading, "No phone before noon", "Deep Work", "Morning", "Run 5k", "Reading", PlanFooter} {
		if !containsLine(l.Text(), want) {
			t.Fatalf("layout missing %q: %v", want, l.Text())
		}
	}
	if l.Width != PlanWidth || l.Height <= 0 {
		t.Fatalf("unexpected size %dx%d", l.Width, l.Height)
	}
}

func TestPlanView_ControlsOnlyWhileVisible(t *testing.T) {
	v := NewPlanView(sampleDoc())
	hasControls := func() bool {
		l, err := v.Layout()
		if err != nil {
			t.Fatalf("Layout: %v", err)
		}
		for _, b := range l.Boxes {
			if b.Kind == KindControls {
				return true
			}
		}
		return false
	}
	if !v.ControlsVisible() || !hasControls() {
		t.Fatalf("controls should start visible")
	}
	w1, h1 := v.Size()
	v.HideControls()
	if hasControls() {
		t.Fatalf("controls drawn while hidden")
	}
	if w2, h2 := v.Size(); w1 != w2 || h1 != h2 {
		t.Fatalf("hiding controls changed size: %dx%d -> %dx%d", w1, h1, w2, h2)
	}
	v.ShowControls()
	if !hasControls() {
		t.Fatalf("controls not restored")
	}
}

func TestPlanView_DetachedHasZeroSize(t *testing.T) {
	v := NewPlanView(sampleDoc())
	v.Detach()
	if v.Attached() {
		t.Fatalf("expected detached")
	}
	if w, h := v.Size(); w != 0 || h != 0 {
		t.Fatalf("size = %dx%d", w, h)
	}
}

func TestPlanView_LongTextWraps(t *testing.T) {
	doc := model.Document{Rules: []model.Rule{{ID: "r", Text: strings.Repeat("focus ", 80)}}}
	l, err := NewPlanView(doc).Layout()
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	for _, b := range l.Boxes {
		if len(b.Lines) > 0 && strings.HasPrefix(b.Lines[0], "focus") {
			if len(b.Lines) < 2 {
				t.Fatalf("expected wrapped rule, got %d line(s)", len(b.Lines))
			}
			return
		}
	}
	t.Fatalf("rule box not found")
}

func TestRasterize_ScalesBitmap(t *testing.T) {
	v := NewPlanView(sampleDoc())
	w, h := v.Size()
	img, err := v.Rasterize(2)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if got := img.Bounds().Dx(); got != 2*w {
		t.Fatalf("width = %d; want %d", got, 2*w)
	}
	if got := img.Bounds().Dy(); got != 2*h {
		t.Fatalf("height = %d; want %d", got, 2*h)
	}
	// Some pixel must differ from the white background (text was drawn).
	inked := false
	for y := 0; y < img.Bounds().Dy() && !inked; y += 3 {
		for x := 0; x < img.Bounds().Dx(); x += 3 {
			if img.RGBAAt(x, y) != (color.RGBA{0xff, 0xff, 0xff, 0xff}) {
				inked = true
				break
			}
		}
	}
	if !inked {
		t.Fatalf("bitmap is blank")
	}
}

func TestRasterize_RejectsHugeLayout(t *testing.T) {
	_, err := Rasterize(Layout{Width: 10, Height: MaxRasterSide}, 2)
	if !errors.Is(err, ErrRasterTooLarge) {
		t.Fatalf("err = %v", err)
	}
	if _, err := Rasterize(Layout{Width: 10, Height: 10}, 0); err == nil {
		t.Fatalf("expected scale error")
	}
}

func TestRasterizeBand_MatchesFullBitmap(t *testing.T) {
	v := NewPlanView(sampleDoc())
	w, h := v.Size()
	if h < 60 {
		t.Fatalf("sample layout too short: %d", h)
	}
	full, err := v.Rasterize(2)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	band, err := v.RasterizeBand(2, 10, 60)
	if err != nil {
		t.Fatalf("RasterizeBand: %v", err)
	}
	if got, want := band.Bounds(), image.Rect(0, 20, 2*w, 120); got != want {
		t.Fatalf("bounds = %v; want %v", got, want)
	}
	for y := 20; y < 120; y++ {
		for x := 0; x < 2*w; x++ {
			if band.RGBAAt(x, y) != full.RGBAAt(x, y) {
				t.Fatalf("pixel (%d,%d) = %v; full bitmap has %v", x, y, band.RGBAAt(x, y), full.RGBAAt(x, y))
			}
		}
	}
	if _, err := v.RasterizeBand(2, 0, h+1); err == nil {
		t.Fatalf("expected error for band past the layout")
	}
	if _, err := v.RasterizeBand(2, 30, 30); err == nil {
		t.Fatalf("expected error for empty band")
	}
}

func TestRasterizeBand_TallLayoutFitsPerBand(t *testing.T) {
	l := Layout{Width: 10, Height: MaxRasterSide, Background: color.RGBA{0xff, 0xff, 0xff, 0xff}}
	img, err := RasterizeBand(l, 2, MaxRasterSide-100, MaxRasterSide)
	if err != nil {
		t.Fatalf("RasterizeBand: %v", err)
	}
	if got := img.Bounds().Dy(); got != 200 {
		t.Fatalf("height = %d; want 200", got)
	}
}

func TestTemplateView_UsesColors(t *testing.T) {
	tpl := model.Template{
		Title:        "PLAN",
		RuleHeading:  "RULE",
		BlockA:       model.TemplateBlock{Title: "A", Cards: [2]model.TemplateCard{{Heading: "A1", Items: []string{"x"}}, {Heading: "A2"}}},
		BlockB:       model.TemplateBlock{Title: "B", Cards: [2]model.TemplateCard{{Heading: "B1"}, {Heading: "B2"}}},
		LeisureLimit: "HARD LIMIT",
		Footer:       "GO",
	}
	v := NewTemplateView(tpl, model.Colors{Primary: "#005792", Background: "#E8F6FF"})
	l, err := v.Layout()
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	primary := color.RGBA{0x00, 0x57, 0x92, 0xff}
	found := false
	for _, b := range l.Boxes {
		if b.Kind == KindPanel && b.Fill == primary {
			found = true
		}
	}
	if !found {
		t.Fatalf("no header bar in primary color")
	}
	for _, want := range []string{"PLAN", "A1", "• x", "HARD LIMIT", "GO"} {
		if !containsLine(l.Text(), want) {
			t.Fatalf("layout missing %q", want)
		}
	}
}

func TestTemplateView_InvalidColor(t *testing.T) {
	v := NewTemplateView(model.Template{}, model.Colors{Primary: "blue-ish", Background: "#fff"})
	if _, err := v.Layout(); err == nil {
		t.Fatalf("expected color error")
	}
	if w, h := v.Size(); w != 0 || h != 0 {
		t.Fatalf("size = %dx%d", w, h)
	}
}

func TestHeaderText_Contrast(t *testing.T) {
	if headerText(color.RGBA{0x00, 0x57, 0x92, 0xff}) != white {
		t.Fatalf("dark bar should use white text")
	}
	if headerText(color.RGBA{0xff, 0xf0, 0x80, 0xff}) != ink {
		t.Fatalf("light bar should use dark text")
	}
}
