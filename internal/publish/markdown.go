package publish

import (
	"bytes"
	"strings"

	"lockin-cli/internal/model"
	"lockin-cli/internal/render"
)

// RenderPlanMarkdown renders the plan the way the exported page reads,
// top to bottom.
func RenderPlanMarkdown(doc model.Document) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + render.PlanHeading)
	writeLn("")
	writeLn("## Rules")
	writeLn("")
	if len(doc.Rules) == 0 {
		writeLn("_No rules._")
	}
	for _, r := range doc.Rules {
		writeLn("- " + inline(r.Text))
	}
	writeLn("")
	writeLn("## Blocks")
	for _, b := range doc.Blocks {
		writeLn("")
		writeLn("### " + inline(b.Title))
		if strings.TrimSpace(b.Subtitle) != "" {
			writeLn("")
			writeLn("_" + inline(b.Subtitle) + "_")
		}
		writeLn("")
		for _, t := range b.Subtasks {
			writeLn("- [ ] " + inline(t.Text))
		}
	}
	if len(doc.Blocks) == 0 {
		writeLn("")
		writeLn("_No blocks._")
	}
	writeLn("")
	writeLn("---")
	writeLn("")
	writeLn("*" + render.PlanFooter + "*")
	return buf.String()
}

func RenderTemplateMarkdown(t model.Template) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + inline(t.Title))
	writeLn("")
	writeLn("**" + inline(t.Tagline) + "**")
	writeLn("")
	writeLn("> **" + inline(t.RuleHeading) + "**")
	writeLn(">")
	writeLn("> " + inline(t.RuleBody))
	for i, blk := range []model.TemplateBlock{t.BlockA, t.BlockB} {
		writeLn("")
		writeLn("## " + inline(blk.Title))
		writeLn("")
		writeLn(inline(blk.Description))
		for j, c := range blk.Cards {
			writeLn("")
			writeLn("### " + inline(c.Heading))
			writeLn("")
			for _, it := range c.Items {
				writeLn("- " + inline(it))
			}
			if i == 1 && j == 0 && strings.TrimSpace(t.LeisureLimit) != "" {
				writeLn("")
				writeLn("**" + inline(t.LeisureLimit) + "**")
			}
		}
	}
	writeLn("")
	writeLn("---")
	writeLn("")
	writeLn("**" + inline(t.Footer) + "**")
	return buf.String()
}

// inline keeps user text on one Markdown line.
func inline(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
