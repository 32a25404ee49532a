package tui

import (
	"strconv"

	"lockin-cli/internal/editfield"
	"lockin-cli/internal/model"
	"lockin-cli/internal/render"
	tpl "lockin-cli/internal/template"
)

type rowKind int

const (
	rowRule rowKind = iota
	rowAddRule
	rowBlock
	rowSubtask
	rowAddSubtask
	rowAddBlock
	rowTplField
	rowTplItem
	rowTplAddItem
)

// row is one selectable line. Section starts a heading above the row.
type row struct {
	kind    rowKind
	id      string
	subID   string
	field   string
	ref     tpl.BlockRef
	card    int
	item    int
	label   string
	text    string
	section string
	indent  int
}

// key is the edit-session key for editable rows.
func (r row) key() (editfield.Key, bool) {
	switch r.kind {
	case rowRule:
		return editfield.RuleKey(r.id), true
	case rowBlock:
		return editfield.BlockTitleKey(r.id), true
	case rowSubtask:
		return editfield.SubtaskKey(r.id, r.subID), true
	case rowTplField, rowTplItem:
		return editfield.TemplateKey(r.field), true
	}
	return "", false
}

func (r row) isAdd() bool {
	switch r.kind {
	case rowAddRule, rowAddBlock, rowAddSubtask, rowTplAddItem:
		return true
	}
	return false
}

func planRows(doc model.Document) []row {
	rows := make([]row, 0, len(doc.Rules)+len(doc.Blocks)*4+2)
	section := "Rules"
	for _, r := range doc.Rules {
		rows = append(rows, row{kind: rowRule, id: r.ID, text: r.Text, section: section})
		section = ""
	}
	rows = append(rows, row{kind: rowAddRule, label: "+ add rule", section: section})

	section = "Blocks"
	for _, b := range doc.Blocks {
		rows = append(rows, row{kind: rowBlock, id: b.ID, text: b.Title, label: b.Subtitle, section: section})
		section = ""
		for _, t := range b.Subtasks {
			rows = append(rows, row{kind: rowSubtask, id: b.ID, subID: t.ID, text: t.Text, indent: 1})
		}
		rows = append(rows, row{kind: rowAddSubtask, id: b.ID, label: "+ add subtask", indent: 1})
	}
	rows = append(rows, row{kind: rowAddBlock, label: "+ add block", section: section})
	return rows
}

var templateFieldLabels = map[string]string{
	"title":        "Title",
	"tagline":      "Tagline",
	"ruleHeading":  "Rule heading",
	"ruleBody":     "Rule",
	"leisureLimit": "Leisure limit",
	"footer":       "Footer",
}

func templateRows(t model.Template) []row {
	var rows []row
	scalar := func(field, section string) {
		v, _ := tpl.Get(t, field)
		rows = append(rows, row{kind: rowTplField, field: field, label: templateFieldLabels[field], text: v, section: section})
	}
	scalar("title", "Header")
	scalar("tagline", "")
	scalar("ruleHeading", "")
	scalar("ruleBody", "")

	for _, ref := range []tpl.BlockRef{tpl.BlockA, tpl.BlockB} {
		b := t.BlockA
		name := "Block A"
		if ref == tpl.BlockB {
			b = t.BlockB
			name = "Block B"
		}
		prefix := string(ref)
		rows = append(rows,
			row{kind: rowTplField, field: prefix + ".title", label: "Title", text: b.Title, section: name},
			row{kind: rowTplField, field: prefix + ".description", label: "Description", text: b.Description},
		)
		for ci, c := range b.Cards {
			n := ci + 1
			rows = append(rows, row{kind: rowTplField, field: prefix + ".card" + strconv.Itoa(n) + ".heading", label: "Card " + strconv.Itoa(n), text: c.Heading, indent: 1})
			for ii, item := range c.Items {
				rows = append(rows, row{kind: rowTplItem, field: tpl.ItemField(ref, n, ii+1), ref: ref, card: n, item: ii + 1, text: item, indent: 2})
			}
			rows = append(rows, row{kind: rowTplAddItem, ref: ref, card: n, label: "+ add item", indent: 2})
		}
	}

	scalar("leisureLimit", "Footer")
	scalar("footer", "")
	return rows
}

// planHeader is the fixed copy shown above the plan.
func planHeader() []string {
	return []string{render.PlanHeading, render.PlanSubheading}
}
