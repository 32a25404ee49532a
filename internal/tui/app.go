package tui

import (
	"strings"

	"lockin-cli/internal/publish"
	"lockin-cli/internal/render"

	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
)

func (m appModel) View() string {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	bodyW := w - 2

	header := m.viewHeader(bodyW)
	footer := m.viewFooter(bodyW)
	bodyH := h - lipgloss.Height(header) - lipgloss.Height(footer)
	if bodyH < 3 {
		bodyH = 3
	}

	var body string
	if m.preview {
		body = m.viewPreview(bodyW, bodyH)
	} else {
		body = m.viewRows(bodyW, bodyH)
	}

	out := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	out = lipgloss.NewStyle().Padding(0, 1).Render(out)

	if m.modal == modalConfirmReset {
		title, msg := "Clear plan", "Delete all rules and blocks? This cannot be undone."
		if m.view == viewTemplate {
			title, msg = "Reset template", "Restore the default template text? Colors are kept."
		}
		box := renderConfirmModal(w, title, msg, "Reset", "Cancel", m.confirmFocus)
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, box)
	}
	return out
}

func (m appModel) viewHeader(bodyW int) string {
	if m.view == viewTemplate {
		t := m.tpl.Template()
		bar := lipgloss.NewStyle().
			Bold(true).
			Width(bodyW).
			Padding(0, 1).
			Foreground(lipgloss.Color(m.colors.Background)).
			Background(lipgloss.Color(m.colors.Primary)).
			Render(fitLine(t.Title, bodyW-2))
		return lipgloss.JoinVertical(lipgloss.Left, bar, styleMuted().Render(fitLine(t.Tagline, bodyW)), "")
	}
	lines := planHeader()
	return lipgloss.JoinVertical(lipgloss.Left,
		styleSection().Render(fitLine(lines[0], bodyW)),
		styleMuted().Render(fitLine(lines[1], bodyW)),
		"",
	)
}

func (m appModel) viewFooter(bodyW int) string {
	var lines []string
	lines = append(lines, "")
	if m.view == viewPlan {
		lines = append(lines, styleMuted().Render(fitLine(render.PlanFooter, bodyW)))
	}
	if warn := m.persistWarning(); warn != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(colorFlashError).Render(fitLine(warn, bodyW)))
	}
	if m.flash != "" {
		c := colorFlashOK
		if m.flashErr {
			c = colorFlashError
		}
		lines = append(lines, lipgloss.NewStyle().Foreground(c).Render(fitLine(m.flash, bodyW)))
	}
	lines = append(lines, styleMuted().Render(fitLine(m.helpText(), bodyW)))
	return strings.Join(lines, "\n")
}

func (m appModel) helpText() string {
	if m.target.mode != inputNone {
		return "enter: save   esc: cancel"
	}
	return "j/k: move  enter: edit  d: delete  t: " + otherView(m.view) + "  v: preview  p: pdf (" + string(m.pagination) + ")  P: pagination  y: copy md  R: reset  q: quit"
}

func otherView(v view) string {
	if v == viewPlan {
		return "template"
	}
	return "plan"
}

func (m appModel) viewPreview(bodyW, bodyH int) string {
	md := publish.RenderPlanMarkdown(m.plan.Snapshot())
	if m.view == viewTemplate {
		md = publish.RenderTemplateMarkdown(m.tpl.Template())
	}
	lines := strings.Split(renderMarkdown(md, bodyW), "\n")
	if len(lines) > bodyH {
		lines = lines[:bodyH]
	}
	return strings.Join(lines, "\n")
}

// viewRows renders the row list, scrolled so the cursor stays visible.
func (m appModel) viewRows(bodyW, bodyH int) string {
	rows := m.rows()
	var lines []string
	selLine := 0
	for i, r := range rows {
		if r.section != "" {
			if len(lines) > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, styleSection().Render(fitLine(r.section, bodyW)))
		}
		if i == m.cursor {
			selLine = len(lines)
		}
		lines = append(lines, m.renderRow(r, i == m.cursor, bodyW))
	}
	if len(rows) == 0 {
		lines = append(lines, styleMuted().Render("(empty)"))
	}

	start := 0
	if selLine >= bodyH {
		start = selLine - bodyH + 1
	}
	end := start + bodyH
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n")
}

func (m appModel) renderRow(r row, selected bool, bodyW int) string {
	indent := strings.Repeat("  ", r.indent)

	if m.isInputRow(r) {
		return indent + renderInputLine(bodyW-len(indent), m.input.View())
	}

	var s string
	switch r.kind {
	case rowRule:
		s = "• " + r.text
	case rowBlock:
		s = r.text
		if r.label != "" && !selected {
			s = lipgloss.NewStyle().Bold(true).Render(r.text) + "  " + styleMuted().Render(r.label)
		} else if r.label != "" {
			s += "  " + r.label
		}
	case rowSubtask:
		s = "- " + r.text
	case rowTplField:
		label := r.label + ": "
		if selected {
			s = label + r.text
		} else {
			st := lipgloss.NewStyle()
			if r.field == "leisureLimit" {
				st = st.Foreground(colorLeisureWarn)
			}
			s = styleMuted().Render(label) + st.Render(r.text)
		}
	case rowTplItem:
		s = "· " + r.text
	default:
		s = r.label
		if !selected {
			s = styleMuted().Render(s)
		}
	}

	line := fitLine(indent+s, bodyW)
	if selected {
		return styleSelected().Width(bodyW).Render(line)
	}
	return line
}

// isInputRow reports whether the text input replaces r.
func (m appModel) isInputRow(r row) bool {
	switch m.target.mode {
	case inputEdit:
		key, ok := r.key()
		return ok && m.session.IsEditing(key)
	case inputAddRule:
		return r.kind == rowAddRule
	case inputAddBlock:
		return r.kind == rowAddBlock
	case inputAddSubtask:
		return r.kind == rowAddSubtask && r.id == m.target.blockID
	case inputAddItem:
		return r.kind == rowTplAddItem && r.ref == m.target.ref && r.card == m.target.card
	}
	return false
}
