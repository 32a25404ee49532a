package tui

import (
	"fmt"
	"strings"
	"time"

	"lockin-cli/internal/editfield"
	"lockin-cli/internal/export"
	"lockin-cli/internal/publish"
	"lockin-cli/internal/render"
	tpl "lockin-cli/internal/template"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
)

const flashDuration = 2500 * time.Millisecond

func (m appModel) Init() tea.Cmd {
	return waitForChange(m.planChanges, m.tplChanges)
}

// waitForChange delivers one storeChangedMsg per commit. It stops once the
// subscriptions are cancelled.
func waitForChange(plan, template <-chan struct{}) tea.Cmd {
	if plan == nil || template == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case _, ok := <-plan:
			if !ok {
				return nil
			}
		case _, ok := <-template:
			if !ok {
				return nil
			}
		}
		return storeChangedMsg{}
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if w := msg.Width - 6; w > 10 {
			m.input.Width = w
		}
		return m, nil

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
			m.flashErr = false
		}
		return m, nil

	case storeChangedMsg:
		m.clampCursor()
		return m, waitForChange(m.planChanges, m.tplChanges)

	case exportDoneMsg:
		m.exporting = false
		if msg.err != nil {
			return m, m.showFlash("export failed: "+msg.err.Error(), true)
		}
		s := fmt.Sprintf("exported %s (%s, %d page(s))", msg.res.Location, humanize.Bytes(uint64(msg.res.Bytes)), msg.res.Pages)
		if msg.res.Clipped {
			s += "; content taller than one page was clipped"
		}
		return m, m.showFlash(s, false)

	case tea.KeyMsg:
		switch {
		case m.modal != modalNone:
			return m.updateModal(msg)
		case m.target.mode != inputNone:
			return m.updateInput(msg)
		default:
			return m.updateNav(msg)
		}
	}
	return m, nil
}

func (m *appModel) showFlash(s string, isErr bool) tea.Cmd {
	m.flashSeq++
	seq := m.flashSeq
	m.flash = s
	m.flashErr = isErr
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

func (m appModel) updateNav(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
		return m, tea.Quit

	case "j", "down":
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = len(m.rows()) - 1
		m.clampCursor()

	case "enter", "e":
		return m.activateRow()

	case "d", "x", "delete":
		return m.deleteRow()

	case "R":
		m.modal = modalConfirmReset
		m.confirmFocus = confirmFocusCancel

	case "p":
		return m.startExport()

	case "P":
		if m.pagination == export.PaginationSlice {
			m.pagination = export.PaginationSingle
		} else {
			m.pagination = export.PaginationSlice
		}
		return m, m.showFlash("pagination: "+string(m.pagination), false)

	case "y":
		md := publish.RenderPlanMarkdown(m.plan.Snapshot())
		if m.view == viewTemplate {
			md = publish.RenderTemplateMarkdown(m.tpl.Template())
		}
		if err := copyToClipboard(md); err != nil {
			return m, m.showFlash("copy failed: "+err.Error(), true)
		}
		return m, m.showFlash("copied "+m.view.String()+" markdown", false)

	case "v":
		m.preview = !m.preview

	case "t", "tab":
		if m.view == viewPlan {
			m.view = viewTemplate
		} else {
			m.view = viewPlan
		}
		m.cursor = 0
		m.savePrefs()
	}
	return m, nil
}

// activateRow opens the selected row for editing, or the input for an add
// row prefilled with any kept buffer.
func (m appModel) activateRow() (tea.Model, tea.Cmd) {
	r, ok := m.selectedRow()
	if !ok {
		return m, nil
	}
	if r.isAdd() {
		var initial string
		switch r.kind {
		case rowAddRule:
			m.target = inputTarget{mode: inputAddRule}
			initial = m.rules.Input.Text()
		case rowAddBlock:
			m.target = inputTarget{mode: inputAddBlock}
			initial = m.blocks.Input.Text()
		case rowAddSubtask:
			m.target = inputTarget{mode: inputAddSubtask, blockID: r.id}
			initial = m.subtaskEditor(r.id).Input.Text()
		case rowTplAddItem:
			m.target = inputTarget{mode: inputAddItem, ref: r.ref, card: r.card}
		}
		m.openInput(initial)
		return m, nil
	}

	key, ok := r.key()
	if !ok || !m.beginEdit(r, key) {
		return m, m.showFlash("nothing to edit", true)
	}
	m.target = inputTarget{mode: inputEdit}
	m.openInput(m.session.Draft())
	return m, nil
}

func (m appModel) beginEdit(r row, key editfield.Key) bool {
	switch r.kind {
	case rowRule:
		return m.rules.BeginEdit(r.id)
	case rowBlock:
		return m.blocks.BeginEdit(r.id)
	case rowSubtask:
		return m.subtaskEditor(r.id).BeginEdit(r.subID)
	case rowTplField, rowTplItem:
		current, err := tpl.Get(m.tpl.Template(), r.field)
		if err != nil {
			return false
		}
		field, ts, log := r.field, m.tpl, m.log
		m.session.Begin(key, current, tpl.FallbackText, func(v string) {
			if err := ts.SetField(field, v); err != nil {
				log.Warn().Err(err).Str("field", field).Msg("template edit dropped")
			}
		})
		return true
	}
	return false
}

func (m *appModel) openInput(initial string) {
	m.input.SetValue(initial)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *appModel) closeInput() {
	m.target = inputTarget{}
	m.input.Blur()
	m.input.SetValue("")
}

func (m appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.submitInput()
	case "esc":
		switch m.target.mode {
		case inputEdit:
			m.session.Cancel()
		case inputAddRule:
			m.rules.Input.Set(m.input.Value())
		case inputAddBlock:
			m.blocks.Input.Set(m.input.Value())
		case inputAddSubtask:
			m.subtaskEditor(m.target.blockID).Input.Set(m.input.Value())
		}
		m.closeInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.target.mode == inputEdit {
		m.session.SetDraft(m.input.Value())
	}
	return m, cmd
}

func (m appModel) submitInput() (tea.Model, tea.Cmd) {
	v := m.input.Value()
	switch m.target.mode {
	case inputEdit:
		m.session.SetDraft(v)
		m.session.Commit()

	case inputAddRule:
		m.rules.Input.Set(v)
		if _, ok := m.rules.Add(); !ok {
			return m, m.showFlash("rule text is empty", true)
		}

	case inputAddBlock:
		m.blocks.Input.Set(v)
		// Empty v becomes store.DefaultBlockTitle.
		m.blocks.Add()

	case inputAddSubtask:
		blockID := m.target.blockID
		e := m.subtaskEditor(blockID)
		e.Input.Set(v)
		if _, ok := e.Add(); !ok {
			if _, exists := m.plan.Block(blockID); !exists {
				delete(m.subtasks, blockID)
				m.closeInput()
				return m, m.showFlash("block no longer exists", true)
			}
			return m, m.showFlash("subtask text is empty", true)
		}

	case inputAddItem:
		text := strings.TrimSpace(v)
		if text == "" {
			return m, m.showFlash("item text is empty", true)
		}
		m.tpl.AddItem(m.target.ref, m.target.card, text)
	}
	m.closeInput()
	m.clampCursor()
	return m, nil
}

func (m appModel) deleteRow() (tea.Model, tea.Cmd) {
	r, ok := m.selectedRow()
	if !ok {
		return m, nil
	}
	deleted := false
	switch r.kind {
	case rowRule:
		deleted = m.rules.Delete(r.id)
	case rowBlock:
		deleted = m.blocks.Delete(r.id)
		delete(m.subtasks, r.id)
	case rowSubtask:
		deleted = m.subtaskEditor(r.id).Delete(r.subID)
	case rowTplItem:
		// Item fields are positional; an open edit would point at a shifted item.
		if key, ok := m.session.Active(); ok && key.Kind() == "tpl" {
			m.session.Cancel()
		}
		deleted = m.tpl.DeleteItem(r.ref, r.card, r.item)
	default:
		return m, m.showFlash("nothing to delete here", true)
	}
	if !deleted {
		return m, m.showFlash("already gone", true)
	}
	m.clampCursor()
	return m, nil
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
	case "enter":
		if m.confirmFocus == confirmFocusConfirm {
			return m.confirmReset()
		}
		m.modal = modalNone
	case "y":
		return m.confirmReset()
	case "n", "esc", "q":
		m.modal = modalNone
	}
	return m, nil
}

func (m appModel) confirmReset() (tea.Model, tea.Cmd) {
	m.modal = modalNone
	if m.view == viewTemplate {
		if key, ok := m.session.Active(); ok && key.Kind() == "tpl" {
			m.session.Cancel()
		}
		m.tpl.Reset()
		m.cursor = 0
		return m, m.showFlash("template reset to defaults", false)
	}
	m.session.Cancel()
	for id := range m.subtasks {
		delete(m.subtasks, id)
	}
	m.plan.Reset()
	m.cursor = 0
	return m, m.showFlash("plan cleared", false)
}

type exportSource interface {
	export.Region
	export.Controls
}

func (m appModel) startExport() (tea.Model, tea.Cmd) {
	if m.exporting {
		return m, m.showFlash(export.ErrExportInProgress.Error(), true)
	}
	var src exportSource = render.NewPlanView(m.plan.Snapshot())
	if m.view == viewTemplate {
		src = render.NewTemplateView(m.tpl.Template(), m.colors)
	}
	m.exporting = true
	ctx, pipeline := m.ctx, m.pipeline
	sink := export.FileSink{Dir: m.exportDir}
	opts := export.Options{Pagination: m.pagination, Scale: export.DefaultScale}
	flash := m.showFlash("exporting…", false)
	return m, tea.Batch(flash, func() tea.Msg {
		res, err := pipeline.Export(ctx, src, src, sink, opts)
		return exportDoneMsg{res: res, err: err}
	})
}
