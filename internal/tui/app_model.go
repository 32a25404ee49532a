package tui

import (
	"context"

	"lockin-cli/internal/editfield"
	"lockin-cli/internal/editor"
	"lockin-cli/internal/export"
	"lockin-cli/internal/model"
	"lockin-cli/internal/store"
	tpl "lockin-cli/internal/template"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/rs/zerolog"
)

type appModel struct {
	ctx context.Context
	log zerolog.Logger

	plan *store.Store
	tpl  *tpl.Store

	// The model is copied on every Update, so shared state lives behind
	// pointers.
	session  *editfield.Session
	rules    *editor.RulesEditor
	blocks   *editor.BlocksEditor
	subtasks map[string]*editor.SubtasksEditor

	planChanges <-chan struct{}
	tplChanges  <-chan struct{}
	unsubscribe func()

	input  textinput.Model
	target inputTarget

	view    view
	preview bool
	cursor  int

	width  int
	height int

	modal        modalKind
	confirmFocus confirmModalFocus

	dir        string
	exportDir  string
	pagination export.Pagination
	pipeline   *export.Pipeline
	exporting  bool
	colors     model.Colors

	flash    string
	flashErr bool
	flashSeq int
}

func newAppModel(ctx context.Context, opts Options) appModel {
	if opts.Slot == nil {
		opts.Slot = store.NewMemSlot()
	}
	if opts.Pagination == "" {
		opts.Pagination = export.PaginationSingle
	}

	m := appModel{
		ctx:        ctx,
		log:        opts.Log,
		plan:       store.Open(ctx, opts.Slot, store.WithLogger(opts.Log)),
		tpl:        tpl.Open(ctx, opts.Slot, tpl.WithLogger(opts.Log)),
		session:    &editfield.Session{},
		subtasks:   map[string]*editor.SubtasksEditor{},
		dir:        opts.Dir,
		exportDir:  opts.ExportDir,
		pagination: opts.Pagination,
		pipeline:   export.NewPipeline(opts.Log),
		colors:     tpl.DefaultColors(),
	}
	m.rules = editor.NewRulesEditor(m.plan, m.session)
	m.blocks = editor.NewBlocksEditor(m.plan, m.session)

	if m.plan.EnsureBlock(store.StartupBlockTitle) {
		m.log.Debug().Str("title", store.StartupBlockTitle).Msg("seeded empty plan")
	}

	if prefs, err := store.LoadPrefs(opts.Dir); err == nil {
		m.view = parseView(prefs.View)
		if c, err := tpl.NormalizeColors(prefs.Colors); err == nil {
			m.colors = c
		}
	}

	m.input = textinput.New()
	m.input.CharLimit = 500
	m.input.Width = 60
	m.input.Prompt = ""

	var cancelPlan, cancelTpl func()
	m.planChanges, cancelPlan = m.plan.Subscribe()
	m.tplChanges, cancelTpl = m.tpl.Subscribe()
	m.unsubscribe = func() {
		cancelPlan()
		cancelTpl()
	}
	return m
}

func (m appModel) subtaskEditor(blockID string) *editor.SubtasksEditor {
	e, ok := m.subtasks[blockID]
	if !ok {
		e = editor.NewSubtasksEditor(m.plan, m.session, blockID)
		m.subtasks[blockID] = e
	}
	return e
}

func (m appModel) rows() []row {
	if m.view == viewTemplate {
		return templateRows(m.tpl.Template())
	}
	return planRows(m.plan.Snapshot())
}

func (m appModel) selectedRow() (row, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return row{}, false
	}
	return rows[m.cursor], true
}

func (m *appModel) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m appModel) savePrefs() {
	prefs, err := store.LoadPrefs(m.dir)
	if err != nil {
		prefs = &store.Prefs{}
	}
	prefs.View = m.view.String()
	if err := store.SavePrefs(m.dir, prefs); err != nil {
		m.log.Warn().Err(err).Msg("prefs write failed")
	}
}

// persistWarning reports the last failed snapshot write of the current view.
func (m appModel) persistWarning() string {
	var err error
	if m.view == viewTemplate {
		err = m.tpl.LastPersistError()
	} else {
		err = m.plan.LastPersistError()
	}
	if err == nil {
		return ""
	}
	return "not saved: " + err.Error()
}
