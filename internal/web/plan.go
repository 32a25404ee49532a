package web

import (
	"errors"
	"net/http"
	"strings"

	"lockin-cli/internal/editfield"
	"lockin-cli/internal/editor"
	"lockin-cli/internal/export"
	"lockin-cli/internal/model"
	"lockin-cli/internal/render"
	"lockin-cli/internal/store"
	tpl "lockin-cli/internal/template"
)

// fieldVM is one inline-editable value. While editing, Value holds the draft.
type fieldVM struct {
	Key     editfield.Key
	Value   string
	Editing bool
}

type ruleVM struct {
	ID    string
	Field fieldVM
}

type subtaskVM struct {
	ID    string
	Field fieldVM
}

type blockVM struct {
	ID       string
	Title    fieldVM
	Subtitle string
	Subtasks []subtaskVM
	Draft    string
}

type planVM struct {
	Heading    string
	Subheading string
	Footer     string
	Rules      []ruleVM
	Blocks     []blockVM
	RuleDraft  string
	BlockDraft string
	Pagination string
	Warning    string
}

func (s *Server) fieldLocked(key editfield.Key, value string) fieldVM {
	if s.session.IsEditing(key) {
		return fieldVM{Key: key, Value: s.session.Draft(), Editing: true}
	}
	return fieldVM{Key: key, Value: value}
}

func (s *Server) planVM() planVM {
	doc := s.cfg.Plan.Snapshot()

	s.mu.Lock()
	defer s.mu.Unlock()

	vm := planVM{
		Heading:    render.PlanHeading,
		Subheading: render.PlanSubheading,
		Footer:     render.PlanFooter,
		Rules:      make([]ruleVM, 0, len(doc.Rules)),
		Blocks:     make([]blockVM, 0, len(doc.Blocks)),
		RuleDraft:  s.rules.Input.Text(),
		BlockDraft: s.blocks.Input.Text(),
		Pagination: string(s.cfg.Pagination),
		Warning:    persistWarning(s.cfg.Plan.LastPersistError()),
	}
	for _, r := range doc.Rules {
		vm.Rules = append(vm.Rules, ruleVM{ID: r.ID, Field: s.fieldLocked(editfield.RuleKey(r.ID), r.Text)})
	}
	for _, b := range doc.Blocks {
		bv := blockVM{
			ID:       b.ID,
			Title:    s.fieldLocked(editfield.BlockTitleKey(b.ID), b.Title),
			Subtitle: b.Subtitle,
			Subtasks: make([]subtaskVM, 0, len(b.Subtasks)),
		}
		if e, ok := s.subtasks[b.ID]; ok {
			bv.Draft = e.Input.Text()
		}
		for _, t := range b.Subtasks {
			bv.Subtasks = append(bv.Subtasks, subtaskVM{ID: t.ID, Field: s.fieldLocked(editfield.SubtaskKey(b.ID, t.ID), t.Text)})
		}
		vm.Blocks = append(vm.Blocks, bv)
	}
	return vm
}

type homeVM struct {
	StreamURL string
	Main      planVM
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	s.writeHTMLTemplate(w, "plan.html", homeVM{StreamURL: "/events?view=plan", Main: s.planVM()})
}

// subtaskEditorLocked returns the editor for blockID, keeping its input
// buffer across requests.
func (s *Server) subtaskEditorLocked(blockID string) *editor.SubtasksEditor {
	if s.subtasks == nil {
		s.subtasks = map[string]*editor.SubtasksEditor{}
	}
	e, ok := s.subtasks[blockID]
	if !ok {
		e = editor.NewSubtasksEditor(s.cfg.Plan, &s.session, blockID)
		s.subtasks[blockID] = e
	}
	return e
}

// knownSubtaskEditorLocked is subtaskEditorLocked for callers that must not
// create an editor for a block the store does not have.
func (s *Server) knownSubtaskEditorLocked(blockID string) (*editor.SubtasksEditor, bool) {
	if _, ok := s.cfg.Plan.Block(blockID); !ok {
		return nil, false
	}
	return s.subtaskEditorLocked(blockID), true
}

func (s *Server) handleRuleAdd(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.rules.Input.Set(r.FormValue("text"))
	_, ok := s.rules.Add()
	s.mu.Unlock()
	if !ok {
		// Rejected input stays in the buffer and is shown again.
		s.hub.Broadcast()
	}
	redirectBack(w, r, "/")
}

func (s *Server) handleRuleDelete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.rules.Delete(r.PathValue("ruleId"))
	s.mu.Unlock()
	redirectBack(w, r, "/")
}

func (s *Server) handleBlockAdd(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.blocks.Input.Set(r.FormValue("title"))
	// A blank title becomes store.DefaultBlockTitle.
	s.blocks.Add()
	s.mu.Unlock()
	redirectBack(w, r, "/")
}

func (s *Server) handleBlockDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("blockId")
	s.mu.Lock()
	s.blocks.Delete(id)
	delete(s.subtasks, id)
	s.mu.Unlock()
	redirectBack(w, r, "/")
}

func (s *Server) handleSubtaskAdd(w http.ResponseWriter, r *http.Request) {
	blockID := r.PathValue("blockId")
	s.mu.Lock()
	e := s.subtaskEditorLocked(blockID)
	e.Input.Set(r.FormValue("text"))
	_, ok := e.Add()
	if _, exists := s.cfg.Plan.Block(blockID); !exists {
		delete(s.subtasks, blockID)
	}
	s.mu.Unlock()
	if !ok {
		s.hub.Broadcast()
	}
	redirectBack(w, r, "/")
}

func (s *Server) handleSubtaskDelete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if e, ok := s.knownSubtaskEditorLocked(r.PathValue("blockId")); ok {
		e.Delete(r.PathValue("subtaskId"))
	}
	s.mu.Unlock()
	redirectBack(w, r, "/")
}

// handleReset requires confirm=yes; the page asks before submitting.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.FormValue("confirm") != "yes" {
		http.Error(w, "reset requires confirmation", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.session.Cancel()
	s.subtasks = nil
	s.mu.Unlock()
	s.cfg.Plan.Reset()
	redirectBack(w, r, "/")
}

// beginEditLocked opens key in the session. It reports false when the value
// behind key no longer exists.
func (s *Server) beginEditLocked(key editfield.Key) bool {
	id := key.ID()
	switch key.Kind() {
	case "rule":
		return s.rules.BeginEdit(id)
	case "block":
		return s.blocks.BeginEdit(id)
	case "task":
		blockID, subtaskID, ok := strings.Cut(id, "/")
		if !ok {
			return false
		}
		e, ok := s.knownSubtaskEditorLocked(blockID)
		return ok && e.BeginEdit(subtaskID)
	case "tpl":
		current, err := tpl.Get(s.cfg.Template.Template(), id)
		if err != nil {
			return false
		}
		s.session.Begin(key, current, tpl.FallbackText, func(v string) {
			if err := s.cfg.Template.SetField(id, v); err != nil {
				s.cfg.Log.Warn().Err(err).Str("field", id).Msg("template edit dropped")
			}
		})
		return true
	}
	return false
}

func editFallback(key editfield.Key) string {
	if key.Kind() == "tpl" {
		return "/template"
	}
	return "/"
}

func (s *Server) handleEditBegin(w http.ResponseWriter, r *http.Request) {
	key := editfield.Key(strings.TrimSpace(r.URL.Query().Get("key")))
	s.mu.Lock()
	ok := s.beginEditLocked(key)
	s.mu.Unlock()
	if !ok {
		http.Error(w, "nothing to edit for "+string(key), http.StatusNotFound)
		return
	}
	s.hub.Broadcast()
	redirectBack(w, r, editFallback(key))
}

// handleEditCommit commits the active field. A key that no longer matches
// the active field is a stale form and is ignored.
func (s *Server) handleEditCommit(w http.ResponseWriter, r *http.Request) {
	key := editfield.Key(r.FormValue("key"))
	s.mu.Lock()
	if s.session.IsEditing(key) {
		s.session.SetDraft(r.FormValue("value"))
		s.session.Commit()
	}
	s.mu.Unlock()
	s.hub.Broadcast()
	redirectBack(w, r, editFallback(key))
}

func (s *Server) handleEditCancel(w http.ResponseWriter, r *http.Request) {
	key := editfield.Key(r.FormValue("key"))
	s.mu.Lock()
	s.session.Cancel()
	s.mu.Unlock()
	s.hub.Broadcast()
	redirectBack(w, r, editFallback(key))
}

type exportView interface {
	export.Region
	export.Controls
}

func (s *Server) exportView(variant string) (exportView, error) {
	switch strings.ToLower(strings.TrimSpace(variant)) {
	case "", "plan":
		return render.NewPlanView(s.cfg.Plan.Snapshot()), nil
	case "template":
		return render.NewTemplateView(s.cfg.Template.Template(), s.colors()), nil
	}
	return nil, errors.New("invalid variant (expected plan|template)")
}

func (s *Server) colors() model.Colors {
	prefs, err := store.LoadPrefs(s.cfg.Dir)
	if err != nil {
		return tpl.DefaultColors()
	}
	c, err := tpl.NormalizeColors(prefs.Colors)
	if err != nil {
		return tpl.DefaultColors()
	}
	return c
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := s.cfg.Pagination
	if v := q.Get("pagination"); v != "" {
		parsed, err := export.ParsePagination(v)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		p = parsed
	}
	view, err := s.exportView(q.Get("variant"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	_, err = s.pipeline.Export(r.Context(), view, view, export.HTTPSink{W: w}, export.Options{
		Pagination: p,
		Scale:      export.DefaultScale,
	})
	if err == nil {
		return
	}
	var ee *export.Error
	switch {
	case errors.Is(err, export.ErrExportInProgress):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &ee) && ee.Stage == export.StageEmit:
		// The response may be partly written; the client sees a broken download.
		s.cfg.Log.Warn().Err(err).Msg("export download interrupted")
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
