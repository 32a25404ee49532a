package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"lockin-cli/internal/editfield"
	"lockin-cli/internal/editor"
	"lockin-cli/internal/export"
	"lockin-cli/internal/store"
	tpl "lockin-cli/internal/template"

	"github.com/rs/zerolog"
	"github.com/starfederation/datastar-go/datastar"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

type ServerConfig struct {
	Addr string
	// Dir holds prefs.json (template colors).
	Dir        string
	Plan       *store.Store
	Template   *tpl.Store
	Pagination export.Pagination
	Log        zerolog.Logger
}

type Server struct {
	cfg  ServerConfig
	tmpl *template.Template

	// mu guards the edit session and the list editors.
	mu       sync.Mutex
	session  editfield.Session
	rules    *editor.RulesEditor
	blocks   *editor.BlocksEditor
	subtasks map[string]*editor.SubtasksEditor

	// hub signals edit-session changes, which touch no store.
	hub      store.Hub
	pipeline *export.Pipeline
}

func NewServer(cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.Dir = strings.TrimSpace(cfg.Dir)
	if cfg.Addr == "" {
		return nil, errors.New("web: addr is empty")
	}
	if cfg.Dir == "" {
		return nil, errors.New("web: dir is empty")
	}
	if cfg.Plan == nil || cfg.Template == nil {
		return nil, errors.New("web: plan and template stores are required")
	}
	if cfg.Pagination == "" {
		cfg.Pagination = export.PaginationSingle
	}

	tmpl, err := template.New("base").Funcs(template.FuncMap{
		"trim": strings.TrimSpace,
	}).ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	srv := &Server{cfg: cfg, tmpl: tmpl, pipeline: export.NewPipeline(cfg.Log)}
	srv.rules = editor.NewRulesEditor(cfg.Plan, &srv.session)
	srv.blocks = editor.NewBlocksEditor(cfg.Plan, &srv.session)

	if cfg.Plan.EnsureBlock(store.StartupBlockTitle) {
		cfg.Log.Debug().Str("title", store.StartupBlockTitle).Msg("seeded empty plan")
	}
	return srv, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /edit", s.handleEditBegin)
	mux.HandleFunc("POST /edit", s.handleEditCommit)
	mux.HandleFunc("POST /edit/cancel", s.handleEditCancel)
	mux.HandleFunc("POST /rules", s.handleRuleAdd)
	mux.HandleFunc("POST /rules/{ruleId}/delete", s.handleRuleDelete)
	mux.HandleFunc("POST /blocks", s.handleBlockAdd)
	mux.HandleFunc("POST /blocks/{blockId}/delete", s.handleBlockDelete)
	mux.HandleFunc("POST /blocks/{blockId}/subtasks", s.handleSubtaskAdd)
	mux.HandleFunc("POST /blocks/{blockId}/subtasks/{subtaskId}/delete", s.handleSubtaskDelete)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("GET /template", s.handleTemplate)
	mux.HandleFunc("POST /template/items", s.handleTemplateItemAdd)
	mux.HandleFunc("POST /template/items/delete", s.handleTemplateItemDelete)
	mux.HandleFunc("POST /template/colors", s.handleTemplateColors)
	mux.HandleFunc("POST /template/reset", s.handleTemplateReset)
	mux.HandleFunc("GET /export.pdf", s.handleExport)
	return mux
}

func redirectBack(w http.ResponseWriter, r *http.Request, fallback string) {
	ref := strings.TrimSpace(r.Header.Get("Referer"))
	if ref != "" {
		http.Redirect(w, r, ref, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, fallback, http.StatusSeeOther)
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.css")
	if err != nil || len(b) == 0 {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

// handleEvents streams #lockin-main for the requested view whenever its
// store or the edit session changes.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	var (
		source <-chan struct{}
		cancel func()
		render func() (string, error)
	)
	switch r.URL.Query().Get("view") {
	case "template":
		source, cancel = s.cfg.Template.Subscribe()
		render = func() (string, error) { return s.renderTemplate("template_main", s.templateVM()) }
	default:
		source, cancel = s.cfg.Plan.Subscribe()
		render = func() (string, error) { return s.renderTemplate("plan_main", s.planVM()) }
	}
	defer cancel()
	s.serveDatastarStream(w, r, source, render)
}

func (s *Server) serveDatastarStream(w http.ResponseWriter, r *http.Request, source <-chan struct{}, render func() (string, error)) {
	sse := datastar.NewSSE(w, r)

	edits, cancel := s.hub.Subscribe()
	defer cancel()

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	patch := func() {
		html, err := render()
		if err != nil {
			_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
			return
		}
		if strings.TrimSpace(html) == "" {
			return
		}
		_ = sse.PatchElements(html, datastar.WithSelector("#lockin-main"), datastar.WithMode(datastar.ElementPatchModeOuter))
	}

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case <-source:
			patch()
		case <-edits:
			patch()
		}
	}
}

// persistWarning describes the last failed snapshot write, if any.
func persistWarning(err error) string {
	if err == nil {
		return ""
	}
	return "Changes are kept in memory but could not be saved: " + err.Error()
}
