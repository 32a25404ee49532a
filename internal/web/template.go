package web

import (
	"net/http"
	"strconv"
	"strings"

	"lockin-cli/internal/editfield"
	"lockin-cli/internal/model"
	"lockin-cli/internal/store"
	tpl "lockin-cli/internal/template"
)

type itemVM struct {
	N     int
	Field fieldVM
}

type cardVM struct {
	Ref     tpl.BlockRef
	N       int
	Heading fieldVM
	Items   []itemVM
}

type tplBlockVM struct {
	Ref         tpl.BlockRef
	Title       fieldVM
	Description fieldVM
	Cards       []cardVM
}

type templateVM struct {
	Title        fieldVM
	Tagline      fieldVM
	RuleHeading  fieldVM
	RuleBody     fieldVM
	Blocks       []tplBlockVM
	LeisureLimit fieldVM
	Footer       fieldVM
	Colors       model.Colors
	Pagination   string
	Warning      string
}

func (s *Server) tplFieldLocked(field, value string) fieldVM {
	return s.fieldLocked(editfield.TemplateKey(field), value)
}

func (s *Server) templateVM() templateVM {
	t := s.cfg.Template.Template()
	colors := s.colors()

	s.mu.Lock()
	defer s.mu.Unlock()

	vm := templateVM{
		Title:        s.tplFieldLocked("title", t.Title),
		Tagline:      s.tplFieldLocked("tagline", t.Tagline),
		RuleHeading:  s.tplFieldLocked("ruleHeading", t.RuleHeading),
		RuleBody:     s.tplFieldLocked("ruleBody", t.RuleBody),
		LeisureLimit: s.tplFieldLocked("leisureLimit", t.LeisureLimit),
		Footer:       s.tplFieldLocked("footer", t.Footer),
		Colors:       colors,
		Pagination:   string(s.cfg.Pagination),
		Warning:      persistWarning(s.cfg.Template.LastPersistError()),
	}
	for _, ref := range []tpl.BlockRef{tpl.BlockA, tpl.BlockB} {
		b := t.BlockA
		if ref == tpl.BlockB {
			b = t.BlockB
		}
		prefix := string(ref)
		bv := tplBlockVM{
			Ref:         ref,
			Title:       s.tplFieldLocked(prefix+".title", b.Title),
			Description: s.tplFieldLocked(prefix+".description", b.Description),
		}
		for ci, c := range b.Cards {
			n := ci + 1
			cv := cardVM{
				Ref:     ref,
				N:       n,
				Heading: s.tplFieldLocked(prefix+".card"+strconv.Itoa(n)+".heading", c.Heading),
			}
			for ii, item := range c.Items {
				cv.Items = append(cv.Items, itemVM{N: ii + 1, Field: s.tplFieldLocked(tpl.ItemField(ref, n, ii+1), item)})
			}
			bv.Cards = append(bv.Cards, cv)
		}
		vm.Blocks = append(vm.Blocks, bv)
	}
	return vm
}

type templatePageVM struct {
	StreamURL string
	Main      templateVM
}

func (s *Server) handleTemplate(w http.ResponseWriter, r *http.Request) {
	s.writeHTMLTemplate(w, "template.html", templatePageVM{StreamURL: "/events?view=template", Main: s.templateVM()})
}

// cardForm reads the block and card of a template item form.
func cardForm(r *http.Request) (tpl.BlockRef, int, error) {
	ref, err := tpl.ParseBlockRef(r.FormValue("block"))
	if err != nil {
		return "", 0, err
	}
	n, err := strconv.Atoi(r.FormValue("card"))
	if err != nil {
		return "", 0, err
	}
	return ref, n, nil
}

func (s *Server) handleTemplateItemAdd(w http.ResponseWriter, r *http.Request) {
	ref, n, err := cardForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if text := strings.TrimSpace(r.FormValue("text")); text != "" {
		s.cfg.Template.AddItem(ref, n, text)
	}
	redirectBack(w, r, "/template")
}

func (s *Server) handleTemplateItemDelete(w http.ResponseWriter, r *http.Request) {
	ref, n, err := cardForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	item, err := strconv.Atoi(r.FormValue("item"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	// Item fields are positional; an open edit would point at a shifted item.
	if key, ok := s.session.Active(); ok && key.Kind() == "tpl" {
		s.session.Cancel()
	}
	s.cfg.Template.DeleteItem(ref, n, item)
	s.mu.Unlock()
	redirectBack(w, r, "/template")
}

func (s *Server) handleTemplateColors(w http.ResponseWriter, r *http.Request) {
	prefs, err := store.LoadPrefs(s.cfg.Dir)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	c := model.Colors{Primary: r.FormValue("primary"), Background: r.FormValue("background")}
	if r.FormValue("reset") == "yes" {
		c = tpl.DefaultColors()
	}
	c, err = tpl.NormalizeColors(c)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	prefs.Colors = c
	if err := store.SavePrefs(s.cfg.Dir, prefs); err != nil {
		s.cfg.Log.Warn().Err(err).Msg("prefs write failed")
	}
	s.hub.Broadcast()
	redirectBack(w, r, "/template")
}

func (s *Server) handleTemplateReset(w http.ResponseWriter, r *http.Request) {
	if r.FormValue("confirm") != "yes" {
		http.Error(w, "reset requires confirmation", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	if key, ok := s.session.Active(); ok && key.Kind() == "tpl" {
		s.session.Cancel()
	}
	s.mu.Unlock()
	s.cfg.Template.Reset()
	redirectBack(w, r, "/template")
}
