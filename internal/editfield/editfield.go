// Package editfield holds the view/edit interaction state for inline-editable
// text values.
package editfield

import "strings"

type State int

const (
	Viewing State = iota
	Editing
)

func (s State) String() string {
	if s == Editing {
		return "editing"
	}
	return "viewing"
}

// CommitFunc receives the trimmed (or fallback) value on confirm.
type CommitFunc func(value string)

// Field is one editable value. The stored value lives elsewhere; Field only
// keeps the draft while editing.
type Field struct {
	fallback string
	state    State
	draft    string
}

func New(fallback string) *Field {
	return &Field{fallback: fallback}
}

func (f *Field) State() State { return f.state }
func (f *Field) Editing() bool { return f.state == Editing }
func (f *Field) Draft() string { return f.draft }
func (f *Field) Fallback() string { return f.fallback }

// Begin enters Editing with the draft initialized from current.
func (f *Field) Begin(current string) {
	f.state = Editing
	f.draft = current
}

// SetDraft updates the draft. It is ignored while Viewing.
func (f *Field) SetDraft(s string) bool {
	if f.state != Editing {
		return false
	}
	f.draft = s
	return true
}

// Commit returns the value to store and goes back to Viewing. ok is false
// when the field was not being edited.
func (f *Field) Commit() (string, bool) {
	if f.state != Editing {
		return "", false
	}
	v := Resolve(f.draft, f.fallback)
	f.state = Viewing
	f.draft = ""
	return v, true
}

func (f *Field) Cancel() {
	f.state = Viewing
	f.draft = ""
}

// Resolve trims draft and substitutes fallback when nothing is left.
func Resolve(draft, fallback string) string {
	v := strings.TrimSpace(draft)
	if v == "" {
		return fallback
	}
	return v
}
