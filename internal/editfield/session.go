package editfield

import "strings"

// Key names one editable value in a view, e.g. "rule:rule-abcd1234".
type Key string

func RuleKey(id string) Key       { return Key("rule:" + id) }
func BlockTitleKey(id string) Key { return Key("block:" + id) }
func SubtaskKey(blockID, subtaskID string) Key {
	return Key("task:" + blockID + "/" + subtaskID)
}
func TemplateKey(slot string) Key { return Key("tpl:" + slot) }

// Kind returns the prefix of k ("rule", "block", "task", "tpl").
func (k Key) Kind() string {
	s := string(k)
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return s[:i]
	}
	return ""
}

// ID returns the part of k after the kind prefix.
func (k Key) ID() string {
	s := string(k)
	if i := strings.IndexByte(s, ':'); i >= 0 {
		return s[i+1:]
	}
	return ""
}

// Session tracks the single field being edited in a view. Beginning an edit
// on another key cancels the current one without committing it.
type Session struct {
	key    Key
	field  *Field
	commit CommitFunc
}

func (s *Session) Begin(key Key, current, fallback string, commit CommitFunc) {
	s.Cancel()
	f := New(fallback)
	f.Begin(current)
	s.key = key
	s.field = f
	s.commit = commit
}

// Active returns the key being edited, if any.
func (s *Session) Active() (Key, bool) {
	if s.field == nil {
		return "", false
	}
	return s.key, true
}

func (s *Session) IsEditing(key Key) bool {
	return s.field != nil && s.key == key
}

func (s *Session) Draft() string {
	if s.field == nil {
		return ""
	}
	return s.field.Draft()
}

func (s *Session) SetDraft(v string) bool {
	if s.field == nil {
		return false
	}
	return s.field.SetDraft(v)
}

// Commit resolves the draft, hands it to the commit func and clears the
// session. ok is false when nothing was being edited.
func (s *Session) Commit() (Key, string, bool) {
	if s.field == nil {
		return "", "", false
	}
	key, commit := s.key, s.commit
	v, ok := s.field.Commit()
	s.clear()
	if ok && commit != nil {
		commit(v)
	}
	return key, v, ok
}

func (s *Session) Cancel() {
	if s.field != nil {
		s.field.Cancel()
	}
	s.clear()
}

func (s *Session) clear() {
	s.key = ""
	s.field = nil
	s.commit = nil
}
