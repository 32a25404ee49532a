package editor

import (
	"context"
	"fmt"
	"testing"

	"lockin-cli/internal/editfield"
	"lockin-cli/internal/model"
	"lockin-cli/internal/store"

	"github.com/google/go-cmp/cmp"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	n := 0
	ids := func(prefix string) (string, error) {
		n++
		return fmt.Sprintf("%s-%04d", prefix, n), nil
	}
	return store.Open(context.Background(), store.NewMemSlot(), store.WithIDSource(ids))
}

func TestRulesEditor_AddRejectsBlankAndKeepsBuffer(t *testing.T) {
	s := newStore(t)
	e := NewRulesEditor(s, &editfield.Session{})
	before := s.Snapshot()

	e.Input.Set("   ")
	if _, ok := e.Add(); ok {
		t.Fatalf("expected blank add to be rejected")
	}
	if e.Input.Text() != "   " {
		t.Fatalf("buffer should be retained, got %q", e.Input.Text())
	}
	if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
		t.Fatalf("document changed (-want +got):\n%s", diff)
	}
}

func TestRulesEditor_AddTrimsAndClears(t *testing.T) {
	s := newStore(t)
	e := NewRulesEditor(s, &editfield.Session{})

	e.Input.Set("  No phone before noon ")
	r, ok := e.Add()
	if !ok {
		t.Fatalf("expected add")
	}
	if r.Text != "No phone before noon" {
		t.Fatalf("text = %q", r.Text)
	}
	if e.Input.Text() != "" {
		t.Fatalf("buffer not cleared: %q", e.Input.Text())
	}
	doc := s.Snapshot()
	if last := doc.Rules[len(doc.Rules)-1]; last.ID != r.ID {
		t.Fatalf("rule not appended: %+v", doc.Rules)
	}
}

func TestRulesEditor_EditCommitsThroughSession(t *testing.T) {
	s := newStore(t)
	sess := &editfield.Session{}
	e := NewRulesEditor(s, sess)
	id := s.Snapshot().Rules[0].ID

	if !e.BeginEdit(id) {
		t.Fatalf("BeginEdit failed")
	}
	sess.SetDraft("  ")
	if _, _, ok := sess.Commit(); !ok {
		t.Fatalf("commit failed")
	}
	doc := s.Snapshot()
	r, _ := doc.FindRule(id)
	if r.Text != store.FallbackRuleText {
		t.Fatalf("text = %q; want fallback", r.Text)
	}
}

func TestRulesEditor_BeginEditMissingRule(t *testing.T) {
	s := newStore(t)
	sess := &editfield.Session{}
	if NewRulesEditor(s, sess).BeginEdit("rule-missing") {
		t.Fatalf("expected false for missing rule")
	}
	if _, active := sess.Active(); active {
		t.Fatalf("session should stay idle")
	}
}

func TestBlocksEditor_EmptyTitleUsesDefault(t *testing.T) {
	s := newStore(t)
	e := NewBlocksEditor(s, &editfield.Session{})

	b := e.Add()
	if b.Title != store.DefaultBlockTitle {
		t.Fatalf("title = %q", b.Title)
	}
	if len(b.Subtasks) != 1 || b.Subtasks[0].Text != store.DefaultSubtaskText {
		t.Fatalf("subtasks = %+v", b.Subtasks)
	}

	e.Input.Set(" Deep Work ")
	if got := e.Add().Title; got != "Deep Work" {
		t.Fatalf("title = %q", got)
	}
	if e.Input.Text() != "" {
		t.Fatalf("buffer not cleared")
	}
}

func TestBlocksEditor_EditTitleCancelLeavesStoreUnchanged(t *testing.T) {
	s := newStore(t)
	sess := &editfield.Session{}
	e := NewBlocksEditor(s, sess)
	id := s.Snapshot().Blocks[0].ID
	before := s.Snapshot()

	e.BeginEdit(id)
	sess.SetDraft("Something else")
	sess.Cancel()

	if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
		t.Fatalf("cancel changed document (-want +got):\n%s", diff)
	}
}

func TestSubtasksEditor_AddEditDelete(t *testing.T) {
	s := newStore(t)
	sess := &editfield.Session{}
	blockID := s.Snapshot().Blocks[0].ID
	e := NewSubtasksEditor(s, sess, blockID)

	e.Input.Set("Mock interview")
	t1, ok := e.Add()
	if !ok {
		t.Fatalf("add failed")
	}

	e.BeginEdit(t1.ID)
	sess.SetDraft("")
	sess.Commit()

	b, _ := s.Block(blockID)
	got, _ := b.FindSubtask(t1.ID)
	if got.Text != store.FallbackSubtaskText {
		t.Fatalf("text = %q; want %q", got.Text, store.FallbackSubtaskText)
	}

	if !e.Delete(t1.ID) {
		t.Fatalf("delete failed")
	}
	b, _ = s.Block(blockID)
	if _, ok := b.FindSubtask(t1.ID); ok {
		t.Fatalf("subtask still present")
	}
}

func TestSubtasksEditor_UnknownBlockKeepsBuffer(t *testing.T) {
	s := newStore(t)
	e := NewSubtasksEditor(s, &editfield.Session{}, "block-gone")
	before := s.Snapshot()

	e.Input.Set("orphan")
	if _, ok := e.Add(); ok {
		t.Fatalf("expected miss")
	}
	if e.Input.Text() != "orphan" {
		t.Fatalf("buffer dropped")
	}
	if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
		t.Fatalf("document changed (-want +got):\n%s", diff)
	}
}

func TestSwitchingEditCancelsPrevious(t *testing.T) {
	s := newStore(t)
	sess := &editfield.Session{}
	rules := NewRulesEditor(s, sess)
	blocks := NewBlocksEditor(s, sess)
	doc := s.Snapshot()
	ruleID, blockID := doc.Rules[0].ID, doc.Blocks[0].ID

	rules.BeginEdit(ruleID)
	sess.SetDraft("never saved")
	blocks.BeginEdit(blockID)
	sess.Commit()

	after := s.Snapshot()
	r, _ := after.FindRule(ruleID)
	if r.Text == "never saved" {
		t.Fatalf("first edit was committed")
	}
	want := []model.Rule{doc.Rules[0], doc.Rules[1]}
	if diff := cmp.Diff(want, after.Rules); diff != "" {
		t.Fatalf("rules changed (-want +got):\n%s", diff)
	}
}
