package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"lockin-cli/internal/model"

	"github.com/google/go-cmp/cmp"
)

func seqIDs() IDSource {
	n := 0
	return func(prefix string) (string, error) {
		n++
		return fmt.Sprintf("%s-%04d", prefix, n), nil
	}
}

func openMem(t *testing.T) (*Store, *MemSlot) {
	t.Helper()
	slot := NewMemSlot()
	return Open(context.Background(), slot, WithIDSource(seqIDs())), slot
}

func ruleTexts(doc model.Document) []string {
	out := []string{}
	for _, r := range doc.Rules {
		out = append(out, r.Text)
	}
	return out
}

func TestOpen_EmptySlotUsesDefaultDocument(t *testing.T) {
	s, _ := openMem(t)
	if got := s.Source(); got != LoadedFromDefault {
		t.Fatalf("expected default source, got %q", got)
	}
	doc := s.Snapshot()
	if len(doc.Rules) != 2 {
		t.Fatalf("expected 2 default rules, got %d", len(doc.Rules))
	}
	if len(doc.Blocks) != 1 || doc.Blocks[0].Title != "Problem Solving" {
		t.Fatalf("expected one Problem Solving block, got %+v", doc.Blocks)
	}
	if got := len(doc.Blocks[0].Subtasks); got != 2 {
		t.Fatalf("expected 2 default subtasks, got %d", got)
	}
}

func TestAddBlock_FromDefaultDocument(t *testing.T) {
	s, _ := openMem(t)

	b := s.AddBlock("Block A")

	doc := s.Snapshot()
	if len(doc.Blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(doc.Blocks))
	}
	second := doc.Blocks[1]
	if second.ID != b.ID || second.ID == doc.Blocks[0].ID {
		t.Fatalf("expected fresh distinct id, got first=%q second=%q", doc.Blocks[0].ID, second.ID)
	}
	if !strings.HasPrefix(second.ID, "block-") {
		t.Fatalf("expected block- prefix, got %q", second.ID)
	}
	if second.Title != "Block A" {
		t.Fatalf("expected title Block A, got %q", second.Title)
	}
	if len(second.Subtasks) != 1 || second.Subtasks[0].Text != DefaultSubtaskText {
		t.Fatalf("expected exactly one default subtask, got %+v", second.Subtasks)
	}
}

func TestAddBlock_EmptyTitleDefaults(t *testing.T) {
	s, _ := openMem(t)
	if got := s.AddBlock("").Title; got != DefaultBlockTitle {
		t.Fatalf("expected %q, got %q", DefaultBlockTitle, got)
	}
}

func TestAddRuleThenDelete_RestoresRules(t *testing.T) {
	s, _ := openMem(t)
	before := s.Snapshot().Rules

	r := s.AddRule("Test")
	if !s.DeleteRule(r.ID) {
		t.Fatalf("expected delete to find rule %s", r.ID)
	}

	if diff := cmp.Diff(before, s.Snapshot().Rules); diff != "" {
		t.Fatalf("rules changed (-before +after):\n%s", diff)
	}
}

func TestRules_SequencePreservesOrderAndLastText(t *testing.T) {
	s, _ := openMem(t)
	s.Reset()

	a := s.AddRule("a")
	b := s.AddRule("b")
	c := s.AddRule("c")
	d := s.AddRule("d")
	s.EditRule(b.ID, "b1")
	s.DeleteRule(c.ID)
	s.EditRule(b.ID, "b2")
	s.EditRule(d.ID, "")
	s.EditRule(a.ID, "a1")

	want := []string{"a1", "b2", ""}
	if diff := cmp.Diff(want, ruleTexts(s.Snapshot())); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestDeleteBlock_OnlyRemovesOwnSubtasks(t *testing.T) {
	s, _ := openMem(t)
	keep := s.AddBlock("keep")
	drop := s.AddBlock("drop")
	s.AddSubtask(keep.ID, "k2")
	s.AddSubtask(drop.ID, "d2")
	before, _ := s.Block(keep.ID)

	if !s.DeleteBlock(drop.ID) {
		t.Fatalf("expected delete to find block")
	}

	doc := s.Snapshot()
	if _, ok := doc.FindBlock(drop.ID); ok {
		t.Fatalf("expected dropped block to be gone")
	}
	for _, b := range doc.Blocks {
		for _, st := range b.Subtasks {
			if st.Text == "d2" {
				t.Fatalf("subtask of deleted block survived in %s", b.ID)
			}
		}
	}
	after, _ := s.Block(keep.ID)
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("unrelated block changed (-before +after):\n%s", diff)
	}
}

func TestLookupMisses_LeaveDocumentUnchanged(t *testing.T) {
	s, _ := openMem(t)
	before := s.Snapshot()
	blockID := before.Blocks[0].ID

	if _, ok := s.AddSubtask("block-missing", "x"); ok {
		t.Fatalf("expected AddSubtask to miss")
	}
	if s.EditSubtask(blockID, "task-missing", "x") {
		t.Fatalf("expected EditSubtask to miss on subtask id")
	}
	if s.EditSubtask("block-missing", before.Blocks[0].Subtasks[0].ID, "x") {
		t.Fatalf("expected EditSubtask to miss on block id")
	}
	if s.DeleteSubtask("block-missing", "task-missing") {
		t.Fatalf("expected DeleteSubtask to miss")
	}
	if s.EditRule("rule-missing", "x") || s.DeleteRule("rule-missing") {
		t.Fatalf("expected rule ops to miss")
	}
	if s.EditBlockTitle("block-missing", "x") || s.DeleteBlock("block-missing") {
		t.Fatalf("expected block ops to miss")
	}

	if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
		t.Fatalf("document changed on lookup miss (-before +after):\n%s", diff)
	}
}

func TestSubtasks_EditAndDelete(t *testing.T) {
	s, _ := openMem(t)
	b := s.AddBlock("B")
	t1, _ := s.AddSubtask(b.ID, "one")
	t2, _ := s.AddSubtask(b.ID, "two")

	if !s.EditSubtask(b.ID, t1.ID, "uno") {
		t.Fatalf("expected edit to hit")
	}
	if !s.DeleteSubtask(b.ID, b.Subtasks[0].ID) {
		t.Fatalf("expected delete of default subtask to hit")
	}

	got, _ := s.Block(b.ID)
	want := []model.Subtask{{ID: t1.ID, Text: "uno"}, {ID: t2.ID, Text: "two"}}
	if diff := cmp.Diff(want, got.Subtasks); diff != "" {
		t.Fatalf("subtasks mismatch (-want +got):\n%s", diff)
	}
}

func TestReset_EmptiesBothCollections(t *testing.T) {
	s, _ := openMem(t)
	s.AddRule("x")
	s.AddBlock("y")

	s.Reset()

	doc := s.Snapshot()
	if len(doc.Rules) != 0 || len(doc.Blocks) != 0 {
		t.Fatalf("expected empty document after reset, got %+v", doc)
	}
}

func TestEveryMutationPersistsOnce(t *testing.T) {
	s, slot := openMem(t)
	blockID := s.Snapshot().Blocks[0].ID

	steps := []func(){
		func() { s.AddRule("r") },
		func() { s.EditRule("rule-missing", "x") },
		func() { s.DeleteRule("rule-missing") },
		func() { s.AddBlock("") },
		func() { s.EditBlockTitle(blockID, "t") },
		func() { s.AddSubtask(blockID, "s") },
		func() { s.EditSubtask(blockID, "task-missing", "x") },
		func() { s.DeleteSubtask(blockID, "task-missing") },
		func() { s.DeleteBlock(blockID) },
		func() { s.Reset() },
	}
	for i, step := range steps {
		before := slot.Puts()
		step()
		if got := slot.Puts() - before; got != 1 {
			t.Fatalf("step %d: expected exactly one write, got %d", i, got)
		}
	}
}

func TestPersistReload_RoundTrip(t *testing.T) {
	ctx := context.Background()
	slot := NewMemSlot()
	s := Open(ctx, slot)

	r := s.AddRule("keep me")
	s.EditRule(r.ID, "kept")
	b := s.AddBlock("Evening")
	st, _ := s.AddSubtask(b.ID, "read")
	s.EditSubtask(b.ID, st.ID, "read 20 pages")
	s.DeleteRule(s.Snapshot().Rules[0].ID)
	want := s.Snapshot()

	reloaded := Open(ctx, slot)
	if got := reloaded.Source(); got != LoadedFromSlot {
		t.Fatalf("expected slot source, got %q", got)
	}
	if diff := cmp.Diff(want, reloaded.Snapshot()); diff != "" {
		t.Fatalf("reload mismatch (-want +got):\n%s", diff)
	}
}

func TestPersistFailure_KeepsInMemoryDocument(t *testing.T) {
	slot := NewMemSlot()
	slot.FailPut = errors.New("quota exceeded")
	s := Open(context.Background(), slot)

	r := s.AddRule("still here")

	if err := s.LastPersistError(); err == nil {
		t.Fatalf("expected persist error to be recorded")
	}
	doc := s.Snapshot()
	if _, ok := doc.FindRule(r.ID); !ok {
		t.Fatalf("expected rule to stay in memory")
	}
}

func TestOpen_MalformedSnapshotFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	for name, raw := range map[string]string{
		"not json":       `{"state":`,
		"wrong shape":    `{"state":{"rules":"nope","blocks":[]}}`,
		"future version": `{"version":99,"state":{"rules":[],"blocks":[]}}`,
		"duplicate ids":  `{"version":1,"state":{"rules":[{"id":"x","text":"a"},{"id":"x","text":"b"}],"blocks":[]}}`,
	} {
		t.Run(name, func(t *testing.T) {
			slot := NewMemSlot()
			if err := slot.Put(ctx, DocumentKey, []byte(raw)); err != nil {
				t.Fatalf("seed slot: %v", err)
			}
			s := Open(ctx, slot)
			if got := s.Source(); got != LoadedFromDefault {
				t.Fatalf("expected default source, got %q", got)
			}
			if got := len(s.Snapshot().Rules); got != 2 {
				t.Fatalf("expected default rules, got %d", got)
			}
		})
	}
}

func TestOpen_LegacyUnversionedSnapshot(t *testing.T) {
	ctx := context.Background()
	slot := NewMemSlot()
	legacy := `{"state":{"rules":[{"id":"rule_abc1234","text":"No phone"}],"blocks":[{"id":"block_x","title":"Deep work","subtitle":"","subtasks":[{"id":"task_y","text":"Ship"}]}]},"version":0}`
	if err := slot.Put(ctx, DocumentKey, []byte(legacy)); err != nil {
		t.Fatalf("seed slot: %v", err)
	}

	s := Open(ctx, slot)

	want := model.Document{
		Rules:  []model.Rule{{ID: "rule_abc1234", Text: "No phone"}},
		Blocks: []model.Block{{ID: "block_x", Title: "Deep work", Subtasks: []model.Subtask{{ID: "task_y", Text: "Ship"}}}},
	}
	if diff := cmp.Diff(want, s.Snapshot()); diff != "" {
		t.Fatalf("legacy load mismatch (-want +got):\n%s", diff)
	}
}

func TestSubscribe_SignalsAfterMutation(t *testing.T) {
	s, _ := openMem(t)
	ch, cancel := s.Subscribe()
	defer cancel()

	s.AddRule("ping")

	select {
	case <-ch:
	default:
		t.Fatalf("expected a change signal")
	}
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	s, _ := openMem(t)
	doc := s.Snapshot()
	doc.Blocks[0].Subtasks[0].Text = "mutated"
	doc.Rules[0].Text = "mutated"

	again := s.Snapshot()
	if again.Blocks[0].Subtasks[0].Text == "mutated" || again.Rules[0].Text == "mutated" {
		t.Fatalf("snapshot shares memory with the store")
	}
}

func TestEnsureBlock_OnlySeedsEmptyPlan(t *testing.T) {
	s, slot := openMem(t)
	if s.EnsureBlock(StartupBlockTitle) {
		t.Fatalf("expected no seeding when blocks exist")
	}
	s.Reset()
	before := slot.Puts()
	if !s.EnsureBlock(StartupBlockTitle) {
		t.Fatalf("expected a block to be added to an empty plan")
	}
	doc := s.Snapshot()
	if len(doc.Blocks) != 1 || doc.Blocks[0].Title != StartupBlockTitle {
		t.Fatalf("unexpected blocks: %+v", doc.Blocks)
	}
	if slot.Puts() != before+1 {
		t.Fatalf("expected one snapshot write, got %d", slot.Puts()-before)
	}
	if s.EnsureBlock(StartupBlockTitle) {
		t.Fatalf("expected second call to be a no-op")
	}
}
