package store

import (
	"strings"
	"testing"

	"lockin-cli/internal/model"
)

func TestNewRandomID_PrefixAndSuffixLength(t *testing.T) {
	for _, prefix := range []string{prefixRule, prefixBlock, prefixSubtask} {
		id, err := newRandomID(prefix)
		if err != nil {
			t.Fatalf("newRandomID: %v", err)
		}
		if !strings.HasPrefix(id, prefix+"-") {
			t.Fatalf("expected %s prefix, got %q", prefix, id)
		}
		suffix := strings.TrimPrefix(id, prefix+"-")
		if got, want := len(suffix), 8; got != want {
			t.Fatalf("expected id suffix len %d, got %d (%q)", want, got, suffix)
		}
	}
}

func TestNewRandomID_NoCollisionsInPractice(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 5000; i++ {
		id, err := newRandomID(prefixSubtask)
		if err != nil {
			t.Fatalf("newRandomID: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id after %d draws: %s", i, id)
		}
		seen[id] = true
	}
}

func TestIDExists_CoversSubtasks(t *testing.T) {
	doc := &model.Document{
		Rules:  []model.Rule{{ID: "rule-a", Text: "r"}},
		Blocks: []model.Block{{ID: "block-a", Title: "b", Subtasks: []model.Subtask{{ID: "task-a", Text: "t"}}}},
	}
	for _, id := range []string{"rule-a", "block-a", "task-a"} {
		if !idExists(doc, id) {
			t.Fatalf("expected %s to exist", id)
		}
	}
	if idExists(doc, "task-b") {
		t.Fatalf("expected task-b to be absent")
	}
}
