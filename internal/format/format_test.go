package format

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	ID          string   `json:"id"`
	RuleHeading string   `json:"ruleHeading"`
	Items       []string `json:"items"`
	Done        bool     `json:"done"`
	Count       int      `json:"count"`
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample{ID: "rule-1", Items: []string{}}, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := `{"id":"rule-1","ruleHeading":"","items":[],"done":false,"count":0}` + "\n"
	if buf.String() != want {
		t.Fatalf("got %q\nwant %q", buf.String(), want)
	}
}

func TestWrite_EDNUsesKebabKeywords(t *testing.T) {
	var buf bytes.Buffer
	v := sample{ID: "rule-1", RuleHeading: "THE RULE", Items: []string{"a", "b"}, Done: true, Count: 2}
	if err := Write(&buf, v, "edn", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := `{:count 2 :done true :id "rule-1" :items ["a" "b"] :rule-heading "THE RULE"}` + "\n"
	if buf.String() != want {
		t.Fatalf("got %q\nwant %q", buf.String(), want)
	}
}

func TestWrite_TOML(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sample{ID: "x", Items: []string{"a"}}, "toml", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !strings.Contains(buf.String(), `id = "x"`) {
		t.Fatalf("unexpected toml:\n%s", buf.String())
	}
	if err := Write(&buf, []string{"a"}, "toml", false); err == nil {
		t.Fatalf("expected error for non-object toml output")
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, 1, "yaml", false); err == nil {
		t.Fatalf("expected error")
	}
}
