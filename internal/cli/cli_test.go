package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lockin-cli/internal/store"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()
	return runApp(t, &App{}, args)
}

func runApp(t *testing.T, app *App, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := newRootCmd(app)

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// isolate points config and data at temp dirs and returns the data dir.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("LOCKIN_CONFIG_DIR", t.TempDir())
	t.Setenv("LOCKIN_DIR", "")
	t.Setenv("LOCKIN_BACKEND", "")
	t.Setenv("LOCKIN_FORMAT", "")
	t.Setenv("LOCKIN_LOG_LEVEL", "")
	t.Setenv("LOCKIN_LOG_FILE", "")
	return t.TempDir()
}

func mustRun(t *testing.T, dir string, args ...string) map[string]any {
	t.Helper()
	out, stderr, err := runCLI(t, append([]string{"--dir", dir}, args...))
	if err != nil {
		t.Fatalf("%v: %v\nstderr: %s", args, err, string(stderr))
	}
	var env map[string]any
	if err := json.Unmarshal(out, &env); err != nil {
		t.Fatalf("%v: invalid json: %v\n%s", args, err, string(out))
	}
	return env
}

func dataMap(t *testing.T, env map[string]any) map[string]any {
	t.Helper()
	m, ok := env["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %T", env["data"])
	}
	return m
}

func dataList(t *testing.T, env map[string]any) []any {
	t.Helper()
	l, ok := env["data"].([]any)
	if !ok {
		t.Fatalf("expected data array, got %T", env["data"])
	}
	return l
}

func TestRules_AddEditRemove(t *testing.T) {
	dir := isolate(t)

	rules := dataList(t, mustRun(t, dir, "rules", "list"))
	if len(rules) != 2 {
		t.Fatalf("expected the two default rules, got %d", len(rules))
	}

	added := dataMap(t, mustRun(t, dir, "rules", "add", "No", "phone", "before", "noon"))
	id, _ := added["id"].(string)
	if !strings.HasPrefix(id, "rule-") || added["text"] != "No phone before noon" {
		t.Fatalf("unexpected rule: %+v", added)
	}

	edited := dataMap(t, mustRun(t, dir, "rules", "edit", id, "   "))
	if edited["text"] != store.FallbackRuleText {
		t.Fatalf("expected fallback text, got %+v", edited)
	}

	mustRun(t, dir, "rules", "rm", id)
	if got := len(dataList(t, mustRun(t, dir, "rules", "list"))); got != 2 {
		t.Fatalf("expected 2 rules after delete, got %d", got)
	}
}

func TestRules_AddRejectsBlankText(t *testing.T) {
	dir := isolate(t)
	_, stderr, err := runCLI(t, []string{"--dir", dir, "rules", "add", "   "})
	if !errors.Is(err, errMissingText) {
		t.Fatalf("expected errMissingText, got %v", err)
	}
	if !strings.Contains(string(stderr), errMissingText.Error()) {
		t.Fatalf("expected error on stderr, got %q", string(stderr))
	}
}

func TestLookupMissReturnsNotFound(t *testing.T) {
	dir := isolate(t)
	_, _, err := runCLI(t, []string{"--dir", dir, "rules", "rm", "rule-missing"})
	var nf store.NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "rule" || nf.ID != "rule-missing" {
		t.Fatalf("expected NotFoundError for rule, got %v", err)
	}

	_, _, err = runCLI(t, []string{"--dir", dir, "subtasks", "add", "block-missing", "x"})
	if !errors.As(err, &nf) || nf.Kind != "block" {
		t.Fatalf("expected NotFoundError for block, got %v", err)
	}
}

func TestBlocksAndSubtasks(t *testing.T) {
	dir := isolate(t)

	blk := dataMap(t, mustRun(t, dir, "blocks", "add"))
	blockID, _ := blk["id"].(string)
	if blk["title"] != store.DefaultBlockTitle {
		t.Fatalf("expected default title, got %+v", blk)
	}
	subs, _ := blk["subtasks"].([]any)
	if len(subs) != 1 {
		t.Fatalf("expected one default subtask, got %+v", blk["subtasks"])
	}

	mustRun(t, dir, "blocks", "rename", blockID, "Deep", "Work")
	task := dataMap(t, mustRun(t, dir, "subtasks", "add", blockID, "Write", "tests"))
	taskID, _ := task["id"].(string)

	edited := dataMap(t, mustRun(t, dir, "subtasks", "edit", blockID, taskID, "Write more tests"))
	if edited["text"] != "Write more tests" {
		t.Fatalf("unexpected subtask: %+v", edited)
	}
	mustRun(t, dir, "subtasks", "rm", blockID, taskID)

	doc := dataMap(t, mustRun(t, dir, "show"))
	blocks, _ := doc["blocks"].([]any)
	last, _ := blocks[len(blocks)-1].(map[string]any)
	if last["title"] != "Deep Work" {
		t.Fatalf("expected renamed block, got %+v", last)
	}
	if got, _ := last["subtasks"].([]any); len(got) != 1 {
		t.Fatalf("expected one subtask left, got %+v", last["subtasks"])
	}

	mustRun(t, dir, "blocks", "rm", blockID)
	if got := len(dataList(t, mustRun(t, dir, "blocks", "list"))); got != 1 {
		t.Fatalf("expected only the default block, got %d", got)
	}
}

func TestSubtasksAdd_AfterDoubleDash(t *testing.T) {
	dir := isolate(t)

	blk := dataMap(t, mustRun(t, dir, "blocks", "add"))
	blockID, _ := blk["id"].(string)

	task := dataMap(t, mustRun(t, dir, "subtasks", "add", "--", blockID, "-5 min warmup"))
	if task["text"] != "-5 min warmup" {
		t.Fatalf("unexpected subtask: %+v", task)
	}
	for _, b := range dataList(t, mustRun(t, dir, "blocks", "list")) {
		m, _ := b.(map[string]any)
		if m["id"] != blockID {
			continue
		}
		if subs, _ := m["subtasks"].([]any); len(subs) != 2 {
			t.Fatalf("expected default subtask plus the new one, got %+v", m["subtasks"])
		}
		return
	}
	t.Fatalf("block %s not listed", blockID)
}

func TestReset_DeclinedKeepsPlan(t *testing.T) {
	dir := isolate(t)
	asked := ""
	app := &App{confirm: func(prompt string) (bool, error) {
		asked = prompt
		return false, nil
	}}
	out, stderr, err := runApp(t, app, []string{"--dir", dir, "reset"})
	if err != nil {
		t.Fatalf("reset: %v\n%s", err, string(stderr))
	}
	if asked == "" {
		t.Fatalf("expected a confirmation prompt")
	}
	if !strings.Contains(string(out), `"reset":false`) {
		t.Fatalf("expected reset=false, got %s", string(out))
	}
	if got := len(dataList(t, mustRun(t, dir, "rules", "list"))); got != 2 {
		t.Fatalf("expected rules to survive, got %d", got)
	}
}

func TestReset_Yes(t *testing.T) {
	dir := isolate(t)
	mustRun(t, dir, "reset", "--yes")
	doc := dataMap(t, mustRun(t, dir, "show"))
	if rules, _ := doc["rules"].([]any); len(rules) != 0 {
		t.Fatalf("expected no rules, got %+v", rules)
	}
	if blocks, _ := doc["blocks"].([]any); len(blocks) != 0 {
		t.Fatalf("expected no blocks, got %+v", blocks)
	}
}

func TestFileBackend(t *testing.T) {
	dir := isolate(t)
	mustRun(t, dir, "--backend", "file", "rules", "add", "Stored as a file")
	if _, err := os.Stat(filepath.Join(dir, store.DocumentKey+".json")); err != nil {
		t.Fatalf("expected snapshot file: %v", err)
	}
}

func TestExport_WritesPDF(t *testing.T) {
	dir := isolate(t)
	outDir := t.TempDir()

	res := dataMap(t, mustRun(t, dir, "export", "--to", outDir, "--pagination", "slice"))
	path := filepath.Join(outDir, "lockin-plan.pdf")
	if res["path"] != path {
		t.Fatalf("unexpected path %v", res["path"])
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Fatalf("expected a PDF file")
	}

	_, _, err = runCLI(t, []string{"--dir", dir, "export", "--pagination", "bogus"})
	if err == nil {
		t.Fatalf("expected invalid pagination error")
	}
}

func TestPublish_WritesMarkdown(t *testing.T) {
	dir := isolate(t)
	outDir := t.TempDir()
	mustRun(t, dir, "publish", "--to", outDir, "--template")

	b, err := os.ReadFile(filepath.Join(outDir, "lockin-plan.md"))
	if err != nil {
		t.Fatalf("read plan markdown: %v", err)
	}
	if !strings.Contains(string(b), "Problem Solving") {
		t.Fatalf("expected default block in markdown:\n%s", string(b))
	}
	if _, err := os.Stat(filepath.Join(outDir, "lockin-template.md")); err != nil {
		t.Fatalf("expected template markdown: %v", err)
	}
}

func TestTemplate_SetItemsAndColors(t *testing.T) {
	dir := isolate(t)

	set := dataMap(t, mustRun(t, dir, "template", "set", "footer", "Keep", "going"))
	if set["value"] != "Keep going" {
		t.Fatalf("unexpected set result: %+v", set)
	}
	_, _, err := runCLI(t, []string{"--dir", dir, "template", "set", "nope", "x"})
	if err == nil {
		t.Fatalf("expected unknown field error")
	}

	card := dataMap(t, mustRun(t, dir, "template", "items", "add", "a", "1", "Mock", "interview"))
	items, _ := card["items"].([]any)
	if len(items) == 0 || items[len(items)-1] != "Mock interview" {
		t.Fatalf("unexpected items: %+v", card["items"])
	}

	colors := dataMap(t, mustRun(t, dir, "template", "colors", "--primary", "#abcdef"))
	if colors["primary"] != "#ABCDEF" || colors["background"] != "#E8F6FF" {
		t.Fatalf("unexpected colors: %+v", colors)
	}
	_, _, err = runCLI(t, []string{"--dir", dir, "template", "colors", "--primary", "blue-ish"})
	if err == nil {
		t.Fatalf("expected invalid color error")
	}
}

func TestTemplate_ExportImportTOML(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(t.TempDir(), "tpl.toml")

	mustRun(t, dir, "template", "set", "title", "MY PLAN")
	mustRun(t, dir, "template", "export", "--to", path)
	mustRun(t, dir, "template", "reset")

	tpl := dataMap(t, mustRun(t, dir, "template", "import", path))
	if tpl["title"] != "MY PLAN" {
		t.Fatalf("expected imported title, got %+v", tpl["title"])
	}
}

func TestFormatEDN(t *testing.T) {
	dir := isolate(t)
	out, stderr, err := runCLI(t, []string{"--dir", dir, "--format", "edn", "rules", "list"})
	if err != nil {
		t.Fatalf("rules list: %v\n%s", err, string(stderr))
	}
	s := string(out)
	if !strings.HasPrefix(s, "{") || !strings.Contains(s, ":data") {
		t.Fatalf("expected edn map, got %s", s)
	}
}

func TestConfig_SetAndShow(t *testing.T) {
	dir := isolate(t)
	mustRun(t, dir, "config", "set", "--storage", "file", "--default-pagination", "slice")

	env := mustRun(t, dir, "config", "show")
	cfg := dataMap(t, env)
	if cfg["backend"] != "file" || cfg["pagination"] != "slice" {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	_, _, err := runCLI(t, []string{"--dir", dir, "config", "set", "--storage", "postgres"})
	if err == nil {
		t.Fatalf("expected invalid backend error")
	}
}
