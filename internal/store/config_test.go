package store

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFileIsEmpty(t *testing.T) {
	t.Setenv("LOCKIN_CONFIG_DIR", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if *cfg != (Config{}) {
		t.Fatalf("expected zero config, got %#v", cfg)
	}
}

func TestLoadConfig_AcceptsJSONC(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("LOCKIN_CONFIG_DIR", dir)

	raw := `{
  // where plans live
  "dataDir": "/tmp/plans",
  "backend": "file",
  "pagination": "slice", // trailing comma below
}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DataDir != "/tmp/plans" || cfg.Backend != "file" || cfg.Pagination != "slice" {
		t.Fatalf("unexpected config: %#v", cfg)
	}
}

func TestParseConfig_RejectsUnknownBackend(t *testing.T) {
	if _, err := ParseConfig([]byte(`{"backend":"redis"}`)); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	t.Setenv("LOCKIN_CONFIG_DIR", t.TempDir())

	want := &Config{DataDir: "/x", Backend: "sqlite", LogLevel: "debug"}
	if err := SaveConfig(want); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if *got != *want {
		t.Fatalf("roundtrip mismatch:\nwant: %#v\ngot:  %#v", want, got)
	}
}
