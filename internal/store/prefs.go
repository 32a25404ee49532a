package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"lockin-cli/internal/model"

	"github.com/natefinch/atomic"
)

const prefsFileName = "prefs.json"

// Prefs stores presentation-only state: the last view and template colors.
// It is never part of the document snapshot.
//
// This file is "best effort": a missing or corrupted file reads as defaults.
type Prefs struct {
	Version int `json:"version"`

	// View is one of: plan|template
	View string `json:"view,omitempty"`

	Colors model.Colors `json:"colors,omitempty"`
}

func prefsPath(dir string) string {
	return filepath.Join(dir, prefsFileName)
}

func LoadPrefs(dir string) (*Prefs, error) {
	if strings.TrimSpace(dir) == "" {
		return &Prefs{Version: 1}, nil
	}
	b, err := os.ReadFile(prefsPath(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Prefs{Version: 1}, nil
		}
		return nil, err
	}
	var p Prefs
	if err := json.Unmarshal(b, &p); err != nil {
		// Best-effort; if corrupted, treat as missing.
		return &Prefs{Version: 1}, nil
	}
	if p.Version == 0 {
		p.Version = 1
	}
	return &p, nil
}

func SavePrefs(dir string, p *Prefs) error {
	if p == nil || strings.TrimSpace(dir) == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	if p.Version == 0 {
		p.Version = 1
	}
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return atomic.WriteFile(prefsPath(dir), bytes.NewReader(b))
}
