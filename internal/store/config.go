package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

// Config is the user-level configuration in ~/.lockin/config.json.
// The file may contain comments and trailing commas (JSONC).
type Config struct {
	// DataDir holds the document slot and prefs. Default: <config dir>/data.
	DataDir string `json:"dataDir,omitempty"`

	// Backend selects the slot implementation: sqlite|file.
	Backend string `json:"backend,omitempty"`

	// Pagination is the default export policy: single|slice.
	Pagination string `json:"pagination,omitempty"`

	// ExportDir is where `lockin export` writes when --to is not given.
	ExportDir string `json:"exportDir,omitempty"`

	LogLevel string `json:"logLevel,omitempty"`
	LogFile  string `json:"logFile,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.lockin).
	if v := strings.TrimSpace(os.Getenv("LOCKIN_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".lockin"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// DefaultDataDir is used when neither --dir, LOCKIN_DIR nor config.dataDir is set.
func DefaultDataDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "data"), nil
}

func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	return ParseConfig(b)
}

func ParseConfig(b []byte) (*Config, error) {
	standardized, err := hujson.Standardize(b)
	if err != nil {
		return nil, fmt.Errorf("invalid config (JSONC): %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if cfg.Backend != "" {
		if _, err := ParseBackend(cfg.Backend); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

func SaveConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return atomic.WriteFile(path, strings.NewReader(string(b)+"\n"))
}
