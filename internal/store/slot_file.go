package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// FileSlot stores each key as <Dir>/<key>.json, replaced atomically on write.
type FileSlot struct {
	Dir string
}

func (s FileSlot) path(key string) string {
	name := strings.NewReplacer("/", "_", string(os.PathSeparator), "_").Replace(strings.TrimSpace(key))
	return filepath.Join(filepath.Clean(s.Dir), name+".json")
}

func (s FileSlot) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

func (s FileSlot) Put(_ context.Context, key string, value []byte) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return err
	}
	return atomic.WriteFile(s.path(key), bytes.NewReader(value))
}
