package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// DocumentKey is the fixed slot key holding the plan snapshot.
const DocumentKey = "lockin-builder-storage"

// Slot is a durable key-value slot. Get reports ok=false for a missing key.
type Slot interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Put(ctx context.Context, key string, value []byte) error
}

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendFile   Backend = "file"
)

func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackendSQLite:
		return BackendSQLite, nil
	case BackendFile:
		return BackendFile, nil
	default:
		return "", fmt.Errorf("unknown backend: %s (expected sqlite|file)", s)
	}
}

// OpenSlot returns the slot implementation for backend rooted at dir.
func OpenSlot(backend Backend, dir string) (Slot, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("store: dir is empty")
	}
	switch backend {
	case BackendFile:
		return FileSlot{Dir: dir}, nil
	case BackendSQLite, "":
		return SQLiteSlot{Dir: dir}, nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", backend)
	}
}

// MemSlot keeps values in memory; it backs tests and throwaway sessions.
type MemSlot struct {
	mu     sync.Mutex
	values map[string][]byte

	// FailPut makes every Put fail, simulating unavailable storage.
	FailPut error
	puts    int
}

func NewMemSlot() *MemSlot {
	return &MemSlot{values: map[string][]byte{}}
}

func (m *MemSlot) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (m *MemSlot) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.FailPut != nil {
		return m.FailPut
	}
	if m.values == nil {
		m.values = map[string][]byte{}
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.values[key] = v
	return nil
}

// Puts returns how many writes were attempted.
func (m *MemSlot) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}
