// Package template implements the fixed-slot variant of the plan.
package template

import (
	"context"
	"sync"
	"time"

	"lockin-cli/internal/model"
	"lockin-cli/internal/store"

	"github.com/rs/zerolog"
)

const persistTimeout = 5 * time.Second

// Store owns the template text. Like the document store, every mutation is
// written through to the slot and persistence failures are only logged.
type Store struct {
	mu   sync.Mutex
	tpl  model.Template
	slot store.Slot
	log  zerolog.Logger

	lastPersistErr error

	hub store.Hub
}

type Option func(*Store)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// Open rehydrates the template from slot, falling back to DefaultTemplate.
func Open(ctx context.Context, slot store.Slot, opts ...Option) *Store {
	s := &Store{slot: slot, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.tpl = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) model.Template {
	if s.slot == nil {
		return normalize(DefaultTemplate())
	}
	b, ok, err := s.slot.Get(ctx, StorageKey)
	if err != nil || !ok {
		if err != nil {
			s.log.Warn().Err(err).Str("key", StorageKey).Msg("template read failed; using default")
		}
		return normalize(DefaultTemplate())
	}
	t, err := decode(b)
	if err != nil {
		s.log.Warn().Err(err).Str("key", StorageKey).Msg("template unreadable; using default")
		return normalize(DefaultTemplate())
	}
	return t
}

func (s *Store) Template() model.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tpl.Clone()
}

func (s *Store) LastPersistError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPersistErr
}

func (s *Store) Subscribe() (<-chan struct{}, func()) {
	return s.hub.Subscribe()
}

// SetField stores value in the named slot. An unknown field is an error
// (unlike document lookups, field names come from the caller, not the data).
func (s *Store) SetField(field, value string) error {
	s.mu.Lock()
	p, err := fieldPtr(&s.tpl, field)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	*p = value
	s.commitLocked("template.set")
	return nil
}

// AddItem appends an item to a card (1-based). It reports false for an unknown card.
func (s *Store) AddItem(ref BlockRef, cardN int, text string) bool {
	s.mu.Lock()
	c := card(&s.tpl, ref, cardN)
	if c != nil {
		c.Items = append(c.Items, text)
	}
	s.commitLocked("template.item_add")
	return c != nil
}

func (s *Store) EditItem(ref BlockRef, cardN, itemN int, text string) bool {
	s.mu.Lock()
	c := card(&s.tpl, ref, cardN)
	ok := c != nil && itemN >= 1 && itemN <= len(c.Items)
	if ok {
		c.Items[itemN-1] = text
	}
	s.commitLocked("template.item_edit")
	return ok
}

func (s *Store) DeleteItem(ref BlockRef, cardN, itemN int) bool {
	s.mu.Lock()
	c := card(&s.tpl, ref, cardN)
	ok := c != nil && itemN >= 1 && itemN <= len(c.Items)
	if ok {
		c.Items = append(c.Items[:itemN-1:itemN-1], c.Items[itemN:]...)
	}
	s.commitLocked("template.item_delete")
	return ok
}

// Replace swaps in a whole template (import).
func (s *Store) Replace(t model.Template) {
	s.mu.Lock()
	s.tpl = normalize(t)
	s.commitLocked("template.replace")
}

// Reset restores DefaultTemplate.
func (s *Store) Reset() {
	s.Replace(DefaultTemplate())
}

func (s *Store) commitLocked(op string) {
	b, err := encode(s.tpl)
	if err == nil && s.slot != nil {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		err = s.slot.Put(ctx, StorageKey, b)
		cancel()
	}
	s.lastPersistErr = err
	s.mu.Unlock()

	if err != nil {
		s.log.Warn().Err(err).Str("op", op).Msg("template write failed")
	}
	s.hub.Broadcast()
}
