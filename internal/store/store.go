package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lockin-cli/internal/model"

	"github.com/rs/zerolog"
)

const persistTimeout = 5 * time.Second

// LoadSource tells where the in-memory document came from at startup.
type LoadSource string

const (
	LoadedFromSlot    LoadSource = "slot"
	LoadedFromDefault LoadSource = "default"
)

// Store owns the canonical plan document. Every mutation is applied
// immediately and followed by exactly one snapshot write to the slot.
//
// Lookup misses are silent no-ops: the mutation reports false and nothing
// changes in memory, but the snapshot is still written.
// Persistence is best effort: a failed write is logged and remembered, the
// in-memory document stays authoritative.
type Store struct {
	mu     sync.Mutex
	doc    model.Document
	slot   Slot
	key    string
	newID  IDSource
	log    zerolog.Logger
	source LoadSource

	lastPersistErr error
	persistCount   int

	hub Hub
}

type Option func(*Store)

func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

func WithIDSource(fn IDSource) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithKey overrides the slot key (default DocumentKey).
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// Open rehydrates a store from slot. A missing, unreadable or malformed
// snapshot falls back to DefaultDocument.
func Open(ctx context.Context, slot Slot, opts ...Option) *Store {
	s := &Store{
		slot:  slot,
		key:   DocumentKey,
		newID: newRandomID,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.doc, s.source = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) (model.Document, LoadSource) {
	if s.slot == nil {
		return normalizeDocument(DefaultDocument(s.newID)), LoadedFromDefault
	}
	b, ok, err := s.slot.Get(ctx, s.key)
	if err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("snapshot read failed; using default document")
		return normalizeDocument(DefaultDocument(s.newID)), LoadedFromDefault
	}
	if !ok {
		s.log.Debug().Str("key", s.key).Msg("no snapshot; using default document")
		return normalizeDocument(DefaultDocument(s.newID)), LoadedFromDefault
	}
	doc, err := DecodeSnapshot(b)
	if err != nil {
		s.log.Warn().Err(err).Str("key", s.key).Msg("snapshot unreadable; using default document")
		return normalizeDocument(DefaultDocument(s.newID)), LoadedFromDefault
	}
	return doc, LoadedFromSlot
}

// Source reports whether the document was rehydrated or defaulted.
func (s *Store) Source() LoadSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Block returns a copy of the block with id.
func (s *Store) Block(id string) (model.Block, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.doc.FindBlock(id)
	if !ok {
		return model.Block{}, false
	}
	return b.Clone(), true
}

// LastPersistError returns the error of the most recent snapshot write, if it failed.
func (s *Store) LastPersistError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPersistErr
}

// PersistCount returns how many snapshot writes were attempted.
func (s *Store) PersistCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistCount
}

func (s *Store) AddRule(text string) model.Rule {
	s.mu.Lock()
	r := model.Rule{ID: s.nextIDLocked(prefixRule), Text: text}
	s.doc.Rules = append(s.doc.Rules, r)
	s.commitLocked("rule.add")
	return r
}

func (s *Store) EditRule(id, text string) bool {
	s.mu.Lock()
	r, ok := s.doc.FindRule(id)
	if ok {
		r.Text = text
	}
	s.commitLocked("rule.edit")
	return ok
}

func (s *Store) DeleteRule(id string) bool {
	s.mu.Lock()
	found := false
	out := s.doc.Rules[:0:0]
	for _, r := range s.doc.Rules {
		if r.ID == id {
			found = true
			continue
		}
		out = append(out, r)
	}
	s.doc.Rules = out
	s.commitLocked("rule.delete")
	return found
}

// AddBlock appends a block with one default subtask. An empty title uses DefaultBlockTitle.
func (s *Store) AddBlock(title string) model.Block {
	if title == "" {
		title = DefaultBlockTitle
	}
	s.mu.Lock()
	b := model.Block{
		ID:       s.nextIDLocked(prefixBlock),
		Title:    title,
		Subtasks: []model.Subtask{{ID: s.nextIDLocked(prefixSubtask), Text: DefaultSubtaskText}},
	}
	s.doc.Blocks = append(s.doc.Blocks, b)
	s.commitLocked("block.add")
	return b.Clone()
}

// EnsureBlock appends a block titled title when the plan has no blocks. It
// reports whether a block was added.
func (s *Store) EnsureBlock(title string) bool {
	s.mu.Lock()
	if len(s.doc.Blocks) > 0 {
		s.mu.Unlock()
		return false
	}
	s.doc.Blocks = append(s.doc.Blocks, model.Block{
		ID:       s.nextIDLocked(prefixBlock),
		Title:    title,
		Subtasks: []model.Subtask{{ID: s.nextIDLocked(prefixSubtask), Text: DefaultSubtaskText}},
	})
	s.commitLocked("block.ensure")
	return true
}

func (s *Store) EditBlockTitle(id, title string) bool {
	s.mu.Lock()
	b, ok := s.doc.FindBlock(id)
	if ok {
		b.Title = title
	}
	s.commitLocked("block.edit_title")
	return ok
}

// DeleteBlock removes the block and every subtask it owns.
func (s *Store) DeleteBlock(id string) bool {
	s.mu.Lock()
	found := false
	out := s.doc.Blocks[:0:0]
	for _, b := range s.doc.Blocks {
		if b.ID == id {
			found = true
			continue
		}
		out = append(out, b)
	}
	s.doc.Blocks = out
	s.commitLocked("block.delete")
	return found
}

func (s *Store) AddSubtask(blockID, text string) (model.Subtask, bool) {
	s.mu.Lock()
	b, ok := s.doc.FindBlock(blockID)
	var t model.Subtask
	if ok {
		t = model.Subtask{ID: s.nextIDLocked(prefixSubtask), Text: text}
		b.Subtasks = append(b.Subtasks, t)
	}
	s.commitLocked("subtask.add")
	return t, ok
}

func (s *Store) EditSubtask(blockID, subtaskID, text string) bool {
	s.mu.Lock()
	found := false
	if b, ok := s.doc.FindBlock(blockID); ok {
		if t, ok := b.FindSubtask(subtaskID); ok {
			t.Text = text
			found = true
		}
	}
	s.commitLocked("subtask.edit")
	return found
}

func (s *Store) DeleteSubtask(blockID, subtaskID string) bool {
	s.mu.Lock()
	found := false
	if b, ok := s.doc.FindBlock(blockID); ok {
		out := b.Subtasks[:0:0]
		for _, t := range b.Subtasks {
			if t.ID == subtaskID {
				found = true
				continue
			}
			out = append(out, t)
		}
		b.Subtasks = out
	}
	s.commitLocked("subtask.delete")
	return found
}

// Reset discards every rule and block. Confirmation is the caller's concern.
func (s *Store) Reset() {
	s.mu.Lock()
	s.doc = model.Document{Rules: []model.Rule{}, Blocks: []model.Block{}}
	s.commitLocked("reset")
}

// commitLocked persists the document, releases s.mu and notifies subscribers.
func (s *Store) commitLocked(op string) {
	b, err := EncodeSnapshot(s.doc)
	if err == nil && s.slot != nil {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		err = s.slot.Put(ctx, s.key, b)
		cancel()
	}
	s.persistCount++
	s.lastPersistErr = err
	s.mu.Unlock()

	if err != nil {
		s.log.Warn().Err(err).Str("op", op).Str("key", s.key).Msg("snapshot write failed; changes will not survive a reload")
	} else {
		s.log.Debug().Str("op", op).Msg("snapshot written")
	}
	s.hub.Broadcast()
}

func (s *Store) nextIDLocked(prefix string) string {
	for i := 0; i < 8; i++ {
		id, err := s.newID(prefix)
		if err != nil {
			s.log.Warn().Err(err).Str("prefix", prefix).Msg("id source failed; using time-based id")
			id = fallbackID(prefix)
		}
		if !idExists(&s.doc, id) {
			return id
		}
	}
	return fallbackID(prefix)
}

func fallbackID(prefix string) string {
	return fmt.Sprintf("%s-%x", prefix, time.Now().UnixNano())
}

// Subscribe returns a channel that receives a signal after every mutation.
// Signals coalesce; call cancel to release the subscription.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	return s.hub.Subscribe()
}
