// Package editor composes store mutations with input buffers and the
// editfield session for the rules, blocks and subtasks lists.
package editor

import (
	"strings"

	"lockin-cli/internal/editfield"
	"lockin-cli/internal/model"
	"lockin-cli/internal/store"
)

// Mutator is the subset of *store.Store the editors drive.
type Mutator interface {
	Snapshot() model.Document
	AddRule(text string) model.Rule
	EditRule(id, text string) bool
	DeleteRule(id string) bool
	AddBlock(title string) model.Block
	EditBlockTitle(id, title string) bool
	DeleteBlock(id string) bool
	AddSubtask(blockID, text string) (model.Subtask, bool)
	EditSubtask(blockID, subtaskID, text string) bool
	DeleteSubtask(blockID, subtaskID string) bool
}

var _ Mutator = (*store.Store)(nil)

// Buffer is the pending text for a new entry.
type Buffer struct {
	text string
}

func (b *Buffer) Set(s string) { b.text = s }
func (b *Buffer) Text() string { return b.text }
func (b *Buffer) Clear() { b.text = "" }
func (b *Buffer) trimmed() string { return strings.TrimSpace(b.text) }

type RulesEditor struct {
	Input   Buffer
	store   Mutator
	session *editfield.Session
}

func NewRulesEditor(s Mutator, session *editfield.Session) *RulesEditor {
	return &RulesEditor{store: s, session: session}
}

// Add submits the trimmed buffer. Empty input is rejected and the buffer kept.
func (e *RulesEditor) Add() (model.Rule, bool) {
	text := e.Input.trimmed()
	if text == "" {
		return model.Rule{}, false
	}
	r := e.store.AddRule(text)
	e.Input.Clear()
	return r, true
}

func (e *RulesEditor) Delete(id string) bool {
	return e.store.DeleteRule(id)
}

// BeginEdit opens the rule's text in the session. It reports false when the
// rule no longer exists.
func (e *RulesEditor) BeginEdit(id string) bool {
	doc := e.store.Snapshot()
	r, ok := doc.FindRule(id)
	if !ok {
		return false
	}
	e.session.Begin(editfield.RuleKey(id), r.Text, store.FallbackRuleText, func(v string) {
		e.store.EditRule(id, v)
	})
	return true
}

type BlocksEditor struct {
	Input   Buffer
	store   Mutator
	session *editfield.Session
}

func NewBlocksEditor(s Mutator, session *editfield.Session) *BlocksEditor {
	return &BlocksEditor{store: s, session: session}
}

// Add always appends a block; an empty title falls back to the store default.
func (e *BlocksEditor) Add() model.Block {
	b := e.store.AddBlock(e.Input.trimmed())
	e.Input.Clear()
	return b
}

func (e *BlocksEditor) Delete(id string) bool {
	return e.store.DeleteBlock(id)
}

func (e *BlocksEditor) BeginEdit(id string) bool {
	doc := e.store.Snapshot()
	b, ok := doc.FindBlock(id)
	if !ok {
		return false
	}
	e.session.Begin(editfield.BlockTitleKey(id), b.Title, store.FallbackBlockTitle, func(v string) {
		e.store.EditBlockTitle(id, v)
	})
	return true
}

// SubtasksEditor edits the subtasks of one block.
type SubtasksEditor struct {
	BlockID string
	Input   Buffer
	store   Mutator
	session *editfield.Session
}

func NewSubtasksEditor(s Mutator, session *editfield.Session, blockID string) *SubtasksEditor {
	return &SubtasksEditor{BlockID: blockID, store: s, session: session}
}

func (e *SubtasksEditor) Add() (model.Subtask, bool) {
	text := e.Input.trimmed()
	if text == "" {
		return model.Subtask{}, false
	}
	t, ok := e.store.AddSubtask(e.BlockID, text)
	if !ok {
		return model.Subtask{}, false
	}
	e.Input.Clear()
	return t, true
}

func (e *SubtasksEditor) Delete(subtaskID string) bool {
	return e.store.DeleteSubtask(e.BlockID, subtaskID)
}

func (e *SubtasksEditor) BeginEdit(subtaskID string) bool {
	doc := e.store.Snapshot()
	b, ok := doc.FindBlock(e.BlockID)
	if !ok {
		return false
	}
	t, ok := b.FindSubtask(subtaskID)
	if !ok {
		return false
	}
	blockID := e.BlockID
	e.session.Begin(editfield.SubtaskKey(blockID, subtaskID), t.Text, store.FallbackSubtaskText, func(v string) {
		e.store.EditSubtask(blockID, subtaskID, v)
	})
	return true
}
