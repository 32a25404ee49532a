package tui

import (
	"lockin-cli/internal/export"
	tpl "lockin-cli/internal/template"
)

type view int

const (
	viewPlan view = iota
	viewTemplate
)

func (v view) String() string {
	if v == viewTemplate {
		return "template"
	}
	return "plan"
}

func parseView(s string) view {
	if s == "template" {
		return viewTemplate
	}
	return viewPlan
}

type modalKind int

const (
	modalNone modalKind = iota
	modalConfirmReset
)

type inputMode int

const (
	inputNone inputMode = iota
	// inputEdit drafts the field open in the edit session.
	inputEdit
	inputAddRule
	inputAddBlock
	inputAddSubtask
	inputAddItem
)

// inputTarget says where the text input's value goes on enter.
type inputTarget struct {
	mode    inputMode
	blockID string
	ref     tpl.BlockRef
	card    int
}

type flashDoneMsg struct{ seq int }

type exportDoneMsg struct {
	res export.Result
	err error
}

// storeChangedMsg is sent when a store outside this model committed.
type storeChangedMsg struct{}
