// Package tui is the interactive terminal editor for the plan and the
// template.
package tui

import (
	"context"

	"lockin-cli/internal/export"
	"lockin-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

type Options struct {
	Slot store.Slot
	// Dir holds prefs.json.
	Dir string
	// ExportDir is where exported PDFs go (default: current dir).
	ExportDir  string
	Pagination export.Pagination
	Log        zerolog.Logger
}

func Run(ctx context.Context, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()

	m := newAppModel(ctx, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
