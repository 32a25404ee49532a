package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"lockin-cli/internal/export"
	"lockin-cli/internal/format"
	"lockin-cli/internal/logging"
	"lockin-cli/internal/store"
	"lockin-cli/internal/template"
	"lockin-cli/internal/tui"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type App struct {
	Dir        string
	Backend    string
	Format     string
	PrettyJSON bool
	LogLevel   string
	LogFile    string

	cfg    *store.Config
	logger *logging.Logger

	// confirm asks a yes/no question; replaced in tests.
	confirm func(prompt string) (bool, error)
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{confirm: linerConfirm})
}

func newRootCmd(app *App) *cobra.Command {
	if app.confirm == nil {
		app.confirm = linerConfirm
	}

	cmd := &cobra.Command{
		Use:          "lockin",
		Short:        "lockin: build a daily lock-in plan (CLI + TUI + web)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  lockin

  # Scriptable commands
  lockin rules add "No phone before noon"
  lockin blocks add "Deep Work"

  # Render the plan to lockin-plan.pdf
  lockin export --to ~/Desktop
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.logger.Close()
	}

	addGlobalFlags(cmd.PersistentFlags(), app)

	cmd.AddCommand(newRulesCmd(app))
	cmd.AddCommand(newBlocksCmd(app))
	cmd.AddCommand(newSubtasksCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newResetCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newTemplateCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newWebCmd(app))

	return cmd
}

func addGlobalFlags(fs *pflag.FlagSet, app *App) {
	fs.StringVar(&app.Dir, "dir", envOr("LOCKIN_DIR", ""), "Data dir (default: config dataDir or ~/.lockin/data)")
	fs.StringVar(&app.Backend, "backend", envOr("LOCKIN_BACKEND", ""), "Storage backend (sqlite|file)")
	fs.StringVar(&app.Format, "format", envOr("LOCKIN_FORMAT", "json"), "Output format ("+strings.Join(format.Formats, "|")+")")
	fs.BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	fs.StringVar(&app.LogLevel, "log-level", envOr("LOCKIN_LOG_LEVEL", ""), "Log level (debug|info|warn|error)")
	fs.StringVar(&app.LogFile, "log-file", envOr("LOCKIN_LOG_FILE", ""), "Append logs to this file instead of stderr")
}

// init resolves settings with precedence flags/env > config file > defaults
// and builds the logger.
func (app *App) init(cmd *cobra.Command) error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return writeErr(cmd, err)
	}
	app.cfg = cfg

	if app.LogLevel == "" {
		app.LogLevel = cfg.LogLevel
	}
	if app.LogFile == "" {
		app.LogFile = cfg.LogFile
	}
	lvl, err := logging.ParseLevel(app.LogLevel)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.logger, err = logging.New().FromWriter(cmd.ErrOrStderr()).FromPath(app.LogFile).Level(lvl).Make()
	if err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

func (app *App) log() zerolog.Logger {
	if app.logger == nil {
		return zerolog.Nop()
	}
	return app.logger.Logger
}

func resolveDir(app *App) (string, error) {
	if d := strings.TrimSpace(app.Dir); d != "" {
		return d, nil
	}
	if app.cfg != nil && strings.TrimSpace(app.cfg.DataDir) != "" {
		app.Dir = app.cfg.DataDir
		return app.Dir, nil
	}
	d, err := store.DefaultDataDir()
	if err != nil {
		return "", err
	}
	app.Dir = d
	return d, nil
}

func resolveBackend(app *App) (store.Backend, error) {
	b := app.Backend
	if b == "" && app.cfg != nil {
		b = app.cfg.Backend
	}
	return store.ParseBackend(b)
}

func resolvePagination(app *App, flag string) (export.Pagination, error) {
	p := flag
	if p == "" && app.cfg != nil {
		p = app.cfg.Pagination
	}
	return export.ParsePagination(p)
}

func openSlot(app *App) (store.Slot, string, error) {
	dir, err := resolveDir(app)
	if err != nil {
		return nil, "", err
	}
	backend, err := resolveBackend(app)
	if err != nil {
		return nil, "", err
	}
	slot, err := store.OpenSlot(backend, dir)
	if err != nil {
		return nil, "", err
	}
	return slot, dir, nil
}

func openStore(cmd *cobra.Command, app *App) (*store.Store, error) {
	slot, _, err := openSlot(app)
	if err != nil {
		return nil, err
	}
	return store.Open(cmdContext(cmd), slot, store.WithLogger(app.log())), nil
}

func openTemplate(cmd *cobra.Command, app *App) (*template.Store, error) {
	slot, _, err := openSlot(app)
	if err != nil {
		return nil, err
	}
	return template.Open(cmdContext(cmd), slot, template.WithLogger(app.log())), nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// checkPersisted turns a failed snapshot write into a command error. The CLI
// is one-shot, so an unsaved change is lost on exit.
func checkPersisted(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("change not saved: %w", err)
}

func runTUI(cmd *cobra.Command, app *App) error {
	slot, dir, err := openSlot(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	pag, err := resolvePagination(app, "")
	if err != nil {
		return writeErr(cmd, err)
	}
	exportDir := ""
	if app.cfg != nil {
		exportDir = app.cfg.ExportDir
	}
	// Stderr logging would draw over the alternate screen.
	log := zerolog.Nop()
	if app.LogFile != "" {
		log = app.log()
	}
	return tui.Run(cmdContext(cmd), tui.Options{
		Slot:       slot,
		Dir:        dir,
		ExportDir:  exportDir,
		Pagination: pag,
		Log:        log,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

func errNotFound(kind, id string) error {
	return store.NotFoundError{Kind: kind, ID: id}
}

var errMissingText = errors.New("text must not be empty")
