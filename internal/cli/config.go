package cli

import (
	"lockin-cli/internal/logging"
	"lockin-cli/internal/store"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change ~/.lockin/config.json",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the config and where it lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			dir, err := resolveDir(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": app.cfg,
				"meta": map[string]any{"path": path, "dataDir": dir},
			})
		},
	}

	var dataDir, backend, pagination, exportDir, logLevel string
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Update config keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *app.cfg
			f := cmd.Flags()
			if f.Changed("data-dir") {
				cfg.DataDir = dataDir
			}
			if f.Changed("storage") {
				if _, err := store.ParseBackend(backend); err != nil {
					return writeErr(cmd, err)
				}
				cfg.Backend = backend
			}
			if f.Changed("default-pagination") {
				p, err := resolvePagination(&App{}, pagination)
				if err != nil {
					return writeErr(cmd, err)
				}
				cfg.Pagination = string(p)
			}
			if f.Changed("export-dir") {
				cfg.ExportDir = exportDir
			}
			if f.Changed("default-log-level") {
				if _, err := logging.ParseLevel(logLevel); err != nil {
					return writeErr(cmd, err)
				}
				cfg.LogLevel = logLevel
			}
			if err := store.SaveConfig(&cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cfg})
		},
	}
	setCmd.Flags().StringVar(&dataDir, "data-dir", "", "Data directory")
	setCmd.Flags().StringVar(&backend, "storage", "", "Storage backend (sqlite|file)")
	setCmd.Flags().StringVar(&pagination, "default-pagination", "", "Export pagination (single|slice)")
	setCmd.Flags().StringVar(&exportDir, "export-dir", "", "Default export directory")
	setCmd.Flags().StringVar(&logLevel, "default-log-level", "", "Log level")

	cmd.AddCommand(showCmd, setCmd)
	return cmd
}
