package cli

import (
	"errors"
	"strings"

	"lockin-cli/internal/publish"

	"github.com/spf13/cobra"
)

func newPublishCmd(app *App) *cobra.Command {
	var toDir string
	var overwrite bool
	var withTemplate bool

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Write the plan as Markdown (derived, not canonical)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			toDir = strings.TrimSpace(toDir)
			if toDir == "" {
				return writeErr(cmd, errors.New("missing --to"))
			}
			s, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			opt := publish.WriteOptions{Overwrite: overwrite}
			res, err := publish.WritePlan(s.Snapshot(), toDir, opt)
			if err != nil {
				return writeErr(cmd, err)
			}
			if withTemplate {
				t, err := openTemplate(cmd, app)
				if err != nil {
					return writeErr(cmd, err)
				}
				more, err := publish.WriteTemplate(t.Template(), toDir, opt)
				if err != nil {
					return writeErr(cmd, err)
				}
				res.Written = append(res.Written, more.Written...)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.Flags().StringVar(&toDir, "to", "", "Output directory")
	_ = cmd.MarkFlagRequired("to")
	cmd.Flags().BoolVar(&overwrite, "overwrite", true, "Overwrite existing files")
	cmd.Flags().BoolVar(&withTemplate, "template", false, "Also write the template variant")
	return cmd
}
