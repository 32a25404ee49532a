package cli

import (
	"fmt"

	"lockin-cli/internal/publish"

	"github.com/spf13/cobra"
)

func newShowCmd(app *App) *cobra.Command {
	var markdown bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the whole plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			doc := s.Snapshot()
			if markdown {
				_, err := fmt.Fprint(cmd.OutOrStdout(), publish.RenderPlanMarkdown(doc))
				return err
			}
			return writeOut(cmd, app, map[string]any{
				"data": doc,
				"meta": map[string]any{"source": s.Source(), "dir": app.Dir},
			})
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Print Markdown instead of structured output")
	return cmd
}
