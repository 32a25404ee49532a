package cli

import (
	"errors"
	"io"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

func newResetCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every rule and block (asks for confirmation)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok, err := app.confirm("Reset the plan? All rules and blocks will be deleted. (yes/no): ")
				if err != nil {
					return writeErr(cmd, err)
				}
				if !ok {
					return writeOut(cmd, app, map[string]any{"data": map[string]any{"reset": false}})
				}
			}
			s, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			s.Reset()
			if err := checkPersisted(s.LastPersistError()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   map[string]any{"reset": true},
				"_hints": []string{"lockin blocks add \"Block A\""},
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

// linerConfirm prompts on the terminal. Ctrl-C and EOF answer no.
func linerConfirm(prompt string) (bool, error) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	answer, err := line.Prompt(prompt)
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
