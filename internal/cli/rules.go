package cli

import (
	"strings"

	"lockin-cli/internal/editfield"
	"lockin-cli/internal/store"

	"github.com/spf13/cobra"
)

func newRulesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List and edit plan rules",
	}
	cmd.AddCommand(newRulesListCmd(app))
	cmd.AddCommand(newRulesAddCmd(app))
	cmd.AddCommand(newRulesEditCmd(app))
	cmd.AddCommand(newRulesRmCmd(app))
	return cmd
}

func newRulesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List rules in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": s.Snapshot().Rules})
		},
	}
}

func newRulesAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text>",
		Short: "Append a rule",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return writeErr(cmd, errMissingText)
			}
			s, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			r := s.AddRule(text)
			if err := checkPersisted(s.LastPersistError()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   r,
				"_hints": []string{"lockin rules edit " + r.ID + " <text>", "lockin rules rm " + r.ID},
			})
		},
	}
}

func newRulesEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <rule-id> <text>",
		Short: "Replace a rule's text (empty text becomes \"" + store.FallbackRuleText + "\")",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			text := editfield.Resolve(strings.Join(args[1:], " "), store.FallbackRuleText)
			if !s.EditRule(id, text) {
				return writeErr(cmd, errNotFound("rule", id))
			}
			if err := checkPersisted(s.LastPersistError()); err != nil {
				return writeErr(cmd, err)
			}
			doc := s.Snapshot()
			r, _ := doc.FindRule(id)
			return writeOut(cmd, app, map[string]any{"data": r})
		},
	}
}

func newRulesRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <rule-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a rule",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			if !s.DeleteRule(id) {
				return writeErr(cmd, errNotFound("rule", id))
			}
			if err := checkPersisted(s.LastPersistError()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": id}})
		},
	}
}
