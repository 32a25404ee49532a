package cli

import (
	"strings"

	"lockin-cli/internal/editfield"
	"lockin-cli/internal/store"

	"github.com/spf13/cobra"
)

func newBlocksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blocks",
		Short: "List and edit blocks",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List blocks with their subtasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": s.Snapshot().Blocks})
		},
	}

	addCmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Append a block with one default subtask (title defaults to \"" + store.DefaultBlockTitle + "\")",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			b := s.AddBlock(strings.TrimSpace(strings.Join(args, " ")))
			if err := checkPersisted(s.LastPersistError()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data":   b,
				"_hints": []string{"lockin subtasks add " + b.ID + " <text>"},
			})
		},
	}

	renameCmd := &cobra.Command{
		Use:     "rename <block-id> <title>",
		Aliases: []string{"edit"},
		Short:   "Replace a block's title (empty title becomes \"" + store.FallbackBlockTitle + "\")",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			title := editfield.Resolve(strings.Join(args[1:], " "), store.FallbackBlockTitle)
			if !s.EditBlockTitle(id, title) {
				return writeErr(cmd, errNotFound("block", id))
			}
			if err := checkPersisted(s.LastPersistError()); err != nil {
				return writeErr(cmd, err)
			}
			b, _ := s.Block(id)
			return writeOut(cmd, app, map[string]any{"data": b})
		},
	}

	rmCmd := &cobra.Command{
		Use:     "rm <block-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a block and all of its subtasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			if !s.DeleteBlock(id) {
				return writeErr(cmd, errNotFound("block", id))
			}
			if err := checkPersisted(s.LastPersistError()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": id}})
		},
	}

	cmd.AddCommand(listCmd, addCmd, renameCmd, rmCmd)
	return cmd
}
