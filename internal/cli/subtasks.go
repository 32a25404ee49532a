package cli

import (
	"strings"

	"lockin-cli/internal/editfield"
	"lockin-cli/internal/store"

	"github.com/spf13/cobra"
)

func newSubtasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subtasks",
		Aliases: []string{"tasks"},
		Short:   "Edit the subtasks of a block",
	}

	addCmd := &cobra.Command{
		Use:   "add <block-id> <text>",
		Short: "Append a subtask to a block",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			blockID := strings.TrimSpace(args[0])
			text := strings.TrimSpace(strings.Join(args[1:], " "))
			if text == "" {
				return writeErr(cmd, errMissingText)
			}
			s, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			t, ok := s.AddSubtask(blockID, text)
			if !ok {
				return writeErr(cmd, errNotFound("block", blockID))
			}
			if err := checkPersisted(s.LastPersistError()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}

	editCmd := &cobra.Command{
		Use:   "edit <block-id> <subtask-id> <text>",
		Short: "Replace a subtask's text (empty text becomes \"" + store.FallbackSubtaskText + "\")",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			blockID, subtaskID := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
			text := editfield.Resolve(strings.Join(args[2:], " "), store.FallbackSubtaskText)
			if !s.EditSubtask(blockID, subtaskID, text) {
				return writeErr(cmd, subtaskMiss(s, blockID, subtaskID))
			}
			if err := checkPersisted(s.LastPersistError()); err != nil {
				return writeErr(cmd, err)
			}
			b, _ := s.Block(blockID)
			t, _ := b.FindSubtask(subtaskID)
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}

	rmCmd := &cobra.Command{
		Use:     "rm <block-id> <subtask-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a subtask",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openStore(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			blockID, subtaskID := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
			if !s.DeleteSubtask(blockID, subtaskID) {
				return writeErr(cmd, subtaskMiss(s, blockID, subtaskID))
			}
			if err := checkPersisted(s.LastPersistError()); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": subtaskID}})
		},
	}

	cmd.AddCommand(addCmd, editCmd, rmCmd)
	return cmd
}

// subtaskMiss names the id that was not found.
func subtaskMiss(s *store.Store, blockID, subtaskID string) error {
	if _, ok := s.Block(blockID); !ok {
		return errNotFound("block", blockID)
	}
	return errNotFound("subtask", subtaskID)
}
