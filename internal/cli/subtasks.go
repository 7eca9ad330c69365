package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/avorobjovs/taskdeck/internal/attachref"
	"github.com/avorobjovs/taskdeck/internal/ui"
	"github.com/spf13/cobra"
)

func newSubtaskCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtask",
		Short: "Manage subtasks",
	}
	cmd.AddCommand(
		newSubtaskAddCmd(a),
		newSubtaskDoneCmd(a),
		newSubtaskMoveCmd(a),
		newSubtaskEditCmd(a),
		newSubtaskDeleteCmd(a),
	)
	return cmd
}

func newSubtaskAddCmd(a *App) *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "add <task-id> <title>",
		Short: "Add a subtask to a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.Tasks.CreateSubtask(cmd.Context(), args[0], group, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.Out, ui.Success("created "+st.ID))
			return nil
		},
	}
	cmd.Flags().StringVarP(&group, "group", "g", "", "group id (empty for ungrouped)")
	return cmd
}

func newSubtaskDoneCmd(a *App) *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "done <subtask-id>",
		Short: "Mark a subtask completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Tasks.SetSubtaskCompleted(cmd.Context(), args[0], !undo); err != nil {
				return err
			}
			fmt.Fprintln(a.Out, ui.Success("updated"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "mark as not completed instead")
	return cmd
}

func newSubtaskMoveCmd(a *App) *cobra.Command {
	var group string
	var pos int
	cmd := &cobra.Command{
		Use:   "move <subtask-id>",
		Short: "Move a subtask to a group and position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Tasks.MoveSubtask(cmd.Context(), args[0], group, pos); err != nil {
				return err
			}
			fmt.Fprintln(a.Out, ui.Success("moved"))
			return nil
		},
	}
	cmd.Flags().StringVarP(&group, "group", "g", "", "target group id (empty for ungrouped)")
	cmd.Flags().IntVarP(&pos, "pos", "p", 0, "target position")
	return cmd
}

func newSubtaskEditCmd(a *App) *cobra.Command {
	var body string
	var attach []string
	cmd := &cobra.Command{
		Use:   "edit <subtask-id>",
		Short: "Edit a subtask's notes, optionally attaching files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.Tasks.EditSubtask(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("body") {
				sess.SetDraft(body)
			}

			for _, path := range attach {
				data, err := os.ReadFile(path)
				if err != nil {
					sess.Discard()
					return err
				}
				name := filepath.Base(path)
				ref, err := sess.Attach(cmd.Context(), data, name, attachref.MimeFromName(name))
				if err != nil {
					sess.Discard()
					return err
				}
				fmt.Fprintln(a.Out, ui.Success("attached "+ref.DisplayName))
			}

			if err := a.Tasks.SaveSubtask(cmd.Context(), args[0], sess); err != nil {
				return err
			}
			fmt.Fprintln(a.Out, ui.Success("saved"))
			return nil
		},
	}
	cmd.Flags().StringVarP(&body, "body", "b", "", "new notes (markdown)")
	cmd.Flags().StringArrayVarP(&attach, "attach", "a", nil, "file to attach (repeatable)")
	return cmd
}

func newSubtaskDeleteCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <subtask-id>",
		Short: "Delete a subtask",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Tasks.DeleteSubtask(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.Out, ui.Success("deleted"))
			return nil
		},
	}
}

func newGroupCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage subtask groups",
	}

	add := &cobra.Command{
		Use:   "add <task-id> <name>",
		Short: "Create a group within a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.Tasks.CreateGroup(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(a.Out, ui.Success("created "+g.ID))
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <group-id>",
		Short: "Delete a group; its subtasks become ungrouped",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Tasks.DeleteGroup(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.Out, ui.Success("deleted"))
			return nil
		},
	}

	cmd.AddCommand(add, del)
	return cmd
}
