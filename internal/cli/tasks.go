package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avorobjovs/taskdeck/internal/attachref"
	"github.com/avorobjovs/taskdeck/internal/ui"
	"github.com/spf13/cobra"
)

func newListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tasks, err := a.Tasks.ListTasks(cmd.Context())
			if err != nil {
				return err
			}
			for _, task := range tasks {
				fmt.Fprint(a.Out, ui.FormatTaskListItem(task))
			}
			return nil
		},
	}
}

// newAddCmd creates a task. Title and description can be passed as argument
// and flag; whatever is missing is prompted for on stdin.
func newAddCmd(a *App) *cobra.Command {
	var body string
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create a task",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(cmd.InOrStdin())

			var title string
			if len(args) > 0 {
				title = args[0]
			} else {
				t, err := GetSimpleText(reader, "Title", a.Out)
				if err != nil {
					return err
				}
				title = t
			}
			if title == "" {
				return errors.New("title is required")
			}

			if !cmd.Flags().Changed("body") {
				b, err := GetMultiline(reader, "Description (markdown, optional)", a.Out)
				if err != nil {
					return err
				}
				body = b
			}

			task, err := a.Tasks.CreateTask(cmd.Context(), title, body)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.Out, ui.Success("created "+task.ID))
			return nil
		},
	}
	cmd.Flags().StringVarP(&body, "body", "b", "", "task description (markdown)")
	return cmd
}

func newShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task with rendered description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := a.Tasks.GetTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprint(a.Out, ui.FormatTaskHeader(task))

			content, _ := ui.FormatContent(task.Content)
			fmt.Fprint(a.Out, content)

			subtasks, err := a.Tasks.ListSubtasks(cmd.Context(), task.ID)
			if err != nil {
				return err
			}
			groups, err := a.Tasks.ListGroups(cmd.Context(), task.ID)
			if err != nil {
				return err
			}
			if len(subtasks) > 0 {
				fmt.Fprintln(a.Out)
				fmt.Fprint(a.Out, ui.FormatSubtaskList(subtasks, groups))
			}

			if refs := attachref.ParseRefs(task.Content); len(refs) > 0 {
				fmt.Fprint(a.Out, ui.FormatAttachmentList(refs))
			}
			return nil
		},
	}
}

func newDoneCmd(a *App) *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Tasks.SetTaskCompleted(cmd.Context(), args[0], !undo); err != nil {
				return err
			}
			fmt.Fprintln(a.Out, ui.Success("updated"))
			return nil
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "mark as not completed instead")
	return cmd
}

func newDeleteCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task and its subtasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Tasks.DeleteTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.Out, ui.Success("deleted"))
			return nil
		},
	}
}

// newEditCmd replaces the task description and/or attaches files. Attached
// files are uploaded immediately; the references are embedded on save.
func newEditCmd(a *App) *cobra.Command {
	var body string
	var attach []string
	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Edit a task description, optionally attaching files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.Tasks.EditTask(cmd.Context(), args[0])
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

			if err := a.Tasks.SaveTask(cmd.Context(), args[0], sess); err != nil {
				return err
			}
			fmt.Fprintln(a.Out, ui.Success("saved"))
			return nil
		},
	}
	cmd.Flags().StringVarP(&body, "body", "b", "", "new description (markdown)")
	cmd.Flags().StringArrayVarP(&attach, "attach", "a", nil, "file to attach (repeatable)")
	return cmd
}
