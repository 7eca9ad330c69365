package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/avorobjovs/taskdeck/internal/attachref"
	"github.com/avorobjovs/taskdeck/internal/content"
	"github.com/avorobjovs/taskdeck/internal/ui"
	"github.com/spf13/cobra"
)

// newAttachCmd uploads files and embeds their references into a task's
// description without touching the text itself.
func newAttachCmd(a *App) *cobra.Command {
	var subtask bool
	cmd := &cobra.Command{
		Use:   "attach <id> <file>...",
		Short: "Attach files to a task (or subtask with -s)",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, files := args[0], args[1:]

			var sess *content.Session
			var err error
			if subtask {
				sess, err = a.Tasks.EditSubtask(cmd.Context(), id)
			} else {
				sess, err = a.Tasks.EditTask(cmd.Context(), id)
			}
			if err != nil {
				return err
			}

			for _, path := range files {
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

			if subtask {
				err = a.Tasks.SaveSubtask(cmd.Context(), id, sess)
			} else {
				err = a.Tasks.SaveTask(cmd.Context(), id, sess)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(a.Out, ui.Success("saved"))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&subtask, "subtask", "s", false, "id refers to a subtask")
	return cmd
}

// newMigrateCmd reapplies schema migrations on demand. Startup already
// migrates; this exists for operating on a database the app is not
// otherwise pointed at.
func newMigrateCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.Migrate == nil {
				return fmt.Errorf("migrations unavailable")
			}
			if err := a.Migrate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.Out, ui.Success("migrations applied"))
			return nil
		},
	}
}
