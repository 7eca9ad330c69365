package cli

import (
	"fmt"
	"os"

	"github.com/avorobjovs/taskdeck/internal/export"
	"github.com/avorobjovs/taskdeck/internal/models"
	"github.com/avorobjovs/taskdeck/internal/ui"
	"github.com/spf13/cobra"
)

func newExportCmd(a *App) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export tasks to JSON, YAML or markdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tasks, err := a.Tasks.ListTasks(cmd.Context())
			if err != nil {
				return err
			}

			exported := make([]export.Task, 0, len(tasks))
			for _, task := range tasks {
				subtasks, err := a.Tasks.ListSubtasks(cmd.Context(), task.ID)
				if err != nil {
					return err
				}
				groups, err := a.Tasks.ListGroups(cmd.Context(), task.ID)
				if err != nil {
					return err
				}
				exported = append(exported, export.BuildTask(task, subtasks, groupNames(groups)))
			}
			doc := export.NewDocument(exported)

			switch format {
			case "json", "yaml":
				w := os.Stdout
				if output != "" && output != "-" {
					f, err := os.Create(output)
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				if format == "json" {
					return export.WriteJSON(w, doc)
				}
				return export.WriteYAML(w, doc)
			case "md":
				dir := output
				if dir == "" {
					dir = "export"
				}
				if err := export.WriteMarkdown(dir, doc); err != nil {
					return err
				}
				fmt.Fprintln(a.Out, ui.Success(fmt.Sprintf("exported %d tasks to %s", len(doc.Tasks), dir)))
				return nil
			default:
				return fmt.Errorf("unknown format: %s", format)
			}
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "export format (json|yaml|md)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (md: directory)")
	return cmd
}

func groupNames(groups []*models.TaskGroup) map[string]string {
	names := make(map[string]string, len(groups))
	for _, g := range groups {
		names[g.ID] = g.Name
	}
	return names
}
