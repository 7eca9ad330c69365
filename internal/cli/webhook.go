package cli

import (
	"fmt"

	"github.com/avorobjovs/taskdeck/internal/ui"
	"github.com/spf13/cobra"
)

func newWebhookCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Manage the external tracker webhook",
	}

	var name string
	set := &cobra.Command{
		Use:   "set <url>",
		Short: "Configure the tracker webhook target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Webhooks.Configure(cmd.Context(), args[0], name); err != nil {
				return err
			}
			fmt.Fprintln(a.Out, ui.Success("webhook configured"))
			return nil
		},
	}
	set.Flags().StringVarP(&name, "name", "n", "", "tracker name")

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the configured target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ti, err := a.Webhooks.Integration(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.Out, "%s\t%s\n", ti.Name, ti.WebhookURL)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove",
		Short: "Remove the configured target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.Webhooks.Remove(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.Out, ui.Success("webhook removed"))
			return nil
		},
	}

	cmd.AddCommand(set, show, remove)
	return cmd
}

func newPushCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "push <task-id>",
		Short: "Push a task to the configured tracker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := a.Tasks.GetTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.Webhooks.PushTask(cmd.Context(), task); err != nil {
				return err
			}
			fmt.Fprintln(a.Out, ui.Success("pushed "+task.Title))
			return nil
		},
	}
}
