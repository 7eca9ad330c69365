// Package cli defines the cobra command tree. Commands delegate to the
// application services; they own no business logic of their own.
package cli

import (
	"context"
	"io"

	"github.com/avorobjovs/taskdeck/internal/authx"
	"github.com/avorobjovs/taskdeck/internal/services"
	"github.com/spf13/cobra"
)

// App is the dependency bundle the commands run against.
type App struct {
	Auth     *services.AuthService
	Tasks    *services.TaskService
	Webhooks *services.WebhookService
	Holder   *authx.SessionHolder
	Migrate  func(ctx context.Context) error
	Out      io.Writer
}

// NewRoot builds the full command tree.
func NewRoot(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "taskdeck",
		Short:         "Task manager with attachment-aware notes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newListCmd(a),
		newAddCmd(a),
		newShowCmd(a),
		newDoneCmd(a),
		newEditCmd(a),
		newAttachCmd(a),
		newDeleteCmd(a),
		newMigrateCmd(a),
		newSubtaskCmd(a),
		newGroupCmd(a),
		newExportCmd(a),
		newWebhookCmd(a),
		newPushCmd(a),
	)

	return root
}
