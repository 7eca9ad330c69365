package cli

import (
	"fmt"

	"github.com/avorobjovs/taskdeck/internal/ui"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email>",
		Short: "Sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := GetPassword(a.Out)
			if err != nil {
				return err
			}

			session, err := a.Auth.SignIn(cmd.Context(), args[0], string(password))
			if err != nil {
				return fmt.Errorf("sign-in failed: %w", err)
			}

			fmt.Fprintln(a.Out, ui.Success("signed in as "+session.User.Email))
			return nil
		},
	}
}

func newLogoutCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and drop cached credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.Auth.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.Out, ui.Success("signed out"))
			return nil
		},
	}
}
