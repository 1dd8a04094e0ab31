package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command. Logout is client-side only: the
// token is forgotten locally, not revoked on the server.
func NewLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			wasSignedIn := app.Session.IsAuthenticated()
			app.Session.Logout()
			if wasSignedIn {
				fmt.Fprintln(app.Out, "✓ Logged out.")
			} else {
				fmt.Fprintln(app.Out, "Not signed in.")
			}
			return nil
		},
	}
}
