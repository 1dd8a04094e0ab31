package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewUsersCmd creates the users command (admin only)
func NewUsersCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:         "users",
		Short:       "List back-office accounts (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Open(cmd.Context(), "Users")
		},
	}
}

func (a *App) usersScreen(ctx context.Context) error {
	users, err := a.API.ListUsers(ctx)
	if err != nil {
		return err
	}

	if len(users) == 0 {
		fmt.Fprintln(a.Out, "No users found.")
		return nil
	}

	w := newTable(a.Out, "ID\tEMAIL\tNAME\tROLE", "──\t─────\t────\t────")
	for _, u := range users {
		role := "member"
		if u.Admin {
			role = "admin"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", u.ID, u.Email, u.DisplayName, role)
	}
	return w.Flush()
}
