package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/b3uf/backoffice/internal/router"
)

// NewHomeCmd creates the home command
func NewHomeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:         "home",
		Aliases:     []string{"whoami"},
		Short:       "Show the signed-in account and available screens",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Open(cmd.Context(), "Home")
		},
	}
}

func (a *App) homeScreen(ctx context.Context) error {
	user := a.Session.User()
	if user == nil {
		fmt.Fprintln(a.Out, "Not signed in.")
		return nil
	}

	name := user.DisplayName
	if name == "" {
		name = user.Email
	}
	fmt.Fprintf(a.Out, "Signed in as %s (%s)\n", name, user.Email)
	if a.Session.IsAdmin() {
		fmt.Fprintln(a.Out, "Role: Admin")
	}

	fmt.Fprintln(a.Out, "\nScreens:")
	table := a.Gate.Table()
	for _, r := range table.Routes() {
		if _, ok := a.screens[r.Name]; !ok || r.Name == table.HomeName {
			continue
		}
		// Only list what the gate would open
		m, err := table.Lookup(r.Name)
		if err != nil || a.Gate.Check(m).Outcome != router.Proceed {
			continue
		}
		fmt.Fprintf(a.Out, "  %-10s %s\n", r.Name, r.FullPath())
	}
	return nil
}
