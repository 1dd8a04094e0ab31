package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewNavCmd creates the interactive navigation command
func NewNavCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "nav [route-or-path]",
		Short: "Navigate to a screen by name, path, or interactive selection",
		Long: `Navigate to a screen by name, path, or interactive selection.

Examples:
  $ b3uf nav            # Interactive selection
  $ b3uf nav /users     # By path
  $ b3uf nav Cats       # By route name`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return app.Open(cmd.Context(), args[0])
			}

			if !app.Prompt.Interactive() {
				return fmt.Errorf("a route is required in non-interactive mode")
			}

			routes := app.Gate.Table().Routes()
			labels := make([]string, len(routes))
			for i, r := range routes {
				labels[i] = fmt.Sprintf("%s (%s)", r.Name, r.FullPath())
			}

			index, err := app.Prompt.Select("Go to", labels)
			if err != nil {
				return err
			}
			return app.Open(cmd.Context(), routes[index].Name)
		},
	}
}
