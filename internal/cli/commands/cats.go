package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewCatsCmd creates the cats command
func NewCatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:         "cats",
		Short:       "List cats",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Open(cmd.Context(), "Cats")
		},
	}
}

func (a *App) catsScreen(ctx context.Context) error {
	cats, err := a.API.ListCats(ctx)
	if err != nil {
		return err
	}

	if len(cats) == 0 {
		fmt.Fprintln(a.Out, "No cats found.")
		return nil
	}

	w := newTable(a.Out, "ID\tNAME\tSEX\tPEDIGREE\tIDENTIFICATION\tNEUTERED", "──\t────\t───\t────────\t──────────────\t────────")
	for _, cat := range cats {
		sex := "M"
		if cat.IsFemale {
			sex = "F"
		}
		name := cat.Name
		if cat.Surname != "" {
			name = fmt.Sprintf("%s %s", cat.Name, cat.Surname)
		}
		if cat.IsDeceased {
			name += " †"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			cat.ID,
			name,
			sex,
			orDash(cat.PedigreeNumber),
			orDash(cat.IdentificationNumber),
			yesNo(cat.IsNeutered),
		)
	}
	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
